package tutor

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

// Commands returns program subcommands. Usage error handler is shared with
// the root command.
func Commands(onUsageError func(context.Context, *cli.Command, error, bool) error) []*cli.Command {
	textFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "use `DECLARATIONS` instead of reading FILE"}
	}

	return []*cli.Command{
		{
			Name:         "levels",
			Usage:        "Lists levels marking completed ones",
			OnUsageError: onUsageError,
			Action:       ListLevels,
		},
		{
			Name:         "show",
			Usage:        "Shows level description, property hints and editor",
			OnUsageError: onUsageError,
			Action:       ShowLevel,
			ArgsUsage:    "LEVEL",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "answer", Usage: "also print level solution"},
			},
		},
		{
			Name:         "check",
			Usage:        "Checks declarations against level solution, marks level completed on success",
			OnUsageError: onUsageError,
			Action:       CheckLevel,
			ArgsUsage:    "LEVEL [FILE]",
			Flags:        []cli.Flag{textFlag()},
			CustomHelpTemplate: fmt.Sprintf(`%s
LEVEL:
    level number as shown by "levels" command

FILE:
    file with declarations, one per line, "-" reads STDIN
`, cli.CommandHelpTemplate),
		},
		{
			Name:         "preview",
			Usage:        "Writes HTML page showing level with declarations applied",
			OnUsageError: onUsageError,
			Action:       WritePreview,
			ArgsUsage:    "LEVEL [FILE]",
			Flags: []cli.Flag{
				textFlag(),
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write page to `PATH` instead of configured preview directory"},
			},
			CustomHelpTemplate: fmt.Sprintf(`%s
LEVEL:
    level number as shown by "levels" command

FILE:
    file with declarations, "-" reads STDIN, if absent remembered solution
    of completed level is used
`, cli.CommandHelpTemplate),
		},
		{
			Name:         "play",
			Usage:        "Starts interactive session",
			OnUsageError: onUsageError,
			Action:       Play,
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "level", Aliases: []string{"l"}, Usage: "start from `LEVEL`"},
			},
		},
		{
			Name:         "progress",
			Usage:        "Shows completed levels",
			OnUsageError: onUsageError,
			Action:       ShowProgress,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "keys", Usage: "list raw keys kept in progress store"},
			},
		},
		{
			Name:         "reset",
			Usage:        "Removes progress of a level or of all levels",
			OnUsageError: onUsageError,
			Action:       ResetProgress,
			ArgsUsage:    "[LEVEL]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "all", Usage: "remove progress of all levels"},
				&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
			},
		},
	}
}
