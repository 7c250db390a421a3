package tutor

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexclass/session"
	"flexclass/state"
)

// ListLevels prints catalog with completion marks.
func ListLevels(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("levels")

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	card := listCard{Header: session.FormatHeader(tracker.Count(), env.Catalog.Len())}
	for _, l := range env.Catalog.Levels {
		card.Levels = append(card.Levels, listEntry{ID: l.ID, Done: tracker.Completed(l.ID), Headline: env.Catalog.Headline(l)})
	}
	return render(env.Out, "list", card)
}

// ShowLevel prints level card: description, property hints and editor
// frame with remembered solution when level was solved.
func ShowLevel(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("show")

	l, err := levelArg(cmd, 0, env.Catalog)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	done := tracker.Completed(l.ID)
	text := ""
	if done {
		text, _ = tracker.Solution(l.ID)
	}
	if err := render(env.Out, "card", newLevelCard(env.Catalog, l, done, text)); err != nil {
		return err
	}
	if cmd.Bool("answer") {
		fmt.Fprintf(env.Out, "\nAnswer: %s\n", l.Solution)
	}
	return nil
}
