// Package tutor implements program commands: catalog browsing, one-shot
// checks, HTML previews, interactive sessions and progress management.
package tutor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"flexclass/config"
	"flexclass/levels"
	"flexclass/progress"
	"flexclass/session"
	"flexclass/state"
	"flexclass/store"
)

// openProgress opens configured store and loads Completion Set from it.
// Caller must close returned store.
func openProgress(env *state.LocalEnv, log *zap.Logger) (store.KV, *progress.Tracker, error) {
	tc := env.Cfg.Tutorial
	kv, err := store.Open(tc.StoreKind, tc.StorePath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open progress store: %w", err)
	}
	if tc.StoreKind == "sqlite" {
		env.Rpt.Store("progress.db", tc.StorePath)
	}
	return kv, progress.NewTracker(kv, log), nil
}

// closeStore is used in defers to report store errors together with
// command result.
func closeStore(kv store.KV, err *error) {
	if er := kv.Close(); er != nil {
		*err = multierr.Append(*err, fmt.Errorf("unable to close progress store: %w", er))
	}
}

func timings(cfg *config.Config) session.Timings {
	return session.Timings{
		UnlockAfter: cfg.Tutorial.UnlockAfter,
		Celebration: cfg.Tutorial.Celebration,
		CommitDelay: cfg.Tutorial.CommitDelay,
		Tick:        cfg.Tutorial.Tick,
	}
}

// levelArg resolves level id given as command argument at position n.
func levelArg(cmd *cli.Command, n int, catalog *levels.Catalog) (levels.Level, error) {
	arg := cmd.Args().Get(n)
	if len(arg) == 0 {
		return levels.Level{}, errors.New("no level has been specified")
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return levels.Level{}, fmt.Errorf("bad level '%s': %w", arg, err)
	}
	l, err := catalog.ByID(id)
	if err != nil {
		return levels.Level{}, fmt.Errorf("level %d: %w", id, err)
	}
	return l, nil
}

// learnerText returns text given with --text flag, from file argument at
// position n, or from input stream when argument is "-". Found reports
// whether text was provided at all.
func learnerText(cmd *cli.Command, n int, in io.Reader) (text string, found bool, err error) {
	if cmd.IsSet("text") {
		return cmd.String("text"), true, nil
	}
	var data []byte
	switch src := cmd.Args().Get(n); src {
	case "":
		return "", false, nil
	case "-":
		data, err = io.ReadAll(in)
	default:
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return "", false, fmt.Errorf("unable to read declarations: %w", err)
	}
	return string(data), true, nil
}

// confirmFromInput asks question on out and reads answer from in.
func confirmFromInput(in io.Reader, out io.Writer) session.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		var answer string
		if _, err := fmt.Fscanln(in, &answer); err != nil {
			return false
		}
		return isYes(answer)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
