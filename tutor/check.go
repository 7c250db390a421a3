package tutor

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexclass/css"
	"flexclass/session"
	"flexclass/state"
)

// CheckLevel checks declarations against level solution once. Passing
// check marks level as completed immediately.
func CheckLevel(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	l, err := levelArg(cmd, 0, env.Catalog)
	if err != nil {
		return err
	}
	text, found, err := learnerText(cmd, 1, env.In)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no declarations to check, use --text or specify FILE")
	}

	for _, d := range css.Diagnose(text) {
		fmt.Fprintf(env.Out, "%s\n", d)
	}

	if !css.Check(text, l.Solution) {
		log.Debug("Check failed", zap.Int("level", l.ID), zap.String("text", css.Normalize(text)))
		fmt.Fprintf(env.Out, "Level %d: not quite, keep trying.\n", l.ID)
		return nil
	}

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	tracker.Complete(l.ID, text)
	fmt.Fprintf(env.Out, "Level %d: correct!\n%s\n", l.ID, session.FormatHeader(tracker.Count(), env.Catalog.Len()))
	return nil
}
