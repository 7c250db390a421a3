package tutor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"

	"flexclass/session"
	"flexclass/state"
)

// ShowProgress prints Completion Set, with --keys raw store keys instead.
func ShowProgress(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("progress")

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	if cmd.Bool("keys") {
		keys, err := kv.Keys()
		if err != nil {
			return fmt.Errorf("unable to list store keys: %w", err)
		}
		for _, k := range keys {
			fmt.Fprintln(env.Out, k)
		}
		return nil
	}

	ids := tracker.IDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, strconv.Itoa(id))
	}
	fmt.Fprintln(env.Out, session.FormatHeader(len(ids), env.Catalog.Len()))
	if len(names) > 0 {
		fmt.Fprintf(env.Out, "Completed levels: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// ResetProgress removes progress of one level or, with --all, of every
// level after confirmation.
func ResetProgress(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("reset")

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	if !cmd.Bool("all") {
		l, err := levelArg(cmd, 0, env.Catalog)
		if err != nil {
			return err
		}
		tracker.Forget(l.ID)
		fmt.Fprintf(env.Out, "Level %d progress removed\n", l.ID)
		return nil
	}

	confirm := confirmFromInput(env.In, env.Out)
	if cmd.Bool("yes") {
		confirm = func(string) bool { return true }
	}
	if !confirm(session.ResetAllPrompt) {
		fmt.Fprintln(env.Out, "Nothing changed")
		return nil
	}
	tracker.ForgetAll(env.Catalog.IDs())
	fmt.Fprintln(env.Out, "All progress removed")
	return nil
}
