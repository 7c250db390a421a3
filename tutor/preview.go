package tutor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"flexclass/config"
	"flexclass/preview"
	"flexclass/session"
	"flexclass/state"
)

// WritePreview renders level with given (or remembered) declarations into
// standalone HTML page.
func WritePreview(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	l, err := levelArg(cmd, 0, env.Catalog)
	if err != nil {
		return err
	}
	text, found, err := learnerText(cmd, 1, env.In)
	if err != nil {
		return err
	}

	theme, err := preview.LoadTheme(env.Cfg.Preview.ThemePath)
	if err != nil {
		return err
	}

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	if !found && tracker.Completed(l.ID) {
		text, _ = tracker.Solution(l.ID)
	}

	headline := env.Catalog.Headline(l)
	dst := cmd.String("out")
	if len(dst) == 0 {
		dst = filepath.Join(env.Cfg.Preview.OutputDir, preview.FileName(l, headline))
	} else {
		dst = filepath.Join(filepath.Dir(dst), config.SafeFileName(filepath.Base(dst)))
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create preview directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create preview file '%s': %w", dst, err)
	}
	defer func() {
		if er := out.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close preview file: %w", er))
		}
	}()

	scene := preview.Resolve(l, text, theme)
	page := preview.Page{
		Lang:     env.Catalog.Lang,
		Headline: headline,
		Progress: session.FormatHeader(tracker.Count(), env.Catalog.Len()),
	}
	if err := preview.WriteHTML(out, scene, page, theme); err != nil {
		return err
	}

	log.Info("Preview written", zap.Int("level", l.ID), zap.String("file", dst), zap.Int("declarations", len(scene.Parsed)))
	return nil
}
