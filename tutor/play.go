package tutor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexclass/css"
	"flexclass/levels"
	"flexclass/session"
	"flexclass/state"
)

type replCommand struct {
	Name  string
	Usage string
}

var replCommands = []replCommand{
	{":check", "check editor text against level solution"},
	{":next", "go to the next level"},
	{":prev", "go to the previous level"},
	{":restart", "go to the first level"},
	{":reveal", "show or hide the answer once it is unlocked"},
	{":undo", "remove last line from editor"},
	{":clear", "clear editor"},
	{":reset", "clear this level progress"},
	{":reset-all", "remove all progress (asks for confirmation)"},
	{":show", "show level card and editor"},
	{":status", "show timer and progress"},
	{":help", "show this help"},
	{":quit", "leave"},
}

// repl owns interactive session. All methods except readInput run on
// dispatcher goroutine.
type repl struct {
	s       *session.Session
	catalog *levels.Catalog
	out     io.Writer
	log     *zap.Logger
}

// Play runs interactive session reading editor lines and commands from
// input stream.
func Play(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("play")

	kv, tracker, err := openProgress(env, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, &err)

	d := session.NewDispatcher(16)
	r := &repl{catalog: env.Catalog, out: env.Out, log: log}
	r.s = session.New(env.Catalog, tracker, d,
		session.WithTimings(timings(env.Cfg)),
		session.WithLogger(log),
		session.WithObserver(r.notify),
	)

	if cmd.IsSet("level") {
		if idx := env.Catalog.Index(int(cmd.Int("level"))); idx < 0 || !r.s.Open(idx) {
			log.Warn("No such level, starting from the first one", zap.Int64("level", int64(cmd.Int("level"))))
		}
	}
	r.show()

	go r.readInput(d, env.In)

	start := time.Now()
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// dispatcher is stopped, session belongs to this goroutine now
	r.s.Close()
	st := r.s.State()
	fmt.Fprintf(env.Out, "Bye! %s\n", st.Header())

	log.Info("Session ended", zap.String("session", st.SessionID), zap.Duration("elapsed", time.Since(start)), zap.Ints("completed", st.Completed))
	if err := env.Rpt.StoreYAML("session.yaml", newSnapshot(st)); err != nil {
		log.Warn("Unable to store session snapshot", zap.Error(err))
	}
	return nil
}

// readInput feeds lines into dispatcher until input ends or learner quits.
func (r *repl) readInput(d *session.Dispatcher, in io.Reader) {
	defer d.Stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()

		var (
			leave bool
			ok    bool
		)
		if strings.TrimSpace(line) == ":reset-all" {
			// confirmation answer is the next input line, read it here
			// before session is touched
			if !d.Do(func() { fmt.Fprintf(r.out, "%s [y/N] ", session.ResetAllPrompt) }) {
				return
			}
			answer := scanner.Scan() && isYes(scanner.Text())
			ok = d.Do(func() { r.resetAll(answer) })
		} else {
			ok = d.Do(func() { leave = r.handle(line) })
		}
		if !ok || leave {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		r.log.Warn("Unable to read input", zap.Error(err))
	}
}

// handle processes single input line, it returns true when learner wants
// to leave.
func (r *repl) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		r.append(line)
		return false
	}

	switch trimmed {
	case ":check":
		r.s.Check()
	case ":next":
		if r.s.Next() {
			r.show()
		} else {
			fmt.Fprintln(r.out, "This is the last level.")
		}
	case ":prev":
		if r.s.Previous() {
			r.show()
		} else {
			fmt.Fprintln(r.out, "This is the first level.")
		}
	case ":restart":
		r.s.Restart()
		r.show()
	case ":reveal":
		if !r.s.ToggleAnswer() {
			fmt.Fprintln(r.out, r.s.State().Countdown())
		}
	case ":undo":
		text := strings.TrimSuffix(r.s.State().Text, "\n")
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			r.s.Edit(text[:i+1])
		} else {
			r.s.Edit("")
		}
		r.editor()
	case ":clear":
		r.s.Edit("")
		r.editor()
	case ":reset":
		r.s.Reset()
		fmt.Fprintln(r.out, "Level progress removed.")
		r.editor()
	case ":show":
		r.show()
	case ":status":
		r.status()
	case ":help":
		render(r.out, "help", replCommands) //nolint:errcheck
	case ":quit", ":q":
		return true
	default:
		fmt.Fprintf(r.out, "Unknown command %s, type :help\n", trimmed)
	}
	return false
}

// append adds line to the editor and explains why it will not reach the
// preview, if so.
func (r *repl) append(line string) {
	text := r.s.State().Text
	if len(text) > 0 && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += line + "\n"
	r.s.Edit(text)

	for _, d := range css.Diagnose(line) {
		d.Line = strings.Count(text, "\n")
		fmt.Fprintf(r.out, "%s\n", d)
	}
}

func (r *repl) resetAll(answer bool) {
	if r.s.ResetAll(session.ConfirmFunc(func(string) bool { return answer })) {
		fmt.Fprintln(r.out, "All progress removed.")
		r.show()
		return
	}
	fmt.Fprintln(r.out, "Nothing changed.")
}

// notify prints reactions to session events.
func (r *repl) notify(e session.Event) {
	switch e.Kind {
	case session.EventPassed:
		if r.s.State().AllDone() {
			fmt.Fprintln(r.out, "Correct! You have completed all levels, type :restart to play again.")
		} else {
			fmt.Fprintln(r.out, "Correct! Type :next to continue.")
		}
	case session.EventFailed:
		fmt.Fprintln(r.out, "Not quite, keep trying.")
	case session.EventUnlocked:
		fmt.Fprintln(r.out, "Answer is available now, type :reveal to see it.")
	case session.EventRevealToggled:
		if st := r.s.State(); st.Revealed {
			fmt.Fprintf(r.out, "Answer: %s\n", st.Answer)
		}
	case session.EventCommitted:
		r.log.Debug("Progress saved", zap.Int("level", e.LevelID))
	}
}

func (r *repl) show() {
	st := r.s.State()
	if err := render(r.out, "card", newLevelCard(r.catalog, st.Level, st.LevelCompleted, st.Text)); err != nil {
		r.log.Warn("Unable to show level", zap.Error(err))
	}
	r.status()
}

func (r *repl) editor() {
	st := r.s.State()
	fmt.Fprintln(r.out, newLevelCard(r.catalog, st.Level, st.LevelCompleted, st.Text).Editor)
}

func (r *repl) status() {
	if err := render(r.out, "status", r.s.State()); err != nil {
		r.log.Warn("Unable to show status", zap.Error(err))
	}
}

// snapshot is session state put into debug report.
type snapshot struct {
	Session   string `yaml:"session"`
	Level     int    `yaml:"level"`
	Text      string `yaml:"text"`
	Result    string `yaml:"result"`
	Elapsed   string `yaml:"elapsed"`
	Unlocked  bool   `yaml:"unlocked"`
	Completed []int  `yaml:"completed,flow"`
}

func newSnapshot(st session.State) snapshot {
	return snapshot{
		Session:   st.SessionID,
		Level:     st.Level.ID,
		Text:      st.Text,
		Result:    st.Result.String(),
		Elapsed:   st.Clock(),
		Unlocked:  st.Unlocked,
		Completed: st.Completed,
	}
}
