package session_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"flexclass/levels"
	"flexclass/progress"
	"flexclass/session"
	"flexclass/store"
)

type fixture struct {
	catalog *levels.Catalog
	kv      *store.Memory
	tracker *progress.Tracker
	sched   *manualScheduler
	events  []session.Event
	s       *session.Session
}

func newFixture(t *testing.T, options ...session.Option) *fixture {
	t.Helper()

	log := zaptest.NewLogger(t)
	c, err := levels.Default(log)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{catalog: c, kv: store.NewMemory(), sched: &manualScheduler{}}
	f.tracker = progress.NewTracker(f.kv, log)
	options = append([]session.Option{
		session.WithLogger(log),
		session.WithObserver(func(e session.Event) { f.events = append(f.events, e) }),
	}, options...)
	f.s = session.New(c, f.tracker, f.sched, options...)
	return f
}

func (f *fixture) solution() string {
	return f.s.State().Level.Solution
}

func (f *fixture) kinds() []session.EventKind {
	var kinds []session.EventKind
	for _, e := range f.events {
		if e.Kind != session.EventTick {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

func TestNew(t *testing.T) {
	f := newFixture(t)
	st := f.s.State()

	if st.Index != 0 || st.Count != 12 || st.Level.ID != 1 {
		t.Errorf("initial state = index %d, count %d, level %d", st.Index, st.Count, st.Level.ID)
	}
	if st.Phase != session.PhaseIdle || st.Result != session.Unchecked {
		t.Errorf("initial phase = %v, result = %v", st.Phase, st.Result)
	}
	if st.Unlocked || st.Revealed || st.Celebrating || st.Text != "" {
		t.Errorf("initial flags: %+v", st)
	}
	if st.Remaining != 240*time.Second || st.Countdown() != "Answer in 240s" || st.Clock() != "0:00" {
		t.Errorf("remaining = %v, countdown = %q, clock = %q", st.Remaining, st.Countdown(), st.Clock())
	}
	if st.Header() != "0/12 completed (0%)" {
		t.Errorf("Header() = %q", st.Header())
	}
	if st.SessionID == "" || st.SessionID != f.s.ID().String() {
		t.Errorf("SessionID = %q", st.SessionID)
	}
}

func TestTimer(t *testing.T) {
	f := newFixture(t)

	f.sched.Advance(65 * time.Second)
	st := f.s.State()
	if st.Elapsed != 65*time.Second || st.Clock() != "1:05" {
		t.Errorf("elapsed = %v, clock = %q", st.Elapsed, st.Clock())
	}
	if st.Countdown() != "Answer in 175s" {
		t.Errorf("Countdown() = %q", st.Countdown())
	}
}

func TestUnlockAndReveal(t *testing.T) {
	f := newFixture(t)

	f.sched.Advance(239 * time.Second)
	if f.s.ToggleAnswer() || f.s.State().Revealed {
		t.Fatal("answer revealed while locked")
	}

	f.sched.Advance(time.Second)
	st := f.s.State()
	if !st.Unlocked || st.Remaining != 0 || st.Countdown() != "" {
		t.Fatalf("not unlocked after 240s: %+v", st)
	}
	if st.Answer != "" {
		t.Error("answer visible before reveal")
	}

	if !f.s.ToggleAnswer() {
		t.Fatal("ToggleAnswer() = false after unlock")
	}
	if st := f.s.State(); !st.Revealed || st.Answer != st.Level.Solution {
		t.Errorf("revealed = %v, answer = %q", st.Revealed, st.Answer)
	}
	f.s.ToggleAnswer()
	if st := f.s.State(); st.Revealed || st.Answer != "" {
		t.Error("second toggle did not hide answer")
	}

	// level change locks it again
	f.s.ToggleAnswer()
	f.s.Next()
	if st := f.s.State(); st.Unlocked || st.Revealed || st.Elapsed != 0 {
		t.Errorf("state after Next(): %+v", st)
	}
}

func TestUnlockImmediately(t *testing.T) {
	timings := session.DefaultTimings()
	timings.UnlockAfter = 0
	f := newFixture(t, session.WithTimings(timings))

	if !f.s.State().Unlocked || !f.s.ToggleAnswer() {
		t.Error("answer locked with zero threshold")
	}
}

func TestCheck_Fail(t *testing.T) {
	f := newFixture(t)

	f.s.Edit("justify-content: center;")
	if st := f.s.State(); st.Phase != session.PhaseTyping {
		t.Errorf("phase after edit = %v", st.Phase)
	}
	if f.s.Check() {
		t.Fatal("Check() passed with wrong text")
	}
	st := f.s.State()
	if st.Phase != session.PhaseChecked || st.Result != session.Incorrect || st.Celebrating {
		t.Errorf("state after failed check: %+v", st)
	}

	f.sched.Advance(time.Second)
	if f.tracker.Count() != 0 {
		t.Error("failed check was persisted")
	}

	// banner stays after further editing
	f.s.Edit("justify-content: flex-end;")
	if st := f.s.State(); st.Result != session.Incorrect || st.Phase != session.PhaseTyping {
		t.Errorf("state after edit: phase %v, result %v", st.Phase, st.Result)
	}
}

func TestCheck_Pass(t *testing.T) {
	f := newFixture(t)

	text := "  justify-content:   flex-end;\n"
	f.s.Edit(text)
	if !f.s.Check() {
		t.Fatal("Check() failed")
	}
	st := f.s.State()
	if st.Result != session.Correct || !st.Celebrating {
		t.Errorf("state after pass: %+v", st)
	}
	if f.tracker.Completed(1) {
		t.Error("committed before delay")
	}

	f.sched.Advance(500 * time.Millisecond)
	if !f.tracker.Completed(1) {
		t.Fatal("not committed after delay")
	}
	if stored, _ := f.tracker.Solution(1); stored != text {
		t.Errorf("stored text = %q, want %q", stored, text)
	}
	if st := f.s.State(); !st.LevelCompleted || st.Header() != "1/12 completed (8%)" {
		t.Errorf("LevelCompleted = %v, header = %q", st.LevelCompleted, st.Header())
	}

	f.sched.Advance(4400 * time.Millisecond)
	if !f.s.State().Celebrating {
		t.Error("celebration ended early")
	}
	f.sched.Advance(100 * time.Millisecond)
	if f.s.State().Celebrating {
		t.Error("celebration did not end after 5s")
	}

	want := []session.EventKind{session.EventOpened, session.EventEdited, session.EventPassed, session.EventCommitted, session.EventCelebrationEnded}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestCommit_CapturesLevel(t *testing.T) {
	f := newFixture(t)

	f.s.Edit(f.solution())
	f.s.Check()
	f.s.Next()
	f.s.Edit("something else")

	f.sched.Advance(500 * time.Millisecond)
	if !f.tracker.Completed(1) || f.tracker.Completed(2) {
		t.Errorf("completed = %v, want [1]", f.tracker.IDs())
	}
	if stored, _ := f.tracker.Solution(1); stored != "justify-content: flex-end;" {
		t.Errorf("stored text = %q", stored)
	}
	if st := f.s.State(); st.Index != 1 || st.Text != "something else" || st.Celebrating {
		t.Errorf("state = %+v", st)
	}
}

func TestOpen_RestoresSolution(t *testing.T) {
	f := newFixture(t)

	f.s.Edit(f.solution())
	f.s.Check()
	f.sched.Advance(time.Second)

	f.s.Next()
	if st := f.s.State(); st.Text != "" || st.LevelCompleted {
		t.Errorf("level 2 state: %+v", st)
	}
	f.s.Previous()
	st := f.s.State()
	if st.Text != "justify-content: flex-end;" || !st.LevelCompleted {
		t.Errorf("restored text = %q, completed = %v", st.Text, st.LevelCompleted)
	}
	if st.Result != session.Unchecked || st.Phase != session.PhaseIdle {
		t.Errorf("restored level phase = %v, result = %v", st.Phase, st.Result)
	}
}

func TestNavigation_OutOfRange(t *testing.T) {
	f := newFixture(t)

	if f.s.Previous() {
		t.Error("Previous() at first level succeeded")
	}
	if f.s.Open(-1) || f.s.Open(12) {
		t.Error("Open() out of range succeeded")
	}
	if !f.s.Open(11) {
		t.Fatal("Open(11) failed")
	}
	if f.s.Next() {
		t.Error("Next() at last level succeeded")
	}
	if st := f.s.State(); st.Index != 11 || !st.Last() {
		t.Errorf("index = %d", st.Index)
	}
}

func TestLastLevel(t *testing.T) {
	f := newFixture(t)
	f.s.Open(11)
	f.s.Edit("flex: 1;")
	f.s.Check()

	if st := f.s.State(); !st.AllDone() {
		t.Error("AllDone() = false after solving last level")
	}
	if !f.s.Restart() || f.s.State().Index != 0 {
		t.Error("Restart() did not return to first level")
	}
	f.sched.Advance(time.Second)
	if !f.tracker.Completed(12) {
		t.Error("last level not committed")
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)

	f.s.Edit(f.solution())
	f.s.Check()
	f.sched.Advance(300 * time.Second)
	if !f.tracker.Completed(1) || !f.s.State().Unlocked {
		t.Fatal("setup failed")
	}
	f.s.ToggleAnswer()

	f.s.Reset()
	st := f.s.State()
	if st.Text != "" || st.Result != session.Unchecked || st.Revealed || st.Unlocked || st.Celebrating || st.Elapsed != 0 {
		t.Errorf("state after Reset(): %+v", st)
	}
	if f.tracker.Completed(1) {
		t.Error("level still completed")
	}
	if _, ok := f.tracker.Solution(1); ok {
		t.Error("solution still stored")
	}

	f.sched.Advance(2 * time.Second)
	if f.s.State().Elapsed != 2*time.Second {
		t.Errorf("timer not restarted: %v", f.s.State().Elapsed)
	}
}

func TestReset_CancelsPendingCommit(t *testing.T) {
	for _, leaky := range []bool{false, true} {
		f := newFixture(t)
		f.sched.leaky = leaky

		f.s.Edit(f.solution())
		f.s.Check()
		f.s.Reset()
		f.sched.Advance(time.Second)

		if f.tracker.Completed(1) {
			t.Errorf("leaky=%v: commit survived Reset()", leaky)
		}
	}
}

func TestStaleTick(t *testing.T) {
	f := newFixture(t)
	f.sched.leaky = true

	f.sched.Advance(500 * time.Millisecond)
	f.s.Next()
	f.sched.Advance(600 * time.Millisecond)
	if got := f.s.State().Elapsed; got != 0 {
		t.Errorf("stale tick counted: elapsed = %v", got)
	}
	f.sched.Advance(400 * time.Millisecond)
	if got := f.s.State().Elapsed; got != time.Second {
		t.Errorf("elapsed = %v, want 1s", got)
	}
}

func TestStaleCelebration(t *testing.T) {
	f := newFixture(t)
	f.sched.leaky = true

	f.s.Edit(f.solution())
	f.s.Check()
	f.sched.Advance(3 * time.Second)
	// second pass restarts celebration, first timer must not end it
	f.s.Check()
	f.sched.Advance(3 * time.Second)
	if !f.s.State().Celebrating {
		t.Error("celebration ended by stale timer")
	}
}

func TestCelebration_Navigation(t *testing.T) {
	f := newFixture(t)
	f.s.Open(1)
	f.s.Edit(f.solution())
	f.s.Check()

	// going back keeps celebration of the level just solved
	f.s.Previous()
	if st := f.s.State(); st.Index != 0 || !st.Celebrating {
		t.Fatalf("after Previous(): index = %d, celebrating = %v", st.Index, st.Celebrating)
	}
	f.sched.Advance(5 * time.Second)
	if f.s.State().Celebrating {
		t.Error("celebration did not end after 5s")
	}
	if !f.tracker.Completed(2) {
		t.Error("level 2 not committed")
	}

	// moving forward dismisses it right away
	f.s.Edit(f.solution())
	f.s.Check()
	f.s.Next()
	if f.s.State().Celebrating {
		t.Error("Next() kept celebration")
	}

	f.s.Check()
	f.s.Open(5)
	if f.s.State().Celebrating {
		t.Error("Open() kept celebration")
	}
}

func TestResetAll(t *testing.T) {
	f := newFixture(t)

	for i := range 3 {
		f.s.Open(i)
		f.s.Edit(f.solution())
		f.s.Check()
		f.sched.Advance(time.Second)
	}
	_ = f.kv.Save("unrelated", "x")
	if f.tracker.Count() != 3 {
		t.Fatalf("setup failed: %v", f.tracker.IDs())
	}

	var prompt string
	declined := session.ConfirmFunc(func(p string) bool { prompt = p; return false })
	if f.s.ResetAll(declined) {
		t.Error("ResetAll() succeeded without confirmation")
	}
	if prompt != session.ResetAllPrompt {
		t.Errorf("prompt = %q", prompt)
	}
	if f.s.ResetAll(nil) {
		t.Error("ResetAll(nil) succeeded")
	}
	if f.tracker.Count() != 3 || f.s.State().Index != 2 {
		t.Fatal("declined ResetAll() changed state")
	}

	// pending commit of another level must be dropped too
	f.s.Open(5)
	f.s.Edit(f.solution())
	f.s.Check()

	if !f.s.ResetAll(session.ConfirmFunc(func(string) bool { return true })) {
		t.Fatal("ResetAll() declined")
	}
	f.sched.Advance(time.Second)

	st := f.s.State()
	if st.Index != 0 || len(st.Completed) != 0 || st.Text != "" || st.Elapsed != time.Second {
		t.Errorf("state after ResetAll(): %+v", st)
	}
	keys, _ := f.kv.Keys()
	if !slices.Equal(keys, []string{"unrelated"}) {
		t.Errorf("keys left: %v", keys)
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)

	f.s.Edit(f.solution())
	f.s.Check()
	f.s.Close()

	if !f.tracker.Completed(1) {
		t.Error("pending commit lost on Close()")
	}
	if f.sched.Pending() != 0 {
		t.Errorf("%d timers left after Close()", f.sched.Pending())
	}

	f.s.Edit("x")
	if f.s.Next() || f.s.Check() || f.s.ToggleAnswer() {
		t.Error("actions work after Close()")
	}
	if st := f.s.State(); st.Text != "justify-content: flex-end;" || st.Index != 0 {
		t.Errorf("state changed after Close(): %+v", st)
	}
	f.s.Close()
}

func TestProgressSurvivesSessions(t *testing.T) {
	f := newFixture(t)
	f.s.Edit(f.solution())
	f.s.Check()
	f.s.Close()

	s := session.New(f.catalog, progress.NewTracker(f.kv, nil), &manualScheduler{})
	st := s.State()
	if !st.LevelCompleted || st.Text != "justify-content: flex-end;" {
		t.Errorf("new session state: %+v", st)
	}
	if st.SessionID == f.s.State().SessionID {
		t.Error("sessions share id")
	}
}

func TestEventKind_String(t *testing.T) {
	if session.EventResetAll.String() != "reset-all" || session.EventKind(100).String() != "unknown" {
		t.Error("unexpected event names")
	}
}

func TestDispatcher(t *testing.T) {
	c, err := levels.Default(zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	tracker := progress.NewTracker(store.NewMemory(), zaptest.NewLogger(t))

	d := session.NewDispatcher(16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var s *session.Session
	d.Do(func() {
		s = session.New(c, tracker, d, session.WithTimings(session.Timings{
			UnlockAfter: 20 * time.Millisecond,
			Celebration: 50 * time.Millisecond,
			CommitDelay: 5 * time.Millisecond,
			Tick:        5 * time.Millisecond,
		}))
		s.Edit("justify-content: flex-end;")
		s.Check()
	})

	deadline := time.Now().Add(5 * time.Second)
	for {
		var st session.State
		d.Do(func() { st = s.State() })
		if st.LevelCompleted && st.Unlocked {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session did not progress: %+v", st)
		}
		time.Sleep(5 * time.Millisecond)
	}

	d.Do(s.Close)
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if d.Post(func() {}) {
		t.Error("Post() after stop succeeded")
	}
	if d.Do(func() {}) {
		t.Error("Do() after stop succeeded")
	}
}
