// Package session implements learner progress through levels: editing,
// checking, timers unlocking the answer, celebration and deferred
// persistence of solved levels.
//
// Session is not safe for concurrent use. Every action and every scheduler
// callback must run on one goroutine, Dispatcher provides such loop.
package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flexclass/css"
	"flexclass/levels"
	"flexclass/progress"
)

// ResetAllPrompt is shown to learner before all progress is removed.
const ResetAllPrompt = "Reset all progress? This cannot be undone."

type pendingCommit struct {
	seq    uint64
	text   string
	cancel Cancel
}

// Session walks learner through catalog levels.
type Session struct {
	id       uuid.UUID
	catalog  *levels.Catalog
	progress *progress.Tracker
	sched    Scheduler
	timings  Timings
	log      *zap.Logger
	observer Observer

	index       int
	text        string
	phase       Phase
	result      Result
	revealed    bool
	unlocked    bool
	celebrating bool
	elapsed     time.Duration

	// generation changes whenever level timer restarts, stale ticks compare
	// against it, celebrationSeq serves the same purpose for celebration end
	generation        uint64
	cancelTick        Cancel
	celebrationSeq    uint64
	cancelCelebration Cancel

	commits   map[int]*pendingCommit
	commitSeq uint64
	closed    bool
}

// Option configures Session.
type Option func(*Session)

// WithTimings overrides DefaultTimings.
func WithTimings(t Timings) Option {
	return func(s *Session) { s.timings = t }
}

// WithLogger sets session logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver sets function notified of every state change.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// New creates session positioned at the first level with its timer running.
func New(catalog *levels.Catalog, tracker *progress.Tracker, sched Scheduler, options ...Option) *Session {
	s := &Session{
		catalog:  catalog,
		progress: tracker,
		sched:    sched,
		timings:  DefaultTimings(),
		log:      zap.NewNop(),
		commits:  make(map[int]*pendingCommit),
	}
	for _, setOpt := range options {
		setOpt(s)
	}

	var err error
	if s.id, err = uuid.NewV7(); err != nil {
		s.id = uuid.New()
	}
	s.log = s.log.Named("session").With(zap.Stringer("id", s.id))
	s.log.Debug("Session started", zap.Int("levels", catalog.Len()), zap.Ints("completed", tracker.IDs()))

	s.open(0)
	return s
}

// ID returns unique session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) level() levels.Level {
	l, _ := s.catalog.At(s.index)
	return l
}

func (s *Session) notify(kind EventKind, levelID int) {
	if s.observer != nil {
		s.observer(Event{Kind: kind, LevelID: levelID})
	}
}

// Open switches to level at index. Out of range index is ignored and false
// is returned.
func (s *Session) Open(index int) bool {
	return s.navigate(index, true)
}

// Next opens following level, it also dismisses celebration.
func (s *Session) Next() bool {
	return s.navigate(s.index+1, true)
}

// Previous opens preceding level. Celebration of the level just solved
// runs to its end.
func (s *Session) Previous() bool {
	return s.navigate(s.index-1, false)
}

// Restart opens the first level.
func (s *Session) Restart() bool {
	return s.navigate(0, true)
}

func (s *Session) navigate(index int, dismissCelebration bool) bool {
	if s.closed || index < 0 || index >= s.catalog.Len() {
		return false
	}
	if dismissCelebration {
		s.stopCelebration()
	}
	s.open(index)
	return true
}

func (s *Session) open(index int) {
	s.index = index
	l := s.level()

	s.text = ""
	if s.progress.Completed(l.ID) {
		if text, ok := s.progress.Solution(l.ID); ok {
			s.text = text
		}
	}
	s.restartLevel()

	s.log.Debug("Level opened", zap.Int("index", index), zap.Int("level", l.ID))
	s.notify(EventOpened, l.ID)
}

// restartLevel clears check and reveal state and restarts level timer.
// Celebration is left to callers.
func (s *Session) restartLevel() {
	s.phase = PhaseIdle
	s.result = Unchecked
	s.revealed = false
	s.unlocked = s.timings.UnlockAfter <= 0
	s.elapsed = 0

	s.stopTick()
	s.generation++
	s.scheduleTick()
}

func (s *Session) scheduleTick() {
	if s.timings.Tick <= 0 {
		return
	}
	gen := s.generation
	s.cancelTick = s.sched.AfterFunc(s.timings.Tick, func() { s.tick(gen) })
}

func (s *Session) stopTick() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) tick(gen uint64) {
	if s.closed || gen != s.generation {
		return
	}
	s.elapsed += s.timings.Tick
	if !s.unlocked && s.elapsed >= s.timings.UnlockAfter {
		s.unlocked = true
		s.log.Debug("Answer unlocked", zap.Int("level", s.level().ID), zap.Duration("elapsed", s.elapsed))
		s.notify(EventUnlocked, s.level().ID)
	}
	s.notify(EventTick, s.level().ID)
	s.scheduleTick()
}

// Edit replaces learner text. Result of previous check stays visible.
func (s *Session) Edit(text string) {
	if s.closed {
		return
	}
	s.text = text
	s.phase = PhaseTyping
	s.notify(EventEdited, s.level().ID)
}

// Check compares learner text with level solution. Passing starts
// celebration and schedules commit of the solved level.
func (s *Session) Check() bool {
	if s.closed {
		return false
	}
	l := s.level()
	s.phase = PhaseChecked

	if !css.Check(s.text, l.Solution) {
		s.result = Incorrect
		s.stopCelebration()
		s.log.Debug("Check failed", zap.Int("level", l.ID))
		s.notify(EventFailed, l.ID)
		return false
	}

	s.result = Correct
	s.startCelebration()
	s.scheduleCommit(l.ID, s.text)
	s.log.Debug("Check passed", zap.Int("level", l.ID))
	s.notify(EventPassed, l.ID)
	return true
}

func (s *Session) startCelebration() {
	s.stopCelebration()
	s.celebrating = true
	if s.timings.Celebration <= 0 {
		return
	}
	seq := s.celebrationSeq
	s.cancelCelebration = s.sched.AfterFunc(s.timings.Celebration, func() {
		if s.closed || seq != s.celebrationSeq || !s.celebrating {
			return
		}
		s.celebrating = false
		s.cancelCelebration = nil
		s.notify(EventCelebrationEnded, s.level().ID)
	})
}

func (s *Session) stopCelebration() {
	s.celebrating = false
	s.celebrationSeq++
	if s.cancelCelebration != nil {
		s.cancelCelebration()
		s.cancelCelebration = nil
	}
}

// scheduleCommit remembers text which solved level, later check of the same
// level replaces pending commit.
func (s *Session) scheduleCommit(id int, text string) {
	s.cancelCommit(id)

	s.commitSeq++
	p := &pendingCommit{seq: s.commitSeq, text: text}
	s.commits[id] = p
	seq := p.seq
	p.cancel = s.sched.AfterFunc(s.timings.CommitDelay, func() { s.commit(id, seq) })
}

func (s *Session) commit(id int, seq uint64) {
	p, ok := s.commits[id]
	if !ok || p.seq != seq {
		return
	}
	delete(s.commits, id)
	s.progress.Complete(id, p.text)
	s.notify(EventCommitted, id)
}

func (s *Session) cancelCommit(id int) {
	if p, ok := s.commits[id]; ok {
		p.cancel()
		delete(s.commits, id)
	}
}

// ToggleAnswer shows or hides solution. It does nothing and returns false
// while answer is locked.
func (s *Session) ToggleAnswer() bool {
	if s.closed || !s.unlocked {
		return false
	}
	s.revealed = !s.revealed
	s.notify(EventRevealToggled, s.level().ID)
	return true
}

// Reset clears current level: text, check result, reveal, celebration and
// timer. Level is removed from Completion Set.
func (s *Session) Reset() {
	if s.closed {
		return
	}
	l := s.level()
	s.cancelCommit(l.ID)
	s.text = ""
	s.stopCelebration()
	s.restartLevel()
	s.progress.Forget(l.ID)

	s.log.Info("Level progress reset", zap.Int("level", l.ID))
	s.notify(EventReset, l.ID)
}

// ResetAll removes all progress after learner confirmed it and returns to
// the first level. Nil confirmer declines.
func (s *Session) ResetAll(confirm Confirmer) bool {
	if s.closed || confirm == nil || !confirm.Confirm(ResetAllPrompt) {
		return false
	}
	for id := range s.commits {
		s.cancelCommit(id)
	}
	s.progress.ForgetAll(s.catalog.IDs())
	s.stopCelebration()
	s.open(0)

	s.log.Info("All progress reset")
	s.notify(EventResetAll, s.level().ID)
	return true
}

// Close stops all timers. Pending commits are written immediately so solved
// levels are not lost. Session ignores all actions afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	for id, p := range s.commits {
		p.cancel()
		delete(s.commits, id)
		s.progress.Complete(id, p.text)
		s.notify(EventCommitted, id)
	}
	s.stopTick()
	s.stopCelebration()
	s.closed = true

	s.log.Debug("Session closed", zap.Ints("completed", s.progress.IDs()))
	s.notify(EventClosed, s.level().ID)
}

// State returns snapshot of the session.
func (s *Session) State() State {
	l := s.level()
	st := State{
		SessionID:      s.id.String(),
		Index:          s.index,
		Count:          s.catalog.Len(),
		Level:          l,
		Text:           s.text,
		Phase:          s.phase,
		Result:         s.result,
		Revealed:       s.revealed,
		Unlocked:       s.unlocked,
		Celebrating:    s.celebrating,
		Elapsed:        s.elapsed,
		Completed:      s.progress.IDs(),
		LevelCompleted: s.progress.Completed(l.ID),
	}
	if !s.unlocked {
		st.Remaining = max(s.timings.UnlockAfter-s.elapsed, 0)
	}
	if s.revealed {
		st.Answer = l.Solution
	}
	return st
}
