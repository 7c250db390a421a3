package session

import (
	"fmt"
	"time"

	"flexclass/levels"
)

// Phase of the current level.
type Phase int

const (
	PhaseIdle    Phase = iota // level just opened or reset
	PhaseTyping               // text was edited
	PhaseChecked              // text was checked, see Result
)

func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseChecked:
		return "checked"
	default:
		return "idle"
	}
}

// Result of the last check.
type Result int

const (
	Unchecked Result = iota
	Correct
	Incorrect
)

func (r Result) String() string {
	switch r {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unchecked"
	}
}

// Timings drive session timers.
type Timings struct {
	// UnlockAfter is time spent on level before answer may be revealed,
	// zero or negative means answer is always available.
	UnlockAfter time.Duration
	Celebration time.Duration
	CommitDelay time.Duration
	Tick        time.Duration
}

// DefaultTimings returns timings used when nothing is configured.
func DefaultTimings() Timings {
	return Timings{
		UnlockAfter: 240 * time.Second,
		Celebration: 5 * time.Second,
		CommitDelay: 500 * time.Millisecond,
		Tick:        time.Second,
	}
}

// State is a snapshot of session for presentation.
type State struct {
	SessionID string
	Index     int
	Count     int
	Level     levels.Level
	Text      string
	Phase     Phase
	Result    Result

	Revealed    bool
	Unlocked    bool
	Celebrating bool
	Elapsed     time.Duration
	// Remaining is time left until answer unlocks.
	Remaining time.Duration

	Completed      []int
	LevelCompleted bool
	// Answer is only set while revealed.
	Answer string
}

// First reports whether current level is the first one.
func (s State) First() bool {
	return s.Index == 0
}

// Last reports whether current level is the last one.
func (s State) Last() bool {
	return s.Index == s.Count-1
}

// AllDone is true when the last level was just solved.
func (s State) AllDone() bool {
	return s.Last() && s.Result == Correct
}

// Progress returns share of completed levels in range [0, 1].
func (s State) Progress() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(len(s.Completed)) / float64(s.Count)
}

// Header returns progress line, e.g. "3/12 completed (25%)".
func (s State) Header() string {
	return FormatHeader(len(s.Completed), s.Count)
}

// FormatHeader formats progress line for done levels out of count.
func FormatHeader(done, count int) string {
	percent := 0
	if count > 0 {
		percent = int(float64(done)/float64(count)*100 + 0.5)
	}
	return fmt.Sprintf("%d/%d completed (%d%%)", done, count, percent)
}

// Clock formats elapsed time as m:ss.
func (s State) Clock() string {
	return formatClock(s.Elapsed)
}

// Countdown returns "Answer in Ns" while answer is locked and empty string
// otherwise.
func (s State) Countdown() string {
	if s.Unlocked {
		return ""
	}
	secs := int((s.Remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("Answer in %ds", secs)
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
