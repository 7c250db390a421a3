package session

// EventKind names what happened to session.
type EventKind int

const (
	EventOpened EventKind = iota
	EventEdited
	EventPassed
	EventFailed
	EventCelebrationEnded
	EventCommitted
	EventUnlocked
	EventTick
	EventRevealToggled
	EventReset
	EventResetAll
	EventClosed
)

var eventNames = [...]string{
	EventOpened:           "opened",
	EventEdited:           "edited",
	EventPassed:           "passed",
	EventFailed:           "failed",
	EventCelebrationEnded: "celebration-ended",
	EventCommitted:        "committed",
	EventUnlocked:         "unlocked",
	EventTick:             "tick",
	EventRevealToggled:    "reveal-toggled",
	EventReset:            "reset",
	EventResetAll:         "reset-all",
	EventClosed:           "closed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is delivered to Observer after state changed. LevelID is the level
// event belongs to, for commits it may differ from the current one.
type Event struct {
	Kind    EventKind
	LevelID int
}

// Observer is notified on the session goroutine, it must not call back into
// session actions.
type Observer func(Event)

// Confirmer asks learner to approve destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
