package session

// State is the selection and confirmation state of an editing session.
type State struct {
	SelectedID     string `json:"selectedId,omitempty"`
	ToolbarVisible bool   `json:"toolbarVisible"`
	// PendingDelete is set when a delete has been armed and awaits a second request.
	PendingDelete bool `json:"pendingDelete"`
	// RootBlocked is set when a delete was refused because the target is a root.
	RootBlocked bool `json:"rootBlocked"`
	// ChildCounter is the N used for the next "Child N" label.
	ChildCounter int `json:"childCounter"`
}

// Selected reports whether a node is selected.
func (s State) Selected() bool { return s.SelectedID != "" }

// Intent names a user action routed through the controller.
type Intent string

const (
	IntentSelect    Intent = "select"
	IntentDismiss   Intent = "dismiss"
	IntentAdd       Intent = "add"
	IntentDelete    Intent = "delete"
	IntentRename    Intent = "rename"
	IntentMoveLeft  Intent = "move-left"
	IntentMoveRight Intent = "move-right"
)

// Intents lists every intent the controller understands.
var Intents = []Intent{
	IntentSelect,
	IntentDismiss,
	IntentAdd,
	IntentDelete,
	IntentRename,
	IntentMoveLeft,
	IntentMoveRight,
}

// ParseIntent returns the intent named s.
func ParseIntent(s string) (Intent, bool) {
	for _, in := range Intents {
		if string(in) == s {
			return in, true
		}
	}
	return "", false
}

// Outcome reports what a request did. Requests whose preconditions are not met are
// declined silently; there is no error path.
type Outcome int

const (
	Declined Outcome = iota
	Applied
	// DeleteArmed: the first of two delete requests under a confirming policy.
	DeleteArmed
	// DeleteBlockedRoot: delete refused because the target is a root.
	DeleteBlockedRoot
)

func (o Outcome) String() string {
	switch o {
	case Declined:
		return "declined"
	case Applied:
		return "applied"
	case DeleteArmed:
		return "armed"
	case DeleteBlockedRoot:
		return "blocked-root"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON/EDN output.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Change describes a state transition.
type Change struct {
	Intent  Intent
	Outcome Outcome
	Before  State
	After   State
}

// SelectionChanged reports whether the selected node changed.
func (c Change) SelectionChanged() bool { return c.Before.SelectedID != c.After.SelectedID }

// ToolbarChanged reports whether toolbar visibility changed.
func (c Change) ToolbarChanged() bool { return c.Before.ToolbarVisible != c.After.ToolbarVisible }

// Listener is notified after every request that changed the session state.
type Listener func(Change)

// Record is one intent as seen by a Recorder.
type Record struct {
	Intent  Intent
	NodeID  string
	Outcome Outcome
	Detail  map[string]any
}

// Recorder receives every intent the controller handles, applied or not.
type Recorder interface {
	RecordIntent(Record)
}
