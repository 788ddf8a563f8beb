package report

import "github.com/emiliopalmerini/mreport/internal/domain"

// EventKind names a change the presentation layer may need to render.
type EventKind int

const (
	EventDraftChanged EventKind = iota
	EventStatusChanged
	EventStateChanged
	EventVisibilityChanged
	EventCloseRequested
)

func (k EventKind) String() string {
	switch k {
	case EventDraftChanged:
		return "draft_changed"
	case EventStatusChanged:
		return "status_changed"
	case EventStateChanged:
		return "state_changed"
	case EventVisibilityChanged:
		return "visibility_changed"
	case EventCloseRequested:
		return "close_requested"
	default:
		return "unknown"
	}
}

// Event is a snapshot of the form taken right after a change.
type Event struct {
	Kind       EventKind
	State      domain.FormState
	Draft      domain.Draft
	Status     domain.SubmissionResult
	HasStatus  bool
	Visibility Visibility
}

// VisibilityMode selects how the form's visibility is represented.
type VisibilityMode int

const (
	// VisibilityToggle shows or hides the form panel outright.
	VisibilityToggle VisibilityMode = iota
	// VisibilityFade keeps the form in place and drives its opacity.
	VisibilityFade
)

// ParseVisibilityMode accepts "toggle" or "fade".
func ParseVisibilityMode(s string) (VisibilityMode, bool) {
	switch s {
	case "", "toggle":
		return VisibilityToggle, true
	case "fade":
		return VisibilityFade, true
	default:
		return VisibilityToggle, false
	}
}

// Visibility is how the form should currently be drawn.
type Visibility struct {
	Mode         VisibilityMode
	Shown        bool
	Opacity      float64
	Interactable bool
}

type subscriber struct {
	id int
	fn func(Event)
}
