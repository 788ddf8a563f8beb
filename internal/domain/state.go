package domain

// FormState is the position of the report form in its submission lifecycle.
type FormState int

const (
	StateIdle FormState = iota
	StateEditing
	StateSubmitting
	StateCapturingScreenshot
	StateUploadingScreenshot
)

func (s FormState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateCapturingScreenshot:
		return "capturing_screenshot"
	case StateUploadingScreenshot:
		return "uploading_screenshot"
	default:
		return "unknown"
	}
}

// InFlight reports whether a submission is running in this state.
func (s FormState) InFlight() bool {
	return s == StateSubmitting || s == StateCapturingScreenshot || s == StateUploadingScreenshot
}
