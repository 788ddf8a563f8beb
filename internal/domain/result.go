package domain

// User facing status messages.
const (
	MessageValidationFailed = "Title and Description cannot be empty."
	MessageSendFailed       = "Failed to send the form. Please try again."
	MessageSent             = "Form sent successfully."
	MessageSentScreenshot   = "Form and screenshot sent successfully."
	MessageScreenshotFailed = "Form sent, but failed to upload screenshot."
)

// SubmissionResult is the outcome of one submission attempt.
type SubmissionResult struct {
	ok      bool
	message string
	outcome Outcome
}

// Success builds a successful result.
func Success(message string) SubmissionResult {
	return SubmissionResult{ok: true, message: message}
}

// Failure builds a failed result.
func Failure(message string) SubmissionResult {
	return SubmissionResult{ok: false, message: message}
}

// WithOutcome returns a copy of r classified as outcome.
func (r SubmissionResult) WithOutcome(outcome Outcome) SubmissionResult {
	r.outcome = outcome
	return r
}

func (r SubmissionResult) OK() bool        { return r.ok }
func (r SubmissionResult) Message() string { return r.message }

// Outcome is empty until the controller classifies the attempt.
func (r SubmissionResult) Outcome() Outcome { return r.outcome }

func (r SubmissionResult) String() string {
	if r.ok {
		return "success: " + r.message
	}
	return "failure: " + r.message
}
