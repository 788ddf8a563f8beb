package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a submission attempt ended.
type Outcome string

const (
	OutcomeSent               Outcome = "sent"
	OutcomeSentWithScreenshot Outcome = "sent_with_screenshot"
	OutcomeScreenshotFailed   Outcome = "screenshot_failed"
	OutcomeFailed             Outcome = "failed"
	OutcomeInvalid            Outcome = "invalid"
)

// Submission is the history record kept for every submission attempt.
type Submission struct {
	ID                  string
	CardID              string
	Category            Category
	Title               string
	Outcome             Outcome
	Message             string
	ScreenshotRequested bool
	CreatedAt           time.Time
}

// NewSubmission creates a record with a fresh id.
func NewSubmission(draft Draft, cardID string, outcome Outcome, result SubmissionResult, at time.Time) *Submission {
	return &Submission{
		ID:                  uuid.New().String(),
		CardID:              cardID,
		Category:            draft.Category,
		Title:               draft.Title,
		Outcome:             outcome,
		Message:             result.Message(),
		ScreenshotRequested: draft.IncludeScreenshot,
		CreatedAt:           at.UTC(),
	}
}
