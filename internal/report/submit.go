package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
)

// Submit sends the draft. It returns the result shown to the user, or an
// error when the call is refused (domain.ErrBusy, domain.ErrNotEditing)
// and nothing was attempted.
//
// The card is created first. When a screenshot was requested the form
// chrome is hidden, one frame is captured, the chrome is shown again and
// the PNG is attached to the new card. A failed card creation keeps the
// draft so the user can retry; once the card exists the draft is cleared
// whatever happens to the screenshot.
func (c *Controller) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	started := time.Now()

	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return domain.SubmissionResult{}, err
	}
	draft := c.draft

	if missing := missingFields(draft); len(missing) > 0 {
		result := domain.Failure(domain.MessageValidationFailed).WithOutcome(domain.OutcomeInvalid)
		c.status, c.hasStatus = result, true
		c.unlockAndEmit(EventStatusChanged)

		c.logger.Info("report not sent", "error", &domain.ValidationError{Fields: missing})
		c.record(ctx, draft, "", domain.OutcomeInvalid, result, 0, started)
		return result, nil
	}

	listID := c.categories[draft.Category].ListID
	description := domain.ComposeDescription(draft.Description, c.version.Version(), c.clock.Now())
	c.state = domain.StateSubmitting
	c.unlockAndEmit(EventStateChanged, EventVisibilityChanged)

	card, err := c.createCard(ctx, draft.Title, description, listID)
	if err != nil {
		c.logger.Error("failed to create card", "category", draft.Category.String(), "list_id", listID, "error_kind", errorKind(err), "error", err)
		return c.resolve(ctx, draft, false, domain.Failure(domain.MessageSendFailed), domain.OutcomeFailed, "", 0, started), nil
	}
	c.logger.Info("card created", "card_id", card.ID, "category", draft.Category.String())

	if !draft.IncludeScreenshot {
		return c.resolve(ctx, draft, true, domain.Success(domain.MessageSent), domain.OutcomeSent, card.ID, 0, started), nil
	}

	png, err := c.captureScreenshot(ctx)
	if err != nil {
		c.logger.Error("failed to capture screenshot", "card_id", card.ID, "error", err)
		return c.resolve(ctx, draft, true, domain.Failure(domain.MessageScreenshotFailed), domain.OutcomeScreenshotFailed, card.ID, 0, started), nil
	}

	c.setState(domain.StateUploadingScreenshot)
	if err := c.attachImage(ctx, card.ID, png); err != nil {
		c.logger.Error("failed to upload screenshot", "card_id", card.ID, "bytes", len(png), "error_kind", errorKind(err), "error", err)
		return c.resolve(ctx, draft, true, domain.Failure(domain.MessageScreenshotFailed), domain.OutcomeScreenshotFailed, card.ID, len(png), started), nil
	}

	c.logger.Info("screenshot attached", "card_id", card.ID, "bytes", len(png))
	return c.resolve(ctx, draft, true, domain.Success(domain.MessageSentScreenshot), domain.OutcomeSentWithScreenshot, card.ID, len(png), started), nil
}

func (c *Controller) createCard(ctx context.Context, title, description, listID string) (domain.RemoteCard, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.CreateCard(ctx, title, description, listID)
}

func (c *Controller) attachImage(ctx context.Context, cardID string, png []byte) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.AttachImage(ctx, cardID, png)
}

// captureScreenshot hides the chrome, grabs the next rendered frame, shows
// the chrome again and encodes the frame. The chrome is shown again even
// when the capture fails.
func (c *Controller) captureScreenshot(ctx context.Context) ([]byte, error) {
	if c.capturer == nil {
		return nil, errors.New("no capture service configured")
	}
	if c.encoder == nil {
		return nil, errors.New("no image encoder configured")
	}

	c.mu.Lock()
	c.state = domain.StateCapturingScreenshot
	c.chromeHidden = true
	c.unlockAndEmit(EventStateChanged, EventVisibilityChanged)
	c.capturer.HideChrome()

	captureCtx, cancel := c.withTimeout(ctx)
	img, err := c.capturer.CaptureNextFrame(captureCtx)
	cancel()

	c.capturer.ShowChrome()
	c.mu.Lock()
	c.chromeHidden = false
	c.unlockAndEmit(EventVisibilityChanged)

	if err != nil {
		return nil, fmt.Errorf("failed to capture frame: %w", err)
	}

	png, err := c.encoder.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return png, nil
}

// resolve publishes the final result of an attempt and returns to Editing.
func (c *Controller) resolve(ctx context.Context, draft domain.Draft, clear bool, result domain.SubmissionResult, outcome domain.Outcome, cardID string, pngBytes int, started time.Time) domain.SubmissionResult {
	result = result.WithOutcome(outcome)
	c.mu.Lock()
	kinds := []EventKind{EventStatusChanged, EventStateChanged, EventVisibilityChanged}
	if clear {
		c.draft = c.draft.Cleared()
		kinds = append(kinds, EventDraftChanged)
	}
	c.status, c.hasStatus = result, true
	c.state = domain.StateEditing
	c.unlockAndEmit(kinds...)

	c.record(ctx, draft, cardID, outcome, result, pngBytes, started)
	return result
}

// record writes the attempt to history and metrics. Failures are logged
// and never change the result shown to the user.
func (c *Controller) record(ctx context.Context, draft domain.Draft, cardID string, outcome domain.Outcome, result domain.SubmissionResult, pngBytes int, started time.Time) {
	ctx = context.WithoutCancel(ctx)

	if c.repo != nil {
		submission := domain.NewSubmission(draft, cardID, outcome, result, c.clock.Now())
		if err := c.repo.Create(ctx, submission); err != nil {
			c.logger.Warn("failed to record submission", "outcome", string(outcome), "error", err)
		}
	}

	if c.metrics != nil {
		m := &ports.SubmissionMetrics{
			Category:            draft.Category,
			Outcome:             outcome,
			ScreenshotRequested: draft.IncludeScreenshot,
			ScreenshotBytes:     pngBytes,
			Duration:            time.Since(started),
		}
		if err := c.metrics.ExportSubmission(ctx, m); err != nil {
			c.logger.Warn("failed to export submission metrics", "error", err)
		}
	}
}

func (c *Controller) setState(state domain.FormState) {
	c.mu.Lock()
	c.state = state
	c.unlockAndEmit(EventStateChanged)
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout < 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// errorKind names the failure class of a client error for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case domain.IsResponseParseError(err):
		return "response"
	case domain.IsRequestError(err):
		return "request"
	default:
		return "unknown"
	}
}

func missingFields(d domain.Draft) []string {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	return missing
}
