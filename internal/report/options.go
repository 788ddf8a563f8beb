package report

import (
	"log/slog"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
)

// DefaultRequestTimeout bounds each network call made during a submission.
const DefaultRequestTimeout = 30 * time.Second

// Config holds the fixed configuration of a report form.
type Config struct {
	// Categories maps every category to its destination list and
	// placeholders. Both Bug and Feedback are required.
	Categories map[domain.Category]domain.CategorySpec

	// RequestTimeout bounds card creation, capture and upload individually.
	// Zero means DefaultRequestTimeout; negative disables the timeout.
	RequestTimeout time.Duration

	// Visibility selects how the presentation layer shows and hides the form.
	Visibility VisibilityMode
}

// Option configures optional collaborators of a Controller.
type Option func(*Controller)

// WithCapturer sets the frame capture service used for screenshots.
func WithCapturer(capturer ports.FrameCapturer) Option {
	return func(c *Controller) { c.capturer = capturer }
}

// WithEncoder sets the PNG encoder applied to captured frames.
func WithEncoder(encoder ports.ImageEncoder) Option {
	return func(c *Controller) { c.encoder = encoder }
}

// WithVersion sets the host version written into the card footer.
func WithVersion(version ports.VersionSource) Option {
	return func(c *Controller) { c.version = version }
}

// WithClock sets the clock used for the footer timestamp.
func WithClock(clock ports.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRepository records every resolved attempt in repo.
func WithRepository(repo ports.SubmissionRepository) Option {
	return func(c *Controller) { c.repo = repo }
}

// WithMetrics exports every resolved attempt to exporter.
func WithMetrics(exporter ports.MetricsExporter) Option {
	return func(c *Controller) { c.metrics = exporter }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithCloseCallback registers fn to run when the form is cancelled.
func WithCloseCallback(fn func()) Option {
	return func(c *Controller) { c.onClose = fn }
}
