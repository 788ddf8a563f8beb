package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
)

// MetricsExporter exports submission metrics to an external observability system.
type MetricsExporter interface {
	// ExportSubmission records the outcome of one submission attempt.
	ExportSubmission(ctx context.Context, m *SubmissionMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// SubmissionMetrics describes a resolved submission attempt.
type SubmissionMetrics struct {
	Category            domain.Category
	Outcome             domain.Outcome
	ScreenshotRequested bool
	ScreenshotBytes     int
	Duration            time.Duration
}
