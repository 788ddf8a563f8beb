package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
)

// SubmissionRepository keeps the local history of submission attempts.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, opts ListSubmissionsOptions) ([]*domain.Submission, error)
	// DeleteBefore removes records created before the given time and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ListSubmissionsOptions filters List. A zero Limit returns every record.
type ListSubmissionsOptions struct {
	Limit    int
	Category *domain.Category
}
