package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
	"github.com/emiliopalmerini/mreport/internal/util"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const maxRetries = 2

const submissionColumns = `id, card_id, category, title, outcome, message, screenshot_requested, created_at`

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	_, err := WithRetry(ctx, maxRetries, func() (sql.Result, error) {
		return r.db.ExecContext(ctx,
			`INSERT INTO submissions (`+submissionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID,
			util.NullString(s.CardID),
			s.Category.String(),
			s.Title,
			string(s.Outcome),
			s.Message,
			util.BoolToInt64(s.ScreenshotRequested),
			s.CreatedAt.UTC().Format(timeLayout),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID returns nil without error when no submission has the id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// List returns submissions newest first.
func (r *SubmissionRepository) List(ctx context.Context, opts ports.ListSubmissionsOptions) ([]*domain.Submission, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + submissionColumns + ` FROM submissions`)
	if opts.Category != nil {
		query.WriteString(` WHERE category = ?`)
		args = append(args, opts.Category.String())
	}
	query.WriteString(` ORDER BY created_at DESC, id`)
	if opts.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (r *SubmissionRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE created_at < ?`, before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted submissions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*domain.Submission, error) {
	var (
		s          domain.Submission
		cardID     sql.NullString
		category   string
		outcome    string
		screenshot int64
		createdAt  string
	)
	if err := row.Scan(&s.ID, &cardID, &category, &s.Title, &outcome, &s.Message, &screenshot, &createdAt); err != nil {
		return nil, err
	}

	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	s.CardID = cardID.String
	s.Category = c
	s.Outcome = domain.Outcome(outcome)
	s.ScreenshotRequested = screenshot != 0
	s.CreatedAt = at
	return &s, nil
}
