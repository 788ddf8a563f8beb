package ports

import (
	"context"

	"github.com/emiliopalmerini/mreport/internal/domain"
)

// CardClient creates cards and attaches files on the tracking board.
type CardClient interface {
	// CreateCard files a new card under listID and returns its id.
	CreateCard(ctx context.Context, title, description, listID string) (domain.RemoteCard, error)
	// AttachImage uploads png bytes to the card as screenshot.png.
	AttachImage(ctx context.Context, cardID string, png []byte) error
}
