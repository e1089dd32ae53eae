package ports

import (
	"context"

	"booking-checkout/internal/features/trim/domain"
)

// TrimService defines the primary port for the trim editor.
type TrimService interface {
	Open(ctx context.Context, sessionID, videoURL string, duration float64) (*domain.Editor, error)
	Get(ctx context.Context, sessionID, id string) (*domain.Editor, error)
	Apply(ctx context.Context, sessionID, id string, action domain.Action) (*domain.Editor, error)
	Submit(ctx context.Context, sessionID, id string) (*domain.Selection, error)
}

// EditorRepository stores editors per session.
type EditorRepository interface {
	// Get returns ErrNotFound when the editor is absent.
	Get(ctx context.Context, sessionID, id string) (*domain.Editor, error)
	Save(ctx context.Context, sessionID string, editor *domain.Editor) error
}
