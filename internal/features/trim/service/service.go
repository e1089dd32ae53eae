package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/features/trim/domain"
	"booking-checkout/internal/features/trim/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrimServiceImpl implements ports.TrimService.
type TrimServiceImpl struct {
	repo ports.EditorRepository
	now  func() time.Time
}

// NewTrimService creates a new TrimServiceImpl.
func NewTrimService(repo ports.EditorRepository) *TrimServiceImpl {
	return &TrimServiceImpl{repo: repo, now: time.Now}
}

// Open starts a trim session for a video with the whole duration selected.
func (s *TrimServiceImpl) Open(ctx context.Context, sessionID, videoURL string, duration float64) (*domain.Editor, error) {
	editor, err := domain.NewEditor(uuid.NewString(), videoURL, duration, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sessionID, editor); err != nil {
		return nil, fmt.Errorf("service: failed to open trim session: %w", err)
	}
	return editor, nil
}

func (s *TrimServiceImpl) Get(ctx context.Context, sessionID, id string) (*domain.Editor, error) {
	editor, err := s.repo.Get(ctx, sessionID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to load trim session: %w", err)
	}
	return editor, nil
}

// Apply runs one editor action and stores the result.
func (s *TrimServiceImpl) Apply(ctx context.Context, sessionID, id string, action domain.Action) (*domain.Editor, error) {
	editor, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	if err := editor.Apply(action); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sessionID, editor); err != nil {
		return nil, fmt.Errorf("service: failed to save trim session: %w", err)
	}
	return editor, nil
}

// Submit returns the selection for the next step.
func (s *TrimServiceImpl) Submit(ctx context.Context, sessionID, id string) (*domain.Selection, error) {
	editor, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	selection := editor.Submit()
	logger.Get().Debug("Trim selection submitted",
		zap.String("trim_id", id),
		zap.Float64("start_time", selection.StartTime),
		zap.Float64("end_time", selection.EndTime),
	)
	return &selection, nil
}
