package aiusage

import (
	"context"
	"errors"
	"time"
)

type Store interface {
	// UseToken deducts one token for month, resetting stale months. It
	// returns ErrInsufficientTokens when nothing was deducted.
	UseToken(ctx context.Context, uid, month string) error
	EnsureUser(ctx context.Context, uid, month string) error
	// Refund gives one token back for month, never above DefaultTokens.
	Refund(ctx context.Context, uid, month string) error
}

// Service orchestrates AI token-usage logic.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// UseToken deducts one token from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the token is immediately consumed.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	month := s.now().UTC().Format(monthLayout)
	err := s.store.UseToken(ctx, uid, month)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, month); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid, month)
}

// Refund returns a token taken by UseToken, e.g. when the advisor could not
// answer. A refund after the month rolled over is a no-op.
func (s *Service) Refund(ctx context.Context, uid string) error {
	return s.store.Refund(ctx, uid, s.now().UTC().Format(monthLayout))
}
