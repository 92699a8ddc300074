package aiusage

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps ai_usage rows in PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// UseToken atomically checks the monthly quota and deducts one token.
// It resets the counter to DefaultTokens when last_reset_month is behind month.
func (s *PGStore) UseToken(ctx context.Context, uid, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, DefaultTokens, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a new ai_usage row for uid with the default token allowance.
func (s *PGStore) EnsureUser(ctx context.Context, uid, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, DefaultTokens, month)
	return err
}

func (s *PGStore) Refund(ctx context.Context, uid, month string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET tokens_remaining = tokens_remaining + 1
		WHERE uid = $1 AND last_reset_month = $2 AND tokens_remaining < $3
	`, uid, month, DefaultTokens)
	return err
}

type usage struct {
	remaining int
	month     string
}

// MemoryStore is the in-process variant used without a database.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]usage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]usage)}
}

func (m *MemoryStore) UseToken(_ context.Context, uid, month string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return ErrInsufficientTokens
	}
	if u.month < month {
		u = usage{remaining: DefaultTokens, month: month}
	}
	if u.remaining <= 0 {
		return ErrInsufficientTokens
	}
	u.remaining--
	m.users[uid] = u
	return nil
}

func (m *MemoryStore) EnsureUser(_ context.Context, uid, month string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[uid]; !ok {
		m.users[uid] = usage{remaining: DefaultTokens, month: month}
	}
	return nil
}

func (m *MemoryStore) Refund(_ context.Context, uid, month string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok || u.month != month || u.remaining >= DefaultTokens {
		return nil
	}
	u.remaining++
	m.users[uid] = u
	return nil
}
