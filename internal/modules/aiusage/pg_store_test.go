package aiusage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teleport/internal/infra"
)

// TestPGStoreQuotaGuard needs a disposable database in TELEPORT_TEST_DSN.
func TestPGStoreQuotaGuard(t *testing.T) {
	dsn := os.Getenv("TELEPORT_TEST_DSN")
	if dsn == "" {
		t.Skip("TELEPORT_TEST_DSN not set")
	}
	if err := infra.Migrate(dsn, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	store := NewPGStore(db)
	uid := fmt.Sprintf("u%d", time.Now().UnixNano())
	month := "2024-03"

	if _, err := db.Exec(ctx,
		`INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month) VALUES ($1, 1, $2)`, uid, month); err != nil {
		t.Fatalf("seed ai_usage: %v", err)
	}

	if err := store.UseToken(ctx, uid, month); err != nil {
		t.Fatalf("first UseToken: %v", err)
	}
	if err := store.UseToken(ctx, uid, month); !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("second UseToken: err = %v, want ErrInsufficientTokens", err)
	}

	// a new month refills the allowance
	if err := store.UseToken(ctx, uid, "2024-04"); err != nil {
		t.Fatalf("UseToken next month: %v", err)
	}
	var remaining int
	if err := db.QueryRow(ctx, `SELECT tokens_remaining FROM ai_usage WHERE uid = $1`, uid).Scan(&remaining); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if remaining != DefaultTokens-1 {
		t.Errorf("remaining = %d, want %d", remaining, DefaultTokens-1)
	}

	if err := store.Refund(ctx, uid, "2024-04"); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if err := db.QueryRow(ctx, `SELECT tokens_remaining FROM ai_usage WHERE uid = $1`, uid).Scan(&remaining); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if remaining != DefaultTokens {
		t.Errorf("remaining after refund = %d, want %d", remaining, DefaultTokens)
	}

	if err := store.EnsureUser(ctx, uid, "2024-04"); err != nil {
		t.Fatalf("EnsureUser on existing row: %v", err)
	}
}
