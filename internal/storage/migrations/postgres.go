package migrations

import (
	"context"
	"fmt"

	"goz-scoring/internal/storage/postgres"
)

// RunPostgresMigrations applies all embedded SQL files in lexical order.
// Migrations are idempotent (CREATE ... IF NOT EXISTS), so re-running is safe.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	migrations, err := PostgresMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		// No arguments, so pgx uses the simple protocol and accepts
		// multiple statements per file.
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}

	return nil
}
