package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"finance-bot/migrations"
)

// Migrate applies the embedded schema through a short-lived database/sql
// handle, which is what goose needs.
func Migrate(ctx context.Context, conn string) error {
	db, err := sql.Open("pgx", conn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	return migrations.Up(ctx, db, "postgres")
}

// Open migrates the database at conn and returns a pooled storage.
func Open(ctx context.Context, conn string) (*Storage, error) {
	if err := Migrate(ctx, conn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return NewStorage(pool), nil
}
