package datastore

import (
	"context"
	"fmt"

	"facegate.io/infrastructure/logger"
	"github.com/jackc/pgx/v5"
)

// ConnectPostgres opens a connection and makes sure the face_features table
// exists.
func ConnectPostgres(ctx context.Context, connString string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logger.Info("connected to postgres successfully")
	return conn, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS face_features (
			id BIGSERIAL PRIMARY KEY,
			label TEXT NOT NULL UNIQUE,
			features JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);
	`
	_, err := conn.Exec(ctx, query)
	return err
}
