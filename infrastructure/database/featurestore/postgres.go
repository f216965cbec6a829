package featurestore

import (
	"context"
	"encoding/json"
	"fmt"

	"facegate.io/entities"
	"github.com/jackc/pgx/v5"
)

// PostgresPersister keeps one row per label with the descriptor as JSONB.
// Rows are loaded in insertion order; an upsert keeps the row id so an
// overwritten label does not move.
type PostgresPersister struct {
	conn *pgx.Conn
}

func NewPostgresPersister(conn *pgx.Conn) *PostgresPersister {
	return &PostgresPersister{conn: conn}
}

func (p *PostgresPersister) Load(ctx context.Context) ([]Record, error) {
	rows, err := p.conn.Query(ctx, `SELECT label, features::text FROM face_features ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query face features: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var label, raw string
		if err := rows.Scan(&label, &raw); err != nil {
			return nil, err
		}
		var features entities.FaceFeatures
		if err := json.Unmarshal([]byte(raw), &features); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", ErrInvalidSnapshot, label, err)
		}
		records = append(records, Record{Label: label, Features: features})
	}
	return records, rows.Err()
}

func (p *PostgresPersister) Save(ctx context.Context, snapshot []Record, changed Record) error {
	payload, err := json.Marshal(changed.Features)
	if err != nil {
		return err
	}
	_, err = p.conn.Exec(ctx, `
		INSERT INTO face_features (label, features, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (label) DO UPDATE SET features = EXCLUDED.features, updated_at = NOW()
	`, changed.Label, string(payload))
	return err
}

func (p *PostgresPersister) Clear(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, `TRUNCATE face_features`)
	return err
}

func (p *PostgresPersister) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}
