package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igorfd2009/cookitie-pix/internal/model"
)

// snapshotKey is the single storage key the whole registry lives under.
const snapshotKey = "payments"

// PostgresStore keeps the registry snapshot in one jsonb row. Load on
// startup, full rewrite on every Save.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]model.PaymentRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM registry_snapshots WHERE key = $1`, snapshotKey,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]model.PaymentRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry snapshot: %w", err)
	}

	records := map[string]model.PaymentRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode registry snapshot: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Save(ctx context.Context, records map[string]model.PaymentRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode registry snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO registry_snapshots (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		snapshotKey, data,
	)
	if err != nil {
		return fmt.Errorf("save registry snapshot: %w", err)
	}
	return nil
}
