package binstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
)

// Postgres-backed bin set store. Mirrors the Redis layout: the whole
// set is one JSON payload in a single row keyed by set name.
type PostgresBinStore struct {
	DB  *sql.DB
	Set string
}

func NewPostgresBinStore(db *sql.DB, set string) (*PostgresBinStore, error) {
	if db == nil {
		return nil, errors.New("bin store: db is nil")
	}
	if strings.TrimSpace(set) == "" {
		return nil, errors.New("bin store: set name must not be empty")
	}
	return &PostgresBinStore{DB: db, Set: set}, nil
}

// Initialize the bin set schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS bin_sets (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create bin_sets: %w", err)
	}

	return nil
}

// Load reads the persisted set; a missing row is a first run.
func (s *PostgresBinStore) Load(ctx context.Context) (_ []domain.BinRecord, err error) {
	defer obs.Time(ctx, "binstore.postgres.Load")(&err)

	q := `
	SELECT payload
	FROM bin_sets
	WHERE name = $1;
	`

	var payload string
	err = s.DB.QueryRowContext(ctx, q, s.Set).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.BinRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bin set: query bin_sets: %w", err)
	}

	var bins []domain.BinRecord
	if err := json.Unmarshal([]byte(payload), &bins); err != nil {
		return []domain.BinRecord{}, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}
	if bins == nil {
		bins = []domain.BinRecord{}
	}

	return bins, nil
}

// Save upserts the full set for this store's set name.
func (s *PostgresBinStore) Save(ctx context.Context, bins []domain.BinRecord) (err error) {
	defer obs.Time(ctx, "binstore.postgres.Save")(&err)

	if bins == nil {
		bins = []domain.BinRecord{}
	}

	payload, err := json.Marshal(bins)
	if err != nil {
		return fmt.Errorf("save bin set: marshal: %w", err)
	}

	q := `
	INSERT INTO bin_sets (name, payload, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, s.Set, string(payload)); err != nil {
		return fmt.Errorf("save bin set: upsert bin_sets: %w", err)
	}

	return nil
}
