package ports

import (
	"context"

	"waste-route-service/internal/domain"
)

// Port: a boundary for persisting the shared bin set.
//
// The whole set lives under one fixed key as a serialized sequence of
// records. Two independent front ends synchronize only through this
// store; concurrent writers race last-write-wins.
type BinStore interface {
	// Load reads the persisted set. A missing key is a first run and
	// yields an empty set with no error; an unreadable payload yields
	// an empty set and domain.ErrStorageCorrupt.
	Load(ctx context.Context) ([]domain.BinRecord, error)
	// Save persists the full set, replacing any previous value.
	Save(ctx context.Context, bins []domain.BinRecord) error
}
