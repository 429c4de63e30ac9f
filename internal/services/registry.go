package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
)

// BinRegistry owns the set of pending bins for one process and is its
// single source of truth. It persists the full set through a BinStore
// after every mutation; independent front ends share state only through
// that store and see each other's writes on their next Load.
type BinRegistry struct {
	mu       sync.Mutex
	store    ports.BinStore
	ledger   *CapacityLedger
	bins     []domain.BinRecord
	onMutate func()
	now      func() time.Time
}

func NewBinRegistry(store ports.BinStore, ledger *CapacityLedger) *BinRegistry {
	return &BinRegistry{
		store:  store,
		ledger: ledger,
		now:    time.Now,
	}
}

// OnMutate registers a hook fired after every successful Add or Clear.
// The route planner uses it to invalidate a planned route.
func (r *BinRegistry) OnMutate(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMutate = fn
}

// Load replaces the in-memory set with the persisted one and rebuilds
// the capacity ledger from it. An unreadable payload yields an empty
// set and domain.ErrStorageCorrupt; the caller logs the condition and
// continues rather than failing destructively.
func (r *BinRegistry) Load(ctx context.Context) error {
	bins, err := r.store.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrStorageCorrupt) {
		return fmt.Errorf("registry load: %w", err)
	}

	r.mu.Lock()
	r.bins = bins
	r.ledger.Rebuild(bins)
	fn := r.onMutate
	r.mu.Unlock()

	if fn != nil {
		fn()
	}

	// Surface corruption after adopting the empty set.
	if err != nil {
		return err
	}
	return nil
}

// Add admits a new bin against the capacity budget, appends it and
// persists the updated set. Ledger commit and append happen under one
// lock so no state exists where capacity is reserved without a record.
//
// A store write failure does not roll back the in-memory set: the
// record stays visible for this session and the caller receives a
// domain.ErrPersistenceFailed-wrapped warning.
func (r *BinRegistry) Add(ctx context.Context, coord domain.Coordinates, amountKg float64, location string) (domain.BinRecord, error) {
	if !coord.Valid() {
		return domain.BinRecord{}, fmt.Errorf("registry add: coordinate must be finite")
	}

	r.mu.Lock()

	if err := r.ledger.TryAdmit(amountKg); err != nil {
		r.mu.Unlock()
		return domain.BinRecord{}, err
	}

	if strings.TrimSpace(location) == "" {
		location = coord.PinnedLabel()
	}

	rec := domain.BinRecord{
		ID:         domain.NewBinID(),
		Location:   location,
		AmountKg:   amountKg,
		Coordinate: coord,
		CreatedAt:  r.now().UTC(),
	}

	r.bins = append(r.bins, rec)
	r.ledger.Commit(amountKg)
	snapshot := r.snapshotLocked()
	fn := r.onMutate
	r.mu.Unlock()

	if fn != nil {
		fn()
	}

	if err := r.store.Save(ctx, snapshot); err != nil {
		return rec, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return rec, nil
}

// Clear removes all records, resets the ledger and persists the empty
// set. Idempotent; a store failure is reported the same degraded way
// as Add.
func (r *BinRegistry) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.bins = nil
	r.ledger.Reset()
	fn := r.onMutate
	r.mu.Unlock()

	if fn != nil {
		fn()
	}

	if err := r.store.Save(ctx, []domain.BinRecord{}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return nil
}

// List returns an insertion-order snapshot of the current set.
func (r *BinRegistry) List() []domain.BinRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Committed returns the current committed weight in kilograms.
func (r *BinRegistry) Committed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Committed()
}

// Remaining returns the unreserved capacity in kilograms.
func (r *BinRegistry) Remaining() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Remaining()
}

// Capacity returns the fixed truck capacity in kilograms.
func (r *BinRegistry) Capacity() float64 {
	return r.ledger.Limit()
}

func (r *BinRegistry) snapshotLocked() []domain.BinRecord {
	out := make([]domain.BinRecord, len(r.bins))
	copy(out, r.bins)
	return out
}
