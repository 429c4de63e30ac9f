package binstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"waste-route-service/internal/domain"
)

func newTestStore(t *testing.T) (*RedisBinStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisBinStore(client, "waste:bins")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store, mr
}

func TestRedisBinStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	bins := []domain.BinRecord{
		{
			ID:         "a1",
			Location:   "Town Hall",
			AmountKg:   18.5,
			Coordinate: domain.Coordinates{Lat: 6.9147, Lng: 79.8731},
			CreatedAt:  time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:         "b2",
			Location:   "Pinned: 6.901600, 79.856800",
			AmountKg:   25,
			Coordinate: domain.Coordinates{Lat: 6.9016, Lng: 79.8568},
			CreatedAt:  time.Date(2026, 8, 1, 9, 5, 0, 0, time.UTC),
		},
	}

	if err := store.Save(ctx, bins); err != nil {
		t.Fatalf("save: unexpected error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: unexpected error: %v", err)
	}

	if len(got) != len(bins) {
		t.Fatalf("expected %d records, got %d", len(bins), len(got))
	}
	for i := range bins {
		if got[i].ID != bins[i].ID ||
			got[i].Location != bins[i].Location ||
			got[i].AmountKg != bins[i].AmountKg ||
			got[i].Coordinate != bins[i].Coordinate ||
			!got[i].CreatedAt.Equal(bins[i].CreatedAt) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], bins[i])
		}
	}
}

func TestRedisBinStoreFirstRunIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set on first run, got %d records", len(got))
	}
}

func TestRedisBinStoreCorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Set("waste:bins", "{not json")

	got, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrStorageCorrupt) {
		t.Fatalf("expected ErrStorageCorrupt, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("corrupt payload must yield an empty set, got %d records", len(got))
	}
}

func TestRedisBinStoreSaveReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first := []domain.BinRecord{{ID: "a", AmountKg: 10, Coordinate: domain.Coordinates{Lat: 1, Lng: 1}}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save(ctx, []domain.BinRecord{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected cleared set, got %d records", len(got))
	}
}
