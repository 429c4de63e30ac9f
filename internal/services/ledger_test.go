package services

import (
	"errors"
	"math"
	"testing"

	"waste-route-service/internal/domain"
)

func TestCapacityLedgerAdmissionSequence(t *testing.T) {
	ledger, err := NewCapacityLedger(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, amount := range []float64{40, 40, 15} {
		if err := ledger.TryAdmit(amount); err != nil {
			t.Fatalf("admit %v: unexpected error: %v", amount, err)
		}
		ledger.Commit(amount)
	}

	if got := ledger.Committed(); got != 95 {
		t.Fatalf("committed = %v, want 95", got)
	}
	if got := ledger.Remaining(); got != 5 {
		t.Fatalf("remaining = %v, want 5", got)
	}

	// 10kg exceeds the remaining 5kg and must leave the ledger unchanged.
	if err := ledger.TryAdmit(10); !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if got := ledger.Committed(); got != 95 {
		t.Fatalf("committed after rejection = %v, want 95", got)
	}

	// An exact fit is still admissible.
	if err := ledger.TryAdmit(5); err != nil {
		t.Fatalf("admit exact remaining: unexpected error: %v", err)
	}
}

func TestCapacityLedgerRejectsBadAmounts(t *testing.T) {
	ledger, err := NewCapacityLedger(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, amount := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if err := ledger.TryAdmit(amount); !errors.Is(err, domain.ErrNotPositive) {
			t.Errorf("TryAdmit(%v) = %v, want ErrNotPositive", amount, err)
		}
	}
}

func TestCapacityLedgerRequiresPositiveLimit(t *testing.T) {
	if _, err := NewCapacityLedger(0); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, err := NewCapacityLedger(-5); err == nil {
		t.Fatal("expected error for negative limit")
	}
}

func TestCapacityLedgerRebuild(t *testing.T) {
	ledger, err := NewCapacityLedger(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ledger.Rebuild([]domain.BinRecord{
		{ID: "a", AmountKg: 20},
		{ID: "b", AmountKg: 30.5},
	})

	if got := ledger.Committed(); got != 50.5 {
		t.Fatalf("committed = %v, want 50.5", got)
	}
}
