package services

import (
	"fmt"
	"math"

	"waste-route-service/internal/domain"
)

// CapacityLedger tracks cumulative reported weight against a fixed
// truck capacity. The invariant committed <= limit holds after every
// successful admission; a rejected admission leaves the ledger
// untouched. The ledger is not safe for concurrent use on its own —
// the owning registry serializes access.
type CapacityLedger struct {
	limit     float64
	committed float64
}

func NewCapacityLedger(limitKg float64) (*CapacityLedger, error) {
	if limitKg <= 0 || math.IsNaN(limitKg) || math.IsInf(limitKg, 0) {
		return nil, fmt.Errorf("capacity ledger: limit must be a positive finite number, got %v", limitKg)
	}
	return &CapacityLedger{limit: limitKg}, nil
}

// TryAdmit decides synchronously whether a new submission fits.
// It does not reserve anything; the caller commits the weight together
// with the registry append so no partial state can exist.
func (l *CapacityLedger) TryAdmit(amountKg float64) error {
	if amountKg <= 0 || math.IsNaN(amountKg) || math.IsInf(amountKg, 0) {
		return domain.ErrNotPositive
	}
	if amountKg > l.limit-l.committed {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// Commit records an admitted weight. Callers must have passed TryAdmit
// with the same amount.
func (l *CapacityLedger) Commit(amountKg float64) {
	l.committed += amountKg
}

// Reset drops the committed total to zero.
func (l *CapacityLedger) Reset() {
	l.committed = 0
}

// Rebuild recomputes the committed total from a loaded bin set.
func (l *CapacityLedger) Rebuild(bins []domain.BinRecord) {
	l.committed = 0
	for _, b := range bins {
		l.committed += b.AmountKg
	}
}

func (l *CapacityLedger) Limit() float64     { return l.limit }
func (l *CapacityLedger) Committed() float64 { return l.committed }
func (l *CapacityLedger) Remaining() float64 { return l.limit - l.committed }
