package domain

import (
	"errors"
	"fmt"
)

// Validation and lifecycle errors surfaced by the core. All are
// recovered at the boundary where they occur and turned into
// user-facing responses; none should crash the surrounding process.
var (
	// ErrNotPositive rejects a non-positive or non-finite bin weight.
	ErrNotPositive = errors.New("amount must be a positive number")
	// ErrCapacityExceeded rejects a submission that would push the
	// committed weight past the truck capacity.
	ErrCapacityExceeded = errors.New("amount exceeds remaining truck capacity")
	// ErrNoBins rejects a route request over an empty registry.
	ErrNoBins = errors.New("no bins registered")
	// ErrPlanInFlight reports a plan request while one is already in flight.
	ErrPlanInFlight = errors.New("route planning already in progress")
	// ErrAlreadyPlanned reports a plan request while a plan is current.
	ErrAlreadyPlanned = errors.New("route already planned")
	// ErrPlanSuperseded reports a routing result that arrived after the
	// plan was cleared or the bin set mutated; the result is discarded.
	ErrPlanSuperseded = errors.New("route result discarded: plan superseded")
	// ErrStorageCorrupt signals an unreadable persisted bin set; the
	// caller proceeds from an empty set.
	ErrStorageCorrupt = errors.New("persisted bin set is corrupt")
	// ErrPersistenceFailed signals a store write failure; the in-memory
	// set is kept and the session continues in degraded mode.
	ErrPersistenceFailed = errors.New("bin set persistence failed")
)

// RoutingError carries the status reported by the external directions
// or geocoding service.
type RoutingError struct {
	Status string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing service returned status %s", e.Status)
}
