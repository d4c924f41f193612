package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: write conflicts with existing state
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrCooldownActive: retry requested before the cooldown window elapsed
// - ErrAttemptsExhausted: retry budget permanently spent
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrCooldownActive    = errors.New("cooldown active")
	ErrAttemptsExhausted = errors.New("attempts exhausted")
	ErrUnavailable       = errors.New("unavailable")
)
