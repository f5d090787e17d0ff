package distance

import (
	"context"
	"fmt"
)

// Backend is the capability provider the Meter polls and resets.
type Backend interface {
	// ReadDistance returns the accumulated distance in kilometers.
	ReadDistance(ctx context.Context) (float64, error)
	// ResetDistance zeroes the accumulated distance.
	ResetDistance(ctx context.Context) error
}

// BackendError wraps any failure reported by a Backend call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Format renders kilometers with three decimals, e.g. "1.234 km".
func Format(km float64) string {
	if km < 0 {
		km = 0
	}
	return fmt.Sprintf("%.3f km", km)
}
