// Package distance holds the client side of the distance counter: the
// displayed value, the reset confirmation gate and the poller that keeps the
// value current.
//
// Maintenance notes:
//   - Meter is the only writer of the displayed distance. Poll and
//     ConfirmReset both take callMu so at most one backend call is in flight;
//     Poll uses TryLock and skips the tick instead of queueing behind a
//     running call.
//   - mu guards the two state fields and is never held across a backend call.
//   - Listeners registered with OnChange run on the goroutine that made the
//     change. UI listeners must hop to the UI thread themselves (fyne.Do).
package distance

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
)

// ConfirmState is the state of the reset confirmation gate.
type ConfirmState int

const (
	Idle ConfirmState = iota
	Confirming
)

func (s ConfirmState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	}
	return "unknown"
}

// Snapshot is a consistent copy of the Meter state for rendering.
type Snapshot struct {
	Distance float64
	State    ConfirmState
}

// Meter owns the displayed distance and the confirmation state.
type Meter struct {
	backend Backend

	callMu sync.Mutex

	mu        sync.RWMutex
	distance  float64
	state     ConfirmState
	listeners []func(Snapshot)
}

// NewMeter creates a Meter in the Idle state showing zero.
func NewMeter(b Backend) *Meter {
	return &Meter{backend: b, state: Idle}
}

// OnChange registers fn to be called with a fresh snapshot after every change.
func (m *Meter) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Snapshot returns the current state.
func (m *Meter) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Distance: m.distance, State: m.state}
}

// Distance returns the displayed distance in kilometers.
func (m *Meter) Distance() float64 {
	return m.Snapshot().Distance
}

// State returns the confirmation state.
func (m *Meter) State() ConfirmState {
	return m.Snapshot().State
}

// Poll issues a single ReadDistance and applies a successful result. It
// returns false without calling the backend when another call is still
// outstanding.
func (m *Meter) Poll(ctx context.Context) bool {
	if !m.callMu.TryLock() {
		return false
	}
	changed := m.read(ctx)
	m.callMu.Unlock()

	if changed {
		m.notify()
	}
	return true
}

// read must be called with callMu held so a reset cannot slip in between the
// backend answer and the write of the displayed value.
func (m *Meter) read(ctx context.Context) bool {
	km, err := m.backend.ReadDistance(ctx)
	if ctx.Err() != nil {
		return false
	}
	if err == nil && (km < 0 || math.IsNaN(km) || math.IsInf(km, 0)) {
		err = errors.New("invalid distance value")
	}
	if err != nil {
		log.Printf("Poll failed: %v", &BackendError{Op: "read", Err: err})
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.distance != km
	m.distance = km
	return changed
}

// RequestReset opens the confirmation gate.
func (m *Meter) RequestReset() {
	if m.setState(Confirming) {
		log.Printf("Reset requested, waiting for confirmation")
	}
}

// CancelReset closes the confirmation gate without touching the backend.
func (m *Meter) CancelReset() {
	if m.setState(Idle) {
		log.Printf("Reset cancelled")
	}
}

// ConfirmReset calls ResetDistance while the gate is open. On success the
// displayed distance becomes zero and the gate closes; on failure the gate
// stays open and the BackendError is returned.
func (m *Meter) ConfirmReset(ctx context.Context) error {
	if m.State() != Confirming {
		return nil
	}

	m.callMu.Lock()
	// The gate may have closed while a poll held callMu.
	if m.State() != Confirming {
		m.callMu.Unlock()
		return nil
	}
	err := m.backend.ResetDistance(ctx)
	if err == nil {
		m.mu.Lock()
		m.distance = 0
		m.state = Idle
		m.mu.Unlock()
	}
	m.callMu.Unlock()

	if err != nil {
		berr := &BackendError{Op: "reset", Err: err}
		log.Printf("Reset failed: %v", berr)
		return berr
	}

	log.Printf("Counter reset")
	m.notify()
	return nil
}

func (m *Meter) setState(s ConfirmState) bool {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return false
	}
	m.state = s
	m.mu.Unlock()

	m.notify()
	return true
}

func (m *Meter) notify() {
	m.mu.RLock()
	snap := Snapshot{Distance: m.distance, State: m.state}
	listeners := make([]func(Snapshot), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
