package distance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type slowBackend struct {
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	value    atomic.Int64
	mu       sync.Mutex
}

func (b *slowBackend) ReadDistance(ctx context.Context) (float64, error) {
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		old := b.maxSeen.Load()
		if n <= old || b.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	b.calls.Add(1)
	time.Sleep(b.delay)
	return float64(b.value.Load()), nil
}

func (b *slowBackend) ResetDistance(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value.Store(0)
	return nil
}

func TestPollerUpdatesMeter(t *testing.T) {
	b := &slowBackend{}
	b.value.Store(3)
	m := NewMeter(b)

	updated := make(chan struct{}, 1)
	m.OnChange(func(Snapshot) {
		select {
		case updated <- struct{}{}:
		default:
		}
	})

	p := NewPoller(m, 10*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poller to update the meter")
	}
	if got := m.Distance(); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestPollerNeverOverlapsCalls(t *testing.T) {
	b := &slowBackend{delay: 35 * time.Millisecond}
	m := NewMeter(b)

	p := NewPoller(m, 5*time.Millisecond)
	p.Start(context.Background())
	time.Sleep(200 * time.Millisecond)
	p.Stop()

	if got := b.maxSeen.Load(); got > 1 {
		t.Fatalf("expected at most one outstanding read, saw %d", got)
	}
	if b.calls.Load() == 0 {
		t.Fatal("expected at least one read")
	}
}

func TestPollerStopHaltsCalls(t *testing.T) {
	b := &slowBackend{}
	m := NewMeter(b)

	p := NewPoller(m, 5*time.Millisecond)
	p.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	p.Stop()
	p.Stop()

	after := b.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := b.calls.Load(); got != after {
		t.Fatalf("expected no reads after Stop, got %d more", got-after)
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(NewMeter(&slowBackend{}), 0)
	if p.interval != DefaultPollInterval {
		t.Fatalf("expected %v, got %v", DefaultPollInterval, p.interval)
	}
}
