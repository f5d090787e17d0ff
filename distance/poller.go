package distance

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultPollInterval is the cadence of the poll timer.
const DefaultPollInterval = time.Second

// Poller drives Meter.Poll from a fixed-cadence ticker. It is started once
// when the view becomes active and stopped once when it goes away.
type Poller struct {
	meter    *Meter
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	calls  sync.WaitGroup
}

// NewPoller creates a stopped poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(m *Meter, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{meter: m, interval: interval}
}

// Start launches the tick loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

// Stop halts the tick loop and waits for it to exit. Safe to call more than
// once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.calls.Wait()
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// The read runs on its own goroutine so the ticker keeps its
			// cadence; Poll itself skips while a call is outstanding.
			p.calls.Add(1)
			go func() {
				defer p.calls.Done()
				if !p.meter.Poll(ctx) {
					log.Printf("Poll skipped: previous call still running")
				}
			}()
		}
	}
}
