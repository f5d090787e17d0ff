// Package tracker accumulates the distance travelled by the mouse cursor and
// keeps the total on disk. It is the backend the distance counter polls.
package tracker

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

const (
	// DefaultMetersPerPixel assumes a 96 dpi screen.
	DefaultMetersPerPixel = 0.000264583

	DefaultSampleInterval = 200 * time.Millisecond
	DefaultSaveInterval   = 60 * time.Second
)

// CursorSource reports the current cursor position in screen pixels.
type CursorSource interface {
	Location() (x, y int)
}

// Config holds the sampling parameters.
type Config struct {
	MetersPerPixel float64
	SampleInterval time.Duration
	SaveInterval   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MetersPerPixel <= 0 {
		c.MetersPerPixel = DefaultMetersPerPixel
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = DefaultSaveInterval
	}
	return c
}

// Tracker samples a CursorSource and sums the distance between samples.
type Tracker struct {
	cfg    Config
	source CursorSource
	store  *Store

	// saveMu orders writes to the store; it is taken before mu.
	saveMu sync.Mutex

	mu       sync.Mutex
	lastX    int
	lastY    int
	meters   float64
	lastSave time.Time
	now      func() time.Time
}

// New creates a tracker seeded with the stored total and the current cursor
// position.
func New(cfg Config, source CursorSource, store *Store) *Tracker {
	t := &Tracker{
		cfg:    cfg.withDefaults(),
		source: source,
		store:  store,
		now:    time.Now,
	}

	meters, err := store.Load()
	if err != nil {
		log.Printf("Failed to load counter, starting from zero. %v", err)
	}
	t.meters = meters
	t.lastX, t.lastY = source.Location()
	t.lastSave = t.now()

	log.Printf("Loaded counter from %s: %.4f m", store.Path(), meters)
	return t
}

// Sample reads the cursor once and adds the travelled distance. The counter
// is saved when SaveInterval has elapsed since the last save.
func (t *Tracker) Sample() {
	x, y := t.source.Location()

	t.mu.Lock()
	dx := float64(x - t.lastX)
	dy := float64(y - t.lastY)
	t.meters += math.Hypot(dx, dy) * t.cfg.MetersPerPixel
	t.lastX, t.lastY = x, y

	save := t.now().Sub(t.lastSave) >= t.cfg.SaveInterval
	t.mu.Unlock()

	if save {
		if err := t.persist(); err != nil {
			log.Printf("Periodic save failed: %v", err)
		}
	}
}

// persist writes the current total. The value is read under saveMu so a
// save that started before a reset can never land after the reset's zero.
func (t *Tracker) persist() error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	meters := t.meters
	t.lastSave = t.now()
	t.mu.Unlock()

	return t.store.Save(meters)
}

// Run samples until ctx is cancelled, then saves the counter.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := t.Save(); err != nil {
				log.Printf("Failed to save counter on shutdown: %v", err)
			}
			return
		case <-ticker.C:
			t.Sample()
		}
	}
}

// Meters returns the total in meters.
func (t *Tracker) Meters() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meters
}

// Save persists the current total.
func (t *Tracker) Save() error {
	if err := t.persist(); err != nil {
		return err
	}
	log.Printf("Counter saved: %.4f m", t.Meters())
	return nil
}

// ReadDistance returns the total in kilometers.
func (t *Tracker) ReadDistance(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return t.Meters() / 1000, nil
}

// ResetDistance zeroes the total and writes it through to disk. The
// in-memory total stays zero even when the write fails.
func (t *Tracker) ResetDistance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	t.meters = 0
	t.lastSave = t.now()
	t.mu.Unlock()

	return t.store.Save(0)
}
