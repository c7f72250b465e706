// Package dashboard serves the single-page tourism dashboard: an HTML page
// patched over datastar SSE, a small JSON API and PNG charts, all read from
// the per-city snapshots seeded at startup.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	"github.com/couchcryptid/tourism-intel/internal/report"
)

// SnapshotSeeder replaces the stored snapshot dataset.
type SnapshotSeeder interface {
	SeedSnapshots(ctx context.Context, snaps []domain.CitySnapshot) ([]domain.CitySnapshot, error)
}

// SnapshotReader reads the stored snapshot dataset back.
type SnapshotReader interface {
	Snapshots(ctx context.Context) ([]domain.CitySnapshot, error)
}

var errNotLoaded = errors.New("dashboard snapshots not loaded")

// Dashboard holds the loaded snapshots and renders every view of them.
// It is safe for concurrent use; Load may be called again to refresh.
type Dashboard struct {
	seeder  SnapshotSeeder
	reader  SnapshotReader
	charts  *report.Charts
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	target  string
	pngs    *chartCache

	mu       sync.RWMutex
	snaps    []domain.CitySnapshot
	byCity   map[string]int
	fallback bool
	status   string
	gen      uint64 // bumped by every Load

	ready atomic.Bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithClock overrides the clock used for the default year.
func WithClock(c clockwork.Clock) Option {
	return func(d *Dashboard) { d.clock = c }
}

// WithTarget names the seeded location shown in the status line,
// for example "tourism_dashboard.tourism_stats".
func WithTarget(target string) Option {
	return func(d *Dashboard) { d.target = target }
}

func New(seeder SnapshotSeeder, reader SnapshotReader, charts *report.Charts, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Dashboard {
	d := &Dashboard{
		seeder:  seeder,
		reader:  reader,
		charts:  charts,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
		target:  string(domain.CollectionSnapshots),
		pngs:    newChartCache(chartCacheSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load seeds a fresh copy of the built-in snapshots and reads them back.
// A failed seed or an unreadable or empty read-back falls back to the
// built-in snapshots so the page always renders.
func (d *Dashboard) Load(ctx context.Context) {
	seedErr := d.seed(ctx)

	snaps, err := d.reader.Snapshots(ctx)
	fallback := false
	switch {
	case err != nil:
		d.logger.Warn("read dashboard snapshots failed, using built-in data", "error", err)
		fallback = true
	case len(snaps) == 0:
		d.logger.Warn("no dashboard snapshots stored, using built-in data")
		fallback = true
	}
	if fallback {
		snaps = domain.DefaultSnapshots()
	}

	status := fmt.Sprintf("Data inserted into %s (fresh insert each run).", d.target)
	if seedErr != nil || fallback {
		status = "Seed failed, using in-memory mock data."
	}

	byCity := make(map[string]int, len(snaps))
	for i, s := range snaps {
		byCity[s.City] = i
	}

	d.mu.Lock()
	d.snaps = snaps
	d.byCity = byCity
	d.fallback = fallback
	d.status = status
	d.gen++
	d.pngs.reset(d.gen)
	d.mu.Unlock()

	d.metrics.SnapshotsLoaded.Set(float64(len(snaps)))
	if fallback {
		d.metrics.SnapshotFallback.Set(1)
	} else {
		d.metrics.SnapshotFallback.Set(0)
	}
	d.ready.Store(true)
	d.logger.Info("dashboard snapshots loaded", "cities", len(snaps), "fallback", fallback)
}

func (d *Dashboard) seed(ctx context.Context) error {
	if d.seeder == nil {
		return nil
	}
	if _, err := d.seeder.SeedSnapshots(ctx, domain.DefaultSnapshots()); err != nil {
		d.logger.Warn("seed dashboard snapshots failed", "error", err)
		return err
	}
	return nil
}

// CheckReadiness reports whether snapshots have been loaded.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errNotLoaded
	}
	return nil
}

// Cities returns the loaded city names in snapshot order.
func (d *Dashboard) Cities() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.snaps))
	for i, s := range d.snaps {
		out[i] = s.City
	}
	return out
}

// Snapshot returns the snapshot for city.
func (d *Dashboard) Snapshot(city string) (domain.CitySnapshot, error) {
	snap, _, err := d.snapshotAt(city)
	return snap, err
}

// snapshotAt also returns the load generation the snapshot belongs to.
func (d *Dashboard) snapshotAt(city string) (domain.CitySnapshot, uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.byCity[city]
	if !ok {
		return domain.CitySnapshot{}, d.gen, &domain.UnknownCityError{City: city}
	}
	return d.snaps[i], d.gen, nil
}

// Fallback reports whether the built-in snapshots are being served.
func (d *Dashboard) Fallback() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fallback
}

func (d *Dashboard) statusLine() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status, d.fallback
}

func (d *Dashboard) defaultCity() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.snaps) == 0 {
		return ""
	}
	return d.snaps[0].City
}
