package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
)

// PointPublisher fans generated points out to a downstream consumer.
type PointPublisher interface {
	PublishPoints(ctx context.Context, points []domain.MonthPoint) error
}

// Options controls what a seeding run generates.
type Options struct {
	Seed       int64
	MonthCount int
	// StartDate is the first month of every series. Zero means DefaultStartDate(now).
	StartDate time.Time
	// Force reseeds even when the store already holds destinations.
	Force bool
}

// Result summarises one SeedTourism run.
type Result struct {
	Skipped      bool
	StartDate    time.Time
	Destinations int
	Points       int
	Hotels       int
	Bookings     int
	Published    int
}

// DefaultStartDate is the first day of the month 330 days before now, so a
// twelve-month series ends around the current month.
func DefaultStartDate(now time.Time) time.Time {
	d := now.AddDate(0, 0, -330)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Seeder runs the generate, clear, write and publish stages against a store.
// Generation and persistence meet only at the []domain.MonthPoint boundary.
type Seeder struct {
	gen       *domain.Generator
	store     domain.Store
	publisher PointPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
}

// Option customises a Seeder.
type Option func(*Seeder)

// WithPublisher publishes every generated point after the store write.
func WithPublisher(p PointPublisher) Option {
	return func(s *Seeder) { s.publisher = p }
}

// WithClock overrides the wall clock used for start dates and timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Seeder) { s.clock = c }
}

// NewSeeder creates a Seeder. A zero MonthCount falls back to domain.DefaultMonthCount.
func NewSeeder(gen *domain.Generator, store domain.Store, logger *slog.Logger, metrics *observability.Metrics, opts Options, options ...Option) *Seeder {
	if opts.MonthCount == 0 {
		opts.MonthCount = domain.DefaultMonthCount
	}
	s := &Seeder{
		gen:     gen,
		store:   store,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

const (
	datasetTourism   = "tourism"
	datasetSnapshots = "snapshots"
)

// SeedTourism writes the console-report dataset: destinations, generated
// month points for every profile city, flagship hotels and simulated
// bookings. It is a no-op when destinations already exist, unless forced.
func (s *Seeder) SeedTourism(ctx context.Context) (Result, error) {
	begin := s.clock.Now()
	res, err := s.seedTourism(ctx)
	s.observe(datasetTourism, begin, res.Skipped, err)
	return res, err
}

func (s *Seeder) seedTourism(ctx context.Context) (Result, error) {
	if !s.opts.Force {
		n, err := s.store.Count(ctx, domain.CollectionDestinations)
		if err != nil {
			s.metrics.StoreErrors.WithLabelValues("count").Inc()
			return Result{}, err
		}
		if n > 0 {
			s.logger.Info("tourism data already present, skipping seed", "destinations", n)
			return Result{Skipped: true}, nil
		}
	}

	start := s.opts.StartDate
	if start.IsZero() {
		start = DefaultStartDate(s.clock.Now())
	}

	points, err := s.generateAll(ctx, start)
	if err != nil {
		return Result{}, err
	}

	hotels := domain.ConsoleHotels()
	bookings, err := domain.SimulateBookings(hotels, s.opts.Seed, s.opts.MonthCount)
	if err != nil {
		return Result{}, err
	}
	destinations := domain.DefaultDestinations()

	for _, c := range domain.TourismCollections {
		if err := s.store.Clear(ctx, c); err != nil {
			s.metrics.StoreErrors.WithLabelValues("clear").Inc()
			return Result{}, err
		}
	}

	writes := []struct {
		op    string
		write func() error
	}{
		{"insert destinations", func() error { return s.store.InsertDestinations(ctx, destinations) }},
		{"insert points", func() error { return s.store.InsertPoints(ctx, points) }},
		{"insert hotels", func() error { return s.store.InsertHotels(ctx, hotels) }},
		{"insert bookings", func() error { return s.store.InsertBookings(ctx, bookings) }},
	}
	for _, w := range writes {
		if err := w.write(); err != nil {
			s.metrics.StoreErrors.WithLabelValues("insert").Inc()
			return Result{}, err
		}
	}

	res := Result{
		StartDate:    start,
		Destinations: len(destinations),
		Points:       len(points),
		Hotels:       len(hotels),
		Bookings:     len(bookings),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPoints(ctx, points); err != nil {
			return res, fmt.Errorf("publish: %w", err)
		}
		res.Published = len(points)
	}

	s.logger.Info("tourism data seeded",
		"start", start.Format(time.DateOnly),
		"months", s.opts.MonthCount,
		"points", res.Points,
		"bookings", res.Bookings,
		"published", res.Published,
	)
	return res, nil
}

// generateAll runs the generator for every profile city concurrently and
// returns the points concatenated in profile order.
func (s *Seeder) generateAll(ctx context.Context, start time.Time) ([]domain.MonthPoint, error) {
	cities := s.gen.Cities()
	series := make([][]domain.MonthPoint, len(cities))

	g, ctx := errgroup.WithContext(ctx)
	for i, city := range cities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points, err := s.gen.Generate(city, s.opts.Seed, s.opts.MonthCount, start)
			if err != nil {
				return fmt.Errorf("generate %s: %w", city, err)
			}
			series[i] = points
			s.metrics.PointsGenerated.WithLabelValues(city).Add(float64(len(points)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]domain.MonthPoint, 0, len(cities)*s.opts.MonthCount)
	for _, points := range series {
		all = append(all, points...)
	}
	return all, nil
}

// SeedSnapshots replaces the dashboard dataset with snaps, stamping each with
// the current time. The stamped copies are returned.
func (s *Seeder) SeedSnapshots(ctx context.Context, snaps []domain.CitySnapshot) ([]domain.CitySnapshot, error) {
	begin := s.clock.Now()
	out, err := s.seedSnapshots(ctx, snaps, begin)
	s.observe(datasetSnapshots, begin, false, err)
	return out, err
}

func (s *Seeder) seedSnapshots(ctx context.Context, snaps []domain.CitySnapshot, now time.Time) ([]domain.CitySnapshot, error) {
	stamped := make([]domain.CitySnapshot, len(snaps))
	for i, snap := range snaps {
		snap.InsertedAt = now.UTC()
		stamped[i] = snap
	}

	if err := s.store.Clear(ctx, domain.CollectionSnapshots); err != nil {
		s.metrics.StoreErrors.WithLabelValues("clear").Inc()
		return nil, err
	}
	if err := s.store.InsertSnapshots(ctx, stamped); err != nil {
		s.metrics.StoreErrors.WithLabelValues("insert").Inc()
		return nil, err
	}
	s.logger.Info("dashboard snapshots seeded", "cities", len(stamped))
	return stamped, nil
}

func (s *Seeder) observe(dataset string, begin time.Time, skipped bool, err error) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		s.logger.Error("seed failed", "dataset", dataset, "error", err)
	case skipped:
		outcome = "skipped"
	}
	s.metrics.SeedRuns.WithLabelValues(dataset, outcome).Inc()
	s.metrics.SeedDuration.WithLabelValues(dataset).Observe(s.clock.Since(begin).Seconds())
}
