// Package memory provides an in-process domain.Store.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// Store keeps every collection in memory behind a read-write mutex.
// Reads return copies, so callers may modify them freely.
type Store struct {
	mu           sync.RWMutex
	destinations []domain.Destination
	points       []domain.MonthPoint
	hotels       []domain.Hotel
	bookings     []domain.Booking
	snapshots    []domain.CitySnapshot
}

var _ domain.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Clear(ctx context.Context, c domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("clear "+string(c), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c {
	case domain.CollectionDestinations:
		s.destinations = nil
	case domain.CollectionPoints:
		s.points = nil
	case domain.CollectionHotels:
		s.hotels = nil
	case domain.CollectionBookings:
		s.bookings = nil
	case domain.CollectionSnapshots:
		s.snapshots = nil
	default:
		return domain.NewStoreError("clear", fmt.Errorf("unknown collection %q", c))
	}
	return nil
}

func (s *Store) Count(ctx context.Context, c domain.Collection) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.NewStoreError("count "+string(c), err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch c {
	case domain.CollectionDestinations:
		return int64(len(s.destinations)), nil
	case domain.CollectionPoints:
		return int64(len(s.points)), nil
	case domain.CollectionHotels:
		return int64(len(s.hotels)), nil
	case domain.CollectionBookings:
		return int64(len(s.bookings)), nil
	case domain.CollectionSnapshots:
		return int64(len(s.snapshots)), nil
	}
	return 0, domain.NewStoreError("count", fmt.Errorf("unknown collection %q", c))
}

func (s *Store) InsertDestinations(ctx context.Context, ds []domain.Destination) error {
	return insert(ctx, s, "insert destinations", &s.destinations, ds)
}

func (s *Store) InsertPoints(ctx context.Context, points []domain.MonthPoint) error {
	return insert(ctx, s, "insert points", &s.points, points)
}

func (s *Store) InsertHotels(ctx context.Context, hotels []domain.Hotel) error {
	return insert(ctx, s, "insert hotels", &s.hotels, hotels)
}

func (s *Store) InsertBookings(ctx context.Context, bookings []domain.Booking) error {
	return insert(ctx, s, "insert bookings", &s.bookings, bookings)
}

func (s *Store) InsertSnapshots(ctx context.Context, snaps []domain.CitySnapshot) error {
	return insert(ctx, s, "insert snapshots", &s.snapshots, snaps)
}

func (s *Store) Destinations(ctx context.Context) ([]domain.Destination, error) {
	return read(ctx, s, "find destinations", &s.destinations)
}

// Points returns matching points ordered by city, then month index.
func (s *Store) Points(ctx context.Context, f domain.PointFilter) ([]domain.MonthPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("find points", err)
	}
	s.mu.RLock()
	var out []domain.MonthPoint
	for _, p := range s.points {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.MonthPoint) int {
		return cmp.Or(cmp.Compare(a.City, b.City), cmp.Compare(a.MonthIndex, b.MonthIndex))
	})
	return out, nil
}

func (s *Store) Hotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	hotels, err := read(ctx, s, "find hotels", &s.hotels)
	if err != nil || city == "" {
		return hotels, err
	}
	return domain.HotelsIn(hotels, city), nil
}

func (s *Store) Bookings(ctx context.Context) ([]domain.Booking, error) {
	return read(ctx, s, "find bookings", &s.bookings)
}

func (s *Store) Snapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	return read(ctx, s, "find snapshots", &s.snapshots)
}

func insert[T any](ctx context.Context, s *Store, op string, dst *[]T, src []T) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = append(*dst, src...)
	return nil
}

func read[T any](ctx context.Context, s *Store, op string, src *[]T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(*src), nil
}
