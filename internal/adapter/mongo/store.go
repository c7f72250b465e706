// Package mongo implements domain.Store on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// Store is a domain.Store backed by one MongoDB database. Each domain
// collection maps to a Mongo collection of the same name.
type Store struct {
	client  *mongodriver.Client
	db      *mongodriver.Database
	timeout time.Duration
	logger  *slog.Logger
}

var _ domain.Store = (*Store)(nil)

// Connect dials uri, pings the primary and returns a store for database.
// timeout bounds server selection and every subsequent operation.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, domain.NewStoreError("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, domain.NewStoreError("ping", err)
	}

	logger.Info("mongo connected", "database", database)
	return &Store{client: client, db: client.Database(database), timeout: timeout, logger: logger}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return domain.NewStoreError("ping", s.client.Ping(ctx, readpref.Primary()))
}

// Database returns a store sharing this client but addressing another database.
func (s *Store) Database(name string) *Store {
	return &Store{client: s.client, db: s.client.Database(name), timeout: s.timeout, logger: s.logger}
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) coll(c domain.Collection) *mongodriver.Collection {
	return s.db.Collection(string(c))
}

func (s *Store) Clear(ctx context.Context, c domain.Collection) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.coll(c).DeleteMany(ctx, bson.D{})
	if err != nil {
		return domain.NewStoreError("clear "+string(c), err)
	}
	s.logger.Debug("collection cleared", "collection", c, "deleted", res.DeletedCount)
	return nil
}

func (s *Store) Count(ctx context.Context, c domain.Collection) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	n, err := s.coll(c).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, domain.NewStoreError("count "+string(c), err)
	}
	return n, nil
}

func (s *Store) InsertDestinations(ctx context.Context, ds []domain.Destination) error {
	return insertMany(ctx, s, domain.CollectionDestinations, ds)
}

func (s *Store) InsertPoints(ctx context.Context, points []domain.MonthPoint) error {
	return insertMany(ctx, s, domain.CollectionPoints, points)
}

func (s *Store) InsertHotels(ctx context.Context, hotels []domain.Hotel) error {
	return insertMany(ctx, s, domain.CollectionHotels, hotels)
}

func (s *Store) InsertBookings(ctx context.Context, bookings []domain.Booking) error {
	return insertMany(ctx, s, domain.CollectionBookings, bookings)
}

func (s *Store) InsertSnapshots(ctx context.Context, snaps []domain.CitySnapshot) error {
	return insertMany(ctx, s, domain.CollectionSnapshots, snaps)
}

func (s *Store) Destinations(ctx context.Context) ([]domain.Destination, error) {
	return find[domain.Destination](ctx, s, domain.CollectionDestinations, bson.D{}, bson.D{{Key: "destination_id", Value: 1}})
}

// Points returns matching points ordered by city, then month index.
func (s *Store) Points(ctx context.Context, f domain.PointFilter) ([]domain.MonthPoint, error) {
	return find[domain.MonthPoint](ctx, s, domain.CollectionPoints, pointQuery(f),
		bson.D{{Key: "city", Value: 1}, {Key: "month_index", Value: 1}})
}

func (s *Store) Hotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	filter := bson.D{}
	if city != "" {
		filter = bson.D{{Key: "destination", Value: city}}
	}
	return find[domain.Hotel](ctx, s, domain.CollectionHotels, filter, bson.D{{Key: "hotel_id", Value: 1}})
}

func (s *Store) Bookings(ctx context.Context) ([]domain.Booking, error) {
	return find[domain.Booking](ctx, s, domain.CollectionBookings, bson.D{}, nil)
}

func (s *Store) Snapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	return find[domain.CitySnapshot](ctx, s, domain.CollectionSnapshots, bson.D{}, nil)
}

// pointQuery translates a PointFilter; zero fields are left out.
func pointQuery(f domain.PointFilter) bson.D {
	q := bson.D{}
	if f.City != "" {
		q = append(q, bson.E{Key: "city", Value: f.City})
	}
	if f.CalendarMonth != 0 {
		q = append(q, bson.E{Key: "calendar_month", Value: f.CalendarMonth})
	}
	if f.Year != 0 {
		q = append(q, bson.E{Key: "year", Value: f.Year})
	}
	return q
}

func insertMany[T any](ctx context.Context, s *Store, c domain.Collection, records []T) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	docs := make([]any, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	res, err := s.coll(c).InsertMany(ctx, docs)
	if err != nil {
		return domain.NewStoreError("insert "+string(c), err)
	}
	s.logger.Debug("documents inserted", "collection", c, "count", len(res.InsertedIDs))
	return nil
}

func find[T any](ctx context.Context, s *Store, c domain.Collection, filter, sort bson.D) ([]T, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	if sort != nil {
		opts.SetSort(sort)
	}
	cur, err := s.coll(c).Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.NewStoreError("find "+string(c), err)
	}

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, domain.NewStoreError("decode "+string(c), fmt.Errorf("cursor: %w", err))
	}
	return out, nil
}
