package domain

import "context"

// Collection names a logical group of stored records.
type Collection string

const (
	CollectionDestinations Collection = "destinations"
	CollectionPoints       Collection = "month_points"
	CollectionHotels       Collection = "hotels"
	CollectionBookings     Collection = "bookings"
	CollectionSnapshots    Collection = "tourism_stats"
)

// TourismCollections are the collections written by a console-report seed.
var TourismCollections = []Collection{
	CollectionDestinations,
	CollectionPoints,
	CollectionHotels,
	CollectionBookings,
}

// Store persists generated and catalog records. Implementations return
// *StoreUnavailableError for every I/O failure.
type Store interface {
	// Clear removes every record of one collection.
	Clear(ctx context.Context, c Collection) error
	// Count returns the number of records in one collection.
	Count(ctx context.Context, c Collection) (int64, error)

	InsertDestinations(ctx context.Context, ds []Destination) error
	InsertPoints(ctx context.Context, points []MonthPoint) error
	InsertHotels(ctx context.Context, hotels []Hotel) error
	InsertBookings(ctx context.Context, bookings []Booking) error
	InsertSnapshots(ctx context.Context, snaps []CitySnapshot) error

	Destinations(ctx context.Context) ([]Destination, error)
	// Points returns matching points ordered by city, then month index.
	Points(ctx context.Context, f PointFilter) ([]MonthPoint, error)
	// Hotels returns hotels of one city, or all hotels when city is empty.
	Hotels(ctx context.Context, city string) ([]Hotel, error)
	Bookings(ctx context.Context) ([]Booking, error)
	Snapshots(ctx context.Context) ([]CitySnapshot, error)
}
