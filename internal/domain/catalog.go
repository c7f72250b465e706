package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

// Destination is a city profile as shown in the console report.
type Destination struct {
	ID            string      `json:"destination_id" bson:"destination_id"`
	Name          string      `json:"name" bson:"name"`
	Country       string      `json:"country" bson:"country"`
	Attractions   []string    `json:"attractions" bson:"attractions"`
	Rating        float64     `json:"rating" bson:"rating"`
	PopularSeason string      `json:"popular_season" bson:"popular_season"`
	Coordinates   Coordinates `json:"coordinates" bson:"coordinates"`
}

// Hotel is a property in one destination.
type Hotel struct {
	ID             string  `json:"hotel_id" bson:"hotel_id"`
	Name           string  `json:"name" bson:"name"`
	Destination    string  `json:"destination" bson:"destination"`
	StarRating     int     `json:"star_rating" bson:"star_rating"`
	TotalRooms     int     `json:"total_rooms" bson:"total_rooms"`
	AvailableRooms int     `json:"available_rooms" bson:"available_rooms"`
	PricePerNight  float64 `json:"price_per_night" bson:"price_per_night"`
	OccupancyRate  float64 `json:"occupancy_rate" bson:"occupancy_rate"`
}

// Booking is a simulated stay used for hotel revenue.
type Booking struct {
	ID          string  `json:"booking_id" bson:"booking_id"`
	Destination string  `json:"destination" bson:"destination"`
	HotelID     string  `json:"hotel_id" bson:"hotel_id"`
	Nights      int     `json:"nights" bson:"nights"`
	Guests      int     `json:"guests" bson:"guests"`
	TotalAmount float64 `json:"total_amount" bson:"total_amount"`
}

// KPI is the headline block of a dashboard snapshot.
type KPI struct {
	Arrivals      int     `json:"arr" bson:"arr"`
	Revenue       float64 `json:"rev" bson:"rev"`
	Occupancy     float64 `json:"occ" bson:"occ"`
	Domestic      int     `json:"domestic" bson:"domestic"`
	International int     `json:"international" bson:"international"`
}

// Trends holds parallel six-month series for the dashboard trend chart.
// Months are calendar months 1..12.
type Trends struct {
	Months        []int     `json:"months" bson:"months"`
	Arrivals      []int     `json:"arrivals" bson:"arrivals"`
	Domestic      []int     `json:"domestic" bson:"domestic"`
	International []int     `json:"international" bson:"international"`
	Revenue       []float64 `json:"revenue" bson:"revenue"`
	Occupancy     []float64 `json:"occupancy" bson:"occupancy"`
}

// Len returns the number of months in the trend, or -1 when the series disagree in length.
func (t Trends) Len() int {
	n := len(t.Months)
	for _, l := range []int{len(t.Arrivals), len(t.Domestic), len(t.International), len(t.Revenue), len(t.Occupancy)} {
		if l != n {
			return -1
		}
	}
	return n
}

// CitySnapshot is one dashboard document: everything shown for a city.
type CitySnapshot struct {
	City        string    `json:"city" bson:"city"`
	KPI         KPI       `json:"kpi" bson:"kpi"`
	Hotels      []Hotel   `json:"hotels" bson:"hotels"`
	Trends      Trends    `json:"trends" bson:"trends"`
	Attractions []string  `json:"attractions" bson:"attractions"`
	InsertedAt  time.Time `json:"inserted_at" bson:"inserted_at"`
}

// Revenue split applied to a snapshot's KPI revenue.
const (
	DomesticRevenueShare      = 0.75
	InternationalRevenueShare = 0.25
)

// RevenueSplit returns the domestic and international shares of the KPI revenue,
// truncated to whole units.
func (k KPI) RevenueSplit() (domestic, international int) {
	return int(k.Revenue * DomesticRevenueShare), int(k.Revenue * InternationalRevenueShare)
}

// DefaultDestinations returns the destinations seeded for the console report.
func DefaultDestinations() []Destination {
	return []Destination{
		{ID: "D001", Name: CityDelhi, Country: "India", Attractions: []string{"Red Fort", "Qutub Minar", "India Gate"}, Rating: 4.6, PopularSeason: "Winter", Coordinates: Coordinates{Lat: 28.6139, Lon: 77.2090}},
		{ID: "D002", Name: CityMumbai, Country: "India", Attractions: []string{"Gateway of India", "Marine Drive", "Elephanta Caves"}, Rating: 4.7, PopularSeason: "Winter", Coordinates: Coordinates{Lat: 19.0760, Lon: 72.8777}},
		{ID: "D003", Name: CityBangalore, Country: "India", Attractions: []string{"Lalbagh", "Vidhana Soudha", "Bangalore Palace"}, Rating: 4.5, PopularSeason: "Winter", Coordinates: Coordinates{Lat: 12.9716, Lon: 77.5946}},
		{ID: "D004", Name: CityKolkata, Country: "India", Attractions: []string{"Victoria Memorial", "Howrah Bridge", "Dakshineswar Temple"}, Rating: 4.4, PopularSeason: "Winter", Coordinates: Coordinates{Lat: 22.5726, Lon: 88.3639}},
	}
}

// DefaultHotels returns the hotel catalog. The first four are the flagship
// properties used by the console report; the rest appear on the dashboard only.
func DefaultHotels() []Hotel {
	return []Hotel{
		{ID: "H001", Name: "The Delhi Grand", Destination: CityDelhi, StarRating: 5, TotalRooms: 250, AvailableRooms: 28, PricePerNight: 5500, OccupancyRate: 82},
		{ID: "H002", Name: "Mumbai Palace", Destination: CityMumbai, StarRating: 5, TotalRooms: 220, AvailableRooms: 44, PricePerNight: 6500, OccupancyRate: 80},
		{ID: "H003", Name: "Bangalore Residency", Destination: CityBangalore, StarRating: 4, TotalRooms: 180, AvailableRooms: 36, PricePerNight: 4300, OccupancyRate: 75},
		{ID: "H004", Name: "Kolkata Heritage", Destination: CityKolkata, StarRating: 4, TotalRooms: 200, AvailableRooms: 40, PricePerNight: 4900, OccupancyRate: 77},
		{ID: "H005", Name: "Royal Residency", Destination: CityDelhi, StarRating: 4, TotalRooms: 140, AvailableRooms: 35, PricePerNight: 3500, OccupancyRate: 75},
		{ID: "H006", Name: "Marine View", Destination: CityMumbai, StarRating: 4, TotalRooms: 201, AvailableRooms: 60, PricePerNight: 4800, OccupancyRate: 70},
		{ID: "H007", Name: "Palace Inn", Destination: CityBangalore, StarRating: 3, TotalRooms: 180, AvailableRooms: 59, PricePerNight: 2800, OccupancyRate: 67},
		{ID: "H008", Name: "Sunshine Hotel", Destination: CityKolkata, StarRating: 3, TotalRooms: 122, AvailableRooms: 44, PricePerNight: 2100, OccupancyRate: 64},
	}
}

// ConsoleHotels returns the flagship hotels seeded for the console report.
func ConsoleHotels() []Hotel {
	return DefaultHotels()[:4]
}

// HotelsIn filters hotels by destination, preserving order.
func HotelsIn(hotels []Hotel, city string) []Hotel {
	var out []Hotel
	for _, h := range hotels {
		if h.Destination == city {
			out = append(out, h)
		}
	}
	return out
}

// DefaultAttractions returns the longer attraction lists shown on the dashboard.
func DefaultAttractions() map[string][]string {
	return map[string][]string{
		CityDelhi: {"Red Fort", "Qutub Minar", "India Gate", "Lotus Temple", "Humayun's Tomb",
			"Akshardham Temple", "Jama Masjid", "Rashtrapati Bhavan", "National Museum", "Lodhi Gardens"},
		CityMumbai:    {"Gateway of India", "Marine Drive", "Elephanta Caves", "Chhatrapati Shivaji Terminus", "Haji Ali Dargah"},
		CityBangalore: {"Lalbagh", "Cubbon Park", "Bangalore Palace", "Vidhana Soudha", "UB City"},
		CityKolkata:   {"Victoria Memorial", "Howrah Bridge", "Dakshineswar Kali Temple", "Indian Museum", "Prinsep Ghat"},
	}
}

// DefaultSnapshots returns the dashboard dataset, one document per city in
// profile order. InsertedAt is left zero for the caller to stamp.
func DefaultSnapshots() []CitySnapshot {
	hotels := DefaultHotels()
	attractions := DefaultAttractions()
	months := []int{5, 6, 7, 8, 9, 10}

	return []CitySnapshot{
		{
			City: CityDelhi,
			KPI:  KPI{Arrivals: 243400, Revenue: 12200000, Occupancy: 80, Domestic: 182500, International: 60900},
			Trends: Trends{
				Months:        months,
				Arrivals:      []int{135000, 156000, 183000, 205000, 222000, 243400},
				Domestic:      []int{110000, 128000, 146000, 168200, 171000, 182500},
				International: []int{25000, 28000, 37000, 36800, 51000, 60900},
				Revenue:       []float64{6500000, 7500000, 8900000, 9800000, 11200000, 12200000},
				Occupancy:     []float64{67, 71, 76, 78, 81, 80},
			},
			Hotels:      HotelsIn(hotels, CityDelhi),
			Attractions: attractions[CityDelhi],
		},
		{
			City: CityMumbai,
			KPI:  KPI{Arrivals: 254100, Revenue: 12570000, Occupancy: 78, Domestic: 189000, International: 65100},
			Trends: Trends{
				Months:        months,
				Arrivals:      []int{141000, 168000, 191000, 225000, 238000, 254100},
				Domestic:      []int{116600, 142800, 152800, 176000, 179300, 189000},
				International: []int{24400, 25200, 38200, 49000, 58700, 65100},
				Revenue:       []float64{7100000, 7950000, 9620000, 11000000, 11800000, 12570000},
				Occupancy:     []float64{65, 72, 74, 75, 77, 78},
			},
			Hotels:      HotelsIn(hotels, CityMumbai),
			Attractions: attractions[CityMumbai],
		},
		{
			City: CityBangalore,
			KPI:  KPI{Arrivals: 186400, Revenue: 8300000, Occupancy: 74, Domestic: 155300, International: 31100},
			Trends: Trends{
				Months:        months,
				Arrivals:      []int{93000, 111000, 141000, 155000, 174000, 186400},
				Domestic:      []int{76000, 94900, 122400, 129700, 143100, 155300},
				International: []int{17000, 16100, 18600, 25300, 30900, 31100},
				Revenue:       []float64{4250000, 5080000, 6830000, 7580000, 8120000, 8300000},
				Occupancy:     []float64{62, 69, 71, 72, 73, 74},
			},
			Hotels:      HotelsIn(hotels, CityBangalore),
			Attractions: attractions[CityBangalore],
		},
		{
			City: CityKolkata,
			KPI:  KPI{Arrivals: 201800, Revenue: 9650000, Occupancy: 76, Domestic: 161600, International: 40200},
			Trends: Trends{
				Months:        months,
				Arrivals:      []int{105000, 121000, 153000, 172000, 188000, 201800},
				Domestic:      []int{84000, 97500, 127300, 137400, 145100, 161600},
				International: []int{21000, 23500, 25700, 34600, 42900, 40200},
				Revenue:       []float64{5040000, 6350000, 7500000, 8620000, 9410000, 9650000},
				Occupancy:     []float64{61, 64, 69, 70, 73, 76},
			},
			Hotels:      HotelsIn(hotels, CityKolkata),
			Attractions: attractions[CityKolkata],
		},
	}
}

// Booking simulation bounds (half-open).
const (
	minNights = 20
	maxNights = 60
	minGuests = 1
	maxGuests = 4
)

// SimulateBookings produces one booking per hotel per month with nights in
// [20, 60) and guests in [1, 4). The result depends only on the inputs.
func SimulateBookings(hotels []Hotel, seed int64, months int) ([]Booking, error) {
	if months <= 0 {
		return nil, &InvalidArgumentError{Name: "months", Value: months, Reason: "must be positive"}
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0xb00c))

	bookings := make([]Booking, 0, len(hotels)*months)
	for _, h := range hotels {
		for m := range months {
			nights := minNights + rng.IntN(maxNights-minNights)
			bookings = append(bookings, Booking{
				ID:          fmt.Sprintf("B_%s_%d", h.ID, m),
				Destination: h.Destination,
				HotelID:     h.ID,
				Nights:      nights,
				Guests:      minGuests + rng.IntN(maxGuests-minGuests),
				TotalAmount: h.PricePerNight * float64(nights),
			})
		}
	}
	return bookings, nil
}
