// Package report aggregates the seeded tourism dataset and presents it as a
// console menu, PNG charts and an Excel workbook.
package report

import (
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/tourism-intel/internal/domain"
)

// pointRow and bookingRow are the dataframe projections of stored records.
type pointRow struct {
	City     string  `dataframe:"city"`
	Arrivals int     `dataframe:"arrivals"`
	Revenue  float64 `dataframe:"revenue"`
}

type bookingRow struct {
	HotelID     string  `dataframe:"hotel_id"`
	TotalAmount float64 `dataframe:"total_amount"`
}

type hotelRow struct {
	HotelID   string  `dataframe:"hotel_id"`
	Occupancy float64 `dataframe:"occupancy_rate"`
}

// KPIs are the headline numbers of the console report.
type KPIs struct {
	TotalArrivals float64
	TotalRevenue  float64
	AvgOccupancy  float64
}

// ComputeKPIs sums arrivals and revenue over all points and averages hotel occupancy.
func ComputeKPIs(points []domain.MonthPoint, hotels []domain.Hotel) KPIs {
	var k KPIs
	if df, ok := pointFrame(points); ok {
		k.TotalArrivals = floats.Sum(df.Col("arrivals").Float())
		k.TotalRevenue = floats.Sum(df.Col("revenue").Float())
	}
	if len(hotels) > 0 {
		rows := make([]hotelRow, len(hotels))
		for i, h := range hotels {
			rows[i] = hotelRow{HotelID: h.ID, Occupancy: h.OccupancyRate}
		}
		k.AvgOccupancy = dataframe.LoadStructs(rows).Col("occupancy_rate").Mean()
	}
	return k
}

// CityTotal is one row of a revenue-by-destination breakdown.
type CityTotal struct {
	City    string
	Revenue float64
}

// RevenueByDestination totals revenue per city, sorted by city name.
func RevenueByDestination(points []domain.MonthPoint) []CityTotal {
	df, ok := pointFrame(points)
	if !ok {
		return nil
	}
	cities := slices.Compact(slices.Sorted(slices.Values(df.Col("city").Records())))

	out := make([]CityTotal, 0, len(cities))
	for _, city := range cities {
		sub := df.Filter(dataframe.F{Colname: "city", Comparator: series.Eq, Comparando: city})
		out = append(out, CityTotal{City: city, Revenue: floats.Sum(sub.Col("revenue").Float())})
	}
	return out
}

// HotelTotal is one row of a revenue-by-hotel breakdown.
type HotelTotal struct {
	Hotel   domain.Hotel
	Revenue float64
}

// RevenueByHotel totals booking amounts per hotel in hotel order. Hotels with
// no bookings report zero.
func RevenueByHotel(hotels []domain.Hotel, bookings []domain.Booking) []HotelTotal {
	out := make([]HotelTotal, len(hotels))
	for i, h := range hotels {
		out[i].Hotel = h
	}
	if len(bookings) == 0 {
		return out
	}

	rows := make([]bookingRow, len(bookings))
	for i, b := range bookings {
		rows[i] = bookingRow{HotelID: b.HotelID, TotalAmount: b.TotalAmount}
	}
	df := dataframe.LoadStructs(rows)

	for i, h := range hotels {
		sub := df.Filter(dataframe.F{Colname: "hotel_id", Comparator: series.Eq, Comparando: h.ID})
		if sub.Nrow() > 0 {
			out[i].Revenue = floats.Sum(sub.Col("total_amount").Float())
		}
	}
	return out
}

// CitySeries is one city's points in month order.
type CitySeries struct {
	City   string
	Points []domain.MonthPoint
}

// SeriesByCity groups points per city, preserving first-seen city order and
// sorting each city's points by month index.
func SeriesByCity(points []domain.MonthPoint) []CitySeries {
	var out []CitySeries
	idx := make(map[string]int)
	for _, p := range points {
		i, ok := idx[p.City]
		if !ok {
			i = len(out)
			idx[p.City] = i
			out = append(out, CitySeries{City: p.City})
		}
		out[i].Points = append(out[i].Points, p)
	}
	for _, s := range out {
		slices.SortFunc(s.Points, func(a, b domain.MonthPoint) int { return a.MonthIndex - b.MonthIndex })
	}
	return out
}

func pointFrame(points []domain.MonthPoint) (dataframe.DataFrame, bool) {
	if len(points) == 0 {
		return dataframe.DataFrame{}, false
	}
	rows := make([]pointRow, len(points))
	for i, p := range points {
		rows[i] = pointRow{City: p.City, Arrivals: p.Arrivals, Revenue: p.Revenue}
	}
	return dataframe.LoadStructs(rows), true
}
