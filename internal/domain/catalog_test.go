package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateBookings(t *testing.T) {
	hotels := ConsoleHotels()

	bookings, err := SimulateBookings(hotels, 42, 12)
	require.NoError(t, err)
	require.Len(t, bookings, len(hotels)*12)

	for _, b := range bookings {
		assert.GreaterOrEqual(t, b.Nights, 20)
		assert.Less(t, b.Nights, 60)
		assert.GreaterOrEqual(t, b.Guests, 1)
		assert.Less(t, b.Guests, 4)
	}

	first := bookings[0]
	assert.Equal(t, "B_H001_0", first.ID)
	assert.Equal(t, CityDelhi, first.Destination)
	assert.InDelta(t, 5500*float64(first.Nights), first.TotalAmount, 1e-9)

	again, err := SimulateBookings(hotels, 42, 12)
	require.NoError(t, err)
	assert.Equal(t, bookings, again)
}

func TestSimulateBookings_InvalidMonths(t *testing.T) {
	_, err := SimulateBookings(ConsoleHotels(), 1, 0)

	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestDefaultSnapshots(t *testing.T) {
	snaps := DefaultSnapshots()
	require.Len(t, snaps, 4)

	for _, s := range snaps {
		assert.Equal(t, 6, s.Trends.Len(), s.City)
		assert.Len(t, s.Hotels, 2, s.City)
		assert.NotEmpty(t, s.Attractions, s.City)
		assert.Equal(t, s.KPI.Arrivals, s.KPI.Domestic+s.KPI.International, s.City)
		assert.True(t, s.InsertedAt.IsZero())
	}
	assert.Equal(t, []string{"Red Fort", "Qutub Minar", "India Gate", "Lotus Temple", "Humayun's Tomb",
		"Akshardham Temple", "Jama Masjid", "Rashtrapati Bhavan", "National Museum", "Lodhi Gardens"},
		snaps[0].Attractions)
}

func TestKPI_RevenueSplit(t *testing.T) {
	domestic, international := KPI{Revenue: 12200000}.RevenueSplit()
	assert.Equal(t, 9150000, domestic)
	assert.Equal(t, 3050000, international)
}

func TestTrends_LenMismatch(t *testing.T) {
	tr := Trends{Months: []int{1, 2}, Arrivals: []int{1}}
	assert.Equal(t, -1, tr.Len())
}

func TestHotelsIn(t *testing.T) {
	got := HotelsIn(DefaultHotels(), CityMumbai)
	require.Len(t, got, 2)
	assert.Equal(t, "H002", got[0].ID)
	assert.Equal(t, "H006", got[1].ID)
	assert.Empty(t, HotelsIn(DefaultHotels(), "Nowhere"))
}

func TestPointFilter_Match(t *testing.T) {
	p := MonthPoint{City: CityDelhi, CalendarMonth: 3, Year: 2024}

	assert.True(t, PointFilter{}.Match(p))
	assert.True(t, PointFilter{City: CityDelhi, CalendarMonth: 3, Year: 2024}.Match(p))
	assert.False(t, PointFilter{City: CityMumbai}.Match(p))
	assert.False(t, PointFilter{CalendarMonth: 4}.Match(p))
	assert.False(t, PointFilter{Year: 2023}.Match(p))
}

func TestNewStoreError(t *testing.T) {
	assert.NoError(t, NewStoreError("insert", nil))

	cause := assert.AnError
	err := NewStoreError("insert", cause)
	var unavailable *StoreUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "insert", unavailable.Op)
	assert.ErrorIs(t, err, cause)
}
