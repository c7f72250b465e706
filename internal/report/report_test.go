package report

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"

	"github.com/couchcryptid/tourism-intel/internal/adapter/memory"
	"github.com/couchcryptid/tourism-intel/internal/domain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var testStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func fixturePoints() []domain.MonthPoint {
	return []domain.MonthPoint{
		{City: "Mumbai", MonthIndex: 1, CalendarMonth: 2, Year: 2024, Arrivals: 300, Revenue: 3000},
		{City: "Delhi", MonthIndex: 0, CalendarMonth: 1, Year: 2024, Arrivals: 100, Revenue: 1000},
		{City: "Mumbai", MonthIndex: 0, CalendarMonth: 1, Year: 2024, Arrivals: 200, Revenue: 2000},
		{City: "Delhi", MonthIndex: 1, CalendarMonth: 2, Year: 2024, Arrivals: 150, Revenue: 1500},
	}
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	for _, city := range []string{domain.CityDelhi, domain.CityMumbai, domain.CityBangalore, domain.CityKolkata} {
		points, err := domain.Generate(city, 42, 12, testStart)
		require.NoError(t, err)
		require.NoError(t, s.InsertPoints(ctx, points))
	}
	hotels := domain.ConsoleHotels()
	require.NoError(t, s.InsertHotels(ctx, hotels))
	bookings, err := domain.SimulateBookings(hotels, 42, 12)
	require.NoError(t, err)
	require.NoError(t, s.InsertBookings(ctx, bookings))
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- aggregation ---

func TestComputeKPIs(t *testing.T) {
	hotels := []domain.Hotel{{ID: "H1", OccupancyRate: 80}, {ID: "H2", OccupancyRate: 70}}

	k := ComputeKPIs(fixturePoints(), hotels)
	assert.InDelta(t, 750.0, k.TotalArrivals, 0)
	assert.InDelta(t, 7500.0, k.TotalRevenue, 0)
	assert.InDelta(t, 75.0, k.AvgOccupancy, 1e-9)
}

func TestComputeKPIs_Empty(t *testing.T) {
	assert.Equal(t, KPIs{}, ComputeKPIs(nil, nil))
}

func TestRevenueByDestination(t *testing.T) {
	got := RevenueByDestination(fixturePoints())
	assert.Equal(t, []CityTotal{{City: "Delhi", Revenue: 2500}, {City: "Mumbai", Revenue: 5000}}, got)
	assert.Nil(t, RevenueByDestination(nil))
}

func TestRevenueByHotel(t *testing.T) {
	hotels := []domain.Hotel{{ID: "H2", Name: "Second"}, {ID: "H1", Name: "First"}, {ID: "H3", Name: "Empty"}}
	bookings := []domain.Booking{
		{HotelID: "H1", TotalAmount: 100},
		{HotelID: "H2", TotalAmount: 50},
		{HotelID: "H1", TotalAmount: 25},
	}

	got := RevenueByHotel(hotels, bookings)
	require.Len(t, got, 3)
	assert.Equal(t, "Second", got[0].Hotel.Name)
	assert.InDelta(t, 50.0, got[0].Revenue, 0)
	assert.InDelta(t, 125.0, got[1].Revenue, 0)
	assert.InDelta(t, 0.0, got[2].Revenue, 0, "hotel without bookings reports zero")
}

func TestSeriesByCity(t *testing.T) {
	got := SeriesByCity(fixturePoints())
	require.Len(t, got, 2)
	assert.Equal(t, "Mumbai", got[0].City, "first-seen order")
	assert.Equal(t, 0, got[0].Points[0].MonthIndex)
	assert.Equal(t, 1, got[0].Points[1].MonthIndex)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹12,200,000", Rupees(12200000))
	assert.Equal(t, "243,400", Count(243400))
}

// --- console ---

func runConsole(t *testing.T, store domain.Store, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := NewConsole(store, NewCharts(), t.TempDir(), strings.NewReader(input), &out, discardLogger())
	require.NoError(t, c.Run(context.Background(), []string{"Delhi", "Mumbai", "Bangalore", "Kolkata"}))
	return out.String()
}

func TestConsole_Transcript(t *testing.T) {
	out := runConsole(t, seededStore(t), "1\n4\n6\na\n6\nb\n6\nz\n9\n5\n")

	assert.Contains(t, out, "==== Tourism Intelligence (Delhi, Mumbai, Bangalore, Kolkata) ====")
	assert.Contains(t, out, "==== Tourism KPIs ====")
	assert.Contains(t, out, "Total Arrivals: ")
	assert.Contains(t, out, "Avg Occupancy (%): 78.5")
	assert.Contains(t, out, "-- Hotels Data --")
	assert.Contains(t, out, "The Delhi Grand")
	assert.Contains(t, out, "--- Total Revenue by Destination ---")
	assert.Contains(t, out, "Bangalore: ₹")
	assert.Contains(t, out, "--- Revenue by Hotel ---")
	assert.Contains(t, out, "Kolkata Heritage (Kolkata): ₹")
	assert.Contains(t, out, "Invalid subchoice.")
	assert.Contains(t, out, "Invalid.\n")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Goodbye!"))

	// Destinations print in sorted order.
	assert.Less(t, strings.Index(out, "Bangalore: ₹"), strings.Index(out, "Delhi: ₹"))
}

func TestConsole_EOFEndsSession(t *testing.T) {
	out := runConsole(t, memory.New(), "")
	assert.Contains(t, out, "Enter your choice: ")
	assert.NotContains(t, out, "Goodbye!")
}

func TestConsole_NoData(t *testing.T) {
	out := runConsole(t, memory.New(), "2\n4\n6\na\n6\nb\n5\n")

	assert.Equal(t, 3, strings.Count(out, "No data."))
	assert.Contains(t, out, "No hotel or booking data available.")
}

func TestConsole_ChartsWritten(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	c := NewConsole(seededStore(t), NewCharts(), dir, strings.NewReader("2\n3\n5\n"), &out, discardLogger())
	require.NoError(t, c.Run(context.Background(), nil))

	for _, name := range []string{"arrivals_trend.png", "revenue_trend.png"} {
		path := filepath.Join(dir, name)
		assert.Contains(t, out.String(), "Chart saved to "+path)
		assertPNGFile(t, path)
	}
}

func TestConsole_StoreErrorAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	c := NewConsole(memory.New(), NewCharts(), t.TempDir(), strings.NewReader("1\n"), &out, discardLogger())

	err := c.Run(ctx, nil)
	var unavailable *domain.StoreUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

// --- charts ---

func assertPNGFile(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err, path)
}

func TestCharts_RenderPNG(t *testing.T) {
	charts := NewCharts()
	snap := domain.DefaultSnapshots()[0]
	points, err := domain.Generate(domain.CityKolkata, 42, 12, testStart)
	require.NoError(t, err)

	arrivals, err := charts.ArrivalsTrend(points)
	require.NoError(t, err)
	revenue, err := charts.RevenueByDestination(RevenueByDestination(fixturePoints()))
	require.NoError(t, err)
	occupancy, err := charts.HotelOccupancy(snap.Hotels)
	require.NoError(t, err)
	mix, err := charts.TouristMix(snap.KPI)
	require.NoError(t, err)
	trend, err := charts.KPITrend(snap.Trends)
	require.NoError(t, err)

	plots := map[string]*plot.Plot{
		"arrivals":  arrivals,
		"revenue":   revenue,
		"occupancy": occupancy,
		"mix":       mix,
		"trend":     trend,
	}
	for name, p := range plots {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, charts.WritePNG(&buf, p))
			_, err := png.Decode(&buf)
			assert.NoError(t, err)
		})
	}
}

func TestCharts_EmptyInputs(t *testing.T) {
	charts := NewCharts()

	_, err := charts.ArrivalsTrend(nil)
	assert.Error(t, err)
	_, err = charts.RevenueByDestination(nil)
	assert.Error(t, err)
	_, err = charts.HotelOccupancy(nil)
	assert.Error(t, err)
	_, err = charts.TouristMix(domain.KPI{})
	assert.Error(t, err)
	_, err = charts.KPITrend(domain.Trends{})
	assert.Error(t, err)
}

// --- workbook ---

func TestBuildWorkbook(t *testing.T) {
	hotels := []domain.Hotel{
		{ID: "H1", Name: "First", Destination: "Delhi", OccupancyRate: 80, PricePerNight: 100},
		{ID: "H2", Name: "Second", Destination: "Mumbai", OccupancyRate: 70, PricePerNight: 200},
	}
	bookings := []domain.Booking{{HotelID: "H1", TotalAmount: 400}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, Dataset{Points: fixturePoints(), Hotels: hotels, Bookings: bookings}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetArrivals, SheetRevenue, SheetHotels}, f.GetSheetList())

	v, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "750", v)
	v, err = f.GetCellValue(SheetSummary, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Delhi", v)
	v, err = f.GetCellValue(SheetSummary, "B8")
	require.NoError(t, err)
	assert.Equal(t, "5000", v)

	rows, err := f.GetRows(SheetArrivals)
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "Mumbai", "Delhi"}, rows[0])
	assert.Equal(t, []string{"Jan 2024", "200", "100"}, rows[1])
	assert.Equal(t, []string{"Feb 2024", "300", "150"}, rows[2])

	rows, err = f.GetRows(SheetHotels)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "400", rows[1][7])
	assert.Equal(t, "0", rows[2][7])
}
