package domain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	first, err := Generate(CityMumbai, 7, 12, testStart)
	require.NoError(t, err)
	second, err := Generate(CityMumbai, 7, 12, testStart)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same inputs produced different series (-first +second):\n%s", diff)
	}
}

func TestGenerate_SeedChangesNoise(t *testing.T) {
	a, err := Generate(CityDelhi, 1, 12, testStart)
	require.NoError(t, err)
	b, err := Generate(CityDelhi, 2, 12, testStart)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerate_Length(t *testing.T) {
	for _, city := range defaultGenerator.Cities() {
		for _, n := range []int{1, 12, 24} {
			points, err := Generate(city, 3, n, testStart)
			require.NoError(t, err)
			assert.Len(t, points, n, "%s n=%d", city, n)
		}
	}
}

func TestGenerate_FloorInvariant(t *testing.T) {
	for _, p := range DefaultProfiles() {
		for seed := int64(0); seed < 50; seed++ {
			points, err := Generate(p.City, seed, 24, testStart)
			require.NoError(t, err)
			for _, pt := range points {
				assert.GreaterOrEqual(t, float64(pt.Arrivals), p.Arrivals.Floor, "%s seed=%d m=%d", p.City, seed, pt.MonthIndex)
				assert.GreaterOrEqual(t, pt.Revenue, p.Revenue.Floor, "%s seed=%d m=%d", p.City, seed, pt.MonthIndex)
			}
		}
	}
}

func TestGenerate_FloorClampsRawOutput(t *testing.T) {
	g, err := NewGenerator(ShapeProfile{
		City:     "Nowhere Flat",
		Arrivals: SeriesShape{Base: -500, Floor: 250},
		Revenue:  SeriesShape{Base: 10, Floor: 1000},
	})
	require.NoError(t, err)

	points, err := g.Generate("Nowhere Flat", 1, 3, testStart)
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, 250, p.Arrivals)
		assert.InDelta(t, 1000.0, p.Revenue, 0)
	}
}

func TestGenerate_UnknownCity(t *testing.T) {
	points, err := Generate("Nowhere", 1, 12, testStart)

	var unknown *UnknownCityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Nowhere", unknown.City)
	assert.Nil(t, points)
}

func TestGenerate_InvalidMonthCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		points, err := Generate(CityDelhi, 1, n, testStart)

		var invalid *InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "month_count", invalid.Name)
		assert.Nil(t, points)
	}
}

func TestGenerate_UnknownCityCheckedFirst(t *testing.T) {
	_, err := Generate("Nowhere", 1, 0, testStart)

	var unknown *UnknownCityError
	assert.True(t, errors.As(err, &unknown))
}

func TestGenerate_Ordering(t *testing.T) {
	points, err := Generate(CityBangalore, 11, 24, testStart)
	require.NoError(t, err)

	for i, p := range points {
		assert.Equal(t, i, p.MonthIndex)
		assert.Equal(t, CityBangalore, p.City)
	}
}

func TestGenerate_CalendarAxis(t *testing.T) {
	start := time.Date(2024, time.November, 17, 13, 0, 0, 0, time.UTC)
	points, err := Generate(CityDelhi, 1, 4, start)
	require.NoError(t, err)

	got := make([]string, len(points))
	for i, p := range points {
		got[i] = p.Label()
	}
	assert.Equal(t, []string{"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025"}, got)
	assert.Equal(t, 1, points[2].CalendarMonth)
	assert.Equal(t, 2025, points[2].Year)
}

func TestGenerate_PrefixStable(t *testing.T) {
	short, err := Generate(CityKolkata, 99, 6, testStart)
	require.NoError(t, err)
	long, err := Generate(CityKolkata, 99, 24, testStart)
	require.NoError(t, err)

	if diff := cmp.Diff(short, long[:6]); diff != "" {
		t.Fatalf("longer series changed the prefix (-short +long):\n%s", diff)
	}
}

func TestGenerate_KolkataFestivalAndRainfall(t *testing.T) {
	points, err := Generate(CityKolkata, 42, 12, testStart)
	require.NoError(t, err)

	festival := points[KolkataFestivalMonth]
	assert.Equal(t, 10, festival.CalendarMonth, "festival falls in October")
	assert.Greater(t, festival.Arrivals, points[8].Arrivals)
	assert.Greater(t, festival.Arrivals, points[10].Arrivals)

	rainfall := points[KolkataRainfallMonth]
	assert.Less(t, rainfall.Arrivals, points[5].Arrivals)
	assert.Less(t, rainfall.Arrivals, points[7].Arrivals)
}

func TestGenerate_KolkataEventsHoldForAnySeed(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		points, err := Generate(CityKolkata, seed, 12, testStart)
		require.NoError(t, err)

		assert.Greater(t, points[9].Arrivals, points[8].Arrivals, "seed %d", seed)
		assert.Greater(t, points[9].Arrivals, points[10].Arrivals, "seed %d", seed)
		assert.Less(t, points[6].Arrivals, points[5].Arrivals, "seed %d", seed)
		assert.Less(t, points[6].Arrivals, points[7].Arrivals, "seed %d", seed)
	}
}

func TestGenerate_MumbaiSpikesAreCategorical(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		points, err := Generate(CityMumbai, seed, 12, testStart)
		require.NoError(t, err)

		for _, p := range points {
			base := 60000 + 20000*(p.MonthIndex%3)
			spike := p.Arrivals - base
			assert.Contains(t, []int{0, 40000}, spike, "seed %d m=%d", seed, p.MonthIndex)
		}
	}
}

func TestGenerate_BangaloreShocks(t *testing.T) {
	points, err := Generate(CityBangalore, 5, 12, testStart)
	require.NoError(t, err)

	for _, p := range points {
		trend := 35000 + 6000*p.MonthIndex
		assert.Contains(t, []int{-20000, 0, 20000}, p.Arrivals-trend, "m=%d", p.MonthIndex)
	}
}

func TestGenerate_ConcurrentCallersAgree(t *testing.T) {
	want, err := Generate(CityDelhi, 2024, 12, testStart)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]MonthPoint, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Generate(CityDelhi, 2024, 12, testStart)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestNewGenerator_RejectsDuplicateCity(t *testing.T) {
	p := DefaultProfiles()[0]
	_, err := NewGenerator(p, p)
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestNewGenerator_DefaultsWhenEmpty(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	assert.Equal(t, []string{CityDelhi, CityMumbai, CityBangalore, CityKolkata}, g.Cities())

	p, ok := g.Profile(CityKolkata)
	require.True(t, ok)
	assert.Len(t, p.Events, 2)
}
