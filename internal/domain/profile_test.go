package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfiles_Valid(t *testing.T) {
	for _, p := range DefaultProfiles() {
		assert.NoError(t, p.Validate(), p.City)
	}
}

func TestShapeProfile_Validate(t *testing.T) {
	valid := func() ShapeProfile {
		return ShapeProfile{
			City:     "Testville",
			Arrivals: SeriesShape{Base: 100, Floor: 10},
			Revenue:  SeriesShape{Base: 1000, Floor: 100},
		}
	}

	tests := []struct {
		name   string
		mutate func(*ShapeProfile)
	}{
		{"missing city", func(p *ShapeProfile) { p.City = "" }},
		{"negative floor", func(p *ShapeProfile) { p.Arrivals.Floor = -1 }},
		{"unknown wave", func(p *ShapeProfile) {
			p.Arrivals.Oscillation = &Oscillation{Func: "tan", Amplitude: 1, Frequency: 1}
		}},
		{"zero cycle period", func(p *ShapeProfile) { p.Revenue.Cycle = &Cycle{Period: 0, Step: 5} }},
		{"negative sigma", func(p *ShapeProfile) { p.Arrivals.Noise.Sigma = -3 }},
		{"mismatched choice", func(p *ShapeProfile) {
			p.Arrivals.Noise.Choice = &Choice{Values: []float64{0, 1}, Weights: []float64{1}}
		}},
		{"zero choice weights", func(p *ShapeProfile) {
			p.Revenue.Noise.Choice = &Choice{Values: []float64{0, 1}, Weights: []float64{0, 0}}
		}},
		{"negative choice weight", func(p *ShapeProfile) {
			p.Revenue.Noise.Choice = &Choice{Values: []float64{0, 1}, Weights: []float64{2, -1}}
		}},
		{"event out of year", func(p *ShapeProfile) {
			p.Events = []Event{{Name: "late", MonthIndex: 12, Arrivals: 10}}
		}},
		{"nan base", func(p *ShapeProfile) { p.Arrivals.Base = math.NaN() }},
		{"inf base", func(p *ShapeProfile) { p.Revenue.Base = math.Inf(1) }},
		{"inf trend", func(p *ShapeProfile) { p.Arrivals.Trend = math.Inf(-1) }},
		{"nan floor", func(p *ShapeProfile) { p.Arrivals.Floor = math.NaN() }},
		{"floor above int range", func(p *ShapeProfile) { p.Revenue.Floor = 1e300 }},
		{"inf sigma", func(p *ShapeProfile) { p.Revenue.Noise.Sigma = math.Inf(1) }},
		{"nan clip", func(p *ShapeProfile) { p.Arrivals.Noise.Clip = math.NaN() }},
		{"inf amplitude", func(p *ShapeProfile) {
			p.Arrivals.Oscillation = &Oscillation{Func: WaveSin, Amplitude: math.Inf(1), Frequency: 1}
		}},
		{"nan frequency", func(p *ShapeProfile) {
			p.Arrivals.Oscillation = &Oscillation{Func: WaveSin, Amplitude: 1, Frequency: math.NaN()}
		}},
		{"inf cycle step", func(p *ShapeProfile) { p.Revenue.Cycle = &Cycle{Period: 3, Step: math.Inf(1)} }},
		{"nan choice value", func(p *ShapeProfile) {
			p.Arrivals.Noise.Choice = &Choice{Values: []float64{0, math.NaN()}, Weights: []float64{1, 1}}
		}},
		{"inf choice weight", func(p *ShapeProfile) {
			p.Arrivals.Noise.Choice = &Choice{Values: []float64{0, 1}, Weights: []float64{1, math.Inf(1)}}
		}},
		{"nan event arrivals", func(p *ShapeProfile) {
			p.Events = []Event{{Name: "fair", MonthIndex: 3, Arrivals: math.NaN()}}
		}},
		{"inf event revenue per arrival", func(p *ShapeProfile) {
			p.Events = []Event{{Name: "fair", MonthIndex: 3, Arrivals: 10, RevenuePerArrival: math.Inf(1)}}
		}},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)
		})
	}
}

func TestSeriesShape_Deterministic(t *testing.T) {
	s := SeriesShape{
		Base:        100,
		Trend:       10,
		Oscillation: &Oscillation{Func: WaveCos, Amplitude: 50, Frequency: 0},
		Cycle:       &Cycle{Period: 3, Step: 7},
	}

	// cos(0) = 1 at every month when frequency is zero.
	assert.InDelta(t, 150.0, s.deterministic(0), 1e-9)
	assert.InDelta(t, 100+20+50+14, s.deterministic(2), 1e-9)
	assert.InDelta(t, 100+30+50+0, s.deterministic(3), 1e-9)
}

func TestLoadProfiles(t *testing.T) {
	doc := `
profiles:
  - city: Goa
    arrivals:
      base: 30000
      trend: 500
      oscillation: {func: sin, amplitude: 9000, frequency: 0.5}
      noise: {sigma: 2000, clip: 2}
      floor: 500
    revenue:
      base: 9000000
      noise:
        choice: {values: [0, 2000000], weights: [0.9, 0.1]}
      floor: 1000000
    events:
      - {name: carnival, month_index: 1, arrivals: 25000, revenue_per_arrival: 150}
`
	profiles, err := LoadProfiles(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	goa := profiles[0]
	assert.Equal(t, "Goa", goa.City)
	require.NotNil(t, goa.Arrivals.Oscillation)
	assert.Equal(t, WaveSin, goa.Arrivals.Oscillation.Func)
	assert.InDelta(t, 2.0, goa.Arrivals.Noise.Clip, 0)
	require.NotNil(t, goa.Revenue.Noise.Choice)
	assert.Equal(t, []float64{0.9, 0.1}, goa.Revenue.Noise.Choice.Weights)
	require.Len(t, goa.Events, 1)
	assert.Equal(t, "carnival", goa.Events[0].Name)

	g, err := NewGenerator(profiles...)
	require.NoError(t, err)
	points, err := g.Generate("Goa", 1, 12, testStart)
	require.NoError(t, err)
	assert.Greater(t, points[1].Arrivals, 25000)
}

func TestLoadProfiles_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "profiles: []\n"},
		{"unknown field", "profiles:\n  - city: X\n    colour: red\n"},
		{"invalid profile", "profiles:\n  - city: X\n    arrivals: {base: 1, floor: -5}\n"},
		{"not yaml", "profiles: [\n"},
		{"nan base", "profiles:\n  - city: X\n    arrivals: {base: .nan, floor: 100}\n"},
		{"inf base and sigma", "profiles:\n  - city: X\n    revenue: {base: .inf, noise: {sigma: .inf}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfiles(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestGenerate_RejectsOverflowingValues(t *testing.T) {
	tests := []struct {
		name    string
		profile ShapeProfile
	}{
		{"arrivals beyond int range", ShapeProfile{
			City:     "Bigtown",
			Arrivals: SeriesShape{Base: 1e19},
			Revenue:  SeriesShape{Base: 1000},
		}},
		{"revenue overflows to inf", ShapeProfile{
			City:     "Bigtown",
			Arrivals: SeriesShape{Base: 100},
			Revenue:  SeriesShape{Base: math.MaxFloat64, Trend: math.MaxFloat64},
		}},
		{"event pushes arrivals out of range", ShapeProfile{
			City:     "Bigtown",
			Arrivals: SeriesShape{Base: 100},
			Revenue:  SeriesShape{Base: 1000},
			Events:   []Event{{Name: "boom", MonthIndex: 1, Arrivals: 1e300}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.profile.Validate())
			g, err := NewGenerator(tt.profile)
			require.NoError(t, err)

			points, err := g.Generate("Bigtown", 1, 3, testStart)
			var invalid *InvalidArgumentError
			require.ErrorAs(t, err, &invalid)
			assert.Nil(t, points, "no partial sequence")
		})
	}
}
