package domain

// City identifiers of the built-in profiles.
const (
	CityDelhi     = "Delhi"
	CityMumbai    = "Mumbai"
	CityBangalore = "Bangalore"
	CityKolkata   = "Kolkata"
)

// Calendar event positions in the Kolkata profile.
const (
	KolkataRainfallMonth = 6
	KolkataFestivalMonth = 9
)

// DefaultProfiles returns the four built-in city profiles in seeding order.
// Each call returns fresh values so callers may tune them.
func DefaultProfiles() []ShapeProfile {
	return []ShapeProfile{
		{
			// Gentle periodicity with a steadily growing revenue line.
			City: CityDelhi,
			Arrivals: SeriesShape{
				Base:        45000,
				Oscillation: &Oscillation{Func: WaveSin, Amplitude: 25000, Frequency: 0.5, Offset: 1},
				Noise:       Noise{Sigma: 8000, Clip: 2},
				Floor:       1000,
			},
			Revenue: SeriesShape{
				Base:  18e6,
				Trend: 1.5e6,
				Noise: Noise{Sigma: 1e6, Clip: 2},
				Floor: 1e6,
			},
		},
		{
			// Sawtooth with festive bursts.
			City: CityMumbai,
			Arrivals: SeriesShape{
				Base:  60000,
				Cycle: &Cycle{Period: 3, Step: 20000},
				Noise: Noise{Choice: &Choice{Values: []float64{0, 40000}, Weights: []float64{0.7, 0.3}}},
				Floor: 1500,
			},
			Revenue: SeriesShape{
				Base:  20e6,
				Cycle: &Cycle{Period: 4, Step: 3e6},
				Noise: Noise{Choice: &Choice{Values: []float64{0, 7e6}, Weights: []float64{0.8, 0.2}}},
				Floor: 12e6,
			},
		},
		{
			// Steady climb with tech-event step shocks in either direction.
			City: CityBangalore,
			Arrivals: SeriesShape{
				Base:  35000,
				Trend: 6000,
				Noise: Noise{Choice: &Choice{Values: []float64{-20000, 0, 20000}, Weights: []float64{0.1, 0.7, 0.2}}},
				Floor: 900,
			},
			Revenue: SeriesShape{
				Base:  15e6,
				Trend: 2e6,
				Noise: Noise{Choice: &Choice{Values: []float64{-5e6, 0, 6e6}, Weights: []float64{0.1, 0.6, 0.3}}},
				Floor: 5e6,
			},
		},
		{
			// Seasonal cosine with a festival burst and a monsoon dip.
			City: CityKolkata,
			Arrivals: SeriesShape{
				Base:        42000,
				Oscillation: &Oscillation{Func: WaveCos, Amplitude: 17000, Frequency: 1},
				Noise:       Noise{Sigma: 7000, Clip: 2},
				Floor:       1000,
			},
			Revenue: SeriesShape{
				Base:  12e6,
				Trend: 1.1e6,
				Noise: Noise{Sigma: 1.2e6, Clip: 2},
				Floor: 4e6,
			},
			Events: []Event{
				{Name: "rainfall", MonthIndex: KolkataRainfallMonth, Arrivals: -40000, RevenuePerArrival: 80},
				{Name: "festival", MonthIndex: KolkataFestivalMonth, Arrivals: 85000, RevenuePerArrival: 120},
			},
		},
	}
}
