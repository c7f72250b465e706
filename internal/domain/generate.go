package domain

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMonthCount is the length of a series when the caller has no preference.
const DefaultMonthCount = 12

// Generator produces synthetic monthly series from a fixed set of shape profiles.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	profiles map[string]ShapeProfile
	order    []string
}

// NewGenerator validates the profiles and indexes them by city. With no
// profiles the built-in defaults are used.
func NewGenerator(profiles ...ShapeProfile) (*Generator, error) {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	g := &Generator{profiles: make(map[string]ShapeProfile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := g.profiles[p.City]; dup {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrInvalidProfile, p.City)
		}
		g.profiles[p.City] = p
		g.order = append(g.order, p.City)
	}
	return g, nil
}

// Cities returns the configured cities in profile order.
func (g *Generator) Cities() []string {
	return slices.Clone(g.order)
}

// Profile returns the shape profile configured for city.
func (g *Generator) Profile(city string) (ShapeProfile, bool) {
	p, ok := g.profiles[city]
	return p, ok
}

// Generate returns monthCount points for city, starting at the calendar month
// containing start. Every point is a pure function of (city, seed, month index):
// each one draws from its own random stream, so the same inputs always yield
// the same sequence and a longer series extends a shorter one.
func (g *Generator) Generate(city string, seed int64, monthCount int, start time.Time) ([]MonthPoint, error) {
	profile, ok := g.profiles[city]
	if !ok {
		return nil, &UnknownCityError{City: city}
	}
	if monthCount <= 0 {
		return nil, &InvalidArgumentError{Name: "month_count", Value: monthCount, Reason: "must be positive"}
	}

	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	cityKey := hashCity(city)

	points := make([]MonthPoint, monthCount)
	for m := range monthCount {
		date := first.AddDate(0, m, 0)
		arrivals, revenue := profile.valuesAt(m, seed, cityKey)
		if err := checkRange(m, arrivals, revenue); err != nil {
			return nil, err
		}
		points[m] = MonthPoint{
			City:          city,
			MonthIndex:    m,
			CalendarMonth: int(date.Month()),
			Year:          date.Year(),
			Arrivals:      int(arrivals),
			Revenue:       revenue,
		}
	}
	return points, nil
}

var defaultGenerator = func() *Generator {
	g, err := NewGenerator(DefaultProfiles()...)
	if err != nil {
		panic(err)
	}
	return g
}()

// Generate runs the built-in profiles. See (*Generator).Generate.
func Generate(city string, seed int64, monthCount int, start time.Time) ([]MonthPoint, error) {
	return defaultGenerator.Generate(city, seed, monthCount, start)
}

const (
	streamArrivals uint64 = 1
	streamRevenue  uint64 = 2
)

// valuesAt computes both series for month index m. Values are truncated to
// whole units before the floor clamp.
func (p ShapeProfile) valuesAt(m int, seed int64, cityKey uint64) (arrivals, revenue float64) {
	arrivals = p.Arrivals.deterministic(m)
	revenue = p.Revenue.deterministic(m)

	for _, ev := range p.Events {
		if m%12 != ev.MonthIndex {
			continue
		}
		arrivals += ev.Arrivals
		revenue += ev.Arrivals * ev.RevenuePerArrival
	}

	arrivals += p.Arrivals.Noise.draw(newStream(seed, cityKey, m, streamArrivals))
	revenue += p.Revenue.Noise.draw(newStream(seed, cityKey, m, streamRevenue))

	arrivals = math.Max(math.Trunc(arrivals), p.Arrivals.Floor)
	revenue = math.Max(math.Trunc(revenue), p.Revenue.Floor)
	return arrivals, revenue
}

// checkRange rejects values a valid profile can still produce when its
// terms are large enough to overflow.
func checkRange(m int, arrivals, revenue float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"arrivals", arrivals}, {"revenue", revenue}} {
		if !(v.value >= 0 && v.value <= MaxSeriesValue) {
			return &InvalidArgumentError{
				Name:   v.name,
				Value:  v.value,
				Reason: fmt.Sprintf("outside 0..2^53 at month_index %d", m),
			}
		}
	}
	return nil
}

func (n Noise) draw(src rand.Source) float64 {
	var v float64
	if n.Sigma > 0 {
		g := distuv.Normal{Mu: 0, Sigma: n.Sigma, Src: src}.Rand()
		if n.Clip > 0 {
			limit := n.Clip * n.Sigma
			g = math.Max(-limit, math.Min(limit, g))
		}
		v += g
	}
	if n.Choice != nil {
		idx := distuv.NewCategorical(n.Choice.Weights, src).Rand()
		v += n.Choice.Values[int(idx)]
	}
	return v
}

// newStream derives an independent PCG stream for one (seed, city, month, series) cell.
func newStream(seed int64, cityKey uint64, m int, series uint64) rand.Source {
	stream := cityKey ^ (uint64(m)+1)*0x9e3779b97f4a7c15 ^ series<<56
	return rand.NewPCG(uint64(seed), stream)
}

func hashCity(city string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(city)) //nolint:errcheck // hash writes never fail
	return h.Sum64()
}
