package domain

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Wave names the periodic function used by an Oscillation.
type Wave string

const (
	WaveSin Wave = "sin"
	WaveCos Wave = "cos"
)

// Oscillation contributes amplitude * (wave(frequency*m) + offset) at month index m.
type Oscillation struct {
	Func      Wave    `json:"func" yaml:"func"`
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Frequency float64 `json:"frequency" yaml:"frequency"` // radians per month
	Offset    float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

func (o Oscillation) at(m int) float64 {
	x := o.Frequency * float64(m)
	var w float64
	switch o.Func {
	case WaveSin:
		w = math.Sin(x)
	case WaveCos:
		w = math.Cos(x)
	}
	return o.Amplitude * (w + o.Offset)
}

// Cycle contributes step * (m mod period), a sawtooth.
type Cycle struct {
	Period int     `json:"period" yaml:"period"`
	Step   float64 `json:"step" yaml:"step"`
}

// Choice is a categorical draw: values[i] is picked with probability
// weights[i] / sum(weights).
type Choice struct {
	Values  []float64 `json:"values" yaml:"values"`
	Weights []float64 `json:"weights" yaml:"weights"`
}

// Noise describes the random part of a series. Sigma > 0 adds a Gaussian term
// truncated at ±Clip standard deviations (Clip 0 leaves it untruncated);
// Choice adds a categorical draw. Both may be set.
type Noise struct {
	Sigma  float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	Clip   float64 `json:"clip,omitempty" yaml:"clip,omitempty"`
	Choice *Choice `json:"choice,omitempty" yaml:"choice,omitempty"`
}

// SeriesShape is the closed-form part of one series plus its noise and floor.
type SeriesShape struct {
	Base        float64      `json:"base" yaml:"base"`
	Trend       float64      `json:"trend,omitempty" yaml:"trend,omitempty"` // per month index
	Oscillation *Oscillation `json:"oscillation,omitempty" yaml:"oscillation,omitempty"`
	Cycle       *Cycle       `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Noise       Noise        `json:"noise" yaml:"noise"`
	Floor       float64      `json:"floor" yaml:"floor"`
}

func (s SeriesShape) deterministic(m int) float64 {
	v := s.Base + s.Trend*float64(m)
	if s.Oscillation != nil {
		v += s.Oscillation.at(m)
	}
	if s.Cycle != nil {
		v += s.Cycle.Step * float64(m%s.Cycle.Period)
	}
	return v
}

// Event is a fixed calendar effect at one month index of every year. The
// arrivals series moves by Arrivals; revenue moves by Arrivals * RevenuePerArrival.
type Event struct {
	Name              string  `json:"name" yaml:"name"`
	MonthIndex        int     `json:"month_index" yaml:"month_index"`
	Arrivals          float64 `json:"arrivals" yaml:"arrivals"`
	RevenuePerArrival float64 `json:"revenue_per_arrival" yaml:"revenue_per_arrival"`
}

// ShapeProfile is the configuration record defining one city's synthetic series.
type ShapeProfile struct {
	City     string      `json:"city" yaml:"city"`
	Arrivals SeriesShape `json:"arrivals" yaml:"arrivals"`
	Revenue  SeriesShape `json:"revenue" yaml:"revenue"`
	Events   []Event     `json:"events,omitempty" yaml:"events,omitempty"`
}

// ErrInvalidProfile is wrapped by every profile validation failure.
var ErrInvalidProfile = errors.New("invalid shape profile")

// Validate checks that the profile can drive the generator.
func (p ShapeProfile) Validate() error {
	if p.City == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidProfile)
	}
	if err := p.Arrivals.validate(); err != nil {
		return fmt.Errorf("%w: %s arrivals: %s", ErrInvalidProfile, p.City, err.Error())
	}
	if err := p.Revenue.validate(); err != nil {
		return fmt.Errorf("%w: %s revenue: %s", ErrInvalidProfile, p.City, err.Error())
	}
	for _, ev := range p.Events {
		if ev.MonthIndex < 0 || ev.MonthIndex > 11 {
			return fmt.Errorf("%w: %s event %q: month_index %d outside 0..11",
				ErrInvalidProfile, p.City, ev.Name, ev.MonthIndex)
		}
		if err := checkFinite(
			namedValue{"arrivals", ev.Arrivals},
			namedValue{"revenue_per_arrival", ev.RevenuePerArrival},
		); err != nil {
			return fmt.Errorf("%w: %s event %q: %s", ErrInvalidProfile, p.City, ev.Name, err.Error())
		}
	}
	return nil
}

// MaxSeriesValue bounds every generated value, keeping arrivals exact as an
// int and revenue exact as a float64.
const MaxSeriesValue = 1 << 53

type namedValue struct {
	name  string
	value float64
}

func checkFinite(values ...namedValue) error {
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%s must be a finite number", v.name)
		}
	}
	return nil
}

func (s SeriesShape) validate() error {
	values := []namedValue{
		{"base", s.Base},
		{"trend", s.Trend},
		{"floor", s.Floor},
		{"noise sigma", s.Noise.Sigma},
		{"noise clip", s.Noise.Clip},
	}
	if o := s.Oscillation; o != nil {
		values = append(values,
			namedValue{"oscillation amplitude", o.Amplitude},
			namedValue{"oscillation frequency", o.Frequency},
			namedValue{"oscillation offset", o.Offset},
		)
	}
	if s.Cycle != nil {
		values = append(values, namedValue{"cycle step", s.Cycle.Step})
	}
	if c := s.Noise.Choice; c != nil {
		for _, v := range c.Values {
			values = append(values, namedValue{"choice value", v})
		}
		for _, w := range c.Weights {
			values = append(values, namedValue{"choice weight", w})
		}
	}
	if err := checkFinite(values...); err != nil {
		return err
	}

	if s.Floor < 0 {
		return errors.New("floor must not be negative")
	}
	if s.Floor > MaxSeriesValue {
		return fmt.Errorf("floor must not exceed %d", int64(MaxSeriesValue))
	}
	if s.Oscillation != nil && s.Oscillation.Func != WaveSin && s.Oscillation.Func != WaveCos {
		return fmt.Errorf("unsupported oscillation func %q", s.Oscillation.Func)
	}
	if s.Cycle != nil && s.Cycle.Period <= 0 {
		return errors.New("cycle period must be positive")
	}
	if s.Noise.Sigma < 0 || s.Noise.Clip < 0 {
		return errors.New("noise sigma and clip must not be negative")
	}
	if c := s.Noise.Choice; c != nil {
		if len(c.Values) == 0 || len(c.Values) != len(c.Weights) {
			return errors.New("choice values and weights must be non-empty and the same length")
		}
		var total float64
		for _, w := range c.Weights {
			if w < 0 {
				return errors.New("choice weights must not be negative")
			}
			total += w
		}
		if total <= 0 {
			return errors.New("choice weights must sum to a positive value")
		}
	}
	return nil
}

// profileFile is the on-disk layout accepted by LoadProfiles.
type profileFile struct {
	Profiles []ShapeProfile `yaml:"profiles"`
}

// LoadProfiles decodes a YAML document of the form
//
//	profiles:
//	  - city: Delhi
//	    arrivals: {...}
//	    revenue: {...}
//
// and validates every profile.
func LoadProfiles(r io.Reader) ([]ShapeProfile, error) {
	var f profileFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("%w: no profiles defined", ErrInvalidProfile)
	}
	for _, p := range f.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Profiles, nil
}
