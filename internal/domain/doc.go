// Package domain models the synthetic tourism dataset: per-city monthly
// arrivals and revenue, the hotel and destination catalog, and the
// dashboard snapshots built on top of them.
//
// # Shape profiles
//
// Each city's series is defined by a [ShapeProfile], a configuration record
// rather than code. A series value at month index m is
//
//	base + trend*m
//	  + amplitude*(wave(frequency*m) + offset)     (oscillation, optional)
//	  + step*(m mod period)                         (cycle, optional)
//	  + gaussian noise, truncated at ±clip*sigma    (optional)
//	  + categorical draw over values/weights        (optional)
//	  + calendar events at month index m mod 12
//
// truncated to whole units and clamped up to the series floor. Events move
// arrivals by a fixed amount and revenue by that amount times a per-event
// revenue-per-arrival factor.
//
// Built-in profiles:
//
//	Delhi:     sine oscillation, linear revenue growth
//	Mumbai:    sawtooth (m mod 3) with a 30% chance of a +40000 burst
//	Bangalore: linear climb with three-way step shocks
//	Kolkata:   cosine season, festival burst at index 9, rainfall dip at index 6
//
// Profiles can be replaced at runtime with [LoadProfiles].
//
// # Reproducibility
//
// Every (seed, city, month index, series) cell draws from its own PCG stream,
// so [Generator.Generate] is a pure function of its arguments and safe for
// concurrent callers. Nothing in this package performs I/O; persistence goes
// through the [Store] interface implemented by the adapters.
package domain
