package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultReferenceYear is the calendar year the simulated load profiles are
// pinned to when no other year is configured.
const DefaultReferenceYear = 2023

// transitionWindow bounds how far from a candidate instant the normalizer
// looks for a competing UTC offset. Zones never transition twice in a day.
const transitionWindow = 24 * time.Hour

// Normalized is the result of a normalization.
type Normalized struct {
	Instant time.Time
	// Source is the reading the instant was derived from. A shift can map two
	// readings onto one instant; Source tells them apart.
	Source RawTimestamp
	// Shifted is true when the local hour fell inside a DST gap or overlap and
	// was moved one hour forward.
	Shifted bool
}

// Normalizer converts file-local 1-24 hour readings into zone-aware instants
// for a fixed reference year. It is safe for concurrent use.
type Normalizer struct {
	year  int
	zones ZoneResolver
}

// NewNormalizer creates a Normalizer for year. A nil resolver uses TZDatabase.
func NewNormalizer(year int, zones ZoneResolver) *Normalizer {
	if zones == nil {
		zones = TZDatabase{}
	}
	return &Normalizer{year: year, zones: zones}
}

// Year returns the reference year applied to every timestamp.
func (n *Normalizer) Year() int { return n.year }

// Normalize resolves raw in zone and returns the instant.
func (n *Normalizer) Normalize(raw RawTimestamp, zone string) (time.Time, error) {
	res, err := n.NormalizeDetailed(raw, zone)
	return res.Instant, err
}

// NormalizeString parses a source date column value and normalizes it.
func (n *Normalizer) NormalizeString(s, zone string) (Normalized, error) {
	raw, err := ParseRawTimestamp(s)
	if err != nil {
		return Normalized{}, err
	}
	return n.NormalizeDetailed(raw, zone)
}

// NormalizeDetailed is Normalize but also reports whether the DST shift was applied.
func (n *Normalizer) NormalizeDetailed(raw RawTimestamp, zone string) (Normalized, error) {
	if err := raw.Validate(n.year); err != nil {
		return Normalized{}, err
	}
	loc, err := n.zones.Resolve(zone)
	if err != nil {
		return Normalized{}, err
	}
	return NormalizeIn(raw, n.year, loc)
}

// NormalizeIn maps raw onto the local calendar of loc for year.
//
// Hours 1-23 are taken as wall-clock hours. Hour 24 is midnight of the same
// date plus 24 hours of elapsed time, so across a DST change it lands on 01:00
// or 23:00 rather than the next midnight. When the wall-clock hour is skipped
// or repeated by a DST transition, the hour after it is used instead. The
// source data does not say which side of the transition a reading belongs to,
// so the shift is a fixed convention, not a disambiguation.
func NormalizeIn(raw RawTimestamp, year int, loc *time.Location) (Normalized, error) {
	if err := raw.Validate(year); err != nil {
		return Normalized{}, err
	}
	if loc == nil {
		return Normalized{}, fmt.Errorf("%w: nil location", ErrInvalidZone)
	}

	month := time.Month(raw.Month)
	if raw.Hour == 24 {
		midnight, shifted, err := resolveLocal(year, month, raw.Day, 0, loc)
		if err != nil {
			return Normalized{}, err
		}
		return Normalized{Instant: midnight.Add(24 * time.Hour), Source: raw, Shifted: shifted}, nil
	}

	t, shifted, err := resolveLocal(year, month, raw.Day, raw.Hour, loc)
	if err != nil {
		return Normalized{}, err
	}
	return Normalized{Instant: t, Source: raw, Shifted: shifted}, nil
}

// resolveLocal builds the local instant, moving one hour forward when the
// requested wall-clock hour is ambiguous or nonexistent.
func resolveLocal(year int, month time.Month, day, hour int, loc *time.Location) (time.Time, bool, error) {
	t, err := localInstant(year, month, day, hour, loc)
	if err == nil {
		return t, false, nil
	}
	if !errors.Is(err, ErrAmbiguousLocalTime) && !errors.Is(err, ErrNonexistentLocalTime) {
		return time.Time{}, false, err
	}

	// hour+1 may roll into the next day; let time.Date carry the fields over.
	next := time.Date(year, month, day, hour+1, 0, 0, 0, time.UTC)
	shifted, shiftErr := localInstant(next.Year(), next.Month(), next.Day(), next.Hour(), loc)
	if shiftErr != nil {
		return time.Time{}, false, fmt.Errorf("%w: %04d-%02d-%02d %02d:00 in %s: %v, and the following hour: %v",
			ErrInvalidTimestamp, year, month, day, hour, loc, err, shiftErr)
	}
	return shifted, true, nil
}

// localInstant returns the single instant whose wall clock in loc reads the
// given fields. time.Date quietly normalizes gaps and picks one side of an
// overlap, so both conditions are detected explicitly: a gap fails the wall
// clock round trip, and an overlap has a second instant, found through the
// offset in effect on the other side of a nearby transition, that reads the
// same wall clock.
func localInstant(year int, month time.Month, day, hour int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, hour, 0, 0, 0, loc)
	if !wallClockIs(t, year, month, day, hour) {
		return time.Time{}, ErrNonexistentLocalTime
	}

	wall := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	for _, probe := range [...]time.Time{t.Add(-transitionWindow), t.Add(transitionWindow)} {
		_, offset := probe.In(loc).Zone()
		alt := wall.Add(-time.Duration(offset) * time.Second)
		if !alt.Equal(t) && wallClockIs(alt.In(loc), year, month, day, hour) {
			return time.Time{}, ErrAmbiguousLocalTime
		}
	}
	return t, nil
}

func wallClockIs(t time.Time, year int, month time.Month, day, hour int) bool {
	y, m, d := t.Date()
	return y == year && m == month && d == day && t.Hour() == hour && t.Minute() == 0 && t.Second() == 0
}
