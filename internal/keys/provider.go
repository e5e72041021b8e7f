package keys

import "time"

// Provider supplies the partition keys a family is currently writing
// into. Keys are opaque tokens; the engine imposes no ordering on them.
type Provider interface {
	// CurrentKey returns the key new data belongs to right now.
	CurrentKey() string
	// NextKey returns the key that will follow CurrentKey.
	NextKey() string
}

// Keyer is an optional capability for time-derived schemes: it maps an
// arbitrary instant to its partition key, so application code can route
// a row to the right partition.
type Keyer interface {
	KeyFor(t time.Time) string
}

// DefaultMonthlyFormat is the time layout used by Monthly when none is
// configured. It yields keys like "2013_04".
const DefaultMonthlyFormat = "2006_01"

// Monthly derives one partition per calendar month (UTC).
type Monthly struct {
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
	// Format is a time layout; empty means DefaultMonthlyFormat.
	// The rendered key must stay within [A-Za-z0-9_].
	Format string
}

func (m Monthly) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m Monthly) layout() string {
	if m.Format != "" {
		return m.Format
	}
	return DefaultMonthlyFormat
}

func (m Monthly) CurrentKey() string {
	return m.KeyFor(m.now())
}

func (m Monthly) NextKey() string {
	t := m.now()
	// Normalize to the first of the month so adding a month never
	// skips one (e.g. Jan 31 + month).
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return m.KeyFor(first.AddDate(0, 1, 0))
}

func (m Monthly) KeyFor(t time.Time) string {
	return t.UTC().Format(m.layout())
}

// Static is a fixed provider for non-time key schemes and tests.
type Static struct {
	Current string
	Next    string
}

func (s Static) CurrentKey() string { return s.Current }

func (s Static) NextKey() string { return s.Next }
