package keys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 4, 5, 0, time.UTC)
	}
}

func TestMonthlyKeys(t *testing.T) {
	tests := []struct {
		name        string
		now         func() time.Time
		wantCurrent string
		wantNext    string
	}{
		{name: "mid month", now: fixedClock(2013, time.April, 12), wantCurrent: "2013_04", wantNext: "2013_05"},
		{name: "year rollover", now: fixedClock(2013, time.December, 31), wantCurrent: "2013_12", wantNext: "2014_01"},
		{name: "short month boundary", now: fixedClock(2013, time.January, 31), wantCurrent: "2013_01", wantNext: "2013_02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Monthly{Now: tt.now}
			assert.Equal(t, tt.wantCurrent, m.CurrentKey())
			assert.Equal(t, tt.wantNext, m.NextKey())
		})
	}
}

func TestMonthlyKeyFor(t *testing.T) {
	m := Monthly{}
	assert.Equal(t, "2013_04", m.KeyFor(time.Date(2013, time.April, 1, 0, 0, 0, 0, time.UTC)))

	// Non-UTC instants are normalized before formatting.
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2013_03", m.KeyFor(time.Date(2013, time.April, 1, 3, 0, 0, 0, tokyo)))
}

func TestMonthlyCustomFormat(t *testing.T) {
	m := Monthly{Now: fixedClock(2013, time.April, 12), Format: "y2006m01"}
	assert.Equal(t, "y2013m04", m.CurrentKey())
}

func TestStatic(t *testing.T) {
	s := Static{Current: "baz", Next: "qux"}
	assert.Equal(t, "baz", s.CurrentKey())
	assert.Equal(t, "qux", s.NextKey())
}
