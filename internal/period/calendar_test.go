package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestMonthBasic(t *testing.T) {
	ref := date(2026, time.January, 15)
	m := Month(0, ref)

	assert.Equal(t, 1, m.StartDate.Day())
	assert.Equal(t, 0, m.StartDate.Hour())
	assert.Equal(t, 31, m.EndDate.Day())
	assert.Equal(t, 23, m.EndDate.Hour())
	assert.Equal(t, 59, m.EndDate.Minute())
	assert.Equal(t, 59, m.EndDate.Second())
	assert.Equal(t, 31, m.DaysInMonth)
	assert.Equal(t, "January 2026", m.Label)
}

func TestMonthDayCounts(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		days int
	}{
		{"january", date(2026, time.January, 15), 31},
		{"february non-leap", date(2025, time.February, 15), 28},
		{"february leap", date(2024, time.February, 15), 29},
		{"april", date(2026, time.April, 15), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Month(0, tt.ref)
			assert.Equal(t, tt.days, m.DaysInMonth)
			assert.Equal(t, tt.days, m.EndDate.Day())
		})
	}
}

func TestMonthOffset(t *testing.T) {
	ref := date(2026, time.June, 10)

	prev := Month(-1, ref)
	assert.Equal(t, time.May, prev.StartDate.Month())
	assert.Equal(t, 2026, prev.StartDate.Year())

	next := Month(1, ref)
	assert.Equal(t, time.July, next.StartDate.Month())
	assert.Equal(t, 2026, next.StartDate.Year())
}

func TestMonthYearRollover(t *testing.T) {
	// Backwards across the year boundary.
	m := Month(-1, date(2026, time.January, 15))
	assert.Equal(t, time.December, m.StartDate.Month())
	assert.Equal(t, 2025, m.StartDate.Year())

	// Forwards across the year boundary.
	m = Month(1, date(2025, time.December, 15))
	assert.Equal(t, time.January, m.StartDate.Month())
	assert.Equal(t, 2026, m.StartDate.Year())

	// Large offsets decrement the year exactly once per 12 months.
	m = Month(-25, date(2026, time.March, 15))
	assert.Equal(t, time.February, m.StartDate.Month())
	assert.Equal(t, 2024, m.StartDate.Year())

	m = Month(24, date(2026, time.March, 15))
	assert.Equal(t, time.March, m.StartDate.Month())
	assert.Equal(t, 2028, m.StartDate.Year())
}

func TestMonthDaysInMonthMatchesGregorian(t *testing.T) {
	// Sweep four years of offsets from a fixed reference and cross-check
	// the day count against AddDate arithmetic.
	ref := date(2025, time.June, 20)
	for offset := -24; offset <= 24; offset++ {
		m := Month(offset, ref)
		require.GreaterOrEqual(t, m.DaysInMonth, 28)
		require.LessOrEqual(t, m.DaysInMonth, 31)
		require.Equal(t, m.DaysInMonth, m.EndDate.Day())

		firstOfNext := m.StartDate.AddDate(0, 1, 0)
		require.Equal(t, m.DaysInMonth, int(firstOfNext.Sub(m.StartDate).Hours()/24))
	}
}

func TestElapsedDays(t *testing.T) {
	ref := date(2026, time.June, 10)
	m := Month(0, ref)

	t.Run("before period start", func(t *testing.T) {
		elapsed, remaining := m.ElapsedDays(date(2026, time.May, 20))
		assert.Equal(t, 0, elapsed)
		assert.Equal(t, 30, remaining)
	})

	t.Run("after period end", func(t *testing.T) {
		elapsed, remaining := m.ElapsedDays(date(2026, time.July, 2))
		assert.Equal(t, 30, elapsed)
		assert.Equal(t, 0, remaining)
	})

	t.Run("mid period", func(t *testing.T) {
		elapsed, remaining := m.ElapsedDays(time.Date(2026, time.June, 15, 8, 0, 0, 0, time.UTC))
		assert.Equal(t, 15, elapsed)
		assert.Equal(t, 15, remaining)
	})

	t.Run("first day", func(t *testing.T) {
		elapsed, remaining := m.ElapsedDays(time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC))
		assert.Equal(t, 1, elapsed)
		assert.Equal(t, 29, remaining)
	})
}

func TestMonthContains(t *testing.T) {
	m := Month(0, date(2026, time.June, 10))
	assert.True(t, m.Contains(m.StartDate))
	assert.True(t, m.Contains(m.EndDate))
	assert.False(t, m.Contains(date(2026, time.July, 1)))
	assert.False(t, m.Contains(date(2026, time.May, 31)))
}
