package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdaysBetween(t *testing.T) {
	t.Run("excludes Saturdays and Sundays", func(t *testing.T) {
		// 2025-01-06 is a Monday, 2025-01-12 a Sunday
		days := WeekdaysBetween(date(2025, time.January, 6), date(2025, time.January, 12))

		require.Len(t, days, 5)
		for _, d := range days {
			assert.NotEqual(t, time.Saturday, d.Weekday())
			assert.NotEqual(t, time.Sunday, d.Weekday())
		}
		assert.Equal(t, date(2025, time.January, 6), days[0])
		assert.Equal(t, date(2025, time.January, 10), days[4])
	})

	t.Run("includes both boundaries when they are weekdays", func(t *testing.T) {
		days := WeekdaysBetween(date(2025, time.January, 7), date(2025, time.January, 9))
		require.Len(t, days, 3)
		assert.Equal(t, date(2025, time.January, 7), days[0])
		assert.Equal(t, date(2025, time.January, 9), days[2])
	})

	t.Run("single weekday range returns that day", func(t *testing.T) {
		days := WeekdaysBetween(date(2025, time.January, 8), date(2025, time.January, 8))
		require.Len(t, days, 1)
		assert.Equal(t, date(2025, time.January, 8), days[0])
	})

	t.Run("single weekend day returns empty", func(t *testing.T) {
		days := WeekdaysBetween(date(2025, time.January, 11), date(2025, time.January, 11))
		assert.Empty(t, days)
	})

	t.Run("start after end returns empty", func(t *testing.T) {
		days := WeekdaysBetween(date(2025, time.January, 10), date(2025, time.January, 6))
		assert.Empty(t, days)
	})

	t.Run("spans a month boundary in order", func(t *testing.T) {
		// Fri 2025-01-31 to Tue 2025-02-04: Fri, Mon, Tue
		days := WeekdaysBetween(date(2025, time.January, 31), date(2025, time.February, 4))
		require.Len(t, days, 3)
		assert.Equal(t, date(2025, time.January, 31), days[0])
		assert.Equal(t, date(2025, time.February, 3), days[1])
		assert.Equal(t, date(2025, time.February, 4), days[2])
	})
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(date(2025, time.January, 11)))  // Saturday
	assert.True(t, IsWeekend(date(2025, time.January, 12)))  // Sunday
	assert.False(t, IsWeekend(date(2025, time.January, 13))) // Monday
}

func TestStartOfWeek(t *testing.T) {
	monday := date(2025, time.January, 6)
	assert.Equal(t, monday, StartOfWeek(date(2025, time.January, 6)))
	assert.Equal(t, monday, StartOfWeek(date(2025, time.January, 8)))
	assert.Equal(t, monday, StartOfWeek(date(2025, time.January, 12))) // Sunday belongs to the preceding Monday
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-01-06", FormatDate(date(2025, time.January, 6)))
}
