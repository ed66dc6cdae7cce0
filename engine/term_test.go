package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/agreement-engine/engine"
)

func date(y int, m time.Month, d int) engine.Date { return engine.NewDate(y, m, d) }

func datePtr(y int, m time.Month, d int) *engine.Date {
	v := engine.NewDate(y, m, d)
	return &v
}

// =============================================================================
// CONTINUOUS START DATE
// =============================================================================

func TestResolveTerm_ContinuousStartsDayAfterFixedEnd(t *testing.T) {
	// GIVEN: A fixed term ending 2025-09-30 (inclusive)
	// THEN: The continuous term starts 2025-10-01
	resolved := engine.ResolveTerm(true, date(2025, time.April, 1), datePtr(2025, time.September, 30))

	require.NotNil(t, resolved.ContinuousStart)
	assert.Equal(t, "2025-10-01", resolved.ContinuousStart.String())
}

func TestResolveTerm_ContinuousStartCrossesYearEnd(t *testing.T) {
	resolved := engine.ResolveTerm(true, date(2025, time.January, 1), datePtr(2025, time.December, 31))

	require.NotNil(t, resolved.ContinuousStart)
	assert.Equal(t, "2026-01-01", resolved.ContinuousStart.String())
}

func TestResolveTerm_ContinuousOnly_StartsAtStartDate(t *testing.T) {
	resolved := engine.ResolveTerm(false, date(2025, time.June, 15), nil)

	require.NotNil(t, resolved.ContinuousStart)
	assert.Equal(t, "2025-06-15", resolved.ContinuousStart.String())
	assert.Nil(t, resolved.Duration, "continuous-only agreements have no fixed duration")
}

func TestResolveTerm_FixedTermWithoutEndDate_IsValidDraftState(t *testing.T) {
	// GIVEN: A fixed-term draft where the end date hasn't been entered yet
	// THEN: Derived values stay unset; this is not an error
	resolved := engine.ResolveTerm(true, date(2025, time.April, 1), nil)

	assert.Nil(t, resolved.ContinuousStart)
	assert.Nil(t, resolved.Duration)
}

func TestResolveTerm_UnsetStartDate_DerivesNothing(t *testing.T) {
	assert.Nil(t, engine.ResolveTerm(false, engine.Date{}, nil).ContinuousStart)
	assert.Nil(t, engine.ResolveTerm(true, engine.Date{}, datePtr(2025, time.September, 30)).ContinuousStart)
}

// =============================================================================
// LEGACY DURATION FORMULA
// =============================================================================

func TestResolveTerm_Duration_EndDayAtOrPastStartDay(t *testing.T) {
	// 2025-04-01 -> 2025-09-30: five month transitions, 30-1+1 remainder days
	resolved := engine.ResolveTerm(true, date(2025, time.April, 1), datePtr(2025, time.September, 30))

	require.NotNil(t, resolved.Duration)
	assert.Equal(t, 5, resolved.Duration.Months)
	assert.Equal(t, 30, resolved.Duration.Days)
}

func TestResolveTerm_Duration_EndDayBeforeStartDay(t *testing.T) {
	// 2025-01-15 -> 2025-03-10: end day short of start day, remainder gets +31
	resolved := engine.ResolveTerm(true, date(2025, time.January, 15), datePtr(2025, time.March, 10))

	require.NotNil(t, resolved.Duration)
	assert.Equal(t, 2, resolved.Duration.Months)
	assert.Equal(t, 10-15+1+31, resolved.Duration.Days)
}

func TestResolveTerm_Duration_LegacyPlus31Pinned(t *testing.T) {
	// Regression pin for the historical "+31" remainder branch. February has
	// 28 days in 2025, but the formula still adds a fixed 31 - existing
	// contracts display exactly these figures.
	cases := []struct {
		name       string
		start, end engine.Date
		months     int
		days       int
	}{
		{"across short february", date(2025, time.January, 31), date(2025, time.February, 28), 1, 28 - 31 + 1 + 31},
		{"same month", date(2025, time.March, 1), date(2025, time.March, 31), 0, 31},
		{"one year minus a day", date(2025, time.April, 1), date(2026, time.March, 31), 11, 31 - 1 + 1},
		{"exact year", date(2025, time.January, 1), date(2025, time.December, 31), 11, 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := engine.ResolveTerm(true, tc.start, &tc.end)
			require.NotNil(t, resolved.Duration)
			assert.Equal(t, tc.months, resolved.Duration.Months)
			assert.Equal(t, tc.days, resolved.Duration.Days)
		})
	}
}

// =============================================================================
// MONTH-END ROUNDING
// =============================================================================

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, "2025-02-28", date(2025, time.February, 10).EndOfMonth().String())
	assert.Equal(t, "2024-02-29", date(2024, time.February, 1).EndOfMonth().String(), "leap year")
	assert.Equal(t, "2025-12-31", date(2025, time.December, 31).EndOfMonth().String())
}

func TestEndOfMonth_Idempotent(t *testing.T) {
	d := date(2025, time.April, 17).EndOfMonth()
	assert.Equal(t, d, d.EndOfMonth())
}

func TestEndOfMonthOffset_NoDayOverflow(t *testing.T) {
	// Walking through the first of the month keeps a day-31 date from
	// spilling into the month after the target.
	assert.Equal(t, "2025-02-28", date(2025, time.January, 31).EndOfMonthOffset(1).String())
	assert.Equal(t, "2026-02-28", date(2025, time.December, 31).EndOfMonthOffset(2).String())
	assert.Equal(t, "2025-01-31", date(2025, time.January, 15).EndOfMonthOffset(0).String())
}
