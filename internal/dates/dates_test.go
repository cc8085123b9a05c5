package dates

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nairobi = time.FixedZone("EAT", 3*60*60)

func TestNormalize_AcceptedFormatsAgree(t *testing.T) {
	want := Day{Year: 2024, Month: time.March, Day: 5}

	for _, raw := range []string{
		"2024-03-05",
		"05/03/2024",
		"2024-3-5",
		"5-3-2024",
		"2024/03/05",
		"2024-03-05T09:30:00",
		"2024-03-05T09:30:00.123+03:00",
		" 2024-03-05 ",
	} {
		got, ok := Normalize(raw, nairobi)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalize_ZonedInstantUsesLocalDay(t *testing.T) {
	// 22:30 UTC on the 4th is already the 5th in Nairobi.
	got, ok := Normalize("2024-03-04T22:30:00.000Z", nairobi)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", got.String())

	got, ok = Normalize("2024-03-04T22:30:00.000Z", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", got.String())
}

func TestNormalize_EpochMillis(t *testing.T) {
	ms := time.Date(2024, 3, 5, 10, 0, 0, 0, nairobi).UnixMilli()
	got, ok := Normalize(strconv.FormatInt(ms, 10), nairobi)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", got.String())
}

func TestNormalize_Rejects(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "31/02/2024", "2024-13-01", "12/12/12", "abc/def/ghij"} {
		_, ok := Normalize(raw, nairobi)
		assert.False(t, ok, raw)
	}
}

func TestWeekOf(t *testing.T) {
	wed := Day{Year: 2024, Month: time.March, Day: 6}

	week := WeekOf(wed, time.Sunday, 0)
	require.Len(t, week, 7)
	assert.Equal(t, "2024-03-03", week[0].String())
	assert.Equal(t, "2024-03-09", week[6].String())

	prev := WeekOf(wed, time.Sunday, 1)
	assert.Equal(t, "2024-02-25", prev[0].String())

	monday := WeekOf(wed, time.Monday, 0)
	assert.Equal(t, "2024-03-04", monday[0].String())
}

func TestMonthDays_LeapYear(t *testing.T) {
	feb := MonthDays(2024, time.February)
	require.Len(t, feb, 29)
	assert.Equal(t, "2024-02-29", feb[28].String())
	assert.Len(t, MonthDays(2023, time.February), 28)
}

func TestBetween(t *testing.T) {
	from := Day{Year: 2024, Month: time.December, Day: 30}
	to := Day{Year: 2025, Month: time.January, Day: 2}
	days := Between(from, to)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-01-01", days[2].String())
	assert.Empty(t, Between(to, from))
}

func TestParseWeekday(t *testing.T) {
	wd, ok := ParseWeekday("Monday")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, wd)

	wd, ok = ParseWeekday("sat")
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, wd)

	_, ok = ParseWeekday("x")
	assert.False(t, ok)
}
