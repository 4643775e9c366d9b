package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestYearsBetween(t *testing.T) {
	cases := []struct {
		birth, today string
		want         int
	}{
		{"2020-06-15", "2024-06-01", 3},
		{"2020-06-15", "2024-06-20", 4},
		{"2020-06-15", "2024-06-15", 4},
		{"2020-06-15", "2024-06-14", 3},
		{"2020-02-29", "2021-02-28", 0},
		{"2020-02-29", "2021-03-01", 1},
		{"2024-01-01", "2024-01-01", 0},
		{"2019-12-31", "2020-01-01", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, YearsBetween(d(tc.birth), d(tc.today)), "%s -> %s", tc.birth, tc.today)
	}
}

func TestParseAndFormat(t *testing.T) {
	got, err := Parse(" 2024-01-31 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", Format(got))

	_, err = Parse("31/01/2024")
	assert.ErrorIs(t, err, ErrFormat)

	assert.Nil(t, FormatPtr(nil))
	assert.Equal(t, "2024-01-31", *FormatPtr(&got))
}

func TestOf_UsesLocalCalendarDay(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*3600)
	late := time.Date(2024, 3, 1, 23, 30, 0, 0, taipei)

	got := Of(late)
	assert.Equal(t, "2024-03-01", Format(got))
	assert.Equal(t, time.UTC, got.Location())
}
