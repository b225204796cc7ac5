package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	d := NewDate(2026, time.January, 10)
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, "2026-01-13", d.AddDays(3).String())
	assert.Equal(t, "2026-01-03", d.AddDays(-7).String())

	// Month rollover.
	assert.Equal(t, "2026-02-02", d.AddDays(23).String())
}

func TestDateComparisons(t *testing.T) {
	t.Parallel()

	a := NewDate(2026, time.January, 10)
	b := NewDate(2026, time.January, 16)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Equal(NewDate(2026, time.January, 10)))
	assert.False(t, a.Equal(b))
	assert.True(t, Date{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-01-16")
	require.NoError(t, err)
	assert.Equal(t, time.Friday, d.Weekday())

	_, err = ParseDate("16/01/2026")
	assert.Error(t, err)
	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	t.Parallel()

	d := NewDate(2026, time.January, 16)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-16"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))

	var fromNull Date
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.True(t, fromNull.IsZero())

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`"Jan 16"`), &bad))
}

func TestDateOfDropsTimeAndZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("X", -5*3600)
	d := DateOf(time.Date(2026, time.January, 16, 23, 45, 0, 0, loc))
	assert.Equal(t, "2026-01-16", d.String())
}
