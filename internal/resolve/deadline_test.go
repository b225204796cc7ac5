package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/meeting-agent/internal/model"
)

// 2026-01-10 is a Saturday.
func saturdayRef(t *testing.T) model.Date {
	t.Helper()
	d, err := model.ParseDate("2026-01-10")
	require.NoError(t, err)
	return d
}

func TestDeadlineRules(t *testing.T) {
	t.Parallel()
	ref := saturdayRef(t)

	tests := []struct {
		phrase string
		want   string
	}{
		{"2026-02-01", "2026-02-01"},
		{"today", "2026-01-10"},
		{"eod", "2026-01-10"},
		{"tomorrow", "2026-01-11"},
		{"by tomorrow eod", "2026-01-11"},
		{"in 3 days", "2026-01-13"},
		{"in 1 day", "2026-01-11"},
		{"in 2 weeks", "2026-01-24"},
		{"next friday", "2026-01-16"},
		{"by friday", "2026-01-16"},
		{"friday", "2026-01-16"},
		{"next monday", "2026-01-12"},
		{"this saturday", "2026-01-10"},
		{"end of week", "2026-01-16"},
		{"next week", "2026-01-12"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			t.Parallel()
			res := Deadline(tt.phrase, ref)
			require.Equal(t, DeadlineResolved, res.Outcome, "rule: %s", res.Rule)
			assert.Equal(t, tt.want, res.Date.String())
		})
	}
}

func TestDeadlineConfidence(t *testing.T) {
	t.Parallel()
	ref := saturdayRef(t)

	literal := Deadline("2026-03-01", ref)
	assert.Equal(t, 1.0, literal.Confidence)

	rule := Deadline("next friday", ref)
	assert.Equal(t, 0.9, rule.Confidence)
}

// A reference date that already falls on the named weekday must roll a full
// week forward: "next Friday" said on a Friday is not today.
func TestDeadlineSameWeekdayRollsForward(t *testing.T) {
	t.Parallel()
	friday, err := model.ParseDate("2026-01-16")
	require.NoError(t, err)

	res := Deadline("next friday", friday)
	require.Equal(t, DeadlineResolved, res.Outcome)
	assert.Equal(t, "2026-01-23", res.Date.String())

	eow := Deadline("end of week", friday)
	require.Equal(t, DeadlineResolved, eow.Outcome)
	assert.Equal(t, "2026-01-23", eow.Date.String())

	// "this friday" on a Friday stays put.
	this := Deadline("this friday", friday)
	require.Equal(t, DeadlineResolved, this.Outcome)
	assert.Equal(t, "2026-01-16", this.Date.String())
}

func TestDeadlineUnresolved(t *testing.T) {
	t.Parallel()
	ref := saturdayRef(t)

	tests := []string{
		"",
		"when the auditors sign off",
		"sometime soon",
		"after the Q3 review",
	}

	for _, phrase := range tests {
		t.Run(phrase, func(t *testing.T) {
			t.Parallel()
			res := Deadline(phrase, ref)
			assert.Equal(t, DeadlineUnresolved, res.Outcome)
			assert.True(t, res.Date.IsZero())
		})
	}
}
