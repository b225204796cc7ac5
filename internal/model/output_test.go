package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagDeduplicatesNotes(t *testing.T) {
	t.Parallel()

	var a ActionItem
	a.Flag("Owner could not be resolved")
	a.Flag("Owner could not be resolved")
	a.Flag("Could not resolve deadline: \"soon\"")

	assert.True(t, a.NeedsReview)
	assert.Equal(t, []string{
		"Owner could not be resolved",
		`Could not resolve deadline: "soon"`,
	}, a.ValidationNotes)
}

func TestNormalizeRiskCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want RiskCategory
	}{
		{"risk", RiskCategoryRisk},
		{"open_question", RiskCategoryOpenQuestion},
		{"deadline", RiskCategoryDeadline},
		{"technical", RiskCategoryTechnical},
		{"scope", RiskCategoryScope},
		{"", RiskCategoryRisk},
		{"banana", RiskCategoryRisk},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeRiskCategory(tt.in))
		})
	}
}

func TestFinalOutputJSONRoundTrip(t *testing.T) {
	t.Parallel()

	deadline := NewDate(2026, time.January, 16)
	triggered := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)

	out := &FinalOutput{
		MeetingSummary: "MEETING ANALYSIS SUMMARY",
		ActionItems: []ActionItem{{
			ID:              "action_1",
			Description:     "Fix the login flow",
			RawOwnerMention: "Mike",
			OwnerName:       "Mike Davis",
			OwnerEmail:      "mike.davis@example.com",
			OwnerRole:       "Backend Engineer",
			DeadlineText:    "next Friday",
			DeadlineDate:    &deadline,
			Evidence:        []string{"[10:02] Mike: I'll fix the login flow by next Friday."},
			Confidence:      0.85,
		}},
		Decisions: []Decision{{
			ID:          "decision_1",
			Description: "Ship v2 behind a feature flag",
			MadeBy:      "Sarah Kim",
			Evidence:    []string{"[10:15] Sarah: let's flag it."},
			Timestamp:   "[10:15]",
		}},
		Risks: []Risk{{
			ID:          "risk_1",
			Description: "Auth vendor contract expires mid-quarter",
			Category:    RiskCategoryRisk,
			MentionedBy: "Mike Davis",
			Evidence:    []string{"[10:20] Mike: the contract expires soon."},
		}},
		FollowUpMessages: []FollowUpMessage{{
			ToEmail:     "mike.davis@example.com",
			ToName:      "Mike Davis",
			Subject:     "Follow-up: Your Action Items",
			Body:        "Hi Mike,\n\n- Fix the login flow (Due: 2026-01-16)",
			ActionItems: []string{"action_1"},
		}},
		NotificationEvents: []NotificationEvent{{
			To:          "mike.davis@example.com",
			ToName:      "Mike Davis",
			Subject:     "Follow-up: Your Action Items",
			Body:        "Hi Mike,\n\n- Fix the login flow (Due: 2026-01-16)",
			Status:      NotificationSimulated,
			TriggeredAt: triggered,
		}},
		Metadata: Metadata{
			RunID:            "run-123",
			ReferenceDate:    NewDate(2026, time.January, 10),
			GeneratedAt:      triggered,
			DurationMS:       1250,
			ActionItems:      1,
			Decisions:        1,
			Risks:            1,
			FlaggedForReview: 0,
			ProcessingNotes:  []string{"Stage 1: Extracted 1 actions, 1 decisions, 1 risks"},
		},
	}

	data, err := out.MarshalIndent()
	require.NoError(t, err)

	back, err := ParseFinalOutput(data)
	require.NoError(t, err)
	assert.Equal(t, out, back)
}

func TestProcessingStateHelpers(t *testing.T) {
	t.Parallel()

	state := NewProcessingState("transcript", nil, NewDate(2026, time.January, 10))
	state.ActionItems = []ActionItem{
		{ID: "action_1"},
		{ID: "action_2", NeedsReview: true},
	}

	require.NotNil(t, state.Action("action_2"))
	assert.Equal(t, "action_2", state.Action("action_2").ID)
	assert.Nil(t, state.Action("action_9"))
	assert.Equal(t, 1, state.ReviewCount())

	state.AddNote("Stage %d: %s", 1, "done")
	assert.Equal(t, []string{"Stage 1: done"}, state.ProcessingNotes)
}
