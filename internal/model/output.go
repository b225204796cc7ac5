package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// Metadata summarizes a completed run.
type Metadata struct {
	RunID            string    `json:"run_id"`
	ReferenceDate    Date      `json:"reference_date"`
	GeneratedAt      time.Time `json:"generated_at"`
	DurationMS       int64     `json:"duration_ms"`
	ActionItems      int       `json:"action_item_count"`
	Decisions        int       `json:"decision_count"`
	Risks            int       `json:"risk_count"`
	FlaggedForReview int       `json:"flagged_for_review"`
	ProcessingNotes  []string  `json:"processing_notes"`
}

// FinalOutput is the immutable snapshot built exactly once after the last
// stage completes. It round-trips losslessly through JSON.
type FinalOutput struct {
	MeetingSummary     string              `json:"meeting_summary"`
	ActionItems        []ActionItem        `json:"action_items"`
	Decisions          []Decision          `json:"decisions"`
	Risks              []Risk              `json:"risks"`
	FollowUpMessages   []FollowUpMessage   `json:"follow_up_messages"`
	NotificationEvents []NotificationEvent `json:"notification_events"`
	Metadata           Metadata            `json:"metadata"`
}

// MarshalIndent renders the output as the structured JSON document artifact.
func (o *FinalOutput) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "model: marshal final output")
	}
	return data, nil
}

// ParseFinalOutput reconstructs a FinalOutput from its JSON document.
func ParseFinalOutput(data []byte) (*FinalOutput, error) {
	var out FinalOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "model: parse final output")
	}
	return &out, nil
}
