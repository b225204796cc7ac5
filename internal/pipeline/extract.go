package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
)

const extractionSystem = "You are an expert meeting analyst. Extract information accurately and provide evidence."

const extractionPromptFmt = `You are analyzing a meeting transcript. Your job is to find:

1. **ACTION ITEMS** - Tasks someone needs to complete
2. **DECISIONS** - Important choices that were made
3. **RISKS & QUESTIONS** - Concerns or unresolved issues

For each item, provide:
- A clear description
- The owner's name (if mentioned)
- Deadline (the exact phrase used, like "by Friday" or "next week")
- Evidence (direct quotes with timestamps that prove this came from the meeting)

Here's the meeting:
%s

Respond with ONLY valid JSON in this format:
{
  "action_items": [
    {
      "description": "Clear description of the task",
      "owner_name": "Person Name or null",
      "deadline_text": "deadline phrase or null",
      "evidence": ["[HH:MM] Speaker: exact quote"]
    }
  ],
  "decisions": [
    {
      "description": "What was decided",
      "made_by": "Person Name or null",
      "evidence": ["[HH:MM] Speaker: exact quote"],
      "timestamp": "[HH:MM]"
    }
  ],
  "risks": [
    {
      "description": "The risk or question",
      "category": "risk or open_question",
      "mentioned_by": "Person Name or null",
      "evidence": ["[HH:MM] Speaker: exact quote"],
      "timestamp": "[HH:MM]"
    }
  ]
}`

type extractedAction struct {
	Description  string   `json:"description"`
	OwnerName    string   `json:"owner_name"`
	DeadlineText string   `json:"deadline_text"`
	Evidence     []string `json:"evidence"`
}

type extractedDecision struct {
	Description string   `json:"description"`
	MadeBy      string   `json:"made_by"`
	Evidence    []string `json:"evidence"`
	Timestamp   string   `json:"timestamp"`
}

type extractedRisk struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	MentionedBy string   `json:"mentioned_by"`
	Evidence    []string `json:"evidence"`
	Timestamp   string   `json:"timestamp"`
}

type extractionResult struct {
	ActionItems []extractedAction   `json:"action_items"`
	Decisions   []extractedDecision `json:"decisions"`
	Risks       []extractedRisk     `json:"risks"`
}

// extract runs the single extraction call and populates the three item
// collections. Item identities are fixed here; later stages only annotate.
// This is the one stage whose failure aborts the run.
func (p *Pipeline) extract(ctx context.Context, comp gateway.Completer, state *model.ProcessingState) error {
	payload, err := comp.CompleteJSON(ctx, "extraction", gateway.Request{
		System: extractionSystem,
		Prompt: fmt.Sprintf(extractionPromptFmt, state.Transcript),
	})
	if err != nil {
		return eris.Wrap(err, "pipeline: extract")
	}

	var result extractionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return eris.Wrap(err, "pipeline: parse extraction result")
	}

	for i, raw := range result.ActionItems {
		if raw.Description == "" {
			zap.L().Warn("skipping action item without description", zap.Int("index", i))
			continue
		}
		state.ActionItems = append(state.ActionItems, model.ActionItem{
			ID:              fmt.Sprintf("action_%d", len(state.ActionItems)+1),
			Description:     raw.Description,
			RawOwnerMention: raw.OwnerName,
			DeadlineText:    raw.DeadlineText,
			Evidence:        raw.Evidence,
		})
	}

	for i, raw := range result.Decisions {
		if raw.Description == "" {
			zap.L().Warn("skipping decision without description", zap.Int("index", i))
			continue
		}
		state.Decisions = append(state.Decisions, model.Decision{
			ID:          fmt.Sprintf("decision_%d", len(state.Decisions)+1),
			Description: raw.Description,
			MadeBy:      raw.MadeBy,
			Evidence:    raw.Evidence,
			Timestamp:   raw.Timestamp,
		})
	}

	for i, raw := range result.Risks {
		if raw.Description == "" {
			zap.L().Warn("skipping risk without description", zap.Int("index", i))
			continue
		}
		state.Risks = append(state.Risks, model.Risk{
			ID:          fmt.Sprintf("risk_%d", len(state.Risks)+1),
			Description: raw.Description,
			Category:    model.NormalizeRiskCategory(raw.Category),
			MentionedBy: raw.MentionedBy,
			Evidence:    raw.Evidence,
			Timestamp:   raw.Timestamp,
		})
	}

	state.AddNote("Stage 1: Extracted %d actions, %d decisions, %d risks",
		len(state.ActionItems), len(state.Decisions), len(state.Risks))

	return nil
}
