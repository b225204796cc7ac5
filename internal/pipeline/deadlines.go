package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
	"github.com/sells-group/meeting-agent/internal/resolve"
)

const deadlineSystem = "You are an expert at date resolution. Output only valid JSON."

const deadlinePromptFmt = `Today is %s (%s).

Convert these deadline phrases to ISO dates (YYYY-MM-DD):

%s

Rules:
- "next [day]" means the upcoming occurrence of that day
- "by [day]" usually means the next occurrence
- "in X weeks" means X*7 days from today
- "end of week" typically means Friday
- Be consistent and logical
- If a phrase cannot be resolved to a date, use null for resolved_date and
  explain why in the reasoning

Respond ONLY with valid JSON:
{
  "deadlines": [
    {
      "action_id": "action_1",
      "resolved_date": "2026-01-17",
      "reasoning": "Brief explanation"
    }
  ]
}`

type unresolvedDeadline struct {
	ID           string   `json:"id"`
	DeadlineText string   `json:"deadline_text"`
	Evidence     []string `json:"evidence"`
}

type resolvedDeadline struct {
	ActionID     string `json:"action_id"`
	ResolvedDate string `json:"resolved_date"`
	Reasoning    string `json:"reasoning"`
}

type deadlineResult struct {
	Deadlines []resolvedDeadline `json:"deadlines"`
}

// resolveDeadlines converts deadline phrases to absolute dates anchored on
// the reference date. Deterministic rules run first; leftovers go to the
// gateway in one batched call. Items whose phrase still has no date after
// both passes are flagged, never guessed. Gateway failure degrades.
func (p *Pipeline) resolveDeadlines(ctx context.Context, comp gateway.Completer, state *model.ProcessingState) error {
	ruleHits := 0
	var pending []unresolvedDeadline

	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if a.DeadlineText == "" {
			continue
		}

		res := resolve.Deadline(a.DeadlineText, state.ReferenceDate)
		if res.Outcome == resolve.DeadlineResolved {
			d := res.Date
			a.DeadlineDate = &d
			ruleHits++
			continue
		}
		pending = append(pending, unresolvedDeadline{
			ID:           a.ID,
			DeadlineText: a.DeadlineText,
			Evidence:     a.Evidence,
		})
	}

	state.AddNote("Stage 3: Resolved %d deadlines deterministically", ruleHits)

	if len(pending) > 0 {
		p.resolveDeadlinesWithGateway(ctx, comp, state, pending)
	}

	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if a.DeadlineText != "" && a.DeadlineDate == nil {
			a.Flag(fmt.Sprintf("Could not resolve deadline: %q", a.DeadlineText))
		}
	}

	return nil
}

func (p *Pipeline) resolveDeadlinesWithGateway(ctx context.Context, comp gateway.Completer, state *model.ProcessingState, pending []unresolvedDeadline) {
	pendingJSON, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		state.AddNote("Stage 3 gateway error: %v", err)
		return
	}

	payload, err := comp.CompleteJSON(ctx, "deadline_resolution", gateway.Request{
		System: deadlineSystem,
		Prompt: fmt.Sprintf(deadlinePromptFmt,
			state.ReferenceDate, state.ReferenceDate.Weekday(), pendingJSON),
		MaxTokens: 2000,
	})
	if err != nil {
		state.AddNote("Stage 3 gateway error: %v", err)
		zap.L().Warn("deadline resolution degraded", zap.Error(err))
		return
	}

	var result deadlineResult
	if err := json.Unmarshal(payload, &result); err != nil {
		state.AddNote("Stage 3 gateway error: %v", err)
		return
	}

	resolved := 0
	for _, d := range result.Deadlines {
		if d.ResolvedDate == "" {
			continue
		}
		date, err := model.ParseDate(d.ResolvedDate)
		if err != nil {
			state.AddNote("Stage 3: rejected date %q for %s", d.ResolvedDate, d.ActionID)
			continue
		}
		a := state.Action(d.ActionID)
		if a == nil || a.DeadlineDate != nil {
			continue
		}
		a.DeadlineDate = &date
		resolved++
	}

	state.AddNote("Stage 3: Gateway resolved %d deadlines", resolved)
}
