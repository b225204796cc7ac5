package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
	"github.com/sells-group/meeting-agent/internal/resolve"
)

const ownerMatchSystem = "You are an expert at matching names and roles. Output only valid JSON."

const ownerMatchPromptFmt = `Given this people directory and action items, match each action to the correct person.

People Directory:
%s

Unresolved Actions:
%s

For each action, determine the best matching person from the directory. Consider:
- Name variations (e.g., "Emily" → "Emily Carter")
- Role inference (e.g., "backend work" → Backend Engineer)
- Context from evidence quotes

Only match an action when the directory clearly supports it; omit actions you
cannot match with confidence.

Respond ONLY with valid JSON:
{
  "matches": [
    {
      "action_id": "action_1",
      "matched_name": "Full Name from directory",
      "confidence": 0.95,
      "reasoning": "Brief explanation"
    }
  ]
}`

type unresolvedOwner struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	OwnerName   string   `json:"owner_name"`
	Evidence    []string `json:"evidence"`
}

type ownerMatch struct {
	ActionID    string  `json:"action_id"`
	MatchedName string  `json:"matched_name"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

type ownerMatchResult struct {
	Matches []ownerMatch `json:"matches"`
}

// resolveOwners matches raw owner mentions to the people directory. A
// deterministic pass handles exact and unique-first-name matches; everything
// still open after that (ambiguous mentions and no-match mentions) goes to the
// gateway in one batched call. A gateway failure degrades to flagged items
// rather than aborting the run.
func (p *Pipeline) resolveOwners(ctx context.Context, comp gateway.Completer, state *model.ProcessingState) error {
	exact := 0
	var pending []unresolvedOwner

	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if a.RawOwnerMention == "" {
			continue
		}

		res := resolve.Owner(a.RawOwnerMention, state.PeopleDirectory)
		switch res.Outcome {
		case resolve.OwnerResolved:
			applyOwner(a, res.Person, res.Confidence)
			exact++
		case resolve.OwnerDeferred, resolve.OwnerUnresolved:
			state.AddNote("Stage 2: %s: %s", a.ID, res.Reason)
			pending = append(pending, unresolvedOwner{
				ID:          a.ID,
				Description: a.Description,
				OwnerName:   a.RawOwnerMention,
				Evidence:    a.Evidence,
			})
		}
	}

	state.AddNote("Stage 2: Found %d exact matches", exact)

	if len(pending) > 0 {
		p.resolveOwnersWithGateway(ctx, comp, state, pending)
	}

	// Anything still without a resolved owner is flagged, including items
	// that never mentioned one.
	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if !a.HasOwner() {
			a.Flag("Owner could not be resolved")
		}
	}

	return nil
}

// resolveOwnersWithGateway sends the open mentions in one batched call. A
// returned match is applied only when matched_name is an exact directory key;
// the model never gets to invent people.
func (p *Pipeline) resolveOwnersWithGateway(ctx context.Context, comp gateway.Completer, state *model.ProcessingState, pending []unresolvedOwner) {
	var sb strings.Builder
	for _, person := range state.PeopleDirectory.People() {
		fmt.Fprintf(&sb, "- %s (%s) - %s\n", person.Name, person.Role, person.Email)
	}

	pendingJSON, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		state.AddNote("Stage 2 gateway error: %v", err)
		return
	}

	payload, err := comp.CompleteJSON(ctx, "owner_resolution", gateway.Request{
		System:    ownerMatchSystem,
		Prompt:    fmt.Sprintf(ownerMatchPromptFmt, sb.String(), pendingJSON),
		MaxTokens: 2000,
	})
	if err != nil {
		state.AddNote("Stage 2 gateway error: %v", err)
		zap.L().Warn("owner resolution degraded", zap.Error(err))
		return
	}

	var result ownerMatchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		state.AddNote("Stage 2 gateway error: %v", err)
		return
	}

	matched := 0
	for _, m := range result.Matches {
		person, ok := state.PeopleDirectory.Get(m.MatchedName)
		if !ok {
			state.AddNote("Stage 2: rejected match %q for %s: not in directory", m.MatchedName, m.ActionID)
			continue
		}
		a := state.Action(m.ActionID)
		if a == nil || a.HasOwner() {
			continue
		}

		applyOwner(a, person, m.Confidence)
		if m.Confidence < p.threshold {
			a.Flag(fmt.Sprintf("Low confidence match (%.2f): %s", m.Confidence, m.Reasoning))
		}
		matched++
	}

	state.AddNote("Stage 2: Resolved %d owners via gateway", matched)
}

func applyOwner(a *model.ActionItem, person model.Person, confidence float64) {
	a.OwnerName = person.Name
	a.OwnerEmail = person.Email
	a.OwnerRole = person.Role
	a.Confidence = confidence
}
