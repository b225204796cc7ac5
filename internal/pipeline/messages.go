package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
)

const messageSystem = "You are a professional meeting coordinator. Generate clear, actionable follow-up emails. Output only valid JSON."

const messagePromptFmt = `Generate a professional, personalized follow-up email for %s.

Their assigned action items from the meeting:
%s

The email should:
1. Be friendly but professional
2. Clearly list each action item with its deadline
3. Be concise (under 200 words)
4. Include a clear subject line
5. Encourage them to reach out if they have questions

Respond ONLY with valid JSON:
{
  "subject": "Follow-up: Your Action Items from [Meeting]",
  "body": "Email body text with proper formatting"
}`

// messageTemperature is higher than the analysis stages so drafts read
// naturally instead of repeating the prompt structure.
const messageTemperature = 0.3

type ownerGroup struct {
	email string
	name  string
	items []*model.ActionItem
}

type draftedMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// generateMessages drafts one follow-up per distinct resolved owner, in the
// order owners first appear in the item list. Drafting fans out across
// owners; a failed draft falls back to a deterministic template, so this
// stage cannot abort the run.
func (p *Pipeline) generateMessages(ctx context.Context, comp gateway.Completer, state *model.ProcessingState) error {
	groups := groupByOwner(state)
	if len(groups) == 0 {
		state.AddNote("Stage 5: No owners to send messages to")
		return nil
	}

	messages := make([]model.FollowUpMessage, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.msgWorkers)

	for i, grp := range groups {
		g.Go(func() error {
			messages[i] = p.draftMessage(gctx, comp, grp)
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()

	state.FollowUpMessages = messages
	state.AddNote("Stage 5: Generated %d follow-up messages", len(messages))

	return nil
}

// groupByOwner buckets items by resolved owner email, preserving first-seen
// order. Items without a resolved owner get no message.
func groupByOwner(state *model.ProcessingState) []ownerGroup {
	index := make(map[string]int)
	var groups []ownerGroup

	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if !a.HasOwner() {
			continue
		}
		at, ok := index[a.OwnerEmail]
		if !ok {
			at = len(groups)
			index[a.OwnerEmail] = at
			groups = append(groups, ownerGroup{email: a.OwnerEmail, name: a.OwnerName})
		}
		groups[at].items = append(groups[at].items, a)
	}

	return groups
}

func (p *Pipeline) draftMessage(ctx context.Context, comp gateway.Completer, grp ownerGroup) model.FollowUpMessage {
	ids := make([]string, len(grp.items))
	for i, a := range grp.items {
		ids[i] = a.ID
	}

	type promptItem struct {
		Description string   `json:"description"`
		Deadline    string   `json:"deadline"`
		Evidence    []string `json:"evidence"`
	}
	promptItems := make([]promptItem, len(grp.items))
	for i, a := range grp.items {
		deadline := "No deadline specified"
		if a.DeadlineDate != nil {
			deadline = a.DeadlineDate.String()
		}
		evidence := a.Evidence
		if len(evidence) > 2 {
			evidence = evidence[:2]
		}
		promptItems[i] = promptItem{Description: a.Description, Deadline: deadline, Evidence: evidence}
	}

	itemsJSON, err := json.MarshalIndent(promptItems, "", "  ")
	if err != nil {
		return fallbackMessage(grp, ids)
	}

	payload, err := comp.CompleteJSON(ctx, "message_generation", gateway.Request{
		System:      messageSystem,
		Prompt:      fmt.Sprintf(messagePromptFmt, grp.name, itemsJSON),
		Temperature: messageTemperature,
		MaxTokens:   1000,
	})
	if err != nil {
		zap.L().Warn("message draft fell back to template",
			zap.String("owner", grp.email),
			zap.Error(err),
		)
		return fallbackMessage(grp, ids)
	}

	var draft draftedMessage
	if err := json.Unmarshal(payload, &draft); err != nil || draft.Body == "" {
		return fallbackMessage(grp, ids)
	}
	if draft.Subject == "" {
		draft.Subject = "Follow-up: Your Action Items"
	}

	return model.FollowUpMessage{
		ToEmail:     grp.email,
		ToName:      grp.name,
		Subject:     draft.Subject,
		Body:        draft.Body,
		ActionItems: ids,
	}
}

// fallbackMessage builds the deterministic template used when drafting via
// the gateway is unavailable.
func fallbackMessage(grp ownerGroup, ids []string) model.FollowUpMessage {
	var lines []string
	for _, a := range grp.items {
		due := "TBD"
		if a.DeadlineDate != nil {
			due = a.DeadlineDate.String()
		}
		lines = append(lines, fmt.Sprintf("- %s (Due: %s)", a.Description, due))
	}

	body := fmt.Sprintf(`Hi %s,

Following up on the meeting, here are your assigned action items:

%s

Please let me know if you have any questions.

Best regards`, grp.name, strings.Join(lines, "\n"))

	return model.FollowUpMessage{
		ToEmail:     grp.email,
		ToName:      grp.name,
		Subject:     "Follow-up: Your Action Items",
		Body:        body,
		ActionItems: ids,
	}
}
