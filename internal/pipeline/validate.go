package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
)

// pileupLimit is how many items one owner may have due on a single day
// before the cluster is worth a second look.
const pileupLimit = 3

// validate runs the pure consistency checks over the annotated action items.
// It makes no gateway calls and never mutates descriptions, owners, or dates,
// so running it twice over the same state flags exactly the same items with
// the same notes.
func (p *Pipeline) validate(_ context.Context, _ gateway.Completer, state *model.ProcessingState) error {
	for i := range state.ActionItems {
		a := &state.ActionItems[i]

		if a.RawOwnerMention == "" && !a.HasOwner() {
			a.Flag("No owner assigned")
		}
		if a.RawOwnerMention != "" && !a.HasOwner() {
			a.Flag(fmt.Sprintf("Owner %q not found in directory", a.RawOwnerMention))
		}
		if a.HasOwner() && a.Confidence < p.threshold {
			a.Flag(fmt.Sprintf("Low confidence match: %.2f", a.Confidence))
		}
		if a.DeadlineText != "" && a.DeadlineDate == nil {
			a.Flag(fmt.Sprintf("Could not resolve deadline: %q", a.DeadlineText))
		}
		if a.DeadlineDate != nil && a.DeadlineDate.Before(state.ReferenceDate) {
			a.Flag(fmt.Sprintf("Deadline %s precedes the meeting date", a.DeadlineDate))
		}
	}

	p.checkConsistency(state)

	state.AddNote("Stage 4: Validated %d actions, %d need review",
		len(state.ActionItems), state.ReviewCount())

	return nil
}

// checkConsistency flags duplicate descriptions and deadline pileups across
// the whole item set.
func (p *Pipeline) checkConsistency(state *model.ProcessingState) {
	seen := make(map[string]bool)
	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		desc := strings.ToLower(strings.TrimSpace(a.Description))
		if seen[desc] {
			a.Flag("Potential duplicate of an earlier action item")
		}
		seen[desc] = true
	}

	type ownerDay struct {
		email string
		day   string
	}
	clusters := make(map[ownerDay][]*model.ActionItem)
	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		if a.HasOwner() && a.DeadlineDate != nil {
			key := ownerDay{a.OwnerEmail, a.DeadlineDate.String()}
			clusters[key] = append(clusters[key], a)
		}
	}
	for key, items := range clusters {
		if len(items) <= pileupLimit {
			continue
		}
		for _, a := range items {
			a.Flag(fmt.Sprintf("%d actions due for %s on %s", len(items), key.email, key.day))
		}
	}
}
