package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/meeting-agent/internal/model"
)

// Summary renders the human-readable run report. It reads the fully annotated
// state and never mutates it.
func Summary(state *model.ProcessingState) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)

	fmt.Fprintf(&b, "MEETING ANALYSIS SUMMARY\n%s\n", rule)
	fmt.Fprintf(&b, "Reference Date: %s\n\n", state.ReferenceDate)

	fmt.Fprintf(&b, "ACTION ITEMS (%d)\n%s\n", len(state.ActionItems), sep)
	for i := range state.ActionItems {
		a := &state.ActionItems[i]
		fmt.Fprintf(&b, "\n[%s] %s\n", a.ID, a.Description)

		owner, email := a.OwnerName, a.OwnerEmail
		if owner == "" {
			owner = "UNASSIGNED"
		}
		if email == "" {
			email = "N/A"
		}
		fmt.Fprintf(&b, "  Owner: %s (%s)\n", owner, email)

		switch {
		case a.DeadlineDate != nil:
			fmt.Fprintf(&b, "  Deadline: %s\n", a.DeadlineDate)
		case a.DeadlineText != "":
			fmt.Fprintf(&b, "  Deadline: %s\n", a.DeadlineText)
		default:
			fmt.Fprintf(&b, "  Deadline: None\n")
		}

		if a.NeedsReview {
			fmt.Fprintf(&b, "  NEEDS REVIEW: %s\n", strings.Join(a.ValidationNotes, ", "))
		}
	}

	fmt.Fprintf(&b, "\n\nDECISIONS (%d)\n%s\n", len(state.Decisions), sep)
	for i := range state.Decisions {
		d := &state.Decisions[i]
		fmt.Fprintf(&b, "\n[%s] %s\n", d.ID, d.Description)
		if d.MadeBy != "" {
			fmt.Fprintf(&b, "  Made by: %s\n", d.MadeBy)
		}
	}

	fmt.Fprintf(&b, "\n\nRISKS & OPEN QUESTIONS (%d)\n%s\n", len(state.Risks), sep)
	for i := range state.Risks {
		r := &state.Risks[i]
		fmt.Fprintf(&b, "\n[%s] %s\n", r.ID, r.Description)
		fmt.Fprintf(&b, "  Category: %s\n", r.Category)
		if r.MentionedBy != "" {
			fmt.Fprintf(&b, "  Mentioned by: %s\n", r.MentionedBy)
		}
	}

	return b.String()
}
