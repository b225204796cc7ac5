package model

// ActionItem is a task extracted from the transcript. Created by the
// extraction stage, annotated (never removed) by the resolution and
// validation stages.
type ActionItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// RawOwnerMention is the owner reference as spoken in the meeting
	// ("Mike", "the backend folks"). Empty when no owner was mentioned.
	RawOwnerMention string `json:"raw_owner_mention"`

	// Resolved owner fields; empty until a resolver succeeds.
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	OwnerRole  string `json:"owner_role,omitempty"`

	// DeadlineText is the deadline phrase as spoken ("next Friday").
	DeadlineText string `json:"deadline_text,omitempty"`
	// DeadlineDate is nil until resolved to an absolute date.
	DeadlineDate *Date `json:"deadline_date,omitempty"`

	// Evidence holds verbatim transcript lines supporting the extraction.
	Evidence []string `json:"evidence"`

	Confidence      float64  `json:"confidence"`
	NeedsReview     bool     `json:"needs_review"`
	ValidationNotes []string `json:"validation_notes,omitempty"`
}

// HasOwner reports whether the owner has been resolved to a directory entry.
func (a *ActionItem) HasOwner() bool {
	return a.OwnerEmail != ""
}

// Flag marks the item for human review with a note. Duplicate notes are
// dropped so re-validation is idempotent.
func (a *ActionItem) Flag(note string) {
	a.NeedsReview = true
	for _, existing := range a.ValidationNotes {
		if existing == note {
			return
		}
	}
	a.ValidationNotes = append(a.ValidationNotes, note)
}

// Decision is a choice made during the meeting. Immutable after extraction.
type Decision struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	MadeBy      string   `json:"made_by,omitempty"`
	Evidence    []string `json:"evidence"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

// RiskCategory tags the kind of concern a Risk records.
type RiskCategory string

const (
	RiskCategoryRisk         RiskCategory = "risk"
	RiskCategoryOpenQuestion RiskCategory = "open_question"
	RiskCategoryDeadline     RiskCategory = "deadline"
	RiskCategoryTechnical    RiskCategory = "technical"
	RiskCategoryScope        RiskCategory = "scope"
)

// NormalizeRiskCategory maps free-form category text onto a known tag,
// defaulting to "risk".
func NormalizeRiskCategory(s string) RiskCategory {
	switch RiskCategory(s) {
	case RiskCategoryOpenQuestion, RiskCategoryDeadline, RiskCategoryTechnical, RiskCategoryScope:
		return RiskCategory(s)
	default:
		return RiskCategoryRisk
	}
}

// Risk is a concern or open question raised in the meeting. Immutable after
// extraction.
type Risk struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Category    RiskCategory `json:"category"`
	MentionedBy string       `json:"mentioned_by,omitempty"`
	Evidence    []string     `json:"evidence"`
	Timestamp   string       `json:"timestamp,omitempty"`
}
