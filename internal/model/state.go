package model

import "fmt"

// ProcessingState is the single mutable aggregate threaded through the six
// pipeline stages. Each run owns exactly one instance; stages mutate it in
// place and never read output produced by a later stage. After extraction
// the set of action item identities is fixed — later stages only annotate.
type ProcessingState struct {
	Transcript      string
	PeopleDirectory *Directory
	ReferenceDate   Date

	ActionItems []ActionItem
	Decisions   []Decision
	Risks       []Risk

	FollowUpMessages   []FollowUpMessage
	NotificationEvents []NotificationEvent

	// StageCompleted names the last stage that finished, for diagnostics.
	StageCompleted string

	// ProcessingNotes is the append-only audit log. Gateway attempts,
	// resolution outcomes, and validation summaries all land here.
	ProcessingNotes []string
}

// NewProcessingState constructs the state for one run.
func NewProcessingState(transcript string, directory *Directory, referenceDate Date) *ProcessingState {
	return &ProcessingState{
		Transcript:      transcript,
		PeopleDirectory: directory,
		ReferenceDate:   referenceDate,
	}
}

// AddNote appends a formatted entry to the audit log.
func (s *ProcessingState) AddNote(format string, args ...any) {
	s.ProcessingNotes = append(s.ProcessingNotes, fmt.Sprintf(format, args...))
}

// Action returns a pointer to the action item with the given id, or nil.
func (s *ProcessingState) Action(id string) *ActionItem {
	for i := range s.ActionItems {
		if s.ActionItems[i].ID == id {
			return &s.ActionItems[i]
		}
	}
	return nil
}

// ReviewCount returns how many action items are flagged for review.
func (s *ProcessingState) ReviewCount() int {
	n := 0
	for i := range s.ActionItems {
		if s.ActionItems[i].NeedsReview {
			n++
		}
	}
	return n
}
