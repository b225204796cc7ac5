// Package resolve holds the deterministic owner and deadline resolvers that
// short-circuit the language-model gateway when a rule matches confidently.
package resolve

import (
	"fmt"
	"strings"

	"github.com/sells-group/meeting-agent/internal/model"
)

// OwnerOutcome tags the result of deterministic owner resolution. Every path
// is handled explicitly: a confident match, a deferral to the gateway with
// the candidate set, or no match at all.
type OwnerOutcome int

const (
	// OwnerResolved means exactly one directory entry matched.
	OwnerResolved OwnerOutcome = iota
	// OwnerDeferred means the mention is ambiguous (several entries share
	// the mentioned first name); disambiguation is the gateway's job.
	OwnerDeferred
	// OwnerUnresolved means no directory entry matched the mention.
	OwnerUnresolved
)

func (o OwnerOutcome) String() string {
	switch o {
	case OwnerResolved:
		return "resolved"
	case OwnerDeferred:
		return "deferred"
	default:
		return "unresolved"
	}
}

// Confidence levels assigned by the deterministic owner rules.
const (
	ownerExactConfidence     = 1.0
	ownerFirstNameConfidence = 0.85
)

// OwnerResolution is the tagged outcome of one resolution attempt.
type OwnerResolution struct {
	Outcome    OwnerOutcome
	Person     model.Person   // set when Outcome == OwnerResolved
	Confidence float64        // 1.0 exact, 0.85 unique first name, else 0
	Candidates []model.Person // set when Outcome == OwnerDeferred
	Reason     string
}

// Owner resolves a raw owner mention against the directory.
//
// Rules, in order:
//  1. Exact full-name match, case-insensitive → resolved, confidence 1.0.
//  2. Exactly one entry whose first token matches the mention → resolved,
//     confidence 0.85. Several such entries → deferred with the candidates;
//     guessing between them is never allowed here.
//  3. Otherwise unresolved.
//
// Matching beyond exact first-token equality (nicknames, initials) is
// deliberately out of scope for the deterministic pass.
func Owner(mention string, directory *model.Directory) OwnerResolution {
	norm := strings.ToLower(strings.TrimSpace(mention))
	if norm == "" {
		return OwnerResolution{Outcome: OwnerUnresolved, Reason: "empty owner mention"}
	}

	for _, p := range directory.People() {
		if strings.ToLower(p.Name) == norm {
			return OwnerResolution{
				Outcome:    OwnerResolved,
				Person:     p,
				Confidence: ownerExactConfidence,
				Reason:     "exact full-name match",
			}
		}
	}

	var firstNameHits []model.Person
	for _, p := range directory.People() {
		if strings.ToLower(p.FirstName()) == norm {
			firstNameHits = append(firstNameHits, p)
		}
	}

	switch len(firstNameHits) {
	case 0:
		return OwnerResolution{
			Outcome: OwnerUnresolved,
			Reason:  fmt.Sprintf("%q matches no directory entry", mention),
		}
	case 1:
		return OwnerResolution{
			Outcome:    OwnerResolved,
			Person:     firstNameHits[0],
			Confidence: ownerFirstNameConfidence,
			Reason:     "unique first-name match",
		}
	default:
		names := make([]string, len(firstNameHits))
		for i, p := range firstNameHits {
			names[i] = p.Name
		}
		return OwnerResolution{
			Outcome:    OwnerDeferred,
			Candidates: firstNameHits,
			Reason:     fmt.Sprintf("%q is ambiguous between %s", mention, strings.Join(names, ", ")),
		}
	}
}
