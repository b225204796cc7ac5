package resolve

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/meeting-agent/internal/model"
)

// DeadlineOutcome tags the result of deterministic deadline resolution.
type DeadlineOutcome int

const (
	// DeadlineResolved means a literal or rule produced an absolute date.
	DeadlineResolved DeadlineOutcome = iota
	// DeadlineUnresolved means no rule matched; the phrase goes to the gateway.
	DeadlineUnresolved
)

// Confidence levels assigned by the deterministic deadline rules.
const (
	deadlineLiteralConfidence = 1.0
	deadlineRuleConfidence    = 0.9
)

// DeadlineResolution is the tagged outcome of one resolution attempt.
type DeadlineResolution struct {
	Outcome    DeadlineOutcome
	Date       model.Date // set when Outcome == DeadlineResolved
	Confidence float64
	Rule       string // which rule matched, for the audit trail
}

var (
	inDaysRe  = regexp.MustCompile(`in (\d+) days?`)
	inWeeksRe = regexp.MustCompile(`in (\d+) weeks?`)
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Deadline resolves a raw deadline phrase against the reference date.
//
// An absolute ISO date literal resolves with confidence 1.0. Relative-phrase
// rules each resolve with confidence 0.9: today/eod, tomorrow, "in N
// days/weeks", next/this/by <weekday>, a bare weekday name, "end of week"
// (next Friday; a full week out when the reference date is already Friday),
// and "next week" (next Monday). Anything else is left for the gateway.
func Deadline(phrase string, ref model.Date) DeadlineResolution {
	txt := strings.ToLower(strings.TrimSpace(phrase))
	if txt == "" {
		return DeadlineResolution{Outcome: DeadlineUnresolved}
	}

	if d, err := model.ParseDate(txt); err == nil {
		return DeadlineResolution{
			Outcome:    DeadlineResolved,
			Date:       d,
			Confidence: deadlineLiteralConfidence,
			Rule:       "absolute date literal",
		}
	}

	switch txt {
	case "today", "by today", "eod", "end of day", "today eod":
		return ruleHit(ref, "today")
	case "tomorrow", "by tomorrow", "tomorrow eod", "by tomorrow eod":
		return ruleHit(ref.AddDays(1), "tomorrow")
	}

	if m := inDaysRe.FindStringSubmatch(txt); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ruleHit(ref.AddDays(n), "in N days")
	}
	if m := inWeeksRe.FindStringSubmatch(txt); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ruleHit(ref.AddDays(n*7), "in N weeks")
	}

	// "next <weekday>" and "by <weekday>" mean the nearest strictly-future
	// occurrence: a reference date that already is that weekday rolls a
	// full week forward.
	for name, day := range weekdays {
		if strings.Contains(txt, "next "+name) || strings.Contains(txt, "by "+name) {
			return ruleHit(nextWeekday(ref, day, false), "next weekday")
		}
	}

	// "this <weekday>" stays within the current week (same-day allowed).
	for name, day := range weekdays {
		if strings.Contains(txt, "this "+name) {
			return ruleHit(nextWeekday(ref, day, true), "this weekday")
		}
	}

	// A bare weekday name means the next occurrence.
	for name, day := range weekdays {
		if txt == name {
			return ruleHit(nextWeekday(ref, day, false), "bare weekday")
		}
	}

	if strings.Contains(txt, "end of week") || strings.Contains(txt, "eow") {
		return ruleHit(nextWeekday(ref, time.Friday, false), "end of week")
	}

	if strings.Contains(txt, "next week") {
		return ruleHit(nextWeekday(ref, time.Monday, false), "next week")
	}

	return DeadlineResolution{Outcome: DeadlineUnresolved}
}

func ruleHit(d model.Date, rule string) DeadlineResolution {
	return DeadlineResolution{
		Outcome:    DeadlineResolved,
		Date:       d,
		Confidence: deadlineRuleConfidence,
		Rule:       rule,
	}
}

// nextWeekday returns the next occurrence of day after ref. With sameDayOK,
// a ref that already falls on day resolves to ref itself; otherwise it rolls
// seven days forward.
func nextWeekday(ref model.Date, day time.Weekday, sameDayOK bool) model.Date {
	ahead := (int(day) - int(ref.Weekday()) + 7) % 7
	if ahead == 0 && !sameDayOK {
		ahead = 7
	}
	return ref.AddDays(ahead)
}
