package agreement

// =============================================================================
// GOVERNING-AGREEMENT SELECTION
//
// A termination notice resolves its expected end date against ONE of the
// client's agreements. Only signed agreements participate. Preference
// order:
//
//   1. An agreement whose fixed term covers today
//   2. An agreement whose continuous term has started
//   3. The most recently started signed agreement
//
// Ties inside each tier break toward the later start date. No signed
// agreement means the end date cannot be determined.
// =============================================================================

import (
	"sort"

	"github.com/warp/agreement-engine/engine"
)

// SelectGoverning picks the agreement a termination notice resolves
// against. Returns nil when the client has no signed agreement.
func SelectGoverning(agreements []Agreement, today engine.Date) *Agreement {
	signed := make([]Agreement, 0, len(agreements))
	for _, a := range agreements {
		if a.Status == StatusSigned {
			signed = append(signed, a)
		}
	}
	if len(signed) == 0 {
		return nil
	}

	// Later start dates first; the first hit in each tier wins.
	sort.SliceStable(signed, func(i, j int) bool {
		return signed[j].Draft.StartDate.Before(signed[i].Draft.StartDate)
	})

	for i := range signed {
		if signed[i].FixedTermActive(today) {
			return &signed[i]
		}
	}
	for i := range signed {
		if signed[i].ContinuousTermStarted(today) {
			return &signed[i]
		}
	}
	return &signed[0]
}

// ResolveExpectedEndDate computes the expected end date of a termination
// notice served on noticeDate, against the client's agreements as they
// stand today. Nil when no governing agreement exists or its term setup
// cannot produce a date.
func ResolveExpectedEndDate(noticeDate engine.Date, agreements []Agreement, today engine.Date) *engine.Date {
	gov := SelectGoverning(agreements, today)
	if gov == nil {
		return nil
	}
	return engine.ResolveEndDate(engine.TerminationInput{
		NoticeDate:       noticeDate,
		HasFixedTerm:     gov.Draft.HasFixedTerm,
		FixedTermEndDate: gov.Draft.FixedTermEndDate,
		NoticeRule:       gov.Draft.NoticeRule,
		NoticeDays:       gov.Draft.NoticeDays,
	})
}
