/*
termination.go - Termination-notice end date resolution

PURPOSE:
  Given the date a termination notice is served and the governing
  agreement's term/notice configuration, computes the earliest end-of-
  license date the contract permits.

THE TWO CONTINUOUS-TERM RULES (mutually exclusive):
  CLAUSE_4_4:
    Notice by the 20th of a month -> license ends at the NEXT month-end.
    Notice after the 20th         -> license ends at the SECOND month-end.

  CURRENT_MONTH_PLUS_DAYS:
    License ends at the month-end of (notice date + N calendar days).
    N is the agreement's continuous-notice-days field and must be a
    non-negative integer; absent or negative means this branch cannot
    be computed.

FIXED-TERM RECONCILIATION:
  A fixed term cannot be cut short by notice. If the agreement has a fixed
  term with a known end date, that end date is rounded to its own month-end
  and the final answer is the LATER of it and the continuous-rule date.
  When the continuous date could not be computed, the fixed month-end
  stands alone.

OUTPUT CONTRACT:
  The result is always a month-end date (the rounding is applied once more
  at the end; it is idempotent). nil means "cannot determine" - an unknown
  rule, missing day count, or no computable branch. The caller leaves the
  expected-end-date field blank; a nil here never blocks a save.
*/
package engine

// TerminationInput is the slice of an agreement the resolver needs,
// together with the candidate notice date.
type TerminationInput struct {
	NoticeDate Date

	HasFixedTerm     bool
	FixedTermEndDate *Date

	NoticeRule NoticeRule
	NoticeDays *int
}

// ResolveEndDate computes the contractually required end-of-license date,
// or nil when it cannot be determined from the inputs.
func ResolveEndDate(in TerminationInput) *Date {
	if in.NoticeDate.IsZero() {
		return nil
	}

	continuousEnd := continuousEndDate(in)

	var final *Date
	if in.HasFixedTerm && in.FixedTermEndDate != nil && !in.FixedTermEndDate.IsZero() {
		fixedMonthEnd := in.FixedTermEndDate.EndOfMonth()
		switch {
		case continuousEnd == nil:
			final = &fixedMonthEnd
		case fixedMonthEnd.After(*continuousEnd):
			final = &fixedMonthEnd
		default:
			final = continuousEnd
		}
	} else {
		final = continuousEnd
	}

	if final == nil {
		return nil
	}
	rounded := final.EndOfMonth()
	return &rounded
}

// continuousEndDate evaluates the continuous-term notice rule. nil means
// the branch cannot be computed (unknown rule, missing/negative days).
func continuousEndDate(in TerminationInput) *Date {
	switch in.NoticeRule {
	case NoticeRuleCurrentMonthPlusDays:
		if in.NoticeDays == nil || *in.NoticeDays < 0 {
			return nil
		}
		end := in.NoticeDate.AddDays(*in.NoticeDays).EndOfMonth()
		return &end

	case NoticeRuleClause44:
		monthsAhead := 1
		if in.NoticeDate.Day() > 20 {
			monthsAhead = 2
		}
		end := in.NoticeDate.EndOfMonthOffset(monthsAhead)
		return &end

	default:
		// Unrecognized rule: do not guess.
		return nil
	}
}

// ValidateNoticeOverride enforces the one commit-time rule a termination
// notice has of its own: a manually entered end date may not precede the
// notice date.
func ValidateNoticeOverride(noticeDate Date, overrideEnd *Date) error {
	if overrideEnd == nil || overrideEnd.IsZero() {
		return nil
	}
	if overrideEnd.Before(noticeDate) {
		return ErrOverrideBeforeNotice
	}
	return nil
}
