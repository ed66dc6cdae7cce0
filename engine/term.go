/*
term.go - Fixed and continuous term resolution

PURPOSE:
  Determines an agreement's temporal shape. An agreement either has an
  initial fixed term (with a dated, inclusive end) followed by an open
  month-to-month continuous term, or it is continuous from day one.

DERIVED VALUES:
  - Continuous-term start: one day after the fixed term's end when a fixed
    term exists, otherwise the agreement's start date itself.
  - Fixed-term duration: whole months plus remainder days, computed with
    the legacy month-boundary formula (see below).

THE LEGACY DURATION FORMULA:
  months = month-index transitions between start and end
  if end.day >= start.day:  days = end.day - start.day + 1
  else:                     days = end.day - start.day + 1 + 31

  The "+31" remainder branch is NOT calendar-accurate for months shorter
  than 31 days. It is preserved bit-for-bit on purpose: existing contracts
  display these figures and compatibility wins over correctness. A
  regression test pins the behavior.

DRAFT TOLERANCE:
  A fixed-term draft without an end date yet is a valid in-progress state:
  the resolver leaves continuous start and duration unset, it does not fail.
*/
package engine

// TermDuration is a fixed term's length in whole months plus remainder days.
type TermDuration struct {
	Months int
	Days   int
}

// ResolvedTerm carries the derived temporal values of an agreement. Nil
// fields mean "not derivable yet", which downstream displays render blank.
type ResolvedTerm struct {
	ContinuousStart *Date
	Duration        *TermDuration
}

// ResolveTerm derives the continuous-term start date and, for fixed-term
// agreements, the fixed term's duration. fixedEnd is ignored unless
// hasFixedTerm is set; the end date is inclusive.
func ResolveTerm(hasFixedTerm bool, start Date, fixedEnd *Date) ResolvedTerm {
	if !hasFixedTerm {
		if start.IsZero() {
			return ResolvedTerm{}
		}
		cs := start
		return ResolvedTerm{ContinuousStart: &cs}
	}

	if start.IsZero() || fixedEnd == nil || fixedEnd.IsZero() {
		return ResolvedTerm{}
	}

	cs := fixedEnd.AddDays(1)
	dur := legacyDuration(start, *fixedEnd)
	return ResolvedTerm{ContinuousStart: &cs, Duration: &dur}
}

// legacyDuration reproduces the historical months+days split. When the end
// day-of-month has not yet reached the start's, the partial month is
// excluded from the month count and the remainder gets a fixed 31 days
// added, regardless of the actual month length.
func legacyDuration(start, end Date) TermDuration {
	months := MonthsApart(start, end)
	days := end.Day() - start.Day() + 1
	if end.Day() < start.Day() {
		days += 31
	}
	return TermDuration{Months: months, Days: days}
}
