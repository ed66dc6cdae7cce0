/*
credits.go - Credit allotments and security deposits

PURPOSE:
  Aggregates the per-office credit allotments (conference-room credits,
  black&white and color print quotas) granted by an agreement's office
  lines, and computes the security deposit owed for each term phase.

CREDIT AGGREGATION:
  Each office line contributes the referenced office's credit figures.
  A line whose office is missing from the directory contributes zero;
  the miss is silent here (the host logs it) and never fatal.

DEPOSITS:
  deposit = round(phaseOfficeFees * 2 * 1.18)

  200% of the phase's office fees plus 18% VAT on that 200%. Fixed-phase
  fees are the discounted office prices; continuous-phase fees are the raw
  list prices, because the continuous term is always billed at list price.

OVERRIDES:
  Every credit kind and both deposit figures support a manual override with
  override-or-calculated precedence (see Effective in types.go). Overrides
  are set and cleared explicitly by the user; recomputation refreshes only
  the calculated side and never touches them.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CREDIT AGGREGATION
// =============================================================================

// CreditTotals holds the three credit kinds an agreement grants.
type CreditTotals struct {
	Conference int
	PrintBW    int
	PrintColor int
}

// AggregateCredits sums per-office allotments across all office lines.
// Lines referencing unknown offices contribute zero.
func AggregateCredits(lines []OfficeLine, offices OfficeDirectory) CreditTotals {
	var totals CreditTotals
	for _, line := range lines {
		office, ok := offices[line.OfficeID]
		if !ok {
			continue
		}
		totals.Conference += office.MRCredits
		totals.PrintBW += office.PrintQuotaBW
		totals.PrintColor += office.PrintQuotaColor
	}
	return totals
}

// CreditOverrides carries the optional manual replacements, one per kind.
// nil means "track the computed aggregate live"; zero means "overridden to
// zero". The two must never be conflated.
type CreditOverrides struct {
	Conference *int
	PrintBW    *int
	PrintColor *int
}

// CreditBreakdown pairs the computed aggregates with the values the host
// should store and display after override precedence.
type CreditBreakdown struct {
	Calculated CreditTotals
	Effective  CreditTotals
}

// ResolveCredits applies override precedence per credit kind.
func ResolveCredits(calculated CreditTotals, overrides CreditOverrides) CreditBreakdown {
	return CreditBreakdown{
		Calculated: calculated,
		Effective: CreditTotals{
			Conference: Effective(calculated.Conference, overrides.Conference),
			PrintBW:    Effective(calculated.PrintBW, overrides.PrintBW),
			PrintColor: Effective(calculated.PrintColor, overrides.PrintColor),
		},
	}
}

// =============================================================================
// SECURITY DEPOSITS
// =============================================================================

// TermPhase identifies which phase of the agreement a figure belongs to.
type TermPhase string

const (
	PhaseFixed      TermPhase = "fixed"
	PhaseContinuous TermPhase = "continuous"
)

var depositFactor = decimal.NewFromInt(2).Mul(decimal.NewFromFloat(1.18))

// SecurityDeposit computes round(officeFees * 2 * 1.18).
func SecurityDeposit(officeFees Money) Money {
	d := decimal.NewFromInt(int64(officeFees)).Mul(depositFactor).Round(0)
	return Money(d.IntPart())
}

// DepositFor computes the deposit for a term phase from the agreement's
// office lines. The fixed phase uses fully discounted prices; the
// continuous phase uses undiscounted list prices. An unknown phase yields
// zero rather than guessing.
func DepositFor(phase TermPhase, lines []OfficeLine) Money {
	switch phase {
	case PhaseFixed:
		return SecurityDeposit(SumOfficePrices(lines))
	case PhaseContinuous:
		return SecurityDeposit(SumOfficeListPrices(lines))
	default:
		return 0
	}
}

// DepositOverrides carries the optional manual deposit replacements.
type DepositOverrides struct {
	Fixed      *Money
	Continuous *Money
}

// DepositBreakdown pairs calculated and effective deposits per phase.
type DepositBreakdown struct {
	FixedCalculated      Money
	FixedEffective       Money
	ContinuousCalculated Money
	ContinuousEffective  Money
}

// ResolveDeposits computes both phase deposits and applies override
// precedence independently to each.
func ResolveDeposits(lines []OfficeLine, overrides DepositOverrides) DepositBreakdown {
	fixed := DepositFor(PhaseFixed, lines)
	continuous := DepositFor(PhaseContinuous, lines)
	return DepositBreakdown{
		FixedCalculated:      fixed,
		FixedEffective:       Effective(fixed, overrides.Fixed),
		ContinuousCalculated: continuous,
		ContinuousEffective:  Effective(continuous, overrides.Continuous),
	}
}
