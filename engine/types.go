/*
Package engine provides the agreement pricing and term calculation core.

PURPOSE:
  This package contains the deterministic calculators that turn a license
  agreement's raw inputs (line items, term dates, notice-rule configuration,
  manual overrides) into derived contractual figures: discounted line
  prices, monthly totals, fixed-term duration, continuous-term start date,
  credit allotments, security deposits, and termination end dates.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: Integer whole-currency-unit amount (no fractional sub-units)
  - PricedLine: One billable line (office, parking, or add-on service)
  - OfficeLine: A priced line bound to an office record
  - OfficeProfile/OfficeDirectory: Per-office credit and price lookup
  - NoticeRule: The contractual termination-notice formula
  - Effective: Override-or-calculated precedence

DESIGN PRINCIPLES:
  1. Purity: Every calculator is a pure function. No I/O, no clocks,
     no shared state. Callers pass "today" explicitly where needed.
  2. Precision: Multiply-then-round money math goes through
     decimal.Decimal so half-way cases round exactly as specified.
  3. Tri-state overrides: An override is a pointer. nil means "track the
     computed value live"; zero means "overridden to zero". Never conflate.
  4. Draft tolerance: Incomplete drafts derive nil/unset values, never
     errors. Errors are reserved for the save boundary.

USAGE:
  line := engine.OfficeLine{
      OfficeID: "office-301",
      PricedLine: engine.PricedLine{ListPrice: 13000, DiscountPct: 3},
  }
  fee := line.Price() // 12610

SEE ALSO:
  - pricing.go: Discounted line pricing
  - term.go: Fixed/continuous term resolution
  - credits.go: Credit allotments and security deposits
  - termination.go: Termination-notice end date resolution
  - derive.go: Whole-draft derivation
*/
package engine

// =============================================================================
// MONEY - Whole currency units
// =============================================================================

// Money is a monetary amount in whole currency units. The legacy data has
// no fractional sub-units; every calculator rounds to a whole amount.
type Money int64

// =============================================================================
// PRICED LINES
// =============================================================================

// PricedLine is one billable line on an agreement: an office space, a
// parking space, or an add-on service.
//
// Quantity zero is treated as one everywhere: a blank quantity field on a
// draft must never zero out the line.
type PricedLine struct {
	ListPrice Money
	Quantity  int

	// DiscountPct and SpecialDiscountPct are percentages in [0,100].
	// They stack additively before being applied once; only office lines
	// carry a special discount.
	DiscountPct        float64
	SpecialDiscountPct float64
}

// OfficeLine is a priced office-space line referencing an office record.
// The office reference drives credit allotments and, indirectly, the
// continuous-term list price.
type OfficeLine struct {
	OfficeID string
	PricedLine
}

// =============================================================================
// OFFICE DIRECTORY - Per-office attributes referenced by agreement lines
// =============================================================================

// OfficeProfile carries the per-office attributes the calculators need.
type OfficeProfile struct {
	ListPrice       Money
	MRCredits       int
	PrintQuotaBW    int
	PrintQuotaColor int
}

// OfficeDirectory looks up office profiles by office ID. A line referencing
// an office absent from the directory contributes zero credits; the miss is
// silent here and logged by the host.
type OfficeDirectory map[string]OfficeProfile

// =============================================================================
// NOTICE RULES
// =============================================================================

// NoticeRule selects the contractual formula governing how much advance
// notice a termination requires during the continuous term.
type NoticeRule string

const (
	// NoticeRuleClause44: notice by the 20th of a month ends the license at
	// the next month-end; notice after the 20th at the second month-end.
	NoticeRuleClause44 NoticeRule = "CLAUSE_4_4"

	// NoticeRuleCurrentMonthPlusDays: the license ends at the month-end of
	// (notice date + N calendar days). N lives in the agreement's
	// continuous-notice-days field and is required for this rule.
	NoticeRuleCurrentMonthPlusDays NoticeRule = "CURRENT_MONTH_PLUS_DAYS"
)

// Known reports whether the rule is one of the two recognized variants.
// Unknown rules are a "cannot compute" signal, never an error.
func (r NoticeRule) Known() bool {
	return r == NoticeRuleClause44 || r == NoticeRuleCurrentMonthPlusDays
}

// =============================================================================
// OVERRIDE PRECEDENCE
// =============================================================================

// Effective implements the override-or-calculated rule used for credits and
// deposits: a non-nil override wins, nil tracks the computed value.
func Effective[T any](calculated T, override *T) T {
	if override != nil {
		return *override
	}
	return calculated
}

// IntPtr and MoneyPtr are small conveniences for building override fields.
func IntPtr(v int) *int       { return &v }
func MoneyPtr(v Money) *Money { return &v }
