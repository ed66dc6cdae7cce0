package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/agreement-engine/engine"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func testOffices() engine.OfficeDirectory {
	return engine.OfficeDirectory{
		"office-301": {ListPrice: 13000, MRCredits: 10, PrintQuotaBW: 500, PrintQuotaColor: 100},
		"office-302": {ListPrice: 9000, MRCredits: 5, PrintQuotaBW: 250, PrintQuotaColor: 50},
	}
}

func officeLine(id string, listPrice engine.Money, discount, special float64) engine.OfficeLine {
	return engine.OfficeLine{
		OfficeID: id,
		PricedLine: engine.PricedLine{
			ListPrice:          listPrice,
			Quantity:           1,
			DiscountPct:        discount,
			SpecialDiscountPct: special,
		},
	}
}

// =============================================================================
// CREDIT AGGREGATION
// =============================================================================

func TestAggregateCredits_SumsAcrossOfficeLines(t *testing.T) {
	lines := []engine.OfficeLine{
		officeLine("office-301", 13000, 0, 0),
		officeLine("office-302", 9000, 0, 0),
	}

	totals := engine.AggregateCredits(lines, testOffices())

	assert.Equal(t, 15, totals.Conference)
	assert.Equal(t, 750, totals.PrintBW)
	assert.Equal(t, 150, totals.PrintColor)
}

func TestAggregateCredits_UnknownOfficeContributesZero(t *testing.T) {
	// GIVEN: A line referencing an office missing from the directory
	// THEN: It silently contributes nothing; the calculation never fails
	lines := []engine.OfficeLine{
		officeLine("office-301", 13000, 0, 0),
		officeLine("office-999", 7000, 0, 0),
	}

	totals := engine.AggregateCredits(lines, testOffices())

	assert.Equal(t, 10, totals.Conference)
	assert.Equal(t, 500, totals.PrintBW)
	assert.Equal(t, 100, totals.PrintColor)
}

func TestAggregateCredits_NoLines(t *testing.T) {
	assert.Equal(t, engine.CreditTotals{}, engine.AggregateCredits(nil, testOffices()))
}

// =============================================================================
// OVERRIDE PRECEDENCE - null, zero, and positive are three distinct states
// =============================================================================

func TestResolveCredits_NilOverrideTracksCalculated(t *testing.T) {
	breakdown := engine.ResolveCredits(
		engine.CreditTotals{Conference: 5, PrintBW: 100, PrintColor: 20},
		engine.CreditOverrides{},
	)

	assert.Equal(t, 5, breakdown.Effective.Conference)
	assert.Equal(t, 100, breakdown.Effective.PrintBW)
	assert.Equal(t, 20, breakdown.Effective.PrintColor)
}

func TestResolveCredits_ZeroOverrideIsNotNil(t *testing.T) {
	// An override of zero means "zero credits", not "no override".
	breakdown := engine.ResolveCredits(
		engine.CreditTotals{Conference: 5},
		engine.CreditOverrides{Conference: engine.IntPtr(0)},
	)

	assert.Equal(t, 0, breakdown.Effective.Conference)
	assert.Equal(t, 5, breakdown.Calculated.Conference, "calculated side unaffected")
}

func TestResolveCredits_OverridesAreIndependentPerKind(t *testing.T) {
	breakdown := engine.ResolveCredits(
		engine.CreditTotals{Conference: 5, PrintBW: 100, PrintColor: 20},
		engine.CreditOverrides{PrintBW: engine.IntPtr(300)},
	)

	assert.Equal(t, 5, breakdown.Effective.Conference)
	assert.Equal(t, 300, breakdown.Effective.PrintBW)
	assert.Equal(t, 20, breakdown.Effective.PrintColor)
}

// =============================================================================
// SECURITY DEPOSITS
// =============================================================================

func TestDepositFor_FixedPhaseUsesDiscountedFees(t *testing.T) {
	// GIVEN: One office at list 13000 with a 3% discount (fee 12610)
	// THEN: Deposit = round(12610 * 2 * 1.18) = round(29759.6) = 29760
	lines := []engine.OfficeLine{officeLine("office-301", 13000, 3, 0)}

	assert.Equal(t, engine.Money(29760), engine.DepositFor(engine.PhaseFixed, lines))
}

func TestDepositFor_ContinuousPhaseIgnoresDiscounts(t *testing.T) {
	// The continuous term is billed at list price, discounts and all.
	lines := []engine.OfficeLine{officeLine("office-301", 13000, 3, 0)}

	// round(13000 * 2 * 1.18) = 30680
	assert.Equal(t, engine.Money(30680), engine.DepositFor(engine.PhaseContinuous, lines))
}

func TestDepositFor_UnknownPhaseYieldsZero(t *testing.T) {
	lines := []engine.OfficeLine{officeLine("office-301", 13000, 3, 0)}
	assert.Equal(t, engine.Money(0), engine.DepositFor(engine.TermPhase("quarterly"), lines))
}

func TestDepositFor_SumsRoundedLineFees(t *testing.T) {
	// Per-line prices round first, then the deposit factor applies to the sum.
	lines := []engine.OfficeLine{
		officeLine("office-301", 13000, 3, 0), // 12610
		officeLine("office-302", 9000, 10, 5), // round(9000*0.85) = 7650
	}

	assert.Equal(t, engine.SecurityDeposit(12610+7650), engine.DepositFor(engine.PhaseFixed, lines))
}

func TestResolveDeposits_OverridePrecedence(t *testing.T) {
	lines := []engine.OfficeLine{officeLine("office-301", 13000, 3, 0)}

	breakdown := engine.ResolveDeposits(lines, engine.DepositOverrides{
		Fixed: engine.MoneyPtr(30000),
	})

	assert.Equal(t, engine.Money(29760), breakdown.FixedCalculated)
	assert.Equal(t, engine.Money(30000), breakdown.FixedEffective)
	assert.Equal(t, engine.Money(30680), breakdown.ContinuousCalculated)
	assert.Equal(t, engine.Money(30680), breakdown.ContinuousEffective, "no continuous override set")
}
