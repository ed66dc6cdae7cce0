package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/agreement-engine/engine"
)

func testDirectory() engine.OfficeDirectory {
	return engine.OfficeDirectory{
		"office-301": {ListPrice: 13000, MRCredits: 10, PrintQuotaBW: 500, PrintQuotaColor: 100},
		"office-302": {ListPrice: 9000, MRCredits: 5, PrintQuotaBW: 250, PrintQuotaColor: 50},
	}
}

func baseDraft() engine.Draft {
	return engine.Draft{
		HasFixedTerm: true,
		StartDate:    engine.MustParseDate("2025-05-01"),
		FixedTermEndDate: func() *engine.Date {
			d := engine.MustParseDate("2025-09-30")
			return &d
		}(),
		NoticeRule: engine.NoticeRuleClause44,
		OfficeLines: []engine.OfficeLine{
			{OfficeID: "office-301", PricedLine: engine.PricedLine{ListPrice: 13000, Quantity: 1, DiscountPct: 3}},
		},
	}
}

func TestEditor_RecomputesOnEveryMutation(t *testing.T) {
	// GIVEN an editing session over a single-office draft
	e := NewEditor(baseDraft(), testDirectory())
	require.Equal(t, engine.Money(12610), e.Derived().Totals.Monthly)

	// WHEN a second office line is added
	e.AddOfficeLine(engine.OfficeLine{
		OfficeID:   "office-302",
		PricedLine: engine.PricedLine{ListPrice: 9000, Quantity: 1},
	})

	// THEN the derived figures already reflect it
	assert.Equal(t, engine.Money(12610+9000), e.Derived().Totals.Monthly)
	assert.Equal(t, 15, e.Derived().Credits.Effective.Conference)

	// WHEN the line is removed again
	e.RemoveOfficeLine(1)

	// THEN the figures revert
	assert.Equal(t, engine.Money(12610), e.Derived().Totals.Monthly)
}

func TestEditor_SeedsListPriceFromDirectory(t *testing.T) {
	// GIVEN an editor over an empty draft
	e := NewEditor(engine.Draft{NoticeRule: engine.NoticeRuleClause44}, testDirectory())

	// WHEN an office line is added without a list price
	e.AddOfficeLine(engine.OfficeLine{OfficeID: "office-302"})

	// THEN the directory's list price and a quantity of one are filled in
	require.Len(t, e.Draft().OfficeLines, 1)
	assert.Equal(t, engine.Money(9000), e.Draft().OfficeLines[0].ListPrice)
	assert.Equal(t, 1, e.Draft().OfficeLines[0].Quantity)
}

func TestEditor_NoticeRuleSwitchClearsDays(t *testing.T) {
	// GIVEN a draft on the plus-days rule with 90 days
	d := baseDraft()
	d.NoticeRule = engine.NoticeRuleCurrentMonthPlusDays
	d.NoticeDays = engine.IntPtr(90)
	e := NewEditor(d, testDirectory())

	// WHEN switching to the standard clause
	e.SetNoticeRule(engine.NoticeRuleClause44)

	// THEN the day count is cleared
	assert.Nil(t, e.Draft().NoticeDays)

	// WHEN switching back to plus-days
	e.SetNoticeRule(engine.NoticeRuleCurrentMonthPlusDays)

	// THEN the previous day count is restored
	require.NotNil(t, e.Draft().NoticeDays)
	assert.Equal(t, 90, *e.Draft().NoticeDays)
}

func TestEditor_NoticeRuleSwitchDefaultsTo180(t *testing.T) {
	// GIVEN a draft that never carried a day count
	e := NewEditor(baseDraft(), testDirectory())

	// WHEN switching to the plus-days rule
	e.SetNoticeRule(engine.NoticeRuleCurrentMonthPlusDays)

	// THEN the standard 180-day count is applied
	require.NotNil(t, e.Draft().NoticeDays)
	assert.Equal(t, 180, *e.Draft().NoticeDays)
}

func TestEditor_StagedOverridesApplyOnCommitOnly(t *testing.T) {
	// GIVEN an editing session
	e := NewEditor(baseDraft(), testDirectory())
	require.Equal(t, 10, e.Derived().Credits.Effective.Conference)

	// WHEN a credit override is staged
	e.StageCreditOverrides(engine.CreditOverrides{Conference: engine.IntPtr(25)})

	// THEN the working draft is untouched but the staged view shows it
	assert.Equal(t, 10, e.Derived().Credits.Effective.Conference)
	assert.Equal(t, 25, e.StagedCredits().Effective.Conference)

	// WHEN the session commits
	_, derived, err := e.Commit()

	// THEN the override lands in the draft and the derived figures
	require.NoError(t, err)
	assert.Equal(t, 25, derived.Credits.Effective.Conference)
	assert.Equal(t, 10, derived.Credits.Calculated.Conference)
}

func TestEditor_CommitRejectsInvalidDraft(t *testing.T) {
	// GIVEN a session whose draft has lost its office lines
	e := NewEditor(baseDraft(), testDirectory())
	e.RemoveOfficeLine(0)
	e.StageDepositOverrides(engine.DepositOverrides{Fixed: engine.MoneyPtr(50000)})

	// WHEN committing
	_, _, err := e.Commit()

	// THEN validation fails and the staged override is not folded in
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Nil(t, e.Draft().DepositOverrides.Fixed)
}

func TestEditor_FixedTermOffClearsEndDate(t *testing.T) {
	// GIVEN a fixed-term draft
	e := NewEditor(baseDraft(), testDirectory())
	require.NotNil(t, e.Draft().FixedTermEndDate)

	// WHEN the fixed term is switched off
	e.SetFixedTerm(false)

	// THEN the end date goes with it, the duration disappears, and the
	// continuous term now starts on the agreement's own start date
	assert.Nil(t, e.Draft().FixedTermEndDate)
	assert.Nil(t, e.Derived().Term.Duration)
	require.NotNil(t, e.Derived().Term.ContinuousStart)
	assert.Equal(t, "2025-05-01", e.Derived().Term.ContinuousStart.String())
}
