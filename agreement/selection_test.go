package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/agreement-engine/engine"
)

func signedAgreement(start string, fixedEnd *string) Agreement {
	a := Agreement{
		Status: StatusSigned,
		Draft: engine.Draft{
			StartDate:  engine.MustParseDate(start),
			NoticeRule: engine.NoticeRuleClause44,
		},
	}
	if fixedEnd != nil {
		a.Draft.HasFixedTerm = true
		d := engine.MustParseDate(*fixedEnd)
		a.Draft.FixedTermEndDate = &d
	}
	a.Derived = engine.Derive(a.Draft, nil)
	return a
}

func strPtr(s string) *string { return &s }

func TestSelectGoverning_PrefersActiveFixedTerm(t *testing.T) {
	// GIVEN a continuous agreement started long ago and a fixed-term one
	// covering today
	continuous := signedAgreement("2023-01-01", nil)
	fixed := signedAgreement("2025-01-01", strPtr("2025-12-31"))
	today := engine.MustParseDate("2025-06-15")

	// WHEN selecting the governing agreement
	got := SelectGoverning([]Agreement{continuous, fixed}, today)

	// THEN the active fixed term wins
	require.NotNil(t, got)
	assert.Equal(t, fixed.Draft.StartDate, got.Draft.StartDate)
}

func TestSelectGoverning_FixedTermMustCoverToday(t *testing.T) {
	// GIVEN a fixed term that already lapsed and a started continuous one
	lapsed := signedAgreement("2024-01-01", strPtr("2024-12-31"))
	continuous := signedAgreement("2023-06-01", nil)
	today := engine.MustParseDate("2025-06-15")

	// WHEN selecting
	got := SelectGoverning([]Agreement{lapsed, continuous}, today)

	// THEN the started continuous agreement governs. The lapsed fixed term
	// also qualifies here through its continuous phase, so the later start
	// date breaks the tie.
	require.NotNil(t, got)
	assert.Equal(t, lapsed.Draft.StartDate, got.Draft.StartDate)
}

func TestSelectGoverning_FallsBackToMostRecent(t *testing.T) {
	// GIVEN only agreements that start in the future
	a := signedAgreement("2026-01-01", nil)
	b := signedAgreement("2026-03-01", nil)
	today := engine.MustParseDate("2025-06-15")

	// WHEN selecting
	got := SelectGoverning([]Agreement{a, b}, today)

	// THEN the most recently started one is chosen
	require.NotNil(t, got)
	assert.Equal(t, b.Draft.StartDate, got.Draft.StartDate)
}

func TestSelectGoverning_IgnoresUnsigned(t *testing.T) {
	// GIVEN only drafts and cancelled agreements
	draft := signedAgreement("2025-01-01", nil)
	draft.Status = StatusDraft
	cancelled := signedAgreement("2024-01-01", nil)
	cancelled.Status = StatusCancelled

	// WHEN selecting
	got := SelectGoverning([]Agreement{draft, cancelled}, engine.MustParseDate("2025-06-15"))

	// THEN no agreement governs
	assert.Nil(t, got)
}

func TestResolveExpectedEndDate_AgainstGoverningAgreement(t *testing.T) {
	// GIVEN a signed continuous agreement on the standard clause
	a := signedAgreement("2024-01-01", nil)
	today := engine.MustParseDate("2025-03-25")

	// WHEN a notice is served on the 20th
	got := ResolveExpectedEndDate(engine.MustParseDate("2025-03-20"), []Agreement{a}, today)

	// THEN the end date lands on the next month's last day
	require.NotNil(t, got)
	assert.Equal(t, "2025-04-30", got.String())
}

func TestResolveExpectedEndDate_NoSignedAgreement(t *testing.T) {
	// GIVEN a client with no signed agreements
	got := ResolveExpectedEndDate(engine.MustParseDate("2025-03-20"), nil, engine.MustParseDate("2025-03-25"))

	// THEN the end date cannot be determined
	assert.Nil(t, got)
}

func TestResolveExpectedEndDate_FixedTermReconciliation(t *testing.T) {
	// GIVEN a signed agreement whose fixed term ends after the notice
	// window
	a := signedAgreement("2025-01-01", strPtr("2025-12-31"))
	today := engine.MustParseDate("2025-03-25")

	// WHEN a notice is served mid-term
	got := ResolveExpectedEndDate(engine.MustParseDate("2025-03-10"), []Agreement{a}, today)

	// THEN the fixed term's month-end wins over the earlier notice date
	require.NotNil(t, got)
	assert.Equal(t, "2025-12-31", got.String())
}
