package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/agreement-engine/agreement"
	"github.com/warp/agreement-engine/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAgreement() agreement.Agreement {
	end := engine.MustParseDate("2025-09-30")
	draft := engine.Draft{
		HasFixedTerm:     true,
		StartDate:        engine.MustParseDate("2025-05-01"),
		FixedTermEndDate: &end,
		NoticeRule:       engine.NoticeRuleClause44,
		OfficeLines: []engine.OfficeLine{
			{OfficeID: "office-301", PricedLine: engine.PricedLine{ListPrice: 13000, Quantity: 1, DiscountPct: 3}},
		},
		CreditOverrides: engine.CreditOverrides{Conference: engine.IntPtr(25)},
	}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return agreement.Agreement{
		ID:           "agr-1",
		DocID:        "DOC-20250615-TEST",
		CompanyID:    "acme",
		LicenseeName: "Acme Holdings Ltd",
		Building:     "North Tower",
		Status:       agreement.StatusDraft,
		Draft:        draft,
		Derived:      engine.Derive(draft, nil),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStore_AgreementRoundTrip(t *testing.T) {
	// GIVEN a stored agreement
	s := newTestStore(t)
	ctx := context.Background()
	a := sampleAgreement()
	require.NoError(t, s.SaveAgreement(ctx, a))

	// WHEN loading it back
	got, err := s.GetAgreement(ctx, a.ID)

	// THEN the draft, overrides, and derived figures survive intact
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.DocID, got.DocID)
	assert.Equal(t, a.Status, got.Status)
	assert.Equal(t, a.Draft.StartDate, got.Draft.StartDate)
	require.NotNil(t, got.Draft.FixedTermEndDate)
	assert.Equal(t, "2025-09-30", got.Draft.FixedTermEndDate.String())
	require.NotNil(t, got.Draft.CreditOverrides.Conference)
	assert.Equal(t, 25, *got.Draft.CreditOverrides.Conference)
	assert.Equal(t, engine.Money(12610), got.Derived.Totals.Monthly)
	require.NotNil(t, got.Derived.Term.ContinuousStart)
	assert.Equal(t, "2025-10-01", got.Derived.Term.ContinuousStart.String())
}

func TestStore_SaveAgreementIsUpsert(t *testing.T) {
	// GIVEN an agreement saved twice with a status change in between
	s := newTestStore(t)
	ctx := context.Background()
	a := sampleAgreement()
	require.NoError(t, s.SaveAgreement(ctx, a))
	a.Status = agreement.StatusSigned
	require.NoError(t, s.SaveAgreement(ctx, a))

	// WHEN listing
	all, err := s.ListAgreements(ctx)

	// THEN there is one row carrying the latest status
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, agreement.StatusSigned, all[0].Status)
}

func TestStore_GetAgreementMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetAgreement(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListAgreementsByCompany(t *testing.T) {
	// GIVEN agreements for two clients
	s := newTestStore(t)
	ctx := context.Background()
	a := sampleAgreement()
	require.NoError(t, s.SaveAgreement(ctx, a))
	b := sampleAgreement()
	b.ID = "agr-2"
	b.DocID = "DOC-20250615-ELSE"
	b.CompanyID = "globex"
	require.NoError(t, s.SaveAgreement(ctx, b))

	// WHEN listing one client
	got, err := s.ListAgreementsByCompany(ctx, "acme")

	// THEN only that client's agreements come back
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "agr-1", got[0].ID)
}

func TestStore_OfficeRoundTrip(t *testing.T) {
	// GIVEN a stored office
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	o := agreement.Office{
		ID: "office-301", Name: "301", Building: "North Tower",
		ListPrice: 13000, MRCredits: 10, PrintQuotaBW: 500, PrintQuotaColor: 100,
		Status: agreement.RecordActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.SaveOffice(ctx, o))

	// WHEN loading it back
	got, err := s.GetOffice(ctx, "office-301")

	// THEN the price and credit figures survive
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, engine.Money(13000), got.ListPrice)
	assert.Equal(t, 10, got.MRCredits)
	assert.Equal(t, agreement.RecordActive, got.Status)

	offices, err := s.ListOffices(ctx)
	require.NoError(t, err)
	assert.Len(t, offices, 1)
}

func TestStore_NoticeRoundTrip(t *testing.T) {
	// GIVEN a notice with a computed and an overridden end date
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	expected := engine.MustParseDate("2025-09-30")
	override := engine.MustParseDate("2025-12-15")
	n := agreement.TerminationNotice{
		ID: "not-1", CompanyID: "acme",
		NoticeDate:      engine.MustParseDate("2025-06-10"),
		ExpectedEndDate: &expected,
		OverrideEndDate: &override,
		Status:          agreement.NoticeDraft,
		CreatedAt:       now, UpdatedAt: now,
	}
	require.NoError(t, s.SaveNotice(ctx, n))

	// WHEN loading it back
	got, err := s.GetNotice(ctx, "not-1")

	// THEN both dates and the status survive
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2025-06-10", got.NoticeDate.String())
	require.NotNil(t, got.ExpectedEndDate)
	assert.Equal(t, "2025-09-30", got.ExpectedEndDate.String())
	require.NotNil(t, got.EffectiveEndDate())
	assert.Equal(t, "2025-12-15", got.EffectiveEndDate().String())
}

func TestStore_NoticeNilDates(t *testing.T) {
	// GIVEN a notice with no resolvable end date
	s := newTestStore(t)
	ctx := context.Background()
	n := agreement.TerminationNotice{
		ID: "not-2", CompanyID: "acme",
		NoticeDate: engine.MustParseDate("2025-06-10"),
		Status:     agreement.NoticeDraft,
		CreatedAt:  time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveNotice(ctx, n))

	// WHEN loading it back
	got, err := s.GetNotice(ctx, "not-2")

	// THEN the nil dates stay nil
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ExpectedEndDate)
	assert.Nil(t, got.OverrideEndDate)
	assert.Nil(t, got.EffectiveEndDate())
}
