package agreement

// =============================================================================
// RECORD CONSTRUCTION
//
// New records come out of the factory with their defaults already settled:
// document numbers minted, line quantities normalized, and the notice rule
// set to the standard clause so the first derivation is meaningful.
// =============================================================================

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/agreement-engine/engine"
)

const defaultNoticeDays = 180

// Clock abstracts the current time for record stamping. Production uses
// SystemClock; tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// Factory constructs domain records with identifiers and timestamps filled
// in.
type Factory struct {
	clock Clock
	// docSuffix overrides the random document suffix; tests only.
	docSuffix func() string
}

// NewFactory returns a factory stamping records with the given clock.
func NewFactory(clock Clock) *Factory {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Factory{clock: clock}
}

// WithDocSuffix fixes the document-number suffix generator. Tests use this
// to make minted DocIDs deterministic.
func (f *Factory) WithDocSuffix(gen func() string) *Factory {
	f.docSuffix = gen
	return f
}

// MintDocID produces a document number of the form DOC-YYYYMMDD-XXXX where
// XXXX is an uppercase alphanumeric suffix.
func (f *Factory) MintDocID() string {
	suffix := f.suffix()
	return fmt.Sprintf("DOC-%s-%s", f.clock.Now().Format("20060102"), suffix)
}

const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (f *Factory) suffix() string {
	if f.docSuffix != nil {
		return f.docSuffix()
	}
	var b strings.Builder
	for i := 0; i < 4; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}

// NewAgreement builds a draft agreement from the given calculation slice.
// Quantities are normalized, the notice rule defaults to the standard
// clause, and the derived figures are computed immediately so the record
// never persists stale.
func (f *Factory) NewAgreement(companyID string, draft engine.Draft, offices engine.OfficeDirectory) Agreement {
	now := f.clock.Now()
	normalizeDraft(&draft)
	return Agreement{
		ID:        uuid.NewString(),
		DocID:     f.MintDocID(),
		CompanyID: companyID,
		Status:    StatusDraft,
		Draft:     draft,
		Derived:   engine.Derive(draft, offices),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewOffice builds an active office record.
func (f *Factory) NewOffice(name, building string, listPrice engine.Money) Office {
	now := f.clock.Now()
	return Office{
		ID:        uuid.NewString(),
		Name:      name,
		Building:  building,
		ListPrice: listPrice,
		Status:    RecordActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTerminationNotice builds a draft notice with its expected end date
// resolved against the client's governing agreement.
func (f *Factory) NewTerminationNotice(companyID string, noticeDate engine.Date, agreements []Agreement) TerminationNotice {
	now := f.clock.Now()
	n := TerminationNotice{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		NoticeDate: noticeDate,
		Status:     NoticeDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	n.ExpectedEndDate = ResolveExpectedEndDate(noticeDate, agreements, engine.DateOf(now))
	return n
}

/// normalizeDraft settles construction defaults: missing quantities become
// one and an unset notice rule becomes the standard clause.
func normalizeDraft(d *engine.Draft) {
	if d.NoticeRule == "" {
		d.NoticeRule = engine.NoticeRuleClause44
	}
	for i := range d.OfficeLines {
		if d.OfficeLines[i].Quantity < 1 {
			d.OfficeLines[i].Quantity = 1
		}
	}
	for i := range d.ParkingLines {
		if d.ParkingLines[i].Quantity < 1 {
			d.ParkingLines[i].Quantity = 1
		}
	}
	for i := range d.ServiceLines {
		if d.ServiceLines[i].Quantity < 1 {
			d.ServiceLines[i].Quantity = 1
		}
	}
}
