/*
Package agreement implements the office-leasing domain on top of the
calculation engine.

PURPOSE:
  Defines the persisted records of the leasing back office - agreements
  with their line items, office inventory, and termination notices - and
  the domain workflows around them: the draft edit loop with reactive
  recomputation, staged override commits, and governing-agreement
  selection for termination.

KEY CONCEPTS:
  - Agreement: A license agreement record; its editable calculation slice
    is an engine.Draft, its derived figures an engine.Derived.
  - Office: An inventory record carrying the list price and credit
    allotments that agreement lines reference.
  - TerminationNotice: One termination action against a client, with a
    computed expected end date and an optional manual override.
  - Status lifecycles: agreements move draft -> draft_approved -> signed
    (or cancelled); notices move draft -> active (or cancelled).

SEE ALSO:
  - editor.go: The draft edit loop
  - selection.go: Governing-agreement selection for termination
  - factory.go: Record construction and defaulting
  - store.go: Persistence interface
*/
package agreement

import (
	"time"

	"github.com/warp/agreement-engine/engine"
)

// =============================================================================
// STATUS LIFECYCLES
// =============================================================================

// Status is an agreement's lifecycle state.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusDraftApproved Status = "draft_approved"
	StatusSigned        Status = "signed"
	StatusCancelled     Status = "cancelled"
)

// Valid reports whether s is a known agreement status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusDraftApproved, StatusSigned, StatusCancelled:
		return true
	}
	return false
}

// NoticeStatus is a termination notice's lifecycle state. The expected end
// date recomputes only while the notice is still a draft.
type NoticeStatus string

const (
	NoticeDraft     NoticeStatus = "draft"
	NoticeActive    NoticeStatus = "active"
	NoticeCancelled NoticeStatus = "cancelled"
)

func (s NoticeStatus) Valid() bool {
	switch s {
	case NoticeDraft, NoticeActive, NoticeCancelled:
		return true
	}
	return false
}

// RecordStatus is the shared active/inactive/deleted lifecycle of inventory
// records (offices, locations, services).
type RecordStatus string

const (
	RecordActive   RecordStatus = "active"
	RecordInactive RecordStatus = "inactive"
	RecordDeleted  RecordStatus = "deleted"
)

// =============================================================================
// OFFICE INVENTORY
// =============================================================================

// Office is one rentable office record. Its list price seeds new agreement
// lines and its credit figures feed the agreement's credit allotments.
type Office struct {
	ID       string
	Name     string
	Building string

	ListPrice       engine.Money
	MRCredits       int
	PrintQuotaBW    int
	PrintQuotaColor int

	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile projects the office into the engine's lookup shape.
func (o Office) Profile() engine.OfficeProfile {
	return engine.OfficeProfile{
		ListPrice:       o.ListPrice,
		MRCredits:       o.MRCredits,
		PrintQuotaBW:    o.PrintQuotaBW,
		PrintQuotaColor: o.PrintQuotaColor,
	}
}

// Directory builds the engine lookup table from office records. Deleted
// offices drop out, so lines referencing them contribute zero credits.
func Directory(offices []Office) engine.OfficeDirectory {
	dir := make(engine.OfficeDirectory, len(offices))
	for _, o := range offices {
		if o.Status == RecordDeleted {
			continue
		}
		dir[o.ID] = o.Profile()
	}
	return dir
}

// =============================================================================
// AGREEMENT RECORD
// =============================================================================

// Agreement is one license agreement. Identity and party fields are host
// plumbing; Draft is the slice the engine computes from; Derived is
// refreshed by the edit loop and stored for display.
type Agreement struct {
	ID    string
	DocID string

	CompanyID      string
	LicenseeName   string
	CommercialName string
	Building       string

	Status Status

	Draft   engine.Draft
	Derived engine.Derived

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FixedTermActive reports whether the agreement's fixed term covers the
// given day.
func (a Agreement) FixedTermActive(today engine.Date) bool {
	if !a.Draft.HasFixedTerm || a.Draft.FixedTermEndDate == nil {
		return false
	}
	return a.Draft.StartDate.BeforeOrEqual(today) && a.Draft.FixedTermEndDate.AfterOrEqual(today)
}

// ContinuousTermStarted reports whether the agreement's continuous term has
// begun by the given day.
func (a Agreement) ContinuousTermStarted(today engine.Date) bool {
	if a.Derived.Term.ContinuousStart != nil {
		return a.Derived.Term.ContinuousStart.BeforeOrEqual(today)
	}
	if !a.Draft.HasFixedTerm && !a.Draft.StartDate.IsZero() {
		return a.Draft.StartDate.BeforeOrEqual(today)
	}
	return false
}

// =============================================================================
// TERMINATION NOTICE RECORD
// =============================================================================

// TerminationNotice records one termination action against a client.
type TerminationNotice struct {
	ID        string
	CompanyID string

	NoticeDate      engine.Date
	ExpectedEndDate *engine.Date
	OverrideEndDate *engine.Date

	Status    NoticeStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveEndDate applies override precedence: a manual end date wins over
// the computed one.
func (n TerminationNotice) EffectiveEndDate() *engine.Date {
	if n.OverrideEndDate != nil && !n.OverrideEndDate.IsZero() {
		return n.OverrideEndDate
	}
	return n.ExpectedEndDate
}

// Mutable reports whether the notice's dates may still change. Active and
// cancelled notices are frozen.
func (n TerminationNotice) Mutable() bool {
	return n.Status == NoticeDraft
}
