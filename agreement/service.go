package agreement

// =============================================================================
// DOMAIN SERVICE
//
// Orchestrates the stored records: agreement creation and editing, status
// transitions, and the termination-notice lifecycle. Keeps the invariant
// that an agreement's derived figures are recomputed on every save and
// that a draft notice's expected end date tracks the client's governing
// agreement.
// =============================================================================

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/agreement-engine/engine"
)

var (
	// ErrNotFound is returned when a record id resolves to nothing.
	ErrNotFound = errors.New("record not found")
	// ErrNotEditable is returned when a mutation targets a signed or
	// cancelled agreement.
	ErrNotEditable = errors.New("agreement is not editable")
	// ErrBadTransition is returned for a status change the lifecycle does
	// not allow.
	ErrBadTransition = errors.New("status transition not allowed")
	// ErrNoticeFrozen is returned when a mutation targets an active or
	// cancelled notice.
	ErrNoticeFrozen = errors.New("termination notice is no longer editable")
)

// allowed status transitions; cancellation is reachable from every
// non-terminal state.
var transitions = map[Status][]Status{
	StatusDraft:         {StatusDraftApproved, StatusCancelled},
	StatusDraftApproved: {StatusSigned, StatusDraft, StatusCancelled},
	StatusSigned:        {StatusCancelled},
}

func transitionAllowed(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Service coordinates record workflows over a Store.
type Service struct {
	store   Store
	factory *Factory
	clock   Clock
}

// NewService builds a service. A nil clock means the system clock.
func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		store:   store,
		factory: NewFactory(clock),
		clock:   clock,
	}
}

// Factory exposes the record factory, for callers minting records outside
// the service workflows.
func (s *Service) Factory() *Factory { return s.factory }

// directory loads the current office lookup table.
func (s *Service) directory(ctx context.Context) (engine.OfficeDirectory, error) {
	offices, err := s.store.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load offices: %w", err)
	}
	return Directory(offices), nil
}

// -----------------------------------------------------------------------------
// Agreements
// -----------------------------------------------------------------------------

// CreateAgreement validates the draft, mints the record, and persists it.
func (s *Service) CreateAgreement(ctx context.Context, companyID string, draft engine.Draft) (Agreement, error) {
	if err := engine.ValidateDraft(draft); err != nil {
		return Agreement{}, err
	}
	dir, err := s.directory(ctx)
	if err != nil {
		return Agreement{}, err
	}
	a := s.factory.NewAgreement(companyID, draft, dir)
	if err := s.store.SaveAgreement(ctx, a); err != nil {
		return Agreement{}, fmt.Errorf("save agreement: %w", err)
	}
	return a, nil
}

// UpdateDraft replaces an editable agreement's calculation slice,
// revalidates, rederives, and persists. Signed and cancelled agreements
// reject the update.
func (s *Service) UpdateDraft(ctx context.Context, id string, draft engine.Draft) (Agreement, error) {
	a, err := s.store.GetAgreement(ctx, id)
	if err != nil {
		return Agreement{}, fmt.Errorf("load agreement: %w", err)
	}
	if a == nil {
		return Agreement{}, ErrNotFound
	}
	if a.Status != StatusDraft && a.Status != StatusDraftApproved {
		return Agreement{}, ErrNotEditable
	}
	if err := engine.ValidateDraft(draft); err != nil {
		return Agreement{}, err
	}
	dir, err := s.directory(ctx)
	if err != nil {
		return Agreement{}, err
	}
	normalizeDraft(&draft)
	a.Draft = draft
	a.Derived = engine.Derive(draft, dir)
	a.UpdatedAt = s.clock.Now()
	if err := s.store.SaveAgreement(ctx, *a); err != nil {
		return Agreement{}, fmt.Errorf("save agreement: %w", err)
	}
	// Draft notices track the governing agreement, which may just have
	// changed.
	if err := s.refreshDraftNotices(ctx, a.CompanyID); err != nil {
		return Agreement{}, err
	}
	return *a, nil
}

// Transition moves an agreement through its lifecycle. Signing refreshes
// the client's draft notices since the governing agreement may change.
func (s *Service) Transition(ctx context.Context, id string, to Status) (Agreement, error) {
	if !to.Valid() {
		return Agreement{}, fmt.Errorf("%w: unknown status %q", ErrBadTransition, to)
	}
	a, err := s.store.GetAgreement(ctx, id)
	if err != nil {
		return Agreement{}, fmt.Errorf("load agreement: %w", err)
	}
	if a == nil {
		return Agreement{}, ErrNotFound
	}
	if !transitionAllowed(a.Status, to) {
		return Agreement{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, a.Status, to)
	}
	a.Status = to
	a.UpdatedAt = s.clock.Now()
	if err := s.store.SaveAgreement(ctx, *a); err != nil {
		return Agreement{}, fmt.Errorf("save agreement: %w", err)
	}
	if to == StatusSigned || to == StatusCancelled {
		if err := s.refreshDraftNotices(ctx, a.CompanyID); err != nil {
			return Agreement{}, err
		}
	}
	return *a, nil
}

// Preview derives the figures for a draft without persisting anything.
func (s *Service) Preview(ctx context.Context, draft engine.Draft) (engine.Derived, []string, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return engine.Derived{}, nil, err
	}
	normalizeDraft(&draft)
	return engine.Derive(draft, dir), engine.MissingOffices(draft, dir), nil
}

// -----------------------------------------------------------------------------
// Termination notices
// -----------------------------------------------------------------------------

// -----------------------------------------------------------------------------
// Offices
// -----------------------------------------------------------------------------

// UpdateOffice rewrites an office's profile fields. Credit and quota
// changes flow into agreement figures the next time a draft is derived.
func (s *Service) UpdateOffice(ctx context.Context, id string, upd Office) (Office, error) {
	o, err := s.store.GetOffice(ctx, id)
	if err != nil {
		return Office{}, fmt.Errorf("load office: %w", err)
	}
	if o == nil {
		return Office{}, ErrNotFound
	}
	if o.Status == RecordDeleted {
		return Office{}, ErrNotEditable
	}
	o.Name = upd.Name
	o.Building = upd.Building
	o.ListPrice = upd.ListPrice
	o.MRCredits = upd.MRCredits
	o.PrintQuotaBW = upd.PrintQuotaBW
	o.PrintQuotaColor = upd.PrintQuotaColor
	o.UpdatedAt = s.clock.Now()
	if err := s.store.SaveOffice(ctx, *o); err != nil {
		return Office{}, fmt.Errorf("save office: %w", err)
	}
	return *o, nil
}

// DeleteOffice soft-deletes an office. Deleted offices drop out of the
// lookup directory, so lines referencing them price at their stored list
// price and contribute no credits.
func (s *Service) DeleteOffice(ctx context.Context, id string) error {
	o, err := s.store.GetOffice(ctx, id)
	if err != nil {
		return fmt.Errorf("load office: %w", err)
	}
	if o == nil {
		return ErrNotFound
	}
	o.Status = RecordDeleted
	o.UpdatedAt = s.clock.Now()
	if err := s.store.SaveOffice(ctx, *o); err != nil {
		return fmt.Errorf("save office: %w", err)
	}
	return nil
}

// CreateNotice serves a termination notice for a client. The expected end
// date resolves against the client's governing agreement as of today.
func (s *Service) CreateNotice(ctx context.Context, companyID string, noticeDate engine.Date) (TerminationNotice, error) {
	agreements, err := s.store.ListAgreementsByCompany(ctx, companyID)
	if err != nil {
		return TerminationNotice{}, fmt.Errorf("load agreements: %w", err)
	}
	n := s.factory.NewTerminationNotice(companyID, noticeDate, agreements)
	if err := s.store.SaveNotice(ctx, n); err != nil {
		return TerminationNotice{}, fmt.Errorf("save notice: %w", err)
	}
	return n, nil
}

// PreviewNotice resolves the expected end date a notice served on the
// given date would carry, without persisting anything. A nil date means
// the end date cannot be determined from the client's agreements.
func (s *Service) PreviewNotice(ctx context.Context, companyID string, noticeDate engine.Date) (*engine.Date, error) {
	agreements, err := s.store.ListAgreementsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load agreements: %w", err)
	}
	return ResolveExpectedEndDate(noticeDate, agreements, engine.DateOf(s.clock.Now())), nil
}

// SetNoticeOverride sets or clears a notice's manual end date. The
// override must not precede the notice date.
func (s *Service) SetNoticeOverride(ctx context.Context, id string, override *engine.Date) (TerminationNotice, error) {
	n, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return TerminationNotice{}, fmt.Errorf("load notice: %w", err)
	}
	if n == nil {
		return TerminationNotice{}, ErrNotFound
	}
	if !n.Mutable() {
		return TerminationNotice{}, ErrNoticeFrozen
	}
	if err := engine.ValidateNoticeOverride(n.NoticeDate, override); err != nil {
		return TerminationNotice{}, err
	}
	n.OverrideEndDate = override
	n.UpdatedAt = s.clock.Now()
	if err := s.store.SaveNotice(ctx, *n); err != nil {
		return TerminationNotice{}, fmt.Errorf("save notice: %w", err)
	}
	return *n, nil
}

// ActivateNotice freezes a draft notice as the client's effective
// termination.
func (s *Service) ActivateNotice(ctx context.Context, id string) (TerminationNotice, error) {
	return s.moveNotice(ctx, id, NoticeActive)
}

// CancelNotice withdraws a draft notice.
func (s *Service) CancelNotice(ctx context.Context, id string) (TerminationNotice, error) {
	return s.moveNotice(ctx, id, NoticeCancelled)
}

func (s *Service) moveNotice(ctx context.Context, id string, to NoticeStatus) (TerminationNotice, error) {
	n, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return TerminationNotice{}, fmt.Errorf("load notice: %w", err)
	}
	if n == nil {
		return TerminationNotice{}, ErrNotFound
	}
	if !n.Mutable() {
		return TerminationNotice{}, ErrNoticeFrozen
	}
	n.Status = to
	n.UpdatedAt = s.clock.Now()
	if err := s.store.SaveNotice(ctx, *n); err != nil {
		return TerminationNotice{}, fmt.Errorf("save notice: %w", err)
	}
	return *n, nil
}

// refreshDraftNotices recomputes the expected end date of every draft
// notice for the company. Active and cancelled notices keep their dates.
func (s *Service) refreshDraftNotices(ctx context.Context, companyID string) error {
	notices, err := s.store.ListNoticesByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("load notices: %w", err)
	}
	agreements, err := s.store.ListAgreementsByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("load agreements: %w", err)
	}
	today := engine.DateOf(s.clock.Now())
	for _, n := range notices {
		if !n.Mutable() {
			continue
		}
		expected := ResolveExpectedEndDate(n.NoticeDate, agreements, today)
		if datesEqual(expected, n.ExpectedEndDate) {
			continue
		}
		n.ExpectedEndDate = expected
		n.UpdatedAt = s.clock.Now()
		if err := s.store.SaveNotice(ctx, n); err != nil {
			return fmt.Errorf("save notice: %w", err)
		}
	}
	return nil
}

func datesEqual(a, b *engine.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
