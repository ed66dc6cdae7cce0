package agreement

// =============================================================================
// DRAFT EDIT LOOP
//
// The editor wraps one agreement draft during an editing session. Every
// mutation recomputes the full derived state, so callers always read
// figures consistent with the current line items and term fields. Manual
// overrides are staged separately and folded into the draft only on
// Commit, mirroring the save-time merge the back office performs.
// =============================================================================

import (
	"github.com/warp/agreement-engine/engine"
)

// Editor drives one agreement editing session. Zero value is not usable;
// construct with NewEditor.
type Editor struct {
	draft   engine.Draft
	offices engine.OfficeDirectory
	derived engine.Derived

	// staged overrides, applied on Commit
	stagedCredits  engine.CreditOverrides
	stagedDeposits engine.DepositOverrides

	// remembered notice-day count for rule switches back to plus-days
	lastNoticeDays int
}

// NewEditor opens an editing session over the given draft.
func NewEditor(draft engine.Draft, offices engine.OfficeDirectory) *Editor {
	e := &Editor{
		draft:          draft,
		offices:        offices,
		stagedCredits:  draft.CreditOverrides,
		stagedDeposits: draft.DepositOverrides,
		lastNoticeDays: defaultNoticeDays,
	}
	if draft.NoticeDays != nil {
		e.lastNoticeDays = *draft.NoticeDays
	}
	e.recompute()
	return e
}

// Draft returns the current working draft, including committed overrides
// but not staged ones.
func (e *Editor) Draft() engine.Draft { return e.draft }

// Derived returns the figures for the current draft state.
func (e *Editor) Derived() engine.Derived { return e.derived }

func (e *Editor) recompute() {
	e.derived = engine.Derive(e.draft, e.offices)
}

// -----------------------------------------------------------------------------
// Term fields
// -----------------------------------------------------------------------------

// SetStartDate changes the agreement start date.
func (e *Editor) SetStartDate(d engine.Date) {
	e.draft.StartDate = d
	e.recompute()
}

// SetFixedTerm toggles the fixed-term flag. Turning it off clears the
// fixed end date.
func (e *Editor) SetFixedTerm(on bool) {
	e.draft.HasFixedTerm = on
	if !on {
		e.draft.FixedTermEndDate = nil
	}
	e.recompute()
}

// SetFixedTermEnd sets or clears the fixed term's end date.
func (e *Editor) SetFixedTermEnd(d *engine.Date) {
	e.draft.FixedTermEndDate = d
	e.recompute()
}

// SetNoticeRule switches the termination-notice rule. Switching to the
// standard clause clears the day count; switching to the plus-days rule
// restores the last day count used, or the 180-day default when the draft
// never had one.
func (e *Editor) SetNoticeRule(rule engine.NoticeRule) {
	e.draft.NoticeRule = rule
	switch rule {
	case engine.NoticeRuleClause44:
		if e.draft.NoticeDays != nil {
			e.lastNoticeDays = *e.draft.NoticeDays
		}
		e.draft.NoticeDays = nil
	case engine.NoticeRuleCurrentMonthPlusDays:
		days := e.lastNoticeDays
		e.draft.NoticeDays = &days
	}
	e.recompute()
}

// SetNoticeDays changes the plus-days count. No effect on the derived
// figures until a notice resolves against the agreement, but kept in the
// recompute cycle for uniformity.
func (e *Editor) SetNoticeDays(days int) {
	e.draft.NoticeDays = &days
	e.lastNoticeDays = days
	e.recompute()
}

// -----------------------------------------------------------------------------
// Line items
// -----------------------------------------------------------------------------

// AddOfficeLine appends an office line. A zero list price is seeded from
// the office directory when the office is known.
func (e *Editor) AddOfficeLine(line engine.OfficeLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if line.ListPrice == 0 {
		if p, ok := e.offices[line.OfficeID]; ok {
			line.ListPrice = p.ListPrice
		}
	}
	e.draft.OfficeLines = append(e.draft.OfficeLines, line)
	e.recompute()
}

// UpdateOfficeLine replaces the office line at index i. Out-of-range
// indices are ignored.
func (e *Editor) UpdateOfficeLine(i int, line engine.OfficeLine) {
	if i < 0 || i >= len(e.draft.OfficeLines) {
		return
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	e.draft.OfficeLines[i] = line
	e.recompute()
}

// RemoveOfficeLine deletes the office line at index i.
func (e *Editor) RemoveOfficeLine(i int) {
	if i < 0 || i >= len(e.draft.OfficeLines) {
		return
	}
	e.draft.OfficeLines = append(e.draft.OfficeLines[:i], e.draft.OfficeLines[i+1:]...)
	e.recompute()
}

// AddParkingLine appends a parking line.
func (e *Editor) AddParkingLine(line engine.PricedLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	e.draft.ParkingLines = append(e.draft.ParkingLines, line)
	e.recompute()
}

// RemoveParkingLine deletes the parking line at index i.
func (e *Editor) RemoveParkingLine(i int) {
	if i < 0 || i >= len(e.draft.ParkingLines) {
		return
	}
	e.draft.ParkingLines = append(e.draft.ParkingLines[:i], e.draft.ParkingLines[i+1:]...)
	e.recompute()
}

// AddServiceLine appends a service line.
func (e *Editor) AddServiceLine(line engine.PricedLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	e.draft.ServiceLines = append(e.draft.ServiceLines, line)
	e.recompute()
}

// RemoveServiceLine deletes the service line at index i.
func (e *Editor) RemoveServiceLine(i int) {
	if i < 0 || i >= len(e.draft.ServiceLines) {
		return
	}
	e.draft.ServiceLines = append(e.draft.ServiceLines[:i], e.draft.ServiceLines[i+1:]...)
	e.recompute()
}

// -----------------------------------------------------------------------------
// Staged overrides
// -----------------------------------------------------------------------------

// StageCreditOverrides replaces the staged credit overrides. The draft's
// committed overrides stay untouched until Commit.
func (e *Editor) StageCreditOverrides(o engine.CreditOverrides) {
	e.stagedCredits = o
}

// StageDepositOverrides replaces the staged deposit overrides.
func (e *Editor) StageDepositOverrides(o engine.DepositOverrides) {
	e.stagedDeposits = o
}

// StagedCredits resolves the credit breakdown as it would look if the
// staged overrides were committed now.
func (e *Editor) StagedCredits() engine.CreditBreakdown {
	return engine.ResolveCredits(e.derived.Credits.Calculated, e.stagedCredits)
}

// StagedDeposits resolves the deposit breakdown under the staged
// overrides.
func (e *Editor) StagedDeposits() engine.DepositBreakdown {
	return engine.DepositBreakdown{
		FixedCalculated:      e.derived.Deposits.FixedCalculated,
		FixedEffective:       engine.Effective(e.derived.Deposits.FixedCalculated, e.stagedDeposits.Fixed),
		ContinuousCalculated: e.derived.Deposits.ContinuousCalculated,
		ContinuousEffective:  engine.Effective(e.derived.Deposits.ContinuousCalculated, e.stagedDeposits.Continuous),
	}
}

// Commit folds the staged overrides into the draft, validates it, and
// returns the final draft with derived figures. On validation failure the
// session state is left intact so the caller can correct and retry.
func (e *Editor) Commit() (engine.Draft, engine.Derived, error) {
	candidate := e.draft
	candidate.CreditOverrides = e.stagedCredits
	candidate.DepositOverrides = e.stagedDeposits
	if err := engine.ValidateDraft(candidate); err != nil {
		return engine.Draft{}, engine.Derived{}, err
	}
	e.draft = candidate
	e.recompute()
	return e.draft, e.derived, nil
}
