/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Monetary amounts travel as whole currency units (int64). Dates travel
  as ISO strings (YYYY-MM-DD); an absent or empty date means unset.

VALIDATION:
  Request types carry go-playground/validator tags; handlers run the
  validator before touching domain logic. Domain-level rules (line
  contents, rule/day pairing) are enforced again by the engine on save.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Router setup and middleware
*/
package api

import (
	"time"

	"github.com/warp/agreement-engine/agreement"
	"github.com/warp/agreement-engine/engine"
)

// =============================================================================
// DRAFT AND DERIVED FIGURES
// =============================================================================

// LineDTO is one priced line item.
type LineDTO struct {
	OfficeID           string  `json:"office_id,omitempty"`
	ListPrice          int64   `json:"list_price" validate:"gte=0"`
	Quantity           int     `json:"quantity" validate:"gte=0"`
	DiscountPct        float64 `json:"discount_pct" validate:"gte=0,lte=100"`
	SpecialDiscountPct float64 `json:"special_discount_pct,omitempty" validate:"gte=0,lte=100"`
}

// CreditOverridesDTO carries the manual credit values; null means the
// computed value is in effect.
type CreditOverridesDTO struct {
	Conference *int `json:"conference,omitempty"`
	PrintBW    *int `json:"print_bw,omitempty"`
	PrintColor *int `json:"print_color,omitempty"`
}

// DepositOverridesDTO carries the manual deposit values per phase.
type DepositOverridesDTO struct {
	Fixed      *int64 `json:"fixed,omitempty"`
	Continuous *int64 `json:"continuous,omitempty"`
}

// DraftDTO is the editable calculation slice of an agreement.
type DraftDTO struct {
	HasFixedTerm     bool    `json:"has_fixed_term"`
	StartDate        string  `json:"start_date,omitempty"`
	FixedTermEndDate *string `json:"fixed_term_end_date,omitempty"`

	NoticeRule string `json:"notice_rule,omitempty"`
	NoticeDays *int   `json:"notice_days,omitempty"`

	OfficeLines  []LineDTO `json:"office_lines" validate:"dive"`
	ParkingLines []LineDTO `json:"parking_lines,omitempty" validate:"dive"`
	ServiceLines []LineDTO `json:"service_lines,omitempty" validate:"dive"`

	CreditOverrides  CreditOverridesDTO  `json:"credit_overrides"`
	DepositOverrides DepositOverridesDTO `json:"deposit_overrides"`
}

// TermDTO is the resolved term of a draft. Null fields mean the term
// cannot be determined yet.
type TermDTO struct {
	ContinuousStart *string      `json:"continuous_start_date,omitempty"`
	Duration        *DurationDTO `json:"fixed_term_duration,omitempty"`
}

// DurationDTO is a fixed term's length in whole months plus leftover days.
type DurationDTO struct {
	Months int `json:"months"`
	Days   int `json:"days"`
}

// TotalsDTO is the payment summary.
type TotalsDTO struct {
	OfficeFees           int64 `json:"office_fees"`
	ParkingFees          int64 `json:"parking_fees"`
	ServiceFees          int64 `json:"service_fees"`
	Monthly              int64 `json:"monthly_total"`
	ContinuousOfficeFees int64 `json:"continuous_office_fees"`
}

// CreditTotalsDTO is one set of credit allotments.
type CreditTotalsDTO struct {
	Conference int `json:"conference"`
	PrintBW    int `json:"print_bw"`
	PrintColor int `json:"print_color"`
}

// CreditsDTO is the credit breakdown, calculated and effective.
type CreditsDTO struct {
	Calculated CreditTotalsDTO `json:"calculated"`
	Effective  CreditTotalsDTO `json:"effective"`
}

// DepositsDTO is the deposit breakdown per phase.
type DepositsDTO struct {
	FixedCalculated      int64 `json:"fixed_calculated"`
	FixedEffective       int64 `json:"fixed_effective"`
	ContinuousCalculated int64 `json:"continuous_calculated"`
	ContinuousEffective  int64 `json:"continuous_effective"`
}

// DerivedDTO is the complete computed state of a draft.
type DerivedDTO struct {
	Term     TermDTO     `json:"term"`
	Totals   TotalsDTO   `json:"totals"`
	Credits  CreditsDTO  `json:"credits"`
	Deposits DepositsDTO `json:"deposits"`

	OfficePrices  []int64 `json:"office_prices"`
	ParkingPrices []int64 `json:"parking_prices,omitempty"`
	ServicePrices []int64 `json:"service_prices,omitempty"`
}

// =============================================================================
// AGREEMENTS
// =============================================================================

// AgreementDTO is an agreement in API responses.
type AgreementDTO struct {
	ID             string     `json:"id"`
	DocID          string     `json:"doc_id"`
	CompanyID      string     `json:"company_id"`
	LicenseeName   string     `json:"licensee_name,omitempty"`
	CommercialName string     `json:"commercial_name,omitempty"`
	Building       string     `json:"building,omitempty"`
	Status         string     `json:"status"`
	Draft          DraftDTO   `json:"draft"`
	Derived        DerivedDTO `json:"derived"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      string     `json:"created_at,omitempty"`
	UpdatedAt      string     `json:"updated_at,omitempty"`
}

// CreateAgreementRequest is the request to create an agreement.
type CreateAgreementRequest struct {
	CompanyID      string   `json:"company_id" validate:"required"`
	LicenseeName   string   `json:"licensee_name,omitempty"`
	CommercialName string   `json:"commercial_name,omitempty"`
	Building       string   `json:"building,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Draft          DraftDTO `json:"draft" validate:"required"`
}

// UpdateDraftRequest is the request to replace an agreement's draft.
type UpdateDraftRequest struct {
	Draft DraftDTO `json:"draft" validate:"required"`
}

// TransitionRequest is the request to move an agreement's status.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=draft draft_approved signed cancelled"`
}

// PreviewRequest is the request to derive figures without persisting.
type PreviewRequest struct {
	Draft DraftDTO `json:"draft" validate:"required"`
}

// PreviewResponse carries derived figures plus the office IDs the
// directory did not recognize.
type PreviewResponse struct {
	Derived        DerivedDTO `json:"derived"`
	MissingOffices []string   `json:"missing_offices,omitempty"`
}

// =============================================================================
// OFFICES
// =============================================================================

// OfficeDTO is an office in API responses.
type OfficeDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Building        string `json:"building,omitempty"`
	ListPrice       int64  `json:"list_price"`
	MRCredits       int    `json:"mr_credits"`
	PrintQuotaBW    int    `json:"print_quota_bw"`
	PrintQuotaColor int    `json:"print_quota_color"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// CreateOfficeRequest is the request to create an office.
type CreateOfficeRequest struct {
	Name            string `json:"name" validate:"required"`
	Building        string `json:"building,omitempty"`
	ListPrice       int64  `json:"list_price" validate:"gte=0"`
	MRCredits       int    `json:"mr_credits" validate:"gte=0"`
	PrintQuotaBW    int    `json:"print_quota_bw" validate:"gte=0"`
	PrintQuotaColor int    `json:"print_quota_color" validate:"gte=0"`
}

// UpdateOfficeRequest rewrites an office's profile fields.
type UpdateOfficeRequest struct {
	Name            string `json:"name" validate:"required"`
	Building        string `json:"building,omitempty"`
	ListPrice       int64  `json:"list_price" validate:"gte=0"`
	MRCredits       int    `json:"mr_credits" validate:"gte=0"`
	PrintQuotaBW    int    `json:"print_quota_bw" validate:"gte=0"`
	PrintQuotaColor int    `json:"print_quota_color" validate:"gte=0"`
}

// =============================================================================
// TERMINATION NOTICES
// =============================================================================

// NoticeDTO is a termination notice in API responses.
type NoticeDTO struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	NoticeDate      string  `json:"notice_date"`
	ExpectedEndDate *string `json:"expected_end_date,omitempty"`
	OverrideEndDate *string `json:"override_end_date,omitempty"`
	EffectiveEnd    *string `json:"effective_end_date,omitempty"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// CreateNoticeRequest is the request to serve a termination notice.
type CreateNoticeRequest struct {
	CompanyID  string `json:"company_id" validate:"required"`
	NoticeDate string `json:"notice_date" validate:"required,datetime=2006-01-02"`
}

// NoticePreviewRequest asks what end date a notice would carry, without
// serving one.
type NoticePreviewRequest struct {
	CompanyID  string `json:"company_id" validate:"required"`
	NoticeDate string `json:"notice_date" validate:"required,datetime=2006-01-02"`
}

// NoticePreviewResponse carries the resolved end date. A null date means
// the end date cannot be determined.
type NoticePreviewResponse struct {
	ExpectedEndDate *string `json:"expected_end_date"`
}

// NoticeOverrideRequest sets or clears a notice's manual end date.
type NoticeOverrideRequest struct {
	OverrideEndDate *string `json:"override_end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func lineFromDTO(dto LineDTO) engine.PricedLine {
	return engine.PricedLine{
		ListPrice:          engine.Money(dto.ListPrice),
		Quantity:           dto.Quantity,
		DiscountPct:        dto.DiscountPct,
		SpecialDiscountPct: dto.SpecialDiscountPct,
	}
}

func lineToDTO(id string, line engine.PricedLine) LineDTO {
	return LineDTO{
		OfficeID:           id,
		ListPrice:          int64(line.ListPrice),
		Quantity:           line.Quantity,
		DiscountPct:        line.DiscountPct,
		SpecialDiscountPct: line.SpecialDiscountPct,
	}
}

func draftFromDTO(dto DraftDTO) (engine.Draft, error) {
	d := engine.Draft{
		HasFixedTerm: dto.HasFixedTerm,
		NoticeRule:   engine.NoticeRule(dto.NoticeRule),
		NoticeDays:   dto.NoticeDays,
	}
	if dto.StartDate != "" {
		start, err := engine.ParseDate(dto.StartDate)
		if err != nil {
			return engine.Draft{}, err
		}
		d.StartDate = start
	}
	if dto.FixedTermEndDate != nil && *dto.FixedTermEndDate != "" {
		end, err := engine.ParseDate(*dto.FixedTermEndDate)
		if err != nil {
			return engine.Draft{}, err
		}
		d.FixedTermEndDate = &end
	}

	for _, l := range dto.OfficeLines {
		d.OfficeLines = append(d.OfficeLines, engine.OfficeLine{
			OfficeID:   l.OfficeID,
			PricedLine: lineFromDTO(l),
		})
	}
	for _, l := range dto.ParkingLines {
		d.ParkingLines = append(d.ParkingLines, lineFromDTO(l))
	}
	for _, l := range dto.ServiceLines {
		d.ServiceLines = append(d.ServiceLines, lineFromDTO(l))
	}

	d.CreditOverrides = engine.CreditOverrides{
		Conference: dto.CreditOverrides.Conference,
		PrintBW:    dto.CreditOverrides.PrintBW,
		PrintColor: dto.CreditOverrides.PrintColor,
	}
	d.DepositOverrides = engine.DepositOverrides{
		Fixed:      moneyPtrFromInt64(dto.DepositOverrides.Fixed),
		Continuous: moneyPtrFromInt64(dto.DepositOverrides.Continuous),
	}
	return d, nil
}

func draftToDTO(d engine.Draft) DraftDTO {
	dto := DraftDTO{
		HasFixedTerm: d.HasFixedTerm,
		StartDate:    d.StartDate.String(),
		NoticeRule:   string(d.NoticeRule),
		NoticeDays:   d.NoticeDays,
		CreditOverrides: CreditOverridesDTO{
			Conference: d.CreditOverrides.Conference,
			PrintBW:    d.CreditOverrides.PrintBW,
			PrintColor: d.CreditOverrides.PrintColor,
		},
		DepositOverrides: DepositOverridesDTO{
			Fixed:      int64PtrFromMoney(d.DepositOverrides.Fixed),
			Continuous: int64PtrFromMoney(d.DepositOverrides.Continuous),
		},
	}
	dto.FixedTermEndDate = datePtrToString(d.FixedTermEndDate)
	for _, l := range d.OfficeLines {
		dto.OfficeLines = append(dto.OfficeLines, lineToDTO(l.OfficeID, l.PricedLine))
	}
	for _, l := range d.ParkingLines {
		dto.ParkingLines = append(dto.ParkingLines, lineToDTO("", l))
	}
	for _, l := range d.ServiceLines {
		dto.ServiceLines = append(dto.ServiceLines, lineToDTO("", l))
	}
	return dto
}

func derivedToDTO(d engine.Derived) DerivedDTO {
	dto := DerivedDTO{
		Term: TermDTO{
			ContinuousStart: datePtrToString(d.Term.ContinuousStart),
		},
		Totals: TotalsDTO{
			OfficeFees:           int64(d.Totals.OfficeFees),
			ParkingFees:          int64(d.Totals.ParkingFees),
			ServiceFees:          int64(d.Totals.ServiceFees),
			Monthly:              int64(d.Totals.Monthly),
			ContinuousOfficeFees: int64(d.Totals.ContinuousOfficeFees),
		},
		Credits: CreditsDTO{
			Calculated: creditTotalsToDTO(d.Credits.Calculated),
			Effective:  creditTotalsToDTO(d.Credits.Effective),
		},
		Deposits: DepositsDTO{
			FixedCalculated:      int64(d.Deposits.FixedCalculated),
			FixedEffective:       int64(d.Deposits.FixedEffective),
			ContinuousCalculated: int64(d.Deposits.ContinuousCalculated),
			ContinuousEffective:  int64(d.Deposits.ContinuousEffective),
		},
		OfficePrices:  moneySliceToInt64(d.OfficePrices),
		ParkingPrices: moneySliceToInt64(d.ParkingPrices),
		ServicePrices: moneySliceToInt64(d.ServicePrices),
	}
	if d.Term.Duration != nil {
		dto.Term.Duration = &DurationDTO{
			Months: d.Term.Duration.Months,
			Days:   d.Term.Duration.Days,
		}
	}
	return dto
}

func creditTotalsToDTO(c engine.CreditTotals) CreditTotalsDTO {
	return CreditTotalsDTO{
		Conference: c.Conference,
		PrintBW:    c.PrintBW,
		PrintColor: c.PrintColor,
	}
}

func agreementToDTO(a agreement.Agreement) AgreementDTO {
	return AgreementDTO{
		ID:             a.ID,
		DocID:          a.DocID,
		CompanyID:      a.CompanyID,
		LicenseeName:   a.LicenseeName,
		CommercialName: a.CommercialName,
		Building:       a.Building,
		Status:         string(a.Status),
		Draft:          draftToDTO(a.Draft),
		Derived:        derivedToDTO(a.Derived),
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}

func officeToDTO(o agreement.Office) OfficeDTO {
	return OfficeDTO{
		ID:              o.ID,
		Name:            o.Name,
		Building:        o.Building,
		ListPrice:       int64(o.ListPrice),
		MRCredits:       o.MRCredits,
		PrintQuotaBW:    o.PrintQuotaBW,
		PrintQuotaColor: o.PrintQuotaColor,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func noticeToDTO(n agreement.TerminationNotice) NoticeDTO {
	return NoticeDTO{
		ID:              n.ID,
		CompanyID:       n.CompanyID,
		NoticeDate:      n.NoticeDate.String(),
		ExpectedEndDate: datePtrToString(n.ExpectedEndDate),
		OverrideEndDate: datePtrToString(n.OverrideEndDate),
		EffectiveEnd:    datePtrToString(n.EffectiveEndDate()),
		Status:          string(n.Status),
		Notes:           n.Notes,
		CreatedAt:       n.CreatedAt.Format(time.RFC3339),
	}
}

func datePtrToString(d *engine.Date) *string {
	if d == nil || d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func moneyPtrFromInt64(v *int64) *engine.Money {
	if v == nil {
		return nil
	}
	m := engine.Money(*v)
	return &m
}

func int64PtrFromMoney(m *engine.Money) *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}

func moneySliceToInt64(ms []engine.Money) []int64 {
	if ms == nil {
		return nil
	}
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = int64(m)
	}
	return out
}
