/*
validate.go - Save-boundary draft validation

PURPOSE:
  The calculators tolerate anything a half-finished draft can contain; the
  save boundary does not. ValidateDraft enforces the rules a user-entered
  draft must satisfy before it may be persisted, and reports every failure
  at once as a single human-readable message.

WHAT IS REJECTED HERE (and only here):
  - No office lines, or an office line without an office reference
  - Negative list prices, negative quantities
  - Discounts outside [0,100] (stacked overflow past 100% is NOT rejected;
    pricing clamps it silently per the pricing rule)
  - CURRENT_MONTH_PLUS_DAYS without a non-negative day count
  - A day count present while CLAUSE_4_4 is selected

SEE ALSO:
  - errors.go: FieldError/ValidationErrors and sentinels
  - termination.go: ValidateNoticeOverride for notice records
*/
package engine

import "fmt"

// ValidateDraft checks a draft at the save boundary. It returns nil for a
// persistable draft, or ValidationErrors wrapping ErrInvalidDraft.
func ValidateDraft(d Draft) error {
	var errs ValidationErrors

	if len(d.OfficeLines) == 0 {
		errs = append(errs, FieldError{Field: "office_lines", Message: "at least one office space is required"})
	}
	for i, line := range d.OfficeLines {
		field := fmt.Sprintf("office_lines[%d]", i)
		if line.OfficeID == "" {
			errs = append(errs, FieldError{Field: field + ".office_id", Message: "office selection is required"})
		}
		errs = append(errs, validateLine(field, line.PricedLine, true)...)
	}
	for i, line := range d.ParkingLines {
		errs = append(errs, validateLine(fmt.Sprintf("parking_lines[%d]", i), line, false)...)
	}
	for i, line := range d.ServiceLines {
		errs = append(errs, validateLine(fmt.Sprintf("service_lines[%d]", i), line, false)...)
	}

	if d.StartDate.IsZero() {
		errs = append(errs, FieldError{Field: "start_date", Message: "start date is required"})
	}

	switch d.NoticeRule {
	case NoticeRuleCurrentMonthPlusDays:
		if d.NoticeDays == nil || *d.NoticeDays < 0 {
			errs = append(errs, FieldError{Field: "continuous_notice_days", Message: ErrNoticeDaysRequired.Error()})
		}
	case NoticeRuleClause44:
		if d.NoticeDays != nil {
			errs = append(errs, FieldError{Field: "continuous_notice_days", Message: ErrNoticeDaysForbidden.Error()})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateLine(field string, line PricedLine, special bool) ValidationErrors {
	var errs ValidationErrors
	if line.ListPrice < 0 {
		errs = append(errs, FieldError{Field: field + ".list_price", Message: "list price cannot be negative"})
	}
	if line.Quantity < 0 {
		errs = append(errs, FieldError{Field: field + ".quantity", Message: "quantity cannot be negative"})
	}
	if line.DiscountPct < 0 || line.DiscountPct > 100 {
		errs = append(errs, FieldError{Field: field + ".discount_percentage", Message: "discount must be between 0 and 100"})
	}
	if special && (line.SpecialDiscountPct < 0 || line.SpecialDiscountPct > 100) {
		errs = append(errs, FieldError{Field: field + ".special_discount_percentage", Message: "special discount must be between 0 and 100"})
	}
	return errs
}
