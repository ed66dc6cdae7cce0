/*
errors.go - Error taxonomy for the calculation engine

PURPOSE:
  All engine error types in one place. The split mirrors the failure
  semantics the calculators promise:

  1. Incomplete-draft state is NOT an error. Resolvers return nil/unset
     derived values and the host displays a blank.
  2. Commit-time validation failures reject a save with a descriptive,
     human-readable message.
  3. Lookup misses and unknown enum values are silent "cannot compute"
     signals, never errors.

USAGE:
  Callers classify with errors.Is:

    if engine.IsValidation(err) {
        // 400 with err.Error() as the message
    }

SEE ALSO:
  - validate.go: Produces ValidationErrors at the save boundary
  - termination.go: Uses ErrOverrideBeforeNotice
*/
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDraft is the root of every save-boundary validation failure.
	ErrInvalidDraft = errors.New("invalid agreement draft")

	// ErrNoticeDaysRequired is returned when CURRENT_MONTH_PLUS_DAYS is
	// selected without a non-negative day count at submit time.
	ErrNoticeDaysRequired = errors.New("continuous notice days must be provided and non-negative for the current-month-plus-days rule")

	// ErrNoticeDaysForbidden is returned when a day count is set while the
	// clause 4.4 rule is selected; the field must be null for that rule.
	ErrNoticeDaysForbidden = errors.New("continuous notice days must be empty for the clause 4.4 rule")

	// ErrOverrideBeforeNotice is returned when a manual end date precedes
	// the notice date.
	ErrOverrideBeforeNotice = errors.New("override end date must be on or after the notice date")
)

// =============================================================================
// STRUCTURED VALIDATION ERRORS
// =============================================================================

// FieldError pinpoints one invalid field on a draft.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure from one validation pass so
// the UI can surface a single message covering all of them.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrInvalidDraft }

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsValidation reports whether the error is a save-boundary rejection the
// client can fix, as opposed to an internal failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDraft) ||
		errors.Is(err, ErrNoticeDaysRequired) ||
		errors.Is(err, ErrNoticeDaysForbidden) ||
		errors.Is(err, ErrOverrideBeforeNotice)
}
