/*
derive.go - Whole-draft derivation

PURPOSE:
  Recomputes every derived figure of an agreement draft in one pass. The
  host calls Derive after each mutating edit; the originals did this with
  framework state effects, here it is an explicit pure function so the host
  owns the edit loop and nothing listens globally.

WHAT COMES OUT:
  - Per-line discounted prices for offices, parking, and services
  - The summary totals: office fees (A), parking fees (B), service
    fees (C), the A+B+C fixed-term monthly payment, and the continuous-
    term office fees at list price (D)
  - The resolved term (continuous start, fixed-term duration)
  - Credit allotments and security deposits, calculated and effective

ATOMICITY:
  Derive computes from scratch every time and the caller swaps the whole
  Derived value in; there is no partially updated derived state. Overrides
  are inputs: recomputation refreshes calculated values only.
*/
package engine

// Draft is the raw, user-editable portion of an agreement that the engine
// consumes. Everything else on an agreement record (identity, parties,
// status, notes) is host plumbing the calculators never look at.
type Draft struct {
	HasFixedTerm     bool
	StartDate        Date
	FixedTermEndDate *Date

	NoticeRule NoticeRule
	NoticeDays *int

	OfficeLines  []OfficeLine
	ParkingLines []PricedLine
	ServiceLines []PricedLine

	CreditOverrides  CreditOverrides
	DepositOverrides DepositOverrides
}

// Totals is the fixed-term payment summary plus the continuous-term office
// fee figure, all in whole currency units.
type Totals struct {
	OfficeFees  Money // A: discounted office prices
	ParkingFees Money // B: discounted parking prices
	ServiceFees Money // C: discounted service prices
	Monthly     Money // A+B+C: monthly payment during the fixed term

	ContinuousOfficeFees Money // D: office list prices, no discounts
}

// Derived is the complete computed state of a draft.
type Derived struct {
	Term     ResolvedTerm
	Totals   Totals
	Credits  CreditBreakdown
	Deposits DepositBreakdown

	OfficePrices  []Money
	ParkingPrices []Money
	ServicePrices []Money
}

// Derive recomputes all derived values for a draft against the office
// directory. It never fails: incomplete drafts produce unset term values
// and zero totals, which the host renders as blanks.
func Derive(d Draft, offices OfficeDirectory) Derived {
	officePrices := make([]Money, len(d.OfficeLines))
	var officeFees, continuousFees Money
	for i, line := range d.OfficeLines {
		officePrices[i] = line.Price()
		officeFees += officePrices[i]
		continuousFees += line.ListTotal()
	}

	parkingPrices := make([]Money, len(d.ParkingLines))
	var parkingFees Money
	for i, line := range d.ParkingLines {
		parkingPrices[i] = line.Price()
		parkingFees += parkingPrices[i]
	}

	servicePrices := make([]Money, len(d.ServiceLines))
	var serviceFees Money
	for i, line := range d.ServiceLines {
		servicePrices[i] = line.Price()
		serviceFees += servicePrices[i]
	}

	return Derived{
		Term: ResolveTerm(d.HasFixedTerm, d.StartDate, d.FixedTermEndDate),
		Totals: Totals{
			OfficeFees:           officeFees,
			ParkingFees:          parkingFees,
			ServiceFees:          serviceFees,
			Monthly:              officeFees + parkingFees + serviceFees,
			ContinuousOfficeFees: continuousFees,
		},
		Credits:  ResolveCredits(AggregateCredits(d.OfficeLines, offices), d.CreditOverrides),
		Deposits: ResolveDeposits(d.OfficeLines, d.DepositOverrides),

		OfficePrices:  officePrices,
		ParkingPrices: parkingPrices,
		ServicePrices: servicePrices,
	}
}

// MissingOffices lists the office IDs referenced by the draft's lines that
// the directory does not know. The calculation treats them as zero
// contribution; the host is expected to log them.
func MissingOffices(d Draft, offices OfficeDirectory) []string {
	var missing []string
	for _, line := range d.OfficeLines {
		if line.OfficeID == "" {
			continue
		}
		if _, ok := offices[line.OfficeID]; !ok {
			missing = append(missing, line.OfficeID)
		}
	}
	return missing
}
