// Package calculator implements the balance computation engine: it resolves split
// encodings, computes net and pairwise balances, and divides expenses into shares.
//
// Every function here is pure. Callers load ledger rows from storage and pass them in;
// nothing is cached between calls.
package calculator

import "github.com/shopspring/decimal"

// presentationPlaces is the number of decimal places amounts are rounded to when
// surfaced to callers. Accumulation never rounds.
const presentationPlaces = 2

// NoiseThreshold is the magnitude at or below which a balance is shown as settled.
var NoiseThreshold = decimal.NewFromFloat(0.01)

// Round rounds an amount for presentation.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(presentationPlaces)
}

// Negligible reports whether d is within NoiseThreshold of zero. It is a display
// filter only and must not be applied to stored data.
func Negligible(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(NoiseThreshold)
}

// Direction tells which way a pairwise amount flows from the viewer's perspective.
type Direction string

const (
	// DirectionOwedToMe means the counterparty owes the viewer.
	DirectionOwedToMe Direction = "+"
	// DirectionIOwe means the viewer owes the counterparty.
	DirectionIOwe Direction = "-"
	// DirectionSettled means the amount is negligible.
	DirectionSettled Direction = ""
)

// DirectionOf classifies a signed amount seen from the viewer.
func DirectionOf(d decimal.Decimal) Direction {
	switch {
	case Negligible(d):
		return DirectionSettled
	case d.IsPositive():
		return DirectionOwedToMe
	default:
		return DirectionIOwe
	}
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
