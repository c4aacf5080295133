package model

import (
	"github.com/shopspring/decimal"
)

// TaxTypeTotals aggregates the records of one tax type
type TaxTypeTotals struct {
	Count       int
	TotalAmount decimal.Decimal // sum of calculated amounts
}

// TaxSummary aggregates counts and calculated amounts over a set of records
type TaxSummary struct {
	TotalTaxes            int
	ActiveTaxes           int
	TotalCalculatedAmount decimal.Decimal
	ByType                map[string]TaxTypeTotals
}

// Summarize folds the given records into a TaxSummary. Only tax types present in taxes appear in ByType.
func Summarize(taxes []Tax) TaxSummary {
	summary := TaxSummary{
		TotalCalculatedAmount: decimal.Zero,
		ByType:                make(map[string]TaxTypeTotals),
	}

	for _, t := range taxes {
		calculated := t.CalculatedAmount()

		summary.TotalTaxes++
		if t.IsActive {
			summary.ActiveTaxes++
		}
		summary.TotalCalculatedAmount = summary.TotalCalculatedAmount.Add(calculated)

		group, ok := summary.ByType[t.TaxType]
		if !ok {
			group.TotalAmount = decimal.Zero
		}
		group.Count++
		group.TotalAmount = group.TotalAmount.Add(calculated)
		summary.ByType[t.TaxType] = group
	}

	return summary
}
