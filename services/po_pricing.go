package services

import (
	"math"
	"strings"
)

// POLineItemCalc holds the calculated totals for a single PO line item.
// Amounts are in paise.
type POLineItemCalc struct {
	Rate       int64
	Qty        float64
	GSTPercent float64
	BeforeGST  int64 // Rate * Qty
	GSTAmount  int64 // BeforeGST * GSTPercent / 100
	Total      int64 // BeforeGST + GSTAmount
}

// POTotals holds the aggregated totals for a purchase order, in paise.
type POTotals struct {
	TotalBeforeTax int64   `json:"total_before_tax"`
	IGSTPercent    float64 `json:"igst_percent"`
	IGSTAmount     int64   `json:"igst_amount"`
	RoundOff       int64   `json:"round_off"`
	GrandTotal     int64   `json:"grand_total"`
}

// CalcPOLineItem calculates the totals for a single PO line item.
func CalcPOLineItem(rate int64, qty, gstPercent float64) POLineItemCalc {
	beforeGST := int64(math.Round(float64(rate) * qty))
	gstAmount := int64(math.Round(float64(beforeGST) * gstPercent / 100))
	return POLineItemCalc{
		Rate:       rate,
		Qty:        qty,
		GSTPercent: gstPercent,
		BeforeGST:  beforeGST,
		GSTAmount:  gstAmount,
		Total:      beforeGST + gstAmount,
	}
}

// CalcPOTotals computes the aggregate totals for all line items in a PO.
// It sums all line item totals, computes IGST based on the weighted average
// GST percent, applies round-off to nearest rupee, and returns the grand total.
func CalcPOTotals(items []POLineItemCalc) POTotals {
	var totalBeforeTax int64
	var totalGST int64

	for _, item := range items {
		totalBeforeTax += item.BeforeGST
		totalGST += item.GSTAmount
	}

	// Determine effective IGST percent from the items
	var igstPercent float64
	if totalBeforeTax > 0 {
		igstPercent = float64(totalGST) / float64(totalBeforeTax) * 100
	}

	subtotal := totalBeforeTax + totalGST
	roundOff := calcRoundOff(subtotal)

	return POTotals{
		TotalBeforeTax: totalBeforeTax,
		IGSTPercent:    igstPercent,
		IGSTAmount:     totalGST,
		RoundOff:       roundOff,
		GrandTotal:     subtotal + roundOff,
	}
}

// calcRoundOff returns the paise needed to reach the nearest whole rupee.
// Fifty paise and above round up.
func calcRoundOff(paise int64) int64 {
	rem := paise % 100
	if rem < 0 {
		rem += 100
	}
	if rem >= 50 {
		return 100 - rem
	}
	return -rem
}

// AmountToWords converts an amount in paise to Indian English words, rounded
// to the nearest rupee.
// Example: 91318300 → "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only/-"
func AmountToWords(paise int64) string {
	if paise < 0 {
		return "Negative " + AmountToWords(-paise)
	}

	rupees := (paise + 50) / 100

	if rupees == 0 {
		return "Zero Rupees Only/-"
	}

	words := convertToIndianWords(rupees)
	return words + " Rupees Only/-"
}

func convertToIndianWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	// Crores (10,000,000)
	if n >= 10000000 {
		crores := n / 10000000
		parts = append(parts, convertUnder100(crores)+" Crores")
		n %= 10000000
	}

	// Lakhs (100,000)
	if n >= 100000 {
		lakhs := n / 100000
		parts = append(parts, convertUnder100(lakhs)+" Lakhs")
		n %= 100000
	}

	// Thousands (1,000)
	if n >= 1000 {
		thousands := n / 1000
		parts = append(parts, convertUnder100(thousands)+" Thousand")
		n %= 1000
	}

	// Hundreds
	if n >= 100 {
		hundreds := n / 100
		parts = append(parts, ones[hundreds]+" Hundred")
		n %= 100
	}

	// Remaining (1-99)
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
