package services

import (
	"fmt"

	"boqtracker/boq"
)

// ExportRow represents a single line item row in the BOQ export.
type ExportRow struct {
	Index       string // "1", "2", ...
	Code        string
	Description string
	Category    string
	UOM         string
	Qty         float64
	Rate        int64
	Amount      int64
}

// ExportData holds all data needed for export. Amounts are in paise.
type ExportData struct {
	Title            string
	Reference        string
	ProjectName      string
	Status           string
	CreatedDate      string
	Rows             []ExportRow
	Subtotal         int64
	Contingency      int64
	ContingencyLabel string
	FinalAmount      int64
	ApprovedBy       string
}

// BuildExportData flattens a BOQ snapshot into export rows and totals.
func BuildExportData(b boq.BOQ) ExportData {
	data := ExportData{
		Title:            b.Title,
		Reference:        b.ID,
		ProjectName:      b.Project.Name,
		Status:           b.Status.String(),
		CreatedDate:      b.CreatedAt.Format("02 Jan 2006"),
		Rows:             make([]ExportRow, 0, len(b.Items)),
		Subtotal:         b.Subtotal,
		Contingency:      b.Contingency,
		ContingencyLabel: fmt.Sprintf("Contingency (%s)", FormatPercentBP(b.ContingencyBP)),
		FinalAmount:      b.FinalAmount,
		ApprovedBy:       b.ApprovedBy,
	}

	for i, it := range b.Items {
		data.Rows = append(data.Rows, ExportRow{
			Index:       fmt.Sprintf("%d", i+1),
			Code:        it.Code,
			Description: it.Description,
			Category:    it.Category,
			UOM:         it.UOM,
			Qty:         it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}
	return data
}
