package views

import (
	"time"

	"github.com/dustin/go-humanize"

	"boqtracker/boq"
	"boqtracker/services"
)

type totalsRow struct {
	label string
	value int64
}

func totalsRows(b boq.BOQ) []totalsRow {
	return []totalsRow{
		{"Subtotal", b.Subtotal},
		{"Contingency (" + services.FormatPercentBP(b.ContingencyBP) + ")", b.Contingency},
		{"Final Amount", b.FinalAmount},
	}
}

func itemCount(b boq.BOQ) string {
	return humanize.Comma(int64(len(b.Items)))
}

// updatedAgo reads "3 hours ago" for a BOQ last touched three hours before now.
func updatedAgo(b boq.BOQ, now time.Time) string {
	return humanize.RelTime(b.LastModified, now, "ago", "from now")
}
