package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfColumn describes one column of the item table; widths sum to 12.
type pdfColumn struct {
	header string
	width  int
	align  align.Type
}

var pdfColumns = []pdfColumn{
	{"#", 1, align.Center},
	{"Code", 1, align.Left},
	{"Description", 4, align.Left},
	{"UOM", 1, align.Center},
	{"Qty", 1, align.Right},
	{"Rate", 2, align.Right},
	{"Amount", 2, align.Right},
}

// GenerateBOQPDF creates a PDF document from BOQ export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateBOQPDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, reference, project, status and date.
func addHeader(m core.Maroto, data ExportData) {
	grey := &props.Color{Red: 80, Green: 80, Blue: 80}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(
				text.New(fmt.Sprintf("Reference: %s", data.Reference), props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Project: %s", data.ProjectName), props.Text{Size: 9, Align: align.Center, Color: grey}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Status: %s", data.Status), props.Text{Size: 8, Align: align.Left, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the BOQ table.
func addTableHeader(m core.Maroto) {
	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	r := row.New(8)
	for _, c := range pdfColumns {
		r.Add(col.New(c.width).Add(
			text.New(c.header, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: c.align,
				Color: &props.Color{Red: 255, Green: 255, Blue: 255},
			}),
		).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addTableRow adds a single item row; alternate rows get a light background.
func addTableRow(m core.Maroto, r ExportRow, shaded bool) {
	values := []string{
		r.Index,
		r.Code,
		r.Description,
		r.UOM,
		FormatQty(r.Qty),
		FormatMinor(r.Rate),
		FormatMinor(r.Amount),
	}

	var cellStyle *props.Cell
	if shaded {
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	pdfRow := row.New(7)
	for i, c := range pdfColumns {
		column := col.New(c.width).Add(text.New(values[i], props.Text{Size: 7, Align: c.align}))
		if cellStyle != nil {
			column = column.WithStyle(cellStyle)
		}
		pdfRow.Add(column)
	}
	m.AddRows(pdfRow)
}

// addSummary adds the subtotal, contingency and final amount rows.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	lines := []struct {
		label string
		value int64
	}{
		{"Subtotal", data.Subtotal},
		{data.ContingencyLabel, data.Contingency},
		{"Final Amount", data.FinalAmount},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatMinor(l.value), style)).WithStyle(summaryCell),
			),
		)
	}

	if data.ApprovedBy != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Approved by "+data.ApprovedBy, props.Text{Size: 8, Align: align.Right})),
			),
		)
	}
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
