package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"boqtracker/boq"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded item sheet.
// Items holds one entry per data row, in sheet order.
type ImportResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Items     []boq.ItemFields  `json:"-"`
	FileName  string            `json:"-"`
}

// itemColumns maps normalized header labels to line item fields.
var itemColumns = map[string]boq.Field{
	"code":        boq.FieldCode,
	"item code":   boq.FieldCode,
	"description": boq.FieldDescription,
	"category":    boq.FieldCategory,
	"uom":         boq.FieldUOM,
	"unit":        boq.FieldUOM,
	"quantity":    boq.FieldQuantity,
	"qty":         boq.FieldQuantity,
	"rate":        boq.FieldRate,
	"unit rate":   boq.FieldRate,
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to item fields.
// Returns one field per column ("" when unrecognized) and the unrecognized headers.
func mapHeadersToFields(headers []string) ([]boq.Field, []string) {
	mapped := make([]boq.Field, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		norm = strings.TrimSuffix(norm, " (inr)")

		if field, ok := itemColumns[norm]; ok {
			mapped[i] = field
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseItemSheet parses an uploaded .csv or .xlsx item sheet. Rates are read
// in rupees and converted to paise. Row-level problems are collected in the
// result; only unreadable files return an error.
func ParseItemSheet(file io.Reader, fileName string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnFields, _ := mapHeadersToFields(headers)
	if !containsField(columnFields, boq.FieldDescription) && !containsField(columnFields, boq.FieldCode) {
		return nil, fmt.Errorf("header row must contain a Code or Description column")
	}

	result := &ImportResult{
		FileName: fileName,
		Items:    make([]boq.ItemFields, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		if isBlankRow(row) {
			continue
		}
		result.TotalRows++

		fields, rowErrors := parseItemRow(rowNum, columnFields, row)
		result.Errors = append(result.Errors, rowErrors...)
		result.Items = append(result.Items, fields)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

func parseItemRow(rowNum int, columnFields []boq.Field, row []string) (boq.ItemFields, []ValidationError) {
	var fields boq.ItemFields
	var errs []ValidationError

	for colIdx, field := range columnFields {
		if field == "" || colIdx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[colIdx])
		if value == "" {
			continue
		}

		switch field {
		case boq.FieldCode:
			fields.Code = value
		case boq.FieldDescription:
			fields.Description = value
		case boq.FieldCategory:
			fields.Category = value
		case boq.FieldUOM:
			fields.UOM = value
		case boq.FieldQuantity:
			q, err := cast.ToFloat64E(strings.ReplaceAll(value, ",", ""))
			if err != nil || q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Quantity", Message: fmt.Sprintf("Quantity %q must be a non-negative number", value)})
				continue
			}
			fields.Quantity = &q
		case boq.FieldRate:
			rupees, err := cast.ToFloat64E(strings.TrimPrefix(strings.ReplaceAll(value, ",", ""), "₹"))
			if err != nil || rupees < 0 || math.IsNaN(rupees) || math.IsInf(rupees, 0) {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Rate", Message: fmt.Sprintf("Rate %q must be a non-negative amount", value)})
				continue
			}
			if rupees*100 > float64(boq.MaxAmount) {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Rate", Message: fmt.Sprintf("Rate %q is too large", value)})
				continue
			}
			paise := int64(math.Round(rupees * 100))
			fields.Rate = &paise
		}
	}

	if fields.Quantity != nil && fields.Rate != nil && *fields.Quantity*float64(*fields.Rate) > float64(boq.MaxAmount) {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Amount", Message: "Quantity × Rate is too large"})
	}
	if fields.Code == "" && fields.Description == "" {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Description", Message: "Description or Code is required"})
	}
	return fields, errs
}

func containsField(fields []boq.Field, want boq.Field) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
