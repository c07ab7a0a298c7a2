package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// exportFilename is "BOQ-2026-001_Classroom-Interiors.xlsx".
func exportFilename(data services.ExportData, ext string) string {
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(data.Reference), sanitizeFilename(data.Title), ext)
}

// HandleBOQExportExcel returns a handler that generates and downloads an Excel file for a BOQ.
// Route: GET /boqs/{id}/export/excel
func HandleBOQExportExcel(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b, err := svc.GetBOQ(e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "export_excel", err)
		}

		data := services.BuildExportData(b)
		xlsxBytes, err := services.GenerateBOQExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleBOQExportPDF returns a handler that generates and downloads a PDF file for a BOQ.
// Route: GET /boqs/{id}/export/pdf
func HandleBOQExportPDF(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b, err := svc.GetBOQ(e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "export_pdf", err)
		}

		data := services.BuildExportData(b)
		pdfBytes, err := services.GenerateBOQPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}
