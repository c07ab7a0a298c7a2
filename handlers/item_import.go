package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/services"
)

// HandleItemImport returns a handler that adds every row of an uploaded
// .csv or .xlsx sheet as a line item. Any bad row rejects the whole file;
// with ?report=xlsx the row errors come back as a spreadsheet.
// Route: POST /boqs/{id}/items/import
func HandleItemImport(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return respondError(e, "item_import", fmt.Errorf("%w: file too large or invalid form data", boq.ErrValidation))
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return respondError(e, "item_import", fmt.Errorf("%w: please select a file to upload", boq.ErrValidation))
		}
		defer file.Close()

		result, err := services.ParseItemSheet(file, header.Filename)
		if err != nil {
			return respondError(e, "item_import", fmt.Errorf("%w: %v", boq.ErrValidation, err))
		}

		if result.ErrorRows > 0 {
			if e.Request.URL.Query().Get("report") == "xlsx" {
				return sendErrorReport(e, result)
			}
			if isHTMX(e) {
				return ErrorToast(e, http.StatusBadRequest,
					fmt.Sprintf("%d of %d rows have errors, nothing was imported", result.ErrorRows, result.TotalRows))
			}
			return e.JSON(http.StatusBadRequest, map[string]any{
				"error":  "import rejected",
				"kind":   "validation",
				"result": result,
			})
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.ImportItems(boqID, result.Items, actor)
		if err != nil {
			return respondError(e, "item_import", err)
		}
		return respondOK(e, b, fmt.Sprintf("Imported %d items from %s", result.ValidRows, result.FileName))
	}
}

func sendErrorReport(e *core.RequestEvent, result *services.ImportResult) error {
	xlsxBytes, err := services.GenerateErrorReport(result.Errors)
	if err != nil {
		log.Printf("item_import: failed to generate error report: %v", err)
		return e.String(http.StatusInternalServerError, "Failed to generate error report")
	}

	e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	e.Response.Header().Set("Content-Disposition", `attachment; filename="import_errors.xlsx"`)
	e.Response.WriteHeader(http.StatusBadRequest)
	_, err = e.Response.Write(xlsxBytes)
	return err
}
