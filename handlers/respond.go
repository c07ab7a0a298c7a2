package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/views"
)

// respondBOQ returns the changed snapshot. HTMX requests get the summary card
// and a success toast; everything else gets the snapshot as JSON.
func respondBOQ(e *core.RequestEvent, status int, b boq.BOQ, toast string) error {
	if isHTMX(e) {
		if toast != "" {
			SetToast(e, ToastSuccess, toast)
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(status)
		return views.BOQSummary(b, time.Now()).Render(e.Request.Context(), e.Response)
	}
	return e.JSON(status, b)
}

func respondOK(e *core.RequestEvent, b boq.BOQ, toast string) error {
	return respondBOQ(e, http.StatusOK, b, toast)
}
