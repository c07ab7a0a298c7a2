package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/services"
	"boqtracker/views"
)

// HandlePurchaseRequest returns a handler that raises a purchase order from
// an approved BOQ.
// Route: POST /boqs/{id}/purchase-request
func HandlePurchaseRequest(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		actor := GetActor(e, svc.Settings().DefaultActor)
		conf, err := svc.CreatePurchaseRequest(e.Request.PathValue("id"), actor)
		if err != nil {
			return respondError(e, "purchase_request", err)
		}

		if isHTMX(e) {
			SetToast(e, ToastSuccess, fmt.Sprintf("Purchase order %s raised", conf.PONumber))
			e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
			e.Response.WriteHeader(http.StatusCreated)
			return views.PurchaseRequestNotice(conf).Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusCreated, conf)
	}
}
