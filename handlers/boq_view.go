package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"boqtracker/services"
)

// HandleBOQView returns a handler that shows one BOQ snapshot.
// Route: GET /boqs/{id}
func HandleBOQView(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b, err := svc.GetBOQ(e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "boq_view", err)
		}
		return respondOK(e, b, "")
	}
}
