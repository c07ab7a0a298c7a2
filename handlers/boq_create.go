package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/services"
)

type createBOQRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	ProjectID   string `json:"project_id" form:"project_id"`
	Priority    string `json:"priority" form:"priority"`
}

// bindBody decodes a JSON or form body into dst.
func bindBody(e *core.RequestEvent, dst any) error {
	if err := e.BindBody(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", boq.ErrValidation, err)
	}
	return nil
}

// HandleBOQCreate returns a handler that creates a draft BOQ.
// Route: POST /boqs
func HandleBOQCreate(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req createBOQRequest
		if err := bindBody(e, &req); err != nil {
			return respondError(e, "boq_create", err)
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.CreateBOQ(services.CreateBOQInput{
			Title:       req.Title,
			Description: req.Description,
			ProjectID:   req.ProjectID,
			Priority:    boq.Priority(req.Priority),
		}, actor)
		if err != nil {
			return respondError(e, "boq_create", err)
		}

		e.Response.Header().Set("Location", "/boqs/"+b.ID)
		return respondBOQ(e, http.StatusCreated, b, fmt.Sprintf("BOQ %s created", b.ID))
	}
}
