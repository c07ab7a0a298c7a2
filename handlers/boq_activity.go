package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/services"
)

// HandleDuplicate returns a handler that copies a BOQ into a new draft.
// Route: POST /boqs/{id}/duplicate
func HandleDuplicate(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		actor := GetActor(e, svc.Settings().DefaultActor)
		dup, err := svc.Duplicate(e.Request.PathValue("id"), actor)
		if err != nil {
			return respondError(e, "boq_duplicate", err)
		}
		e.Response.Header().Set("Location", "/boqs/"+dup.ID)
		return respondBOQ(e, http.StatusCreated, dup, fmt.Sprintf("Duplicated as %s", dup.ID))
	}
}

type commentRequest struct {
	Text string `json:"text" form:"text"`
}

// HandleAddComment returns a handler that appends to the comment log.
// Route: POST /boqs/{id}/comments
func HandleAddComment(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req commentRequest
		if err := bindBody(e, &req); err != nil {
			return respondError(e, "boq_comment", err)
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.AddComment(e.Request.PathValue("id"), actor, req.Text)
		if err != nil {
			return respondError(e, "boq_comment", err)
		}
		return respondOK(e, b, "Comment added")
	}
}

type attachmentRequest struct {
	Name string `json:"name" form:"name"`
}

// HandleAddAttachment returns a handler that records an attachment reference.
// Route: POST /boqs/{id}/attachments
func HandleAddAttachment(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req attachmentRequest
		if err := bindBody(e, &req); err != nil {
			return respondError(e, "boq_attachment", err)
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.AddAttachment(e.Request.PathValue("id"), req.Name, actor)
		if err != nil {
			return respondError(e, "boq_attachment", err)
		}
		return respondOK(e, b, "Attachment added")
	}
}
