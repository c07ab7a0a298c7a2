package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/services"
)

// transitionHandler wraps a reason-less workflow command.
func transitionHandler(area, toast string, cmd func(id, actor string) (boq.BOQ, error), defaultActor string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b, err := cmd(e.Request.PathValue("id"), GetActor(e, defaultActor))
		if err != nil {
			return respondError(e, area, err)
		}
		return respondOK(e, b, fmt.Sprintf(toast, b.ID))
	}
}

// HandleSubmit returns a handler that submits a draft or rejected BOQ.
// Route: POST /boqs/{id}/submit
func HandleSubmit(svc *services.BOQService) func(*core.RequestEvent) error {
	return transitionHandler("boq_submit", "%s submitted for approval", svc.SubmitForApproval, svc.Settings().DefaultActor)
}

// HandleBeginReview returns a handler that moves a submitted BOQ into review.
// Route: POST /boqs/{id}/review
func HandleBeginReview(svc *services.BOQService) func(*core.RequestEvent) error {
	return transitionHandler("boq_review", "%s is in review", svc.BeginReview, svc.Settings().DefaultActor)
}

// HandleApprove returns a handler that approves a BOQ as the request's actor.
// Route: POST /boqs/{id}/approve
func HandleApprove(svc *services.BOQService) func(*core.RequestEvent) error {
	return transitionHandler("boq_approve", "%s approved", svc.Approve, svc.Settings().DefaultActor)
}

type rejectRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// HandleReject returns a handler that rejects a BOQ with a reason.
// Route: POST /boqs/{id}/reject
func HandleReject(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req rejectRequest
		if err := bindBody(e, &req); err != nil {
			return respondError(e, "boq_reject", err)
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.Reject(e.Request.PathValue("id"), actor, req.Reason)
		if err != nil {
			return respondError(e, "boq_reject", err)
		}
		return respondOK(e, b, fmt.Sprintf("%s rejected", b.ID))
	}
}
