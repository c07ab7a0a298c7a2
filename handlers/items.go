package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/services"
)

type updateItemRequest struct {
	Field string `json:"field" form:"field"`
	Value any    `json:"value" form:"value"`
}

// HandleItemAdd returns a handler that appends a line item. Rate and
// breakdown amounts are in paise.
// Route: POST /boqs/{id}/items
func HandleItemAdd(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var f boq.ItemFields
		if err := bindBody(e, &f); err != nil {
			return respondError(e, "item_add", err)
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.AddItem(e.Request.PathValue("id"), f, actor)
		if err != nil {
			return respondError(e, "item_add", err)
		}
		return respondOK(e, b, "Item added")
	}
}

// HandleItemUpdate returns a handler that changes one field of a line item.
// Route: PATCH /boqs/{id}/items/{itemId}
func HandleItemUpdate(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req updateItemRequest
		if err := bindBody(e, &req); err != nil {
			return respondError(e, "item_update", err)
		}
		if req.Field == "" {
			return respondError(e, "item_update", fmt.Errorf("%w: field is required", boq.ErrValidation))
		}

		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.UpdateItem(e.Request.PathValue("id"), e.Request.PathValue("itemId"),
			boq.Field(req.Field), req.Value, actor)
		if err != nil {
			return respondError(e, "item_update", err)
		}
		return respondOK(e, b, "Item updated")
	}
}

// HandleItemDelete returns a handler that removes a line item.
// Route: DELETE /boqs/{id}/items/{itemId}
func HandleItemDelete(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		actor := GetActor(e, svc.Settings().DefaultActor)
		b, err := svc.DeleteItem(e.Request.PathValue("id"), e.Request.PathValue("itemId"), actor)
		if err != nil {
			return respondError(e, "item_delete", err)
		}
		return respondOK(e, b, "Item deleted")
	}
}
