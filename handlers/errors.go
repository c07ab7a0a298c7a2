package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
)

// errorKinds maps domain error kinds to HTTP statuses. Order matters: the
// first match wins.
var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{boq.ErrValidation, "validation", http.StatusBadRequest},
	{boq.ErrNotFound, "not_found", http.StatusNotFound},
	{boq.ErrConflict, "conflict", http.StatusConflict},
	{boq.ErrIllegalTransition, "illegal_transition", http.StatusUnprocessableEntity},
	{boq.ErrIllegalState, "illegal_state", http.StatusConflict},
}

// classifyError returns the HTTP status and kind for err. Unknown errors are
// internal.
func classifyError(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

// respondError writes err as a toast for HTMX requests and as JSON otherwise.
// Internal errors are logged and their detail is not sent to the client.
func respondError(e *core.RequestEvent, area string, err error) error {
	status, kind := classifyError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", area, err)
		msg = "Internal error"
	}

	if isHTMX(e) {
		return ErrorToast(e, status, msg)
	}
	return e.JSON(status, map[string]string{"error": msg, "kind": kind})
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}
