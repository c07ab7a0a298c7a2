package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/services"
	"boqtracker/views"
)

// parseFilter reads the status, priority and q query parameters.
func parseFilter(e *core.RequestEvent) (boq.Filter, error) {
	q := e.Request.URL.Query()
	f := boq.Filter{
		Status:   boq.Status(strings.TrimSpace(q.Get("status"))),
		Priority: boq.Priority(strings.TrimSpace(q.Get("priority"))),
		Search:   strings.TrimSpace(q.Get("q")),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return boq.Filter{}, fmt.Errorf("%w: unknown status %q", boq.ErrValidation, f.Status)
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return boq.Filter{}, fmt.Errorf("%w: unknown priority %q", boq.ErrValidation, f.Priority)
	}
	return f, nil
}

// HandleBOQList returns a handler that lists BOQs matching the query filter.
// Route: GET /boqs
func HandleBOQList(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		f, err := parseFilter(e)
		if err != nil {
			return respondError(e, "boq_list", err)
		}

		items := slices.Collect(svc.ListBOQs(f))
		if isHTMX(e) {
			return views.BOQTable(items).Render(e.Request.Context(), e.Response)
		}
		if items == nil {
			items = []boq.BOQ{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"items": items,
			"total": len(items),
		})
	}
}

// HandleBOQStats returns a handler with counts by status and the summed final
// amount.
// Route: GET /boqs/stats
func HandleBOQStats(svc *services.BOQService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		stats := svc.Stats()
		return e.JSON(http.StatusOK, map[string]any{
			"total":                 stats.Total,
			"by_status":             stats.ByStatus,
			"total_final_amount":    stats.TotalFinalAmount,
			"total_final_formatted": services.FormatMinor(stats.TotalFinalAmount),
		})
	}
}
