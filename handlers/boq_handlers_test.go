package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"boqtracker/boq"
)

func TestHandleBOQCreate(t *testing.T) {
	svc := newTestService(t)
	req := jsonRequest(t, http.MethodPost, "/boqs", map[string]string{
		"title":      "Lab Furniture",
		"project_id": "proj2",
		"priority":   "high",
	})
	req.Header.Set("X-Actor", "alice")

	rec := serve(t, HandleBOQCreate(svc), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/boqs/BOQ-2026-001" {
		t.Errorf("Location = %q", loc)
	}

	b := decodeBOQ(t, rec)
	if b.Title != "Lab Furniture" || b.Project.Name != "Science Wing" || b.Priority != boq.PriorityHigh {
		t.Errorf("created BOQ = %+v", b)
	}
	if b.CreatedBy != "alice" || b.Status != boq.StatusDraft {
		t.Errorf("CreatedBy/Status = %s/%s", b.CreatedBy, b.Status)
	}
}

func TestHandleBOQCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantKind   string
	}{
		{"missing title", map[string]string{"project_id": "proj1"}, http.StatusBadRequest, "validation"},
		{"unknown project", map[string]string{"title": "X", "project_id": "nope"}, http.StatusNotFound, "not_found"},
		{"bad priority", map[string]string{"title": "X", "project_id": "proj1", "priority": "urgent"}, http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			rec := serve(t, HandleBOQCreate(svc), jsonRequest(t, http.MethodPost, "/boqs", tt.body))
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if kind := decodeErrorKind(t, rec); kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if svc.Stats().Total != 0 {
				t.Error("failed create stored a BOQ")
			}
		})
	}
}

func TestHandleBOQCreate_HTMX(t *testing.T) {
	svc := newTestService(t)
	req := jsonRequest(t, http.MethodPost, "/boqs", map[string]string{"title": "Ceilings", "project_id": "proj1"})
	req.Header.Set("HX-Request", "true")

	rec := serve(t, HandleBOQCreate(svc), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `class="boq-summary"`) {
		t.Errorf("expected summary fragment, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "BOQ-2026-001 created") {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleBOQView(t *testing.T) {
	svc := newTestService(t)
	b := seedBOQ(t, svc)

	rec := serve(t, HandleBOQView(svc), jsonRequest(t, http.MethodGet, "/boqs/"+b.ID, nil, "id", b.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBOQ(t, rec)
	if got.Subtotal != 100000 || got.FinalAmount != 110000 || len(got.Items) != 1 {
		t.Errorf("Subtotal/FinalAmount/Items = %d/%d/%d", got.Subtotal, got.FinalAmount, len(got.Items))
	}

	rec = serve(t, HandleBOQView(svc), jsonRequest(t, http.MethodGet, "/boqs/BOQ-1999-001", nil, "id", "BOQ-1999-001"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing BOQ: expected 404, got %d", rec.Code)
	}
}

func TestHandleBOQList(t *testing.T) {
	svc := newTestService(t)
	first := seedBOQ(t, svc)
	seedBOQ(t, svc)
	if _, err := svc.SubmitForApproval(first.ID, "alice"); err != nil {
		t.Fatalf("SubmitForApproval() error: %v", err)
	}

	tests := []struct {
		query     string
		wantCode  int
		wantTotal int
	}{
		{"", http.StatusOK, 2},
		{"?status=submitted", http.StatusOK, 1},
		{"?status=draft&q=office", http.StatusOK, 1},
		{"?q=plumbing", http.StatusOK, 0},
		{"?status=archived", http.StatusBadRequest, 0},
		{"?priority=urgent", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(t, HandleBOQList(svc), jsonRequest(t, http.MethodGet, "/boqs"+tt.query, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var body struct {
				Items []boq.BOQ `json:"items"`
				Total int       `json:"total"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Total != tt.wantTotal || len(body.Items) != tt.wantTotal {
				t.Errorf("total = %d (%d items), want %d", body.Total, len(body.Items), tt.wantTotal)
			}
		})
	}
}

func TestHandleBOQList_HTMX(t *testing.T) {
	svc := newTestService(t)
	seedBOQ(t, svc)
	req := jsonRequest(t, http.MethodGet, "/boqs", nil)
	req.Header.Set("HX-Request", "true")

	rec := serve(t, HandleBOQList(svc), req)
	if !strings.Contains(rec.Body.String(), "<td>BOQ-2026-001</td>") {
		t.Errorf("expected table row, got %s", rec.Body.String())
	}
}

func TestHandleBOQStats(t *testing.T) {
	svc := newTestService(t)
	seedBOQ(t, svc)
	seedBOQ(t, svc)

	rec := serve(t, HandleBOQStats(svc), jsonRequest(t, http.MethodGet, "/boqs/stats", nil))
	var body struct {
		Total              int            `json:"total"`
		ByStatus           map[string]int `json:"by_status"`
		TotalFinalAmount   int64          `json:"total_final_amount"`
		TotalFinalFormated string         `json:"total_final_formatted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 || body.ByStatus["draft"] != 2 {
		t.Errorf("Total/ByStatus = %d/%v", body.Total, body.ByStatus)
	}
	if body.TotalFinalAmount != 220000 || body.TotalFinalFormated != "₹2,200.00" {
		t.Errorf("TotalFinalAmount = %d (%s)", body.TotalFinalAmount, body.TotalFinalFormated)
	}
}
