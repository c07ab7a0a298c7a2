package handlers

import (
	"net/http"
	"strings"
	"testing"

	"boqtracker/boq"
)

func TestWorkflowHandlers_HappyPath(t *testing.T) {
	svc := newTestService(t)
	b := seedBOQ(t, svc)
	path := "/boqs/" + b.ID

	steps := []struct {
		name    string
		handler func(t *testing.T) int
		want    boq.Status
	}{
		{"submit", func(t *testing.T) int {
			return serve(t, HandleSubmit(svc), jsonRequest(t, http.MethodPost, path+"/submit", nil, "id", b.ID)).Code
		}, boq.StatusSubmitted},
		{"review", func(t *testing.T) int {
			return serve(t, HandleBeginReview(svc), jsonRequest(t, http.MethodPost, path+"/review", nil, "id", b.ID)).Code
		}, boq.StatusInReview},
		{"approve", func(t *testing.T) int {
			req := jsonRequest(t, http.MethodPost, path+"/approve", nil, "id", b.ID)
			req.Header.Set("X-Actor", "bob")
			return serve(t, HandleApprove(svc), req).Code
		}, boq.StatusApproved},
	}

	for _, step := range steps {
		if code := step.handler(t); code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", step.name, code)
		}
		got, _ := svc.GetBOQ(b.ID)
		if got.Status != step.want {
			t.Fatalf("%s: Status = %s, want %s", step.name, got.Status, step.want)
		}
	}

	got, _ := svc.GetBOQ(b.ID)
	if got.ApprovedBy != "bob" || got.ApprovedAt == nil {
		t.Errorf("ApprovedBy/ApprovedAt = %q/%v", got.ApprovedBy, got.ApprovedAt)
	}
	if got.Version != 4 {
		t.Errorf("Version = %d, want 4", got.Version)
	}
}

func TestWorkflowHandlers_IllegalTransition(t *testing.T) {
	svc := newTestService(t)
	b := seedBOQ(t, svc)

	rec := serve(t, HandleApprove(svc), jsonRequest(t, http.MethodPost, "/boqs/"+b.ID+"/approve", nil, "id", b.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("approve draft: expected 422, got %d", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "illegal_transition" {
		t.Errorf("kind = %q", kind)
	}

	// Legality is checked before the reason.
	rec = serve(t, HandleReject(svc), jsonRequest(t, http.MethodPost, "/boqs/"+b.ID+"/reject",
		map[string]string{"reason": ""}, "id", b.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("reject draft: expected 422, got %d", rec.Code)
	}

	if got, _ := svc.GetBOQ(b.ID); got.Status != boq.StatusDraft || got.Version != 1 {
		t.Errorf("failed transitions changed the BOQ: %s v%d", got.Status, got.Version)
	}
}

func TestHandleReject(t *testing.T) {
	svc := newTestService(t)
	b := seedBOQ(t, svc)
	if _, err := svc.SubmitForApproval(b.ID, "alice"); err != nil {
		t.Fatalf("SubmitForApproval() error: %v", err)
	}

	rec := serve(t, HandleReject(svc), jsonRequest(t, http.MethodPost, "/boqs/"+b.ID+"/reject",
		map[string]string{"reason": "  "}, "id", b.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank reason: expected 400, got %d", rec.Code)
	}

	req := jsonRequest(t, http.MethodPost, "/boqs/"+b.ID+"/reject",
		map[string]string{"reason": "rates above benchmark"}, "id", b.ID)
	req.Header.Set("X-Actor", "bob")
	req.Header.Set("HX-Request", "true")
	rec = serve(t, HandleReject(svc), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rejected by bob: rates above benchmark") {
		t.Errorf("fragment = %s", rec.Body.String())
	}

	// Resubmitting clears the rejection.
	rec = serve(t, HandleSubmit(svc), jsonRequest(t, http.MethodPost, "/boqs/"+b.ID+"/submit", nil, "id", b.ID))
	got := decodeBOQ(t, rec)
	if got.Status != boq.StatusSubmitted || got.RejectionReason != "" {
		t.Errorf("resubmit: Status/RejectionReason = %s/%q", got.Status, got.RejectionReason)
	}
}
