package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/config"
	"boqtracker/services"
)

var testNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestService returns a service over an in-memory registry with two known
// projects and a dry-run purchase request creator.
func newTestService(t *testing.T) *services.BOQService {
	t.Helper()
	return services.NewBOQService(services.BOQServiceOptions{
		Projects:   services.StaticProjectDirectory{"proj1": "Block A", "proj2": "Science Wing"},
		Purchasing: &services.DryRunPurchaseRequests{},
		Settings:   config.Defaults(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return testNow },
	})
}

// seedBOQ creates a draft BOQ with one item (10 × ₹100.00).
func seedBOQ(t *testing.T, svc *services.BOQService) boq.BOQ {
	t.Helper()
	b, err := svc.CreateBOQ(services.CreateBOQInput{Title: "Office Fit-out", ProjectID: "proj1"}, "alice")
	if err != nil {
		t.Fatalf("CreateBOQ() error: %v", err)
	}
	qty, rate := 10.0, int64(10000)
	b, err = svc.AddItem(b.ID, boq.ItemFields{Description: "Partition", UOM: "Sqm", Quantity: &qty, Rate: &rate}, "alice")
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	return b
}

// jsonRequest builds a request with a JSON body and the given path values.
func jsonRequest(t *testing.T, method, target string, body any, pathValues ...string) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

// serve runs handler against req and returns the recorder.
func serve(t *testing.T, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeBOQ(t *testing.T, rec *httptest.ResponseRecorder) boq.BOQ {
	t.Helper()
	var b boq.BOQ
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode BOQ: %v\n%s", err, rec.Body.String())
	}
	return b
}

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v\n%s", err, rec.Body.String())
	}
	kind, _ := body["kind"].(string)
	return kind
}
