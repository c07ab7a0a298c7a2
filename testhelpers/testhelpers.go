// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracker/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestPurchaseOrder creates a draft PO record linked to a project.
func CreateTestPurchaseOrder(t *testing.T, app core.App, projectID, poNumber string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("purchase_orders")
	if err != nil {
		t.Fatalf("failed to find purchase_orders collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("po_number", poNumber)
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test PO: %v", err)
	}

	return record
}

// CreateTestPOLineItem creates a PO line item record. Rate is in paise.
func CreateTestPOLineItem(t *testing.T, app core.App, poID string, sortOrder int, description string, qty float64, rate int64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("po_line_items")
	if err != nil {
		t.Fatalf("failed to find po_line_items collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("purchase_order", poID)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("qty", qty)
	record.Set("uom", "Nos")
	record.Set("rate", rate)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test PO line item: %v", err)
	}
	return record
}

// FindPurchaseOrdersForBOQ returns the PO records raised from a BOQ.
func FindPurchaseOrdersForBOQ(t *testing.T, app core.App, boqID string) []*core.Record {
	t.Helper()
	records, err := app.FindRecordsByFilter("purchase_orders", "source_boq = {:boq}", "", 0, 0,
		map[string]any{"boq": boqID})
	if err != nil {
		t.Fatalf("failed to query purchase_orders: %v", err)
	}
	return records
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
