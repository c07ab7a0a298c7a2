package boq

import (
	"errors"
	"testing"
)

func TestToPurchaseRequestDraft(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Description: "Partition", Quantity: ptrFloat(10), Rate: ptrInt(100)}, testNow)

	for _, s := range []Status{StatusDraft, StatusSubmitted} {
		if s == StatusSubmitted {
			b, _ = b.Submit(testNow)
		}
		if _, err := ToPurchaseRequestDraft(b); !errors.Is(err, ErrIllegalState) {
			t.Errorf("%s: expected ErrIllegalState, got %v", s, err)
		}
	}

	b, _ = b.Approve("bob", testNow)
	draft, err := ToPurchaseRequestDraft(b)
	if err != nil {
		t.Fatalf("ToPurchaseRequestDraft() error: %v", err)
	}
	if draft.SourceBOQID != b.ID || draft.Project != b.Project {
		t.Errorf("draft source = %s/%v", draft.SourceBOQID, draft.Project)
	}
	if draft.TotalAmount != 1100 {
		t.Errorf("TotalAmount = %d, want 1100", draft.TotalAmount)
	}
	if len(draft.LineItems) != 1 || draft.LineItems[0].Amount != 1000 {
		t.Errorf("LineItems = %+v", draft.LineItems)
	}

	draft.LineItems[0].Description = "changed"
	if b.Items[0].Description != "Partition" {
		t.Errorf("draft shares item storage with the BOQ")
	}
}
