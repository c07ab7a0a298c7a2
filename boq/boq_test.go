package boq

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func newTestBOQ(t *testing.T) BOQ {
	t.Helper()
	b, err := New("BOQ-2026-001", NewParams{
		Title:         "Office Fit-out",
		Description:   "desc",
		Project:       ProjectRef{ID: "proj1", Name: "Block A"},
		Priority:      PriorityHigh,
		CreatedBy:     "alice",
		ContingencyBP: DefaultContingencyBP,
	}, testNow)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return b
}

func assertTotals(t *testing.T, b BOQ) {
	t.Helper()
	var sum int64
	for _, it := range b.Items {
		if it.Amount != amountOf(it.Quantity, it.Rate) {
			t.Errorf("item %s amount %d != quantity*rate", it.Code, it.Amount)
		}
		sum += it.Amount
	}
	if b.Subtotal != sum {
		t.Errorf("Subtotal = %d, want %d", b.Subtotal, sum)
	}
	if want := contingencyOf(sum, b.ContingencyBP); b.Contingency != want {
		t.Errorf("Contingency = %d, want %d", b.Contingency, want)
	}
	if b.FinalAmount != b.Subtotal+b.Contingency {
		t.Errorf("FinalAmount = %d, want %d", b.FinalAmount, b.Subtotal+b.Contingency)
	}
}

func TestNew(t *testing.T) {
	b := newTestBOQ(t)
	if b.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", b.Status)
	}
	if b.Version != 1 {
		t.Errorf("Version = %d, want 1", b.Version)
	}
	if len(b.Items) != 0 || b.Subtotal != 0 || b.Contingency != 0 || b.FinalAmount != 0 {
		t.Errorf("expected empty BOQ with zero totals, got %+v", b)
	}
	if !b.CreatedAt.Equal(testNow) || !b.LastModified.Equal(testNow) {
		t.Errorf("timestamps not stamped with creation time")
	}
}

func TestNew_Validation(t *testing.T) {
	valid := NewParams{
		Title: "T", Project: ProjectRef{ID: "p"}, Priority: PriorityLow,
		CreatedBy: "alice", ContingencyBP: DefaultContingencyBP,
	}

	tests := []struct {
		name   string
		id     string
		mutate func(*NewParams)
	}{
		{"missing id", "", func(*NewParams) {}},
		{"missing title", "B1", func(p *NewParams) { p.Title = "  " }},
		{"missing project", "B1", func(p *NewParams) { p.Project = ProjectRef{} }},
		{"unknown priority", "B1", func(p *NewParams) { p.Priority = "urgent" }},
		{"missing creator", "B1", func(p *NewParams) { p.CreatedBy = "" }},
		{"contingency above 100%", "B1", func(p *NewParams) { p.ContingencyBP = 10001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if _, err := New(tt.id, p, testNow); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAddItem_HappyPathTotals(t *testing.T) {
	b := newTestBOQ(t)
	later := testNow.Add(time.Minute)

	b, err := b.AddItem(ItemFields{Description: "Partition", Quantity: ptrFloat(10), Rate: ptrInt(100)}, later)
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if b.Subtotal != 1000 || b.Contingency != 100 || b.FinalAmount != 1100 {
		t.Errorf("totals = %d/%d/%d, want 1000/100/1100", b.Subtotal, b.Contingency, b.FinalAmount)
	}
	if b.Items[0].Code != "ITEM-001" {
		t.Errorf("Code = %q, want ITEM-001", b.Items[0].Code)
	}
	if b.Version != 1 {
		t.Errorf("item edit changed Version to %d", b.Version)
	}
	if !b.LastModified.Equal(later) {
		t.Errorf("LastModified = %v, want %v", b.LastModified, later)
	}
}

func TestAddItem_NegativeInputLeavesBOQUnchanged(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Quantity: ptrFloat(2), Rate: ptrInt(50)}, testNow)
	before := b.clone()

	_, err := b.AddItem(ItemFields{Quantity: ptrFloat(-1), Rate: ptrInt(10)}, testNow)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !reflect.DeepEqual(b, before) {
		t.Errorf("failed AddItem changed the BOQ")
	}
}

func TestAddItem_Codes(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{}, testNow)
	b, _ = b.AddItem(ItemFields{Code: "CIV-01"}, testNow)
	b, _ = b.AddItem(ItemFields{}, testNow)

	var codes []string
	for _, it := range b.Items {
		codes = append(codes, it.Code)
	}
	if want := []string{"ITEM-001", "CIV-01", "ITEM-002"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}

	// Deleting the first generated item must not recycle its code.
	b, _ = b.RemoveItem(b.Items[0].ID, testNow)
	b, _ = b.AddItem(ItemFields{}, testNow)
	if got := b.Items[len(b.Items)-1].Code; got != "ITEM-003" {
		t.Errorf("code after delete = %q, want ITEM-003", got)
	}

	if _, err := b.AddItem(ItemFields{Code: "civ-01"}, testNow); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate code: expected ErrValidation, got %v", err)
	}
	if _, err := b.UpdateItem(b.Items[0].ID, FieldCode, "ITEM-002", testNow); !errors.Is(err, ErrValidation) {
		t.Errorf("renaming onto existing code: expected ErrValidation, got %v", err)
	}
}

func TestItemEdits_KeepTotalsInvariant(t *testing.T) {
	b := newTestBOQ(t)
	steps := []func(BOQ) (BOQ, error){
		func(b BOQ) (BOQ, error) {
			return b.AddItem(ItemFields{Quantity: ptrFloat(3), Rate: ptrInt(1999)}, testNow)
		},
		func(b BOQ) (BOQ, error) {
			return b.AddItem(ItemFields{Quantity: ptrFloat(0.5), Rate: ptrInt(45)}, testNow)
		},
		func(b BOQ) (BOQ, error) { return b.UpdateItem(b.Items[0].ID, FieldQuantity, 7, testNow) },
		func(b BOQ) (BOQ, error) {
			return b.AddItem(ItemFields{Quantity: ptrFloat(12), Rate: ptrInt(1234)}, testNow)
		},
		func(b BOQ) (BOQ, error) { return b.UpdateItem(b.Items[1].ID, FieldRate, "3", testNow) },
		func(b BOQ) (BOQ, error) { return b.RemoveItem(b.Items[0].ID, testNow) },
		func(b BOQ) (BOQ, error) { return b.UpdateItem(b.Items[0].ID, FieldRate, 0, testNow) },
		func(b BOQ) (BOQ, error) { return b.RemoveItem(b.Items[1].ID, testNow) },
		func(b BOQ) (BOQ, error) { return b.RemoveItem(b.Items[0].ID, testNow) },
	}

	for i, step := range steps {
		next, err := step(b)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		assertTotals(t, next)
		b = next
	}
	if b.FinalAmount != 0 {
		t.Errorf("FinalAmount after removing everything = %d, want 0", b.FinalAmount)
	}
}

func TestContingencyRounding(t *testing.T) {
	tests := []struct {
		subtotal int64
		bp       int64
		want     int64
	}{
		{1000, 1000, 100},
		{1005, 1000, 101}, // 100.5 rounds up
		{1004, 1000, 100},
		{0, 1000, 0},
		{999, 750, 75},
		{12345, 0, 0},
	}
	for _, tt := range tests {
		if got := contingencyOf(tt.subtotal, tt.bp); got != tt.want {
			t.Errorf("contingencyOf(%d, %d) = %d, want %d", tt.subtotal, tt.bp, got, tt.want)
		}
	}
}

func TestUpdateItem_Idempotent(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Quantity: ptrFloat(2), Rate: ptrInt(10)}, testNow)
	id := b.Items[0].ID

	once, err := b.UpdateItem(id, FieldQuantity, 5, testNow.Add(time.Second))
	if err != nil {
		t.Fatalf("UpdateItem() error: %v", err)
	}
	twice, err := once.UpdateItem(id, FieldQuantity, 5, testNow.Add(2*time.Second))
	if err != nil {
		t.Fatalf("UpdateItem() error: %v", err)
	}

	twice.LastModified = once.LastModified
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("repeating the same update changed the BOQ:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestItemNotFound(t *testing.T) {
	b := newTestBOQ(t)
	if _, err := b.UpdateItem("missing", FieldRate, 1, testNow); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItem: expected ErrNotFound, got %v", err)
	}
	if _, err := b.RemoveItem("missing", testNow); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveItem: expected ErrNotFound, got %v", err)
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Quantity: ptrFloat(1), Rate: ptrInt(100)}, testNow)
	b, _ = b.AddItem(ItemFields{Quantity: ptrFloat(1), Rate: ptrInt(200)}, testNow)
	before := b.clone()

	_, _ = b.UpdateItem(b.Items[0].ID, FieldRate, 999, testNow)
	_, _ = b.RemoveItem(b.Items[0].ID, testNow)
	_, _ = b.AddComment("bob", "looks fine", testNow)
	_, _ = b.Submit(testNow)

	if !reflect.DeepEqual(b, before) {
		t.Errorf("operations modified the receiver")
	}
}

func TestDuplicate(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Description: "Ceiling", Quantity: ptrFloat(10), Rate: ptrInt(100)}, testNow)
	b, _ = b.AddAttachment("drawings/ceiling.pdf", testNow)
	b, _ = b.AddComment("bob", "check rates", testNow)
	b, _ = b.Submit(testNow)
	b, _ = b.Approve("bob", testNow)

	dup, err := b.Duplicate("BOQ-2026-002", "carol", testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("Duplicate() error: %v", err)
	}
	if dup.ID != "BOQ-2026-002" || dup.Version != 1 || dup.Status != StatusDraft {
		t.Errorf("dup id/version/status = %s/%d/%s", dup.ID, dup.Version, dup.Status)
	}
	if dup.ApprovedBy != "" || dup.ApprovedAt != nil || len(dup.Comments) != 0 {
		t.Errorf("approval metadata or comments carried over: %+v", dup)
	}
	if dup.CreatedBy != "carol" {
		t.Errorf("CreatedBy = %q, want carol", dup.CreatedBy)
	}
	if dup.Title != b.Title || dup.Project != b.Project || dup.Description != b.Description {
		t.Errorf("descriptive fields not copied")
	}
	if len(dup.Items) != 1 || dup.Items[0].ID == b.Items[0].ID {
		t.Fatalf("items not copied with fresh ids")
	}
	if dup.Items[0].Code != b.Items[0].Code || dup.FinalAmount != b.FinalAmount {
		t.Errorf("item content or totals differ from source")
	}
	if len(dup.Attachments) != 1 {
		t.Errorf("attachments not copied")
	}
}

func TestCommentsAndAttachments(t *testing.T) {
	b := newTestBOQ(t)

	b, err := b.AddComment("bob", "first", testNow)
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	b, _ = b.AddComment("alice", "second", testNow)
	if len(b.Comments) != 2 || b.Comments[1].Text != "second" {
		t.Errorf("comments = %+v", b.Comments)
	}
	if b.Version != 1 {
		t.Errorf("comment changed Version to %d", b.Version)
	}
	if _, err := b.AddComment("bob", " ", testNow); !errors.Is(err, ErrValidation) {
		t.Errorf("empty comment: expected ErrValidation, got %v", err)
	}

	b, err = b.AddAttachment("site-photo.jpg", testNow)
	if err != nil {
		t.Fatalf("AddAttachment() error: %v", err)
	}
	if _, err := b.AddAttachment("site-photo.jpg", testNow); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate attachment: expected ErrValidation, got %v", err)
	}
}

func TestAddItem_SubtotalCeiling(t *testing.T) {
	b := newTestBOQ(t)
	half := MaxAmount/2 + 1
	b, err := b.AddItem(ItemFields{Quantity: ptrFloat(1), Rate: ptrInt(half)}, testNow)
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}

	if _, err := b.AddItem(ItemFields{Quantity: ptrFloat(1), Rate: ptrInt(half)}, testNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation past the ceiling, got %v", err)
	}
	if _, err := b.UpdateItem(b.Items[0].ID, FieldQuantity, 3, testNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("update past the ceiling: expected ErrValidation, got %v", err)
	}
	if len(b.Items) != 1 || b.Subtotal != half {
		t.Errorf("rejected edits changed the BOQ: %d items, subtotal %d", len(b.Items), b.Subtotal)
	}

	full := newTestBOQ(t)
	full, err = full.AddItem(ItemFields{Quantity: ptrFloat(1), Rate: ptrInt(MaxAmount)}, testNow)
	if err != nil {
		t.Fatalf("AddItem() at the ceiling error: %v", err)
	}
	assertTotals(t, full)
	if full.Contingency <= 0 || full.FinalAmount <= full.Subtotal {
		t.Errorf("Contingency/FinalAmount = %d/%d", full.Contingency, full.FinalAmount)
	}
}
