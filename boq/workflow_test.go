package boq

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_Next(t *testing.T) {
	legal := map[Status]map[Event]Status{
		StatusDraft:     {EventSubmit: StatusSubmitted},
		StatusRejected:  {EventSubmit: StatusSubmitted},
		StatusSubmitted: {EventBeginReview: StatusInReview, EventApprove: StatusApproved, EventReject: StatusRejected},
		StatusInReview:  {EventApprove: StatusApproved, EventReject: StatusRejected},
		StatusApproved:  {},
	}

	for _, from := range Statuses {
		for _, ev := range Events {
			want, wantOK := legal[from][ev]
			got, ok := from.Next(ev)
			if ok != wantOK || got != want {
				t.Errorf("Status(%q).Next(%q) = (%q, %v), want (%q, %v)", from, ev, got, ok, want, wantOK)
			}
		}
	}
}

// boqInStatus walks a fresh BOQ through the workflow to reach status s.
func boqInStatus(t *testing.T, s Status) BOQ {
	t.Helper()
	b := newTestBOQ(t)
	var err error
	switch s {
	case StatusDraft:
		return b
	case StatusSubmitted:
		b, err = b.Submit(testNow)
	case StatusInReview:
		b, _ = b.Submit(testNow)
		b, err = b.BeginReview(testNow)
	case StatusApproved:
		b, _ = b.Submit(testNow)
		b, err = b.Approve("bob", testNow)
	case StatusRejected:
		b, _ = b.Submit(testNow)
		b, err = b.Reject("bob", "too high", testNow)
	}
	if err != nil {
		t.Fatalf("could not reach %s: %v", s, err)
	}
	return b
}

func TestTransition_IllegalPairs(t *testing.T) {
	for _, from := range Statuses {
		for _, ev := range Events {
			if _, ok := from.Next(ev); ok {
				continue
			}
			t.Run(string(from)+"/"+string(ev), func(t *testing.T) {
				b := boqInStatus(t, from)
				_, err := b.Transition(ev, "bob", "reason", testNow)
				if !errors.Is(err, ErrIllegalTransition) {
					t.Errorf("expected ErrIllegalTransition, got %v", err)
				}
			})
		}
	}
}

func TestTransition_VersionIncrementsByOne(t *testing.T) {
	b := newTestBOQ(t)
	steps := []struct {
		name string
		fn   func(BOQ) (BOQ, error)
	}{
		{"submit", func(b BOQ) (BOQ, error) { return b.Submit(testNow) }},
		{"review", func(b BOQ) (BOQ, error) { return b.BeginReview(testNow) }},
		{"reject", func(b BOQ) (BOQ, error) { return b.Reject("bob", "scope", testNow) }},
		{"resubmit", func(b BOQ) (BOQ, error) { return b.Submit(testNow) }},
		{"approve", func(b BOQ) (BOQ, error) { return b.Approve("bob", testNow) }},
	}

	for _, step := range steps {
		next, err := step.fn(b)
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if next.Version != b.Version+1 {
			t.Errorf("%s: Version = %d, want %d", step.name, next.Version, b.Version+1)
		}
		b = next
	}
}

func TestHappyPathApproval(t *testing.T) {
	b := newTestBOQ(t)
	b, _ = b.AddItem(ItemFields{Quantity: ptrFloat(10), Rate: ptrInt(100)}, testNow)

	b, err := b.Submit(testNow)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if b.Status != StatusSubmitted {
		t.Fatalf("Status = %q, want submitted", b.Status)
	}

	approvedAt := testNow.Add(time.Hour)
	b, err = b.Approve("bob", approvedAt)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if b.Status != StatusApproved || b.ApprovedBy != "bob" {
		t.Errorf("Status/ApprovedBy = %q/%q", b.Status, b.ApprovedBy)
	}
	if b.ApprovedAt == nil || !b.ApprovedAt.Equal(approvedAt) {
		t.Errorf("ApprovedAt = %v, want %v", b.ApprovedAt, approvedAt)
	}
	if !b.LastModified.Equal(approvedAt) {
		t.Errorf("LastModified = %v, want %v", b.LastModified, approvedAt)
	}
}

func TestRejectThenResubmit(t *testing.T) {
	b := boqInStatus(t, StatusSubmitted)

	b, err := b.Reject("bob", "budget too high", testNow)
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if b.Status != StatusRejected || b.RejectedBy != "bob" || b.RejectionReason != "budget too high" || b.RejectedAt == nil {
		t.Errorf("rejection not stamped: %+v", b)
	}

	b, err = b.Submit(testNow)
	if err != nil {
		t.Fatalf("resubmit error: %v", err)
	}
	if b.Status != StatusSubmitted {
		t.Errorf("Status = %q, want submitted", b.Status)
	}
	if b.RejectedBy != "" || b.RejectedAt != nil || b.RejectionReason != "" {
		t.Errorf("rejection fields not cleared: %+v", b)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusInReview} {
		b := boqInStatus(t, s)
		_, err := b.Reject("bob", "   ", testNow)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", s, err)
		}
	}
}

func TestApprove_RequiresApprover(t *testing.T) {
	b := boqInStatus(t, StatusSubmitted)
	if _, err := b.Approve("", testNow); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	b := boqInStatus(t, StatusApproved)
	for _, ev := range Events {
		if _, err := b.Transition(ev, "bob", "r", testNow); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("%s from approved: expected ErrIllegalTransition, got %v", ev, err)
		}
	}
}
