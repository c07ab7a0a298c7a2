package boq

import (
	"fmt"
	"strings"
	"time"
)

// Status is the position of a BOQ in the approval workflow.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in-review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusDraft, StatusSubmitted, StatusInReview, StatusApproved, StatusRejected}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known workflow status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusInReview, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsLocked reports whether the BOQ has left the editable states.
func (s Status) IsLocked() bool {
	return s == StatusSubmitted || s == StatusInReview || s == StatusApproved
}

// Event is a workflow command.
type Event string

const (
	EventSubmit      Event = "submit"
	EventBeginReview Event = "begin-review"
	EventApprove     Event = "approve"
	EventReject      Event = "reject"
)

// Events lists every workflow event.
var Events = []Event{EventSubmit, EventBeginReview, EventApprove, EventReject}

// Next returns the status reached by applying ev to s, and false when the
// pair is not in the transition table. Approved is terminal.
func (s Status) Next(ev Event) (Status, bool) {
	switch ev {
	case EventSubmit:
		if s == StatusDraft || s == StatusRejected {
			return StatusSubmitted, true
		}
	case EventBeginReview:
		if s == StatusSubmitted {
			return StatusInReview, true
		}
	case EventApprove:
		if s == StatusSubmitted || s == StatusInReview {
			return StatusApproved, true
		}
	case EventReject:
		if s == StatusSubmitted || s == StatusInReview {
			return StatusRejected, true
		}
	}
	return "", false
}

// Transition applies ev to b. Approve and reject stamp actor and time; reject
// also needs a reason. A successful transition bumps Version by exactly one.
func (b BOQ) Transition(ev Event, actor, reason string, now time.Time) (BOQ, error) {
	to, ok := b.Status.Next(ev)
	if !ok {
		return BOQ{}, fmt.Errorf("%w: cannot %s a %s BOQ (%s)", ErrIllegalTransition, ev, b.Status, b.ID)
	}

	actor = strings.TrimSpace(actor)
	reason = strings.TrimSpace(reason)

	next := b.clone()
	switch ev {
	case EventSubmit:
		next.RejectedBy = ""
		next.RejectedAt = nil
		next.RejectionReason = ""
	case EventApprove:
		if actor == "" {
			return BOQ{}, fmt.Errorf("%w: approver is required", ErrValidation)
		}
		at := now
		next.ApprovedBy = actor
		next.ApprovedAt = &at
	case EventReject:
		if actor == "" {
			return BOQ{}, fmt.Errorf("%w: rejecter is required", ErrValidation)
		}
		if reason == "" {
			return BOQ{}, fmt.Errorf("%w: rejection reason is required", ErrValidation)
		}
		at := now
		next.RejectedBy = actor
		next.RejectedAt = &at
		next.RejectionReason = reason
	}

	next.Status = to
	next.Version++
	next.LastModified = now
	return next, nil
}

// Submit moves a draft or rejected BOQ to submitted.
func (b BOQ) Submit(now time.Time) (BOQ, error) {
	return b.Transition(EventSubmit, "", "", now)
}

// BeginReview moves a submitted BOQ to in-review.
func (b BOQ) BeginReview(now time.Time) (BOQ, error) {
	return b.Transition(EventBeginReview, "", "", now)
}

// Approve moves a submitted or in-review BOQ to approved.
func (b BOQ) Approve(approver string, now time.Time) (BOQ, error) {
	return b.Transition(EventApprove, approver, "", now)
}

// Reject moves a submitted or in-review BOQ to rejected.
func (b BOQ) Reject(rejecter, reason string, now time.Time) (BOQ, error) {
	return b.Transition(EventReject, rejecter, reason, now)
}
