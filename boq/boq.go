// Package boq implements the Bill-of-Quantities core: costed line items, the
// BOQ aggregate with its derived totals, the approval workflow, an in-memory
// registry and the bridge to purchase requests.
//
// Every operation on a BOQ returns a new snapshot; the receiver is never
// modified, so a failed operation leaves the caller's value untouched.
package boq

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// DefaultContingencyBP is the default contingency rate in basis points (10%).
const DefaultContingencyBP int64 = 1000

// Priority is informational and never gates a transition.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// ProjectRef identifies the owning project. The BOQ core does not manage
// project lifecycle.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Comment is one entry of a BOQ's append-only comment log.
type Comment struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// BOQ is the aggregate root. Subtotal, Contingency and FinalAmount are derived
// from Items and only ever written by recompute.
type BOQ struct {
	ID          string     `json:"id"`
	Version     int        `json:"version"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Project     ProjectRef `json:"project"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`

	Items         []LineItem `json:"items"`
	ContingencyBP int64      `json:"contingency_bp"`
	Subtotal      int64      `json:"subtotal"`
	Contingency   int64      `json:"contingency"`
	FinalAmount   int64      `json:"final_amount"`

	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`

	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	Comments    []Comment `json:"comments"`
	Attachments []string  `json:"attachments"`
}

// NewParams holds the caller-supplied fields of a new BOQ.
type NewParams struct {
	Title         string
	Description   string
	Project       ProjectRef
	Priority      Priority
	CreatedBy     string
	ContingencyBP int64
}

// Validate checks the required fields of p.
func (p NewParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Priority, validation.Required, validation.By(func(v any) error {
			if pr, _ := v.(Priority); pr != "" && !pr.IsValid() {
				return validation.NewError("validation_priority", "must be low, medium, high or critical")
			}
			return nil
		})),
		validation.Field(&p.CreatedBy, validation.Required),
		validation.Field(&p.ContingencyBP, validation.Min(int64(0)), validation.Max(int64(10000))),
	)
}

// New creates a draft BOQ at version 1 with no items and zero totals.
func New(id string, p NewParams, now time.Time) (BOQ, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.CreatedBy = strings.TrimSpace(p.CreatedBy)
	if strings.TrimSpace(id) == "" {
		return BOQ{}, fmt.Errorf("%w: boq id is required", ErrValidation)
	}
	if p.Project.ID == "" {
		return BOQ{}, fmt.Errorf("%w: project is required", ErrValidation)
	}
	if err := p.Validate(); err != nil {
		return BOQ{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	b := BOQ{
		ID:            id,
		Version:       1,
		Title:         p.Title,
		Description:   p.Description,
		Project:       p.Project,
		Status:        StatusDraft,
		Priority:      p.Priority,
		Items:         []LineItem{},
		ContingencyBP: p.ContingencyBP,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     now,
		LastModified:  now,
		Comments:      []Comment{},
		Attachments:   []string{},
	}
	b.recompute()
	return b, nil
}

// clone returns a deep copy so the result can be changed without touching b.
func (b BOQ) clone() BOQ {
	c := b
	c.Items = slices.Clone(b.Items)
	c.Comments = slices.Clone(b.Comments)
	c.Attachments = slices.Clone(b.Attachments)
	if b.ApprovedAt != nil {
		t := *b.ApprovedAt
		c.ApprovedAt = &t
	}
	if b.RejectedAt != nil {
		t := *b.RejectedAt
		c.RejectedAt = &t
	}
	return c
}

// recompute is the only writer of Subtotal, Contingency and FinalAmount.
func (b *BOQ) recompute() {
	var subtotal int64
	for _, it := range b.Items {
		subtotal += it.Amount
	}
	b.Subtotal = subtotal
	b.Contingency = contingencyOf(subtotal, b.ContingencyBP)
	b.FinalAmount = b.Subtotal + b.Contingency
}

// checkSubtotal fails when the items would sum past MaxAmount.
func checkSubtotal(items []LineItem) error {
	var subtotal int64
	for _, it := range items {
		if it.Amount > MaxAmount-subtotal {
			return fmt.Errorf("%w: subtotal exceeds %d", ErrValidation, MaxAmount)
		}
		subtotal += it.Amount
	}
	return nil
}

// contingencyOf returns round(subtotal * bp / 10000), rounding halves up.
func contingencyOf(subtotal, bp int64) int64 {
	return (subtotal*bp + 5000) / 10000
}

// Item returns the item with the given id.
func (b BOQ) Item(itemID string) (LineItem, bool) {
	i := b.itemIndex(itemID)
	if i < 0 {
		return LineItem{}, false
	}
	return b.Items[i], true
}

func (b BOQ) itemIndex(itemID string) int {
	return slices.IndexFunc(b.Items, func(it LineItem) bool { return it.ID == itemID })
}

func (b BOQ) codeTaken(code, exceptID string) bool {
	return slices.ContainsFunc(b.Items, func(it LineItem) bool {
		return it.ID != exceptID && strings.EqualFold(it.Code, code)
	})
}

var itemCodePattern = regexp.MustCompile(`^ITEM-(\d+)$`)

// nextItemCode returns ITEM-NNN one past the highest generated code in use,
// so codes stay unique after deletions.
func (b BOQ) nextItemCode() string {
	highest := 0
	for _, it := range b.Items {
		m := itemCodePattern.FindStringSubmatch(it.Code)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return formatItemCode(highest + 1)
}

func formatItemCode(seq int) string {
	return fmt.Sprintf("ITEM-%03d", seq)
}

// AddItem appends a new item built from f and recomputes the totals.
func (b BOQ) AddItem(f ItemFields, now time.Time) (BOQ, error) {
	item, err := NewLineItem(f)
	if err != nil {
		return BOQ{}, err
	}
	if b.itemIndex(item.ID) >= 0 {
		return BOQ{}, fmt.Errorf("%w: item %s already exists in %s", ErrConflict, item.ID, b.ID)
	}
	if item.Code == "" {
		item.Code = b.nextItemCode()
	} else if b.codeTaken(item.Code, "") {
		return BOQ{}, fmt.Errorf("%w: item code %q already used in %s", ErrValidation, item.Code, b.ID)
	}

	next := b.clone()
	next.Items = append(next.Items, item)
	if err := checkSubtotal(next.Items); err != nil {
		return BOQ{}, err
	}
	next.recompute()
	next.LastModified = now
	return next, nil
}

// UpdateItem sets one field of an item and recomputes the totals.
func (b BOQ) UpdateItem(itemID string, field Field, value any, now time.Time) (BOQ, error) {
	i := b.itemIndex(itemID)
	if i < 0 {
		return BOQ{}, fmt.Errorf("%w: item %s in %s", ErrNotFound, itemID, b.ID)
	}
	item, err := b.Items[i].WithField(field, value)
	if err != nil {
		return BOQ{}, err
	}
	if field == FieldCode && b.codeTaken(item.Code, item.ID) {
		return BOQ{}, fmt.Errorf("%w: item code %q already used in %s", ErrValidation, item.Code, b.ID)
	}

	next := b.clone()
	next.Items[i] = item
	if err := checkSubtotal(next.Items); err != nil {
		return BOQ{}, err
	}
	next.recompute()
	next.LastModified = now
	return next, nil
}

// RemoveItem deletes an item and recomputes the totals.
func (b BOQ) RemoveItem(itemID string, now time.Time) (BOQ, error) {
	i := b.itemIndex(itemID)
	if i < 0 {
		return BOQ{}, fmt.Errorf("%w: item %s in %s", ErrNotFound, itemID, b.ID)
	}

	next := b.clone()
	next.Items = slices.Delete(next.Items, i, i+1)
	next.recompute()
	next.LastModified = now
	return next, nil
}

// AddComment appends to the comment log. The version is unchanged.
func (b BOQ) AddComment(author, text string, now time.Time) (BOQ, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" || text == "" {
		return BOQ{}, fmt.Errorf("%w: comment needs an author and text", ErrValidation)
	}

	next := b.clone()
	next.Comments = append(next.Comments, Comment{Author: author, Text: text, At: now})
	next.LastModified = now
	return next, nil
}

// AddAttachment records an opaque attachment reference.
func (b BOQ) AddAttachment(ref string, now time.Time) (BOQ, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return BOQ{}, fmt.Errorf("%w: attachment reference is empty", ErrValidation)
	}
	if slices.Contains(b.Attachments, ref) {
		return BOQ{}, fmt.Errorf("%w: attachment %q already attached to %s", ErrValidation, ref, b.ID)
	}

	next := b.clone()
	next.Attachments = append(next.Attachments, ref)
	next.LastModified = now
	return next, nil
}

// Duplicate copies b into a new draft with a fresh id, version 1 and new item
// ids. Approval, rejection and comments are not carried over.
func (b BOQ) Duplicate(id, createdBy string, now time.Time) (BOQ, error) {
	dup, err := New(id, NewParams{
		Title:         b.Title,
		Description:   b.Description,
		Project:       b.Project,
		Priority:      b.Priority,
		CreatedBy:     createdBy,
		ContingencyBP: b.ContingencyBP,
	}, now)
	if err != nil {
		return BOQ{}, err
	}

	dup.Items = make([]LineItem, len(b.Items))
	for i, it := range b.Items {
		it.ID = uuid.NewString()
		dup.Items[i] = it
	}
	dup.Attachments = slices.Clone(b.Attachments)
	dup.recompute()
	return dup, nil
}
