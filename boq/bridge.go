package boq

import (
	"fmt"
	"slices"
)

// PurchaseRequestDraft is the input handed to the purchase-request
// collaborator for an approved BOQ.
type PurchaseRequestDraft struct {
	SourceBOQID string     `json:"source_boq_id"`
	Project     ProjectRef `json:"project"`
	LineItems   []LineItem `json:"line_items"`
	TotalAmount int64      `json:"total_amount"`
}

// ToPurchaseRequestDraft builds the purchase-request input for b. Only
// approved BOQs qualify.
func ToPurchaseRequestDraft(b BOQ) (PurchaseRequestDraft, error) {
	if b.Status != StatusApproved {
		return PurchaseRequestDraft{}, fmt.Errorf("%w: boq %s is %s, purchase requests need an approved BOQ", ErrIllegalState, b.ID, b.Status)
	}
	return PurchaseRequestDraft{
		SourceBOQID: b.ID,
		Project:     b.Project,
		LineItems:   slices.Clone(b.Items),
		TotalAmount: b.FinalAmount,
	}, nil
}
