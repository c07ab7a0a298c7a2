package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
)

// PurchaseRequestCreator turns an approved BOQ's draft into a purchase order.
type PurchaseRequestCreator interface {
	CreatePurchaseRequest(draft boq.PurchaseRequestDraft, raisedBy string) (PurchaseRequestConfirmation, error)
}

// PurchaseRequestConfirmation describes the purchase order that was raised.
type PurchaseRequestConfirmation struct {
	PurchaseOrderID string   `json:"purchase_order_id"`
	PONumber        string   `json:"po_number"`
	SourceBOQID     string   `json:"source_boq_id"`
	LineItems       int      `json:"line_items"`
	BudgetAmount    int64    `json:"budget_amount"`
	Totals          POTotals `json:"totals"`
	AmountInWords   string   `json:"amount_in_words"`
}

func confirmationFor(draft boq.PurchaseRequestDraft, gstPercent float64) PurchaseRequestConfirmation {
	calcs := make([]POLineItemCalc, len(draft.LineItems))
	for i, it := range draft.LineItems {
		calcs[i] = CalcPOLineItem(it.Rate, it.Quantity, gstPercent)
	}
	totals := CalcPOTotals(calcs)
	return PurchaseRequestConfirmation{
		SourceBOQID:   draft.SourceBOQID,
		LineItems:     len(draft.LineItems),
		BudgetAmount:  draft.TotalAmount,
		Totals:        totals,
		AmountInWords: AmountToWords(totals.GrandTotal),
	}
}

// PBPurchaseRequestCreator stores purchase requests as draft records in the
// purchase_orders and po_line_items collections. A BOQ raises at most one
// purchase order.
type PBPurchaseRequestCreator struct {
	App core.App
	// GSTPercent is applied to every line; tax rules are out of scope so it
	// is normally zero.
	GSTPercent float64
	Now        func() time.Time
}

// CreatePurchaseRequest saves the PO and its line items in one transaction.
func (c *PBPurchaseRequestCreator) CreatePurchaseRequest(draft boq.PurchaseRequestDraft, raisedBy string) (PurchaseRequestConfirmation, error) {
	existing, err := c.App.FindRecordsByFilter("purchase_orders", "source_boq = {:boq}", "", 1, 0,
		map[string]any{"boq": draft.SourceBOQID})
	if err != nil {
		return PurchaseRequestConfirmation{}, fmt.Errorf("look up purchase orders for %s: %w", draft.SourceBOQID, err)
	}
	if len(existing) > 0 {
		return PurchaseRequestConfirmation{}, fmt.Errorf("%w: boq %s already raised purchase order %s",
			boq.ErrConflict, draft.SourceBOQID, existing[0].GetString("po_number"))
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	conf := confirmationFor(draft, c.GSTPercent)

	err = c.App.RunInTransaction(func(txApp core.App) error {
		poNumber, err := GeneratePONumber(txApp, draft.Project.ID, now)
		if err != nil {
			return err
		}

		poCol, err := txApp.FindCollectionByNameOrId("purchase_orders")
		if err != nil {
			return fmt.Errorf("find purchase_orders collection: %w", err)
		}
		itemsCol, err := txApp.FindCollectionByNameOrId("po_line_items")
		if err != nil {
			return fmt.Errorf("find po_line_items collection: %w", err)
		}

		po := core.NewRecord(poCol)
		po.Set("po_number", poNumber)
		po.Set("project", draft.Project.ID)
		po.Set("source_boq", draft.SourceBOQID)
		po.Set("status", "draft")
		po.Set("raised_by", raisedBy)
		po.Set("budget_amount", draft.TotalAmount)
		po.Set("total_before_tax", conf.Totals.TotalBeforeTax)
		po.Set("igst_amount", conf.Totals.IGSTAmount)
		po.Set("round_off", conf.Totals.RoundOff)
		po.Set("grand_total", conf.Totals.GrandTotal)
		if err := txApp.Save(po); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}

		for i, it := range draft.LineItems {
			line := core.NewRecord(itemsCol)
			line.Set("purchase_order", po.Id)
			line.Set("sort_order", i+1)
			line.Set("source_item_code", it.Code)
			line.Set("description", it.Description)
			line.Set("uom", it.UOM)
			line.Set("qty", it.Quantity)
			line.Set("rate", it.Rate)
			line.Set("gst_percent", c.GSTPercent)
			line.Set("amount", it.Amount)
			if err := txApp.Save(line); err != nil {
				return fmt.Errorf("save po line item %d: %w", i+1, err)
			}
		}

		conf.PurchaseOrderID = po.Id
		conf.PONumber = poNumber
		return nil
	})
	if err != nil {
		return PurchaseRequestConfirmation{}, err
	}
	return conf, nil
}

// DryRunPurchaseRequests records purchase requests in memory without a
// database. The demo command uses it.
type DryRunPurchaseRequests struct {
	mu     sync.Mutex
	Raised []PurchaseRequestConfirmation
}

// CreatePurchaseRequest numbers the request DRY-PO-NNN and keeps it.
func (d *DryRunPurchaseRequests) CreatePurchaseRequest(draft boq.PurchaseRequestDraft, raisedBy string) (PurchaseRequestConfirmation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.Raised {
		if r.SourceBOQID == draft.SourceBOQID {
			return PurchaseRequestConfirmation{}, fmt.Errorf("%w: boq %s already raised purchase order %s",
				boq.ErrConflict, draft.SourceBOQID, r.PONumber)
		}
	}

	conf := confirmationFor(draft, 0)
	conf.PONumber = fmt.Sprintf("DRY-PO-%03d", len(d.Raised)+1)
	conf.PurchaseOrderID = conf.PONumber
	d.Raised = append(d.Raised, conf)
	return conf, nil
}
