package services

import (
	"bytes"
	"testing"
	"time"

	"boqtracker/boq"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

var fixedNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int64) *int64       { return &v }

// sampleBOQ returns a draft with two items: subtotal ₹2,000.00, final ₹2,200.00.
func sampleBOQ(t *testing.T) boq.BOQ {
	t.Helper()
	b, err := boq.New("BOQ-2026-001", boq.NewParams{
		Title:         "Office Fit-out",
		Description:   "Ground floor",
		Project:       boq.ProjectRef{ID: "proj1", Name: "Block A"},
		Priority:      boq.PriorityHigh,
		CreatedBy:     "alice",
		ContingencyBP: boq.DefaultContingencyBP,
	}, fixedNow)
	if err != nil {
		t.Fatalf("boq.New() error: %v", err)
	}
	b, err = b.AddItem(boq.ItemFields{Code: "CIV-01", Description: "Partition wall", Category: "Civil", UOM: "Sqm", Quantity: ptrFloat(10), Rate: ptrInt(10000)}, fixedNow)
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	b, err = b.AddItem(boq.ItemFields{Description: "False ceiling", Category: "Interior", UOM: "Sqm", Quantity: ptrFloat(2.5), Rate: ptrInt(40000)}, fixedNow)
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	return b
}
