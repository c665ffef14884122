package domain

import (
	"testing"

	"github.com/google/uuid"
)

func invoicesWithStatuses(statuses ...DeliveryStatus) []*Invoice {
	out := make([]*Invoice, len(statuses))
	for i, s := range statuses {
		out[i] = &Invoice{ID: uuid.New(), DeliveryStatus: s}
	}
	return out
}

func noteFor(invoices []*Invoice) *DeliveryNote {
	d := &DeliveryNote{ID: uuid.New()}
	for _, inv := range invoices {
		d.InvoiceIDs = append(d.InvoiceIDs, inv.ID)
	}
	return d
}

func TestDeliveryNote_Recount(t *testing.T) {
	tests := []struct {
		name     string
		statuses []DeliveryStatus
		want     StatusCounts
	}{
		{"empty", nil, StatusCounts{}},
		{"all pending", []DeliveryStatus{DeliveryPending, DeliveryPending}, StatusCounts{Pending: 2}},
		{
			"mixed",
			[]DeliveryStatus{DeliveryPending, DeliveryShipped, DeliveryShipped, DeliveryDelivered, DeliveryReturned},
			StatusCounts{Pending: 1, Shipped: 2, Delivered: 1, Returned: 1},
		},
		{"unknown counts as pending", []DeliveryStatus{"lost", DeliveryShipped}, StatusCounts{Pending: 1, Shipped: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices := invoicesWithStatuses(tt.statuses...)
			d := noteFor(invoices)

			d.Recount(invoices)

			if d.StatusCounts != tt.want {
				t.Errorf("counts = %+v, want %+v", d.StatusCounts, tt.want)
			}
			if !d.Consistent() {
				t.Errorf("sum %d != %d invoices", d.StatusCounts.Total(), len(d.InvoiceIDs))
			}
		})
	}
}

func TestDeliveryNote_RecountMissingMember(t *testing.T) {
	invoices := invoicesWithStatuses(DeliveryShipped, DeliveryDelivered)
	d := noteFor(invoices)

	d.Recount(invoices[:1])

	want := StatusCounts{Pending: 1, Shipped: 1}
	if d.StatusCounts != want {
		t.Errorf("counts = %+v, want %+v", d.StatusCounts, want)
	}
	if !d.Consistent() {
		t.Error("counts must still sum to the member count")
	}
}

func TestDeliveryNote_RemoveInvoice(t *testing.T) {
	invoices := invoicesWithStatuses(DeliveryShipped, DeliveryPending, DeliveryDelivered)
	d := noteFor(invoices)
	original := append([]uuid.UUID(nil), d.InvoiceIDs...)

	if !d.RemoveInvoice(invoices[1].ID) {
		t.Fatal("expected removal")
	}
	if d.RemoveInvoice(uuid.New()) {
		t.Error("removing a non-member should report false")
	}
	if d.Contains(invoices[1].ID) {
		t.Error("removed invoice still a member")
	}
	if len(d.InvoiceIDs) != 2 || d.InvoiceIDs[0] != original[0] || d.InvoiceIDs[1] != original[2] {
		t.Errorf("unexpected members %v", d.InvoiceIDs)
	}

	d.Recount(invoices)
	if !d.Consistent() || d.StatusCounts.Pending != 0 {
		t.Errorf("counts after removal = %+v", d.StatusCounts)
	}
}

func TestStatusCounts_Get(t *testing.T) {
	c := StatusCounts{Pending: 1, Shipped: 2, Delivered: 3, Returned: 4}
	for i, s := range DeliveryStatuses {
		if got := c.Get(s); got != i+1 {
			t.Errorf("Get(%s) = %d, want %d", s, got, i+1)
		}
	}
	if c.Get("bogus") != 0 {
		t.Error("unknown status should be 0")
	}
}
