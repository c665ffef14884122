package domain

import (
	"errors"
	"testing"

	"github.com/dukerupert/fakturo/internal/totals"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoice_Editable(t *testing.T) {
	tests := []struct {
		paid, deleted bool
		want          bool
	}{
		{false, false, true},
		{true, false, false},
		{false, true, false},
		{true, true, false},
	}
	for _, tt := range tests {
		inv := &Invoice{IsPaid: tt.paid, IsDeleted: tt.deleted}
		if got := inv.Editable(); got != tt.want {
			t.Errorf("Editable(paid=%v, deleted=%v) = %v, want %v", tt.paid, tt.deleted, got, tt.want)
		}
	}
}

func TestInvoice_Recalculate(t *testing.T) {
	inv := &Invoice{
		Items: []LineItem{
			{Name: "Widget", Quantity: d("10"), Price: d("150")},
			{Name: "Install", Quantity: d("1"), Price: d("2500")},
			{Name: "Cable", Quantity: d("2"), Price: d("550")},
		},
		Discount:    totals.Discount{Value: d("10"), Type: totals.DiscountPercentage},
		TaxRate:     d("10"),
		DeliveryFee: d("25"),
	}

	if err := inv.Recalculate(); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	checks := map[string][2]decimal.Decimal{
		"subTotal":      {d("5100"), inv.Totals.SubTotal},
		"totalDiscount": {d("510"), inv.Totals.TotalDiscount},
		"totalTax":      {d("459"), inv.Totals.TotalTax},
		"grandTotal":    {d("5074"), inv.Totals.GrandTotal},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Errorf("%s = %s, want %s", name, c[1], c[0])
		}
	}
	if !inv.Totals.Consistent() {
		t.Error("stored totals must satisfy the grand total formula")
	}
}

func TestInvoice_RecalculateRejectsOversizedDiscount(t *testing.T) {
	inv := &Invoice{
		Items:    []LineItem{{Quantity: d("1"), Price: d("10")}},
		Discount: totals.Discount{Value: d("11"), Type: totals.DiscountFixed},
	}

	err := inv.Recalculate()

	var inputErr *totals.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *totals.InputError, got %v", err)
	}
	if inputErr.Field != "discount.value" {
		t.Errorf("field = %q", inputErr.Field)
	}
}

func TestInvoice_Public(t *testing.T) {
	inv := &Invoice{Items: []LineItem{{Name: "Widget", Quantity: d("1"), Price: d("9"), Cost: d("4")}}}

	pub := inv.Public()

	if !pub.Items[0].Cost.IsZero() {
		t.Error("public copy must not expose cost")
	}
	if !inv.Items[0].Cost.Equal(d("4")) {
		t.Error("original invoice must keep its cost")
	}
	if !inv.Cost().Equal(d("4")) {
		t.Errorf("Cost() = %s", inv.Cost())
	}
}

func TestInvoice_DisplayNumber(t *testing.T) {
	inv := &Invoice{Number: 42}
	if got := inv.DisplayNumber(); got != "INV-00042" {
		t.Errorf("DisplayNumber() = %q", got)
	}
}

func TestItem_LineItemIsACopy(t *testing.T) {
	item := &Item{ID: uuid.New(), Name: "Widget", SKU: "W-1", Price: d("12.5"), Cost: d("7")}

	line := item.LineItem(d("3"))
	item.Price = d("99")
	item.Name = "Renamed"

	if line.Name != "Widget" || !line.Price.Equal(d("12.5")) {
		t.Errorf("line item followed catalog edit: %+v", line)
	}
	if line.ItemID == nil || *line.ItemID != item.ID {
		t.Error("line item should link back to the catalog item")
	}
	if !line.Total().Equal(d("37.5")) {
		t.Errorf("Total() = %s", line.Total())
	}
}

func TestAddress_Lines(t *testing.T) {
	a := Address{Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	got := a.Lines()
	want := []string{"1 Main St", "12345 Springfield", "US"}

	if len(got) != len(want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if len(Address{}.Lines()) != 0 {
		t.Error("empty address should have no lines")
	}
}

func TestBusiness_FormatMoney(t *testing.T) {
	b := &Business{Currency: "EUR"}
	if got := b.FormatMoney(d("1234.5")); got != "1.234,50 €" {
		t.Errorf("FormatMoney() = %q", got)
	}
}
