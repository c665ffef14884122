package document

import (
	"context"

	"github.com/jung-kurt/gofpdf"
)

const (
	receiptWidth  = 80.0
	receiptMargin = 4.0
	receiptQR     = 30.0

	// Viewers reject pages taller than 200in.
	maxReceiptHeight = 5080.0
)

// ReceiptRenderer prints a single page 80mm wide. The page height is the
// measured height of the content: the layout runs once without drawing to
// total the wrapped line counts, then again onto a page of that height.
// Content taller than maxReceiptHeight continues on further pages of
// that height.
type ReceiptRenderer struct{}

func (ReceiptRenderer) Render(ctx context.Context, v *View) ([]byte, error) {
	d := drawReceipt(v)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.bytes()
}

func drawReceipt(v *View) *doc {
	d := newReceiptDoc(v)
	h := min(receiptHeight(d, v), maxReceiptHeight)
	d.AddPageFormat("P", gofpdf.SizeType{Wd: receiptWidth, Ht: h})
	layoutReceipt(&receiptCursor{d: d, draw: true, y: receiptMargin, pageH: h}, v)
	return d
}

func newReceiptDoc(v *View) *doc {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: receiptWidth, Ht: 200},
	})
	pdf.SetMargins(receiptMargin, receiptMargin, receiptMargin)
	pdf.SetAutoPageBreak(false, 0)
	d := newDoc(pdf, v)
	d.font = "Courier"
	return d
}

// receiptHeight is the page height v needs, margins included.
func receiptHeight(d *doc, v *View) float64 {
	c := &receiptCursor{d: d, y: receiptMargin}
	layoutReceipt(c, v)
	return c.y + receiptMargin
}

// receiptCursor either measures or draws, advancing y identically in both
// modes. Only drawing breaks pages.
type receiptCursor struct {
	d     *doc
	draw  bool
	y     float64
	pageH float64
}

// fit starts a new page when h more millimetres would overrun this one.
func (c *receiptCursor) fit(h float64) {
	if !c.draw || c.y+h <= c.pageH-receiptMargin {
		return
	}
	c.d.AddPageFormat("P", gofpdf.SizeType{Wd: receiptWidth, Ht: c.pageH})
	c.y = receiptMargin
}

func (c *receiptCursor) width() float64 {
	return receiptWidth - 2*receiptMargin
}

// text wraps s over the full width.
func (c *receiptCursor) text(style string, size float64, color RGB, s, align string) {
	if s == "" {
		return
	}
	c.d.style(style, size, color)
	lh := size * mmPerPt * 1.3
	for _, l := range c.d.wrap(s, c.width()) {
		c.fit(lh)
		if c.draw {
			c.d.SetXY(receiptMargin, c.y)
			c.d.CellFormat(c.width(), lh, l, "", 0, align, false, 0, "")
		}
		c.y += lh
	}
}

// pair prints label on the left and value on the right of one line.
func (c *receiptCursor) pair(style string, size float64, color RGB, label, value string) {
	c.d.style(style, size, color)
	lh := size * mmPerPt * 1.3
	c.fit(lh)
	if c.draw {
		c.d.SetXY(receiptMargin, c.y)
		c.d.cell(c.width(), lh, label, "L")
		c.d.SetXY(receiptMargin, c.y)
		c.d.cell(c.width(), lh, value, "R")
	}
	c.y += lh
}

func (c *receiptCursor) divider(color RGB) {
	c.fit(3)
	c.y += 1.5
	if c.draw {
		c.d.SetY(c.y)
		c.d.dashed(color)
	}
	c.y += 1.5
}

func (c *receiptCursor) gap(h float64) { c.y += h }

func (c *receiptCursor) image(name string, img *Image, w, h float64) {
	c.fit(h)
	if c.draw {
		c.d.image(name, img, (receiptWidth-w)/2, c.y, w, h)
	}
	c.y += h
}

func layoutReceipt(c *receiptCursor, v *View) {
	black := RGB{}
	lb := v.Labels

	if v.Logo != nil {
		h := logoHeight(v, 8, 12, 16)
		c.image(logoName, v.Logo, min(c.d.widthAt(logoName, v.Logo, h), c.width()), h)
		c.gap(2)
	}
	c.text("B", 11, black, v.Business.Name, "C")
	for _, l := range partyLines(v, v.Business, false) {
		c.text("", 7.5, black, l, "C")
	}
	c.divider(black)

	c.text("B", 10, black, v.Title+" "+v.Number, "C")
	c.text("", 8, black, v.IssueDate, "C")
	if v.Show.DueDate && v.DueDate != "" {
		c.text("", 8, black, lb.DueDate+": "+v.DueDate, "C")
	}
	if v.Stamp != "" {
		c.text("B", 10, black, "*** "+v.Stamp+" ***", "C")
	}

	if v.Client.Name != "" {
		c.divider(black)
		c.text("B", 8, black, lb.BillTo+": "+v.Client.Name, "L")
		for _, l := range partyLines(v, v.Client, true) {
			c.text("", 7.5, black, l, "L")
		}
	}
	c.divider(black)

	for _, r := range v.Rows {
		c.text("B", 8, black, r.Name, "L")
		if v.Show.SKU && r.SKU != "" {
			c.text("", 7, black, r.SKU, "L")
		}
		c.pair("", 8, black, "  "+r.Quantity+" x "+r.Price, r.Amount)
		c.gap(0.8)
	}
	c.divider(black)

	for _, t := range v.Totals {
		if t.Grand {
			c.gap(1)
			c.pair("B", 11, black, t.Label, t.Value)
			continue
		}
		c.pair("", 8, black, t.Label, t.Value)
	}

	if v.Show.Notes && v.Notes != "" {
		c.divider(black)
		c.text("", 7.5, black, v.Notes, "L")
	}
	if v.PaymentTerms != "" {
		c.divider(black)
		c.text("", 7.5, black, v.PaymentTerms, "L")
	}
	if v.QR != nil && v.Show.QRCode {
		c.divider(black)
		c.image(qrImage, v.QR, receiptQR, receiptQR)
		c.text("", 7, black, lb.ScanToView, "C")
	}
	if v.Footer != "" {
		c.gap(2)
		c.text("", 7, black, v.Footer, "C")
	}
}
