package document

import (
	"context"
	"strings"
)

// ModernRenderer draws a full-width colour band across the top, an
// accent-coloured striped table and a highlighted grand total.
type ModernRenderer struct{}

func (ModernRenderer) Render(ctx context.Context, v *View) ([]byte, error) {
	d := newA4(v)
	d.pageFooter(v, grey)
	d.AddPage()
	w := d.contentWidth()
	left := d.lMargin()
	pw, _ := d.GetPageSize()
	white := RGB{255, 255, 255}

	// band
	const band = 38.0
	d.fill(v.Primary)
	d.Rect(0, 0, pw, band, "F")
	x := left
	if v.Logo != nil {
		h := logoHeight(v, 10, 16, 22)
		d.image(logoName, v.Logo, left, (band-h)/2, 0, h)
		x = left + d.widthAt(logoName, v.Logo, h) + 4
	}
	d.SetXY(x, 12)
	d.style("B", 16, white)
	d.line(w/2, 8, v.Business.Name, "L")
	d.SetXY(left+w/2, 10)
	d.style("B", 24, white)
	d.line(w/2, 11, strings.ToUpper(v.Title), "R")
	d.SetX(left + w/2)
	d.style("", 10, white)
	d.line(w/2, 5, v.Number, "R")

	d.SetXY(left, band+8)
	top := d.GetY()

	// sender column
	d.style("", 8, grey)
	for _, l := range partyLines(v, v.Business, false) {
		d.line(w/3, 4, l, "L")
	}
	senderBottom := d.GetY()

	// client column
	d.SetXY(left+w/3, top)
	d.style("B", 8, v.Accent)
	d.line(w/3, 4, strings.ToUpper(v.Labels.BillTo), "L")
	d.SetX(left + w/3)
	d.style("B", 10, v.Text)
	d.line(w/3, 5, v.Client.Name, "L")
	d.style("", 8, v.Text)
	for _, l := range partyLines(v, v.Client, true) {
		d.SetX(left + w/3)
		d.line(w/3, 4, l, "L")
	}
	clientBottom := d.GetY()

	// dates column
	d.SetXY(left+2*w/3, top)
	dates := [][2]string{{v.Labels.IssueDate, v.IssueDate}}
	if v.Show.DueDate && v.DueDate != "" {
		dates = append(dates, [2]string{v.Labels.DueDate, v.DueDate})
	}
	for _, dt := range dates {
		d.SetX(left + 2*w/3)
		d.style("B", 8, v.Accent)
		d.line(w/3, 4, strings.ToUpper(dt[0]), "R")
		d.SetX(left + 2*w/3)
		d.style("", 9, v.Text)
		d.line(w/3, 5, dt[1], "R")
	}
	if v.Stamp != "" {
		d.SetX(left + 2*w/3)
		d.fill(v.Accent)
		d.style("B", 10, white)
		d.CellFormat(w/3, 7, d.tr(v.Stamp), "", 1, "C", true, 0, "")
	}
	d.SetY(max(senderBottom, clientBottom, d.GetY()) + 8)

	stripe := RGB{248, 250, 252}
	t := &table{
		cols:    itemColumns(v, w),
		size:    9,
		color:   v.Text,
		striped: &stripe,
		header: func(d *doc, cols []column) {
			d.fill(v.Accent)
			d.style("B", 9, white)
			for _, c := range cols {
				d.CellFormat(c.width, 8, d.tr(c.title), "", 0, c.align, true, 0, "")
			}
			d.Ln(-1)
		},
	}
	t.draw(d, v.Rows)
	d.hr(v.Accent, 0.4)
	d.Ln(5)

	d.totalsBlock(v, 85, 10, func(d *doc, tl TotalLine, w float64) {
		d.Ln(2)
		d.SetX(d.lMargin() + d.contentWidth() - w)
		d.fill(v.Accent)
		d.style("B", 13, white)
		d.CellFormat(w*0.5, 10, d.tr(tl.Label), "", 0, "L", true, 0, "")
		d.CellFormat(w*0.5, 10, d.tr(tl.Value), "", 1, "R", true, 0, "")
	})
	d.Ln(8)

	if v.Show.Notes {
		d.textSection(v, v.Labels.Notes, v.Notes, v.Accent)
	}
	d.textSection(v, v.Labels.PaymentTerms, v.PaymentTerms, v.Accent)
	d.qrBlock(v, left+(w-30)/2, 30)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.bytes()
}
