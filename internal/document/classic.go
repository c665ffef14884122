package document

import (
	"context"
	"strings"
)

// ClassicRenderer is the default A4 layout: logo and sender top left,
// invoice meta top right, bordered item table with a shaded header.
type ClassicRenderer struct{}

var grey = RGB{107, 114, 128}
var light = RGB{243, 244, 246}

func (ClassicRenderer) Render(ctx context.Context, v *View) ([]byte, error) {
	d := newA4(v)
	d.pageFooter(v, grey)
	d.AddPage()
	w := d.contentWidth()
	left := d.lMargin()
	top := d.GetY()

	// sender
	y := top
	if v.Logo != nil {
		h := logoHeight(v, 12, 18, 26)
		d.image(logoName, v.Logo, left, y, 0, h)
		y += h + 3
	}
	d.SetXY(left, y)
	d.style("B", 13, v.Text)
	d.line(w*0.55, 6, v.Business.Name, "L")
	d.style("", 9, grey)
	for _, l := range partyLines(v, v.Business, false) {
		d.line(w*0.55, 4.5, l, "L")
	}
	senderBottom := d.GetY()

	// meta
	d.SetXY(left+w*0.55, top)
	d.style("B", 22, v.Primary)
	d.line(w*0.45, 10, strings.ToUpper(v.Title), "R")
	d.style("", 9, v.Text)
	meta := [][2]string{{v.Labels.Number, v.Number}, {v.Labels.IssueDate, v.IssueDate}}
	if v.Show.DueDate && v.DueDate != "" {
		meta = append(meta, [2]string{v.Labels.DueDate, v.DueDate})
	}
	for _, m := range meta {
		d.SetX(left + w*0.55)
		d.cell(w*0.25, 5, m[0], "R")
		d.line(w*0.20, 5, m[1], "R")
	}
	if v.Stamp != "" {
		d.SetX(left + w*0.55)
		d.style("B", 12, v.Accent)
		d.line(w*0.45, 8, v.Stamp, "R")
	}

	d.SetXY(left, max(senderBottom, d.GetY())+6)

	// recipient
	d.fill(light)
	d.style("B", 9, v.Primary)
	d.CellFormat(w*0.5, 6, d.tr(v.Labels.BillTo), "", 1, "L", true, 0, "")
	d.style("B", 10, v.Text)
	d.line(w*0.5, 5, v.Client.Name, "L")
	d.style("", 9, v.Text)
	for _, l := range partyLines(v, v.Client, true) {
		d.line(w*0.5, 4.5, l, "L")
	}
	d.Ln(6)

	border := RGB{209, 213, 219}
	t := &table{
		cols:   itemColumns(v, w),
		size:   9,
		color:  v.Text,
		border: &border,
		header: func(d *doc, cols []column) {
			d.fill(v.Primary)
			d.draw(v.Primary)
			d.style("B", 9, RGB{255, 255, 255})
			for _, c := range cols {
				d.CellFormat(c.width, 7, d.tr(c.title), "1", 0, c.align, true, 0, "")
			}
			d.Ln(-1)
		},
	}
	t.draw(d, v.Rows)
	d.Ln(4)

	d.totalsBlock(v, 80, 10, func(d *doc, tl TotalLine, w float64) {
		d.fill(v.Primary)
		d.style("B", 11, RGB{255, 255, 255})
		d.CellFormat(w*0.55, 8, d.tr(tl.Label), "", 0, "L", true, 0, "")
		d.CellFormat(w*0.45, 8, d.tr(tl.Value), "", 1, "R", true, 0, "")
	})
	d.Ln(6)

	if v.Show.Notes {
		d.textSection(v, v.Labels.Notes, v.Notes, v.Primary)
	}
	d.textSection(v, v.Labels.PaymentTerms, v.PaymentTerms, v.Primary)
	d.qrBlock(v, left+w-32, 32)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.bytes()
}
