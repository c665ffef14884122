package document

import "context"

// MinimalRenderer is a quiet A4 layout: no fills, hairlines only, most
// text in grey.
type MinimalRenderer struct{}

func (MinimalRenderer) Render(ctx context.Context, v *View) ([]byte, error) {
	d := newA4(v)
	d.SetMargins(20, 20, 20)
	d.pageFooter(v, grey)
	d.AddPage()
	w := d.contentWidth()
	left := d.lMargin()

	if v.Logo != nil {
		h := logoHeight(v, 8, 12, 18)
		d.image(logoName, v.Logo, left, d.GetY(), 0, h)
		d.Ln(h + 4)
	}

	d.style("", 18, v.Text)
	d.cell(w/2, 9, v.Title, "L")
	d.style("", 9, grey)
	d.line(w/2, 9, v.Number, "R")
	if v.Stamp != "" {
		d.style("B", 9, v.Accent)
		d.line(w, 5, v.Stamp, "R")
	}
	d.Ln(4)

	// from / to side by side
	top := d.GetY()
	d.style("B", 9, v.Text)
	d.line(w/2, 5, v.Business.Name, "L")
	d.style("", 8, grey)
	for _, l := range partyLines(v, v.Business, false) {
		d.line(w/2, 4, l, "L")
	}
	fromBottom := d.GetY()

	d.SetXY(left+w/2, top)
	d.style("", 8, grey)
	d.line(w/2, 4, v.Labels.BillTo, "L")
	d.SetX(left + w/2)
	d.style("B", 9, v.Text)
	d.line(w/2, 5, v.Client.Name, "L")
	d.style("", 8, grey)
	for _, l := range partyLines(v, v.Client, true) {
		d.SetX(left + w/2)
		d.line(w/2, 4, l, "L")
	}
	d.SetY(max(fromBottom, d.GetY()) + 4)

	d.style("", 8, grey)
	d.cell(w/2, 4, v.Labels.IssueDate+"  "+v.IssueDate, "L")
	if v.Show.DueDate && v.DueDate != "" {
		d.cell(w/2, 4, v.Labels.DueDate+"  "+v.DueDate, "R")
	}
	d.Ln(10)

	hair := RGB{229, 231, 235}
	t := &table{
		cols:   itemColumns(v, w),
		size:   8.5,
		color:  v.Text,
		border: &hair,
		header: func(d *doc, cols []column) {
			d.style("", 8, grey)
			for _, c := range cols {
				d.cell(c.width, 6, c.title, c.align)
			}
			d.Ln(6)
			d.hr(v.Text, 0.3)
		},
	}
	t.draw(d, v.Rows)
	d.Ln(5)

	d.totalsBlock(v, 70, 9, func(d *doc, tl TotalLine, w float64) {
		d.Ln(1)
		d.SetX(d.lMargin() + d.contentWidth() - w)
		d.style("B", 11, v.Text)
		d.cell(w*0.5, 7, tl.Label, "L")
		d.line(w*0.5, 7, tl.Value, "R")
	})
	d.Ln(8)

	if v.Show.Notes {
		d.textSection(v, v.Labels.Notes, v.Notes, grey)
	}
	d.textSection(v, v.Labels.PaymentTerms, v.PaymentTerms, grey)
	d.qrBlock(v, left, 26)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.bytes()
}
