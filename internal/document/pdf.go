package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	mmPerPt  = 25.4 / 72
	qrImage  = "qr"
	logoName = "logo"
)

// doc wraps a gofpdf document with the code-page translation every string
// goes through before it is measured or drawn.
type doc struct {
	*gofpdf.Fpdf
	tr   func(string) string
	font string
}

func newDoc(pdf *gofpdf.Fpdf, v *View) *doc {
	pdf.SetCreator("fakturo", true)
	pdf.SetTitle(v.Title+" "+v.Number, true)
	pdf.SetAuthor(v.Business.Name, true)
	return &doc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), font: "Helvetica"}
}

func newA4(v *View) *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 18)
	return newDoc(pdf, v)
}

func (d *doc) style(style string, size float64, c RGB) {
	d.SetFont(d.font, style, size)
	d.SetTextColor(c.R, c.G, c.B)
}

func (d *doc) fill(c RGB) { d.SetFillColor(c.R, c.G, c.B) }
func (d *doc) draw(c RGB) { d.SetDrawColor(c.R, c.G, c.B) }

// lineHeight is a comfortable leading for the current font size.
func (d *doc) lineHeight() float64 {
	size, _ := d.GetFontSize()
	return size * mmPerPt * 1.35
}

// cell draws a single-line cell and moves right.
func (d *doc) cell(w, h float64, s, align string) {
	d.CellFormat(w, h, d.tr(s), "", 0, align, false, 0, "")
}

// line draws a full-width single-line cell and moves to the next line.
func (d *doc) line(w, h float64, s, align string) {
	d.CellFormat(w, h, d.tr(s), "", 1, align, false, 0, "")
}

// paragraph draws wrapped text over w.
func (d *doc) paragraph(w, h float64, s, align string) {
	d.MultiCell(w, h, d.tr(s), "", align, false)
}

// wrap splits s into lines that fit w with the current font.
func (d *doc) wrap(s string, w float64) []string {
	if s == "" {
		return []string{""}
	}
	lines := d.SplitText(d.tr(s), w)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (d *doc) contentWidth() float64 {
	pw, _ := d.GetPageSize()
	l, _, r, _ := d.GetMargins()
	return pw - l - r
}

// remaining is the vertical space left above the bottom margin.
func (d *doc) remaining() float64 {
	_, ph := d.GetPageSize()
	_, _, _, b := d.GetMargins()
	return ph - b - d.GetY()
}

func (d *doc) ensure(h float64) bool {
	if d.remaining() < h {
		d.AddPage()
		return true
	}
	return false
}

func (d *doc) hr(c RGB, width float64) {
	l, _, _, _ := d.GetMargins()
	y := d.GetY()
	d.draw(c)
	d.SetLineWidth(width)
	d.Line(l, y, l+d.contentWidth(), y)
}

// dashed draws a dotted divider across the content width.
func (d *doc) dashed(c RGB) {
	d.SetDashPattern([]float64{0.8, 0.8}, 0)
	d.hr(c, 0.2)
	d.SetDashPattern([]float64{}, 0)
}

// register makes img available under name and returns its info.
func (d *doc) register(name string, img *Image) *gofpdf.ImageInfoType {
	if info := d.GetImageInfo(name); info != nil {
		return info
	}
	return d.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
}

// widthAt is the width img takes when drawn at height h.
func (d *doc) widthAt(name string, img *Image, h float64) float64 {
	info := d.register(name, img)
	if info == nil || info.Height() == 0 {
		return h
	}
	return h * info.Width() / info.Height()
}

// image places a registered PNG or JPEG. h > 0 with w == 0 keeps the
// aspect ratio.
func (d *doc) image(name string, img *Image, x, y, w, h float64) {
	d.register(name, img)
	d.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: img.Type}, 0, "")
}

// logoHeight maps the configured logo size to millimetres.
func logoHeight(v *View, small, medium, large float64) float64 {
	switch v.LogoSize {
	case "small":
		return small
	case "large":
		return large
	}
	return medium
}

func (d *doc) bytes() ([]byte, error) {
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: output: %w", err)
	}
	return buf.Bytes(), nil
}

// column is one column of the item table.
type column struct {
	title string
	width float64
	align string
	value func(Row) string
	wrap  bool
}

// table draws line items, repeating the header row at the top of every
// page the table spills onto.
type table struct {
	cols    []column
	header  func(d *doc, cols []column)
	striped *RGB
	border  *RGB
	size    float64
	color   RGB
}

func (t *table) draw(d *doc, rows []Row) {
	t.header(d, t.cols)
	d.style("", t.size, t.color)
	lh := d.lineHeight()

	for i, r := range rows {
		cells := make([][]string, len(t.cols))
		n := 1
		for c, col := range t.cols {
			text := col.value(r)
			if col.wrap {
				cells[c] = d.wrap(text, col.width-2)
			} else {
				cells[c] = []string{d.tr(text)}
			}
			n = max(n, len(cells[c]))
		}
		h := float64(n)*lh + 2

		if d.ensure(h) {
			t.header(d, t.cols)
			d.style("", t.size, t.color)
		}

		x, y := d.GetX(), d.GetY()
		if t.striped != nil && i%2 == 1 {
			d.fill(*t.striped)
			d.Rect(x, y, t.width(), h, "F")
		}
		for c, col := range t.cols {
			for j, text := range cells[c] {
				d.SetXY(x+1, y+1+float64(j)*lh)
				d.CellFormat(col.width-2, lh, text, "", 0, col.align, false, 0, "")
			}
			x += col.width
		}
		d.SetXY(d.lMargin(), y+h)
		if t.border != nil {
			d.hr(*t.border, 0.1)
		}
	}
}

func (t *table) width() float64 {
	w := 0.0
	for _, c := range t.cols {
		w += c.width
	}
	return w
}

func (d *doc) lMargin() float64 {
	l, _, _, _ := d.GetMargins()
	return l
}

// itemColumns builds the standard columns over width w. The description
// column takes whatever the fixed columns leave.
func itemColumns(v *View, w float64) []column {
	lb := v.Labels
	fixed := []column{
		{title: lb.Quantity, width: 18, align: "R", value: func(r Row) string { return r.Quantity }},
		{title: lb.Price, width: 32, align: "R", value: func(r Row) string { return r.Price }},
		{title: lb.Amount, width: 34, align: "R", value: func(r Row) string { return r.Amount }},
	}
	if v.Show.SKU {
		fixed = append([]column{{title: lb.SKU, width: 24, align: "L", value: func(r Row) string { return r.SKU }}}, fixed...)
	}

	rest := w
	for _, c := range fixed {
		rest -= c.width
	}
	desc := column{title: lb.Description, width: rest, align: "L", wrap: true, value: rowText}
	return append([]column{desc}, fixed...)
}

func rowText(r Row) string {
	if r.Description == "" {
		return r.Name
	}
	return r.Name + " - " + r.Description
}

// totalsBlock draws label/value pairs right-aligned in a box of width w.
func (d *doc) totalsBlock(v *View, w float64, size float64, grand func(d *doc, t TotalLine, w float64)) {
	lh := size*mmPerPt*1.35 + 1.5
	d.ensure(lh * float64(len(v.Totals)+1))
	x := d.lMargin() + d.contentWidth() - w

	for _, t := range v.Totals {
		d.SetX(x)
		if t.Grand && grand != nil {
			grand(d, t, w)
			continue
		}
		d.style("", size, v.Text)
		d.cell(w*0.55, lh, t.Label, "L")
		d.line(w*0.45, lh, t.Value, "R")
	}
}

// qrBlock places the QR code and caption at the current position.
func (d *doc) qrBlock(v *View, x, size float64) {
	if v.QR == nil || !v.Show.QRCode {
		return
	}
	d.ensure(size + 8)
	y := d.GetY()
	d.image(qrImage, v.QR, x, y, size, size)
	d.SetXY(x-10, y+size)
	d.style("", 7, RGB{107, 114, 128})
	d.line(size+20, 4, v.Labels.ScanToView, "C")
}

// textSection draws a heading and wrapped body when body is non-empty.
func (d *doc) textSection(v *View, heading, body string, headingColor RGB) {
	if body == "" {
		return
	}
	d.ensure(14)
	d.style("B", 9, headingColor)
	d.line(0, 5, heading, "L")
	d.style("", 9, v.Text)
	d.paragraph(d.contentWidth(), 4.5, body, "L")
	d.Ln(3)
}

// partyLines are the printable lines of a party block after visibility
// toggles.
func partyLines(v *View, p Party, isClient bool) []string {
	lines := append([]string(nil), p.Address...)
	if p.TaxID != "" && v.Show.TaxID {
		lines = append(lines, v.Labels.TaxID+": "+p.TaxID)
	}
	if p.Email != "" && (!isClient || v.Show.ClientEmail) {
		lines = append(lines, p.Email)
	}
	if p.Phone != "" && (!isClient || v.Show.ClientPhone) {
		lines = append(lines, p.Phone)
	}
	return lines
}

// pageFooter prints the footer text and page numbers on every page.
func (d *doc) pageFooter(v *View, c RGB) {
	d.AliasNbPages("{nb}")
	d.SetFooterFunc(func() {
		d.SetY(-14)
		d.style("", 7, c)
		if v.Footer != "" {
			d.line(0, 4, v.Footer, "C")
		}
		d.line(0, 4, fmt.Sprintf("%s %d/{nb}", v.Labels.Page, d.PageNo()), "C")
	})
}
