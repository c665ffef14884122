package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/money"
	"github.com/dukerupert/fakturo/internal/totals"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Image is an encoded raster ready to embed.
type Image struct {
	Data []byte
	Type string // "PNG" or "JPG"
}

// RGB is a colour in 0-255 components.
type RGB struct{ R, G, B int }

// Row is one printed line item.
type Row struct {
	Name        string
	Description string
	SKU         string
	Quantity    string
	Price       string
	Amount      string
}

// TotalLine is one line of the totals block.
type TotalLine struct {
	Label string
	Value string
	Grand bool
}

// Party is a printed name-and-address block.
type Party struct {
	Name    string
	Address []string
	Email   string
	Phone   string
	TaxID   string
}

// View is everything a template prints, already formatted. Templates do no
// arithmetic and no money formatting.
type View struct {
	Template Template
	Language string
	Labels   Labels

	Title     string
	Number    string
	IssueDate string
	DueDate   string
	Stamp     string // PAID or VOID, empty otherwise

	Business Party
	Client   Party
	Logo     *Image
	LogoSize domain.LogoSize

	Primary RGB
	Accent  RGB
	Text    RGB

	Rows   []Row
	Totals []TotalLine

	Notes        string
	PaymentTerms string
	Footer       string

	Show domain.FieldVisibility

	QRURL string
	QR    *Image
}

// ViewInput is the raw material for a View.
type ViewInput struct {
	Invoice  *domain.Invoice
	Business *domain.Business
	Template Template
	Language string
	Logo     *Image
	QRURL    string
}

// NewView formats in for printing.
func NewView(in ViewInput) *View {
	inv, biz := in.Invoice, in.Business
	lang := Language(in.Language)
	lb := LabelsFor(lang)
	settings := biz.InvoiceSettings
	fm := moneyFormatter(inv.Currency, biz)

	v := &View{
		Template:     in.Template,
		Language:     lang,
		Labels:       lb,
		Title:        lb.Invoice,
		Number:       inv.DisplayNumber(),
		IssueDate:    formatDate(inv.IssueDate, lb.DateLayout),
		Business:     businessParty(biz),
		Client:       clientParty(inv.Client),
		LogoSize:     settings.LogoSize,
		Primary:      parseHex(settings.Colors.Primary, RGB{31, 41, 55}),
		Accent:       parseHex(settings.Colors.Accent, RGB{37, 99, 235}),
		Text:         parseHex(settings.Colors.Text, RGB{17, 24, 39}),
		Notes:        strings.TrimSpace(inv.Notes),
		PaymentTerms: strings.TrimSpace(settings.PaymentTerms),
		Footer:       strings.TrimSpace(settings.FooterText),
		Show:         settings.Show,
		QRURL:        in.QRURL,
	}
	if in.Template == Receipt {
		v.Title = lb.Receipt
	}
	if inv.DueDate != nil {
		v.DueDate = formatDate(*inv.DueDate, lb.DateLayout)
	}
	switch {
	case inv.IsDeleted:
		v.Stamp = lb.Void
	case inv.IsPaid:
		v.Stamp = lb.Paid
	}
	if settings.Show.Logo && in.Logo != nil && len(in.Logo.Data) > 0 {
		v.Logo = in.Logo
	}

	for _, it := range inv.Items {
		v.Rows = append(v.Rows, Row{
			Name:        it.Name,
			Description: it.Description,
			SKU:         it.SKU,
			Quantity:    it.Quantity.String(),
			Price:       fm(it.Price),
			Amount:      fm(it.Total()),
		})
	}

	v.Totals = totalLines(inv, lb, fm)
	return v
}

// totalLines lists subtotal, an optional discount, tax, an optional
// delivery fee and the grand total.
func totalLines(inv *domain.Invoice, lb Labels, fm func(decimal.Decimal) string) []TotalLine {
	t := inv.Totals
	lines := []TotalLine{{Label: lb.Subtotal, Value: fm(t.SubTotal)}}

	if t.HasDiscount() {
		label := lb.Discount
		if inv.Discount.Type == totals.DiscountPercentage {
			label = fmt.Sprintf("%s (%s%%)", lb.Discount, inv.Discount.Value.String())
		}
		lines = append(lines, TotalLine{Label: label, Value: fm(t.TotalDiscount.Neg())})
	}

	lines = append(lines, TotalLine{
		Label: fmt.Sprintf("%s (%s%%)", lb.Tax, inv.TaxRate.String()),
		Value: fm(t.TotalTax),
	})

	if t.HasDeliveryFee() {
		lines = append(lines, TotalLine{Label: lb.DeliveryFee, Value: fm(t.DeliveryFee)})
	}

	return append(lines, TotalLine{Label: lb.Total, Value: fm(t.GrandTotal), Grand: true})
}

// moneyFormatter formats with the business preferences, in the invoice
// currency when it has one. A symbol the PDF core fonts cannot encode is
// replaced by the currency code, and unencodable separators by plain ones.
func moneyFormatter(currency string, biz *domain.Business) func(decimal.Decimal) string {
	if currency == "" {
		currency = biz.Currency
	}
	p := money.Resolve(currency, &biz.CurrencyFormat)
	if p.Display == money.DisplaySymbol && !Encodable(p.Symbol) {
		p.Display = money.DisplayCode
	}
	if !Encodable(p.GroupSeparator) {
		p.GroupSeparator = " "
	}
	if !Encodable(p.DecimalSeparator) {
		p.DecimalSeparator = "."
	}
	return func(amount decimal.Decimal) string {
		return money.FormatProfile(amount, p)
	}
}

// Encodable reports whether s can be drawn with the core PDF fonts, which
// use the Windows-1252 code page.
func Encodable(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}

func businessParty(b *domain.Business) Party {
	return Party{
		Name:    b.Name,
		Address: b.Address.Lines(),
		Email:   b.Email,
		Phone:   b.Phone,
		TaxID:   b.TaxID,
	}
}

func clientParty(c domain.ClientSnapshot) Party {
	return Party{
		Name:    c.Name,
		Address: c.Address.Lines(),
		Email:   c.Email,
		Phone:   c.Phone,
		TaxID:   c.TaxID,
	}
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// parseHex reads "#rrggbb" or "rrggbb", returning def on anything else.
func parseHex(s string, def RGB) RGB {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return def
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return RGB{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}
}
