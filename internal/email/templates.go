package email

import (
	"fmt"
	"strings"
)

// InvoiceEmail carries what the invoice message shows. Money and dates
// arrive already formatted for the business.
type InvoiceEmail struct {
	To           string
	ReplyTo      string
	BusinessName string
	ClientName   string
	Number       string
	Total        string
	DueDate      string
	Message      string
	ViewURL      string
	Language     string

	Filename string
	PDF      []byte
}

func (e InvoiceEmail) Lang() string {
	if _, ok := invoiceTexts[e.Language]; ok {
		return e.Language
	}
	return "en"
}

func (e InvoiceEmail) Text() invoiceText {
	return invoiceTexts[e.Lang()]
}

func (e InvoiceEmail) Subject() string {
	return fmt.Sprintf(e.Text().Subject, e.Number, e.BusinessName)
}

func (e InvoiceEmail) TemplateName() string {
	return "invoice.html"
}

func (e InvoiceEmail) attachment() Attachment {
	name := e.Filename
	if name == "" {
		name = strings.ToLower(e.Number) + ".pdf"
	}
	return Attachment{Filename: name, ContentType: "application/pdf", Content: e.PDF}
}

type invoiceText struct {
	Subject  string
	Heading  string
	Greeting string
	Body     string
	Amount   string
	Due      string
	View     string
	Closing  string
}

var invoiceTexts = map[string]invoiceText{
	"en": {
		Subject:  "Invoice %s from %s",
		Heading:  "Invoice",
		Greeting: "Hello",
		Body:     "Please find your invoice attached.",
		Amount:   "Amount due",
		Due:      "Due date",
		View:     "View invoice online",
		Closing:  "Thank you,",
	},
	"es": {
		Subject:  "Factura %s de %s",
		Heading:  "Factura",
		Greeting: "Hola",
		Body:     "Adjuntamos su factura.",
		Amount:   "Importe",
		Due:      "Vencimiento",
		View:     "Ver factura en línea",
		Closing:  "Gracias,",
	},
	"fr": {
		Subject:  "Facture %s de %s",
		Heading:  "Facture",
		Greeting: "Bonjour",
		Body:     "Veuillez trouver votre facture en pièce jointe.",
		Amount:   "Montant dû",
		Due:      "Échéance",
		View:     "Voir la facture en ligne",
		Closing:  "Merci,",
	},
}
