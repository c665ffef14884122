package document

import "strings"

// Labels are the fixed strings printed on a document.
type Labels struct {
	Invoice      string
	Receipt      string
	Number       string
	IssueDate    string
	DueDate      string
	BillTo       string
	Description  string
	SKU          string
	Quantity     string
	Price        string
	Amount       string
	Subtotal     string
	Discount     string
	Tax          string
	DeliveryFee  string
	Total        string
	Notes        string
	PaymentTerms string
	TaxID        string
	Paid         string
	Void         string
	ScanToView   string
	Page         string
	DateLayout   string
}

var labels = map[string]Labels{
	"en": {
		Invoice:      "Invoice",
		Receipt:      "Receipt",
		Number:       "Invoice #",
		IssueDate:    "Issue date",
		DueDate:      "Due date",
		BillTo:       "Bill to",
		Description:  "Description",
		SKU:          "SKU",
		Quantity:     "Qty",
		Price:        "Price",
		Amount:       "Amount",
		Subtotal:     "Subtotal",
		Discount:     "Discount",
		Tax:          "Tax",
		DeliveryFee:  "Delivery fee",
		Total:        "Total",
		Notes:        "Notes",
		PaymentTerms: "Payment terms",
		TaxID:        "Tax ID",
		Paid:         "PAID",
		Void:         "VOID",
		ScanToView:   "Scan to view online",
		Page:         "Page",
		DateLayout:   "Jan 2, 2006",
	},
	"es": {
		Invoice:      "Factura",
		Receipt:      "Recibo",
		Number:       "Factura n.º",
		IssueDate:    "Fecha de emisión",
		DueDate:      "Vencimiento",
		BillTo:       "Facturar a",
		Description:  "Descripción",
		SKU:          "SKU",
		Quantity:     "Cant.",
		Price:        "Precio",
		Amount:       "Importe",
		Subtotal:     "Subtotal",
		Discount:     "Descuento",
		Tax:          "Impuesto",
		DeliveryFee:  "Envío",
		Total:        "Total",
		Notes:        "Notas",
		PaymentTerms: "Condiciones de pago",
		TaxID:        "NIF",
		Paid:         "PAGADA",
		Void:         "ANULADA",
		ScanToView:   "Escanee para ver en línea",
		Page:         "Página",
		DateLayout:   "02/01/2006",
	},
	"fr": {
		Invoice:      "Facture",
		Receipt:      "Reçu",
		Number:       "Facture n°",
		IssueDate:    "Date d'émission",
		DueDate:      "Échéance",
		BillTo:       "Facturé à",
		Description:  "Désignation",
		SKU:          "Réf.",
		Quantity:     "Qté",
		Price:        "Prix",
		Amount:       "Montant",
		Subtotal:     "Sous-total",
		Discount:     "Remise",
		Tax:          "TVA",
		DeliveryFee:  "Livraison",
		Total:        "Total",
		Notes:        "Notes",
		PaymentTerms: "Conditions de paiement",
		TaxID:        "N° TVA",
		Paid:         "PAYÉE",
		Void:         "ANNULÉE",
		ScanToView:   "Scannez pour consulter en ligne",
		Page:         "Page",
		DateLayout:   "02/01/2006",
	},
}

// LabelsFor returns the labels for a language tag such as "es" or "fr-CA".
// Unsupported languages get English.
func LabelsFor(lang string) Labels {
	return labels[Language(lang)]
}

// Language normalizes lang to a supported base language.
func Language(lang string) string {
	base := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	if _, ok := labels[base]; ok {
		return base
	}
	return "en"
}
