package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
)

// Input is one render request.
type Input struct {
	Invoice  *domain.Invoice
	Business *domain.Business
	Logo     *Image

	// Template and Language override the business setting and the
	// default language when set.
	Template string
	Language string
}

// Result is a rendered document.
type Result struct {
	Template Template
	Language string
	Data     []byte
	Duration time.Duration
}

// Dispatcher selects a Renderer per request and prepares its View.
type Dispatcher struct {
	renderers     map[Template]Renderer
	qr            *QREncoder
	publicBaseURL string
	logger        *slog.Logger
}

// NewDispatcher wires the four built-in templates.
func NewDispatcher(publicBaseURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		renderers: map[Template]Renderer{
			Classic: ClassicRenderer{},
			Minimal: MinimalRenderer{},
			Modern:  ModernRenderer{},
			Receipt: ReceiptRenderer{},
		},
		qr:            NewQREncoder(QRSize),
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Resolve returns the template a request will use.
func Resolve(override string, biz *domain.Business) Template {
	if Valid(override) {
		return ParseTemplate(override)
	}
	return ParseTemplate(biz.InvoiceSettings.Template)
}

// Render produces the PDF for in. QR encoding starts first and runs while
// the view is formatted.
func (d *Dispatcher) Render(ctx context.Context, in Input) (*Result, error) {
	if in.Invoice == nil || in.Business == nil {
		return nil, fmt.Errorf("document: invoice and business are required")
	}
	start := time.Now()
	tmpl := Resolve(in.Template, in.Business)
	lang := Language(in.Language)

	var pending *PendingQR
	var qrURL string
	if in.Business.InvoiceSettings.Show.QRCode && d.publicBaseURL != "" {
		qrURL = PublicURL(d.publicBaseURL, in.Invoice.ID.String(), tmpl, lang)
		pending = d.qr.Start(qrURL)
	}

	v := NewView(ViewInput{
		Invoice:  in.Invoice,
		Business: in.Business,
		Template: tmpl,
		Language: lang,
		Logo:     in.Logo,
		QRURL:    qrURL,
	})

	if pending != nil {
		png, err := pending.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("document: qr: %w", err)
		}
		v.QR = &Image{Data: png, Type: "PNG"}
	}

	data, err := d.renderers[tmpl].Render(ctx, v)
	if err != nil {
		return nil, err
	}

	res := &Result{Template: tmpl, Language: lang, Data: data, Duration: time.Since(start)}
	if d.logger != nil {
		d.logger.Debug("document rendered",
			"invoice_id", in.Invoice.ID,
			"template", tmpl,
			"lang", lang,
			"bytes", len(data),
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	return res, nil
}
