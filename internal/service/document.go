package service

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/dukerupert/fakturo/internal/cache"
	"github.com/dukerupert/fakturo/internal/document"
	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/email"
	"github.com/dukerupert/fakturo/internal/money"
	"github.com/dukerupert/fakturo/internal/storage"
	"github.com/dukerupert/fakturo/internal/telemetry"
	"github.com/google/uuid"
)

// Renderer produces invoice PDFs. *document.Dispatcher implements it.
type Renderer interface {
	Render(ctx context.Context, in document.Input) (*document.Result, error)
}

// InvoiceMailer sends invoice emails. *email.Service implements it.
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, msg email.InvoiceEmail) (string, error)
}

// DocumentConfig wires the document service.
type DocumentConfig struct {
	Renderer      Renderer
	Cache         domain.DocumentCache // optional
	Storage       storage.Storage      // optional, for logos
	Mailer        InvoiceMailer        // optional
	Metrics       *telemetry.BusinessMetrics
	PublicBaseURL string
	Logger        *slog.Logger
}

type documentService struct {
	cfg    DocumentConfig
	stores Stores
	logger *slog.Logger
}

// NewDocumentService creates the PDF and invoice email service.
func NewDocumentService(cfg DocumentConfig, stores Stores) domain.DocumentService {
	return &documentService{cfg: cfg, stores: stores, logger: loggerOrDefault(cfg.Logger)}
}

func (s *documentService) RenderInvoice(ctx context.Context, id uuid.UUID, opts domain.RenderOptions) (*domain.RenderedDocument, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.stores.Invoices.GetInvoice(ctx, biz, id)
	if err != nil {
		return nil, err
	}
	b, err := s.stores.Businesses.GetBusiness(ctx, biz)
	if err != nil {
		return nil, err
	}
	if opts.Language == "" {
		opts.Language = domain.LanguageFromContext(ctx)
	}
	return s.render(ctx, inv, b, opts)
}

// RenderPublic renders for the shareable viewer link. Voided invoices stay
// viewable and carry the void stamp.
func (s *documentService) RenderPublic(ctx context.Context, id uuid.UUID, opts domain.RenderOptions) (*domain.RenderedDocument, error) {
	inv, b, err := s.PublicInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, inv, b, opts)
}

// PublicInvoice loads an invoice by id alone, with costs stripped.
func (s *documentService) PublicInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, *domain.Business, error) {
	inv, err := s.stores.Invoices.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.stores.Businesses.GetBusiness(ctx, inv.BusinessID)
	if err != nil {
		return nil, nil, err
	}
	return inv.Public(), b, nil
}

// version is what a cached render is keyed on: editing the invoice or the
// business branding both invalidate it.
func version(inv *domain.Invoice, b *domain.Business) time.Time {
	if b.UpdatedAt.After(inv.UpdatedAt) {
		return b.UpdatedAt
	}
	return inv.UpdatedAt
}

func (s *documentService) render(ctx context.Context, inv *domain.Invoice, b *domain.Business, opts domain.RenderOptions) (*domain.RenderedDocument, error) {
	const op = "document.render"

	ctx, finish := telemetry.StartSpan(ctx, op, inv.DisplayNumber())
	defer finish()

	tmpl := document.Resolve(opts.Template, b)
	lang := document.Language(opts.Language)
	key := cache.Key(inv.ID.String(), version(inv, b), tmpl.String(), lang)

	out := &domain.RenderedDocument{
		Filename: inv.DisplayNumber() + ".pdf",
		Template: tmpl.String(),
	}

	if s.cfg.Cache != nil {
		data, ok, err := s.cfg.Cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "document cache get failed", "key", key, "error", err)
		}
		s.cfg.Metrics.CacheLookup(ok)
		if ok {
			out.Data = data
			out.Pages = s.pages(ctx, data)
			return out, nil
		}
	}

	res, err := s.cfg.Renderer.Render(ctx, document.Input{
		Invoice:  inv,
		Business: b,
		Logo:     s.logo(ctx, b),
		Template: tmpl.String(),
		Language: lang,
	})
	if err != nil {
		telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{"invoice_id": inv.ID.String()})
		return nil, domain.Internal(err, op, "failed to render invoice")
	}
	s.cfg.Metrics.DocumentRendered(res.Template.String(), res.Language, res.Duration)

	if s.cfg.Cache != nil {
		if err := s.cfg.Cache.Set(ctx, key, res.Data); err != nil {
			s.logger.WarnContext(ctx, "document cache set failed", "key", key, "error", err)
		}
	}

	out.Data = res.Data
	out.Pages = s.pages(ctx, res.Data)
	return out, nil
}

func (s *documentService) pages(ctx context.Context, data []byte) int {
	n, err := document.PageCount(data)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count pages", "error", err)
		return 0
	}
	return n
}

// logo loads the business logo. Documents render without it when it is
// hidden, missing or unreadable.
func (s *documentService) logo(ctx context.Context, b *domain.Business) *document.Image {
	if s.cfg.Storage == nil || b.LogoKey == "" || !b.InvoiceSettings.Show.Logo {
		return nil
	}

	typ := "PNG"
	switch strings.ToLower(path.Ext(b.LogoKey)) {
	case ".png":
	case ".jpg", ".jpeg":
		typ = "JPG"
	default:
		return nil
	}

	rc, err := s.cfg.Storage.Get(ctx, b.LogoKey)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to open logo", "key", b.LogoKey, "error", err)
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxUploadSize))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read logo", "key", b.LogoKey, "error", err)
		return nil
	}
	return &document.Image{Data: data, Type: typ}
}

// SendInvoice emails the rendered PDF to params.To, or to the client
// snapshot's address when To is blank.
func (s *documentService) SendInvoice(ctx context.Context, id uuid.UUID, params domain.SendInvoiceParams) error {
	const op = "document.send"

	if s.cfg.Mailer == nil {
		return domain.Errorf(domain.EINTERNAL, op, "email is not configured")
	}

	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return err
	}
	inv, err := s.stores.Invoices.GetInvoice(ctx, biz, id)
	if err != nil {
		return err
	}
	if inv.IsDeleted {
		return domain.ErrInvoiceVoided
	}
	b, err := s.stores.Businesses.GetBusiness(ctx, biz)
	if err != nil {
		return err
	}

	to := strings.TrimSpace(params.To)
	if to == "" {
		to = inv.Client.Email
	}
	if to == "" {
		return ErrNoRecipient
	}

	lang := domain.LanguageFromContext(ctx)
	doc, err := s.render(ctx, inv, b, domain.RenderOptions{Language: lang})
	if err != nil {
		return err
	}

	currency := inv.Currency
	if currency == "" {
		currency = b.Currency
	}

	msg := email.InvoiceEmail{
		To:           to,
		ReplyTo:      b.Email,
		BusinessName: b.Name,
		ClientName:   inv.Client.Name,
		Number:       inv.DisplayNumber(),
		Total:        money.Format(inv.Totals.GrandTotal, currency, &b.CurrencyFormat),
		Message:      params.Message,
		Language:     lang,
		Filename:     doc.Filename,
		PDF:          doc.Data,
	}
	if inv.DueDate != nil {
		msg.DueDate = inv.DueDate.Format("2006-01-02")
	}
	if s.cfg.PublicBaseURL != "" {
		msg.ViewURL = document.PublicURL(s.cfg.PublicBaseURL, inv.ID.String(), document.ParseTemplate(doc.Template), lang)
	}

	messageID, err := s.cfg.Mailer.SendInvoice(ctx, msg)
	s.cfg.Metrics.Email("invoice", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send invoice email", "invoice_id", inv.ID, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "invoice email sent",
		"invoice_id", inv.ID,
		"number", inv.DisplayNumber(),
		"message_id", messageID)
	return nil
}
