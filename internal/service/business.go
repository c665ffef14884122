package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dukerupert/fakturo/internal/document"
	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/storage"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type businessService struct {
	businesses domain.BusinessStore
	storage    storage.Storage
	logger     *slog.Logger
}

// NewBusinessService creates the service for the signed-in business.
func NewBusinessService(businesses domain.BusinessStore, store storage.Storage, logger *slog.Logger) domain.BusinessService {
	return &businessService{businesses: businesses, storage: store, logger: loggerOrDefault(logger)}
}

func (s *businessService) current(ctx context.Context) (*domain.Business, error) {
	id, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.businesses.GetBusiness(ctx, id)
}

func (s *businessService) Get(ctx context.Context) (*domain.Business, error) {
	return s.current(ctx)
}

func (s *businessService) Update(ctx context.Context, params domain.UpdateBusinessParams) (*domain.Business, error) {
	const op = "business.update"

	b, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := trimmed(params.Name)
		if name == "" {
			return nil, domain.NewValidationError(op, "name", "Business name is required")
		}
		b.Name = name
	}
	if params.Email != nil {
		b.Email = strings.ToLower(trimmed(params.Email))
	}
	if params.Phone != nil {
		b.Phone = trimmed(params.Phone)
	}
	if params.Website != nil {
		b.Website = trimmed(params.Website)
	}
	if params.TaxID != nil {
		b.TaxID = trimmed(params.TaxID)
	}
	if params.Address != nil {
		b.Address = *params.Address
	}
	if params.Currency != nil {
		b.Currency = strings.ToUpper(trimmed(params.Currency))
	}
	if params.CurrencyFormat != nil {
		if d := params.CurrencyFormat.Digits; d != nil && (*d < 0 || *d > 4) {
			return nil, domain.NewValidationError(op, "currencyFormat.digits", "Digits must be between 0 and 4")
		}
		b.CurrencyFormat = *params.CurrencyFormat
	}

	if err := s.businesses.UpdateBusiness(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateInvoiceSettings replaces the document branding.
func (s *businessService) UpdateInvoiceSettings(ctx context.Context, settings domain.InvoiceSettings) (*domain.Business, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	b, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if settings.Template == "" {
		settings.Template = document.Classic.String()
	}
	if settings.LogoSize == "" {
		settings.LogoSize = domain.LogoMedium
	}
	b.InvoiceSettings = settings

	if err := s.businesses.UpdateBusiness(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func validateSettings(st domain.InvoiceSettings) error {
	fields := map[string]string{}

	if st.Template != "" && !document.Valid(st.Template) {
		fields["template"] = "Unknown invoice template"
	}
	switch st.LogoSize {
	case "", domain.LogoSmall, domain.LogoMedium, domain.LogoLarge:
	default:
		fields["logoSize"] = "Logo size must be small, medium or large"
	}
	for field, c := range map[string]string{
		"colors.primary": st.Colors.Primary,
		"colors.accent":  st.Colors.Accent,
		"colors.text":    st.Colors.Text,
	} {
		if c != "" && !hexColor.MatchString(c) {
			fields[field] = "Colour must look like #1a2b3c"
		}
	}
	if st.DefaultTaxRate.IsNegative() {
		fields["defaultTaxRate"] = "Tax rate cannot be negative"
	}
	if st.DefaultDueDays < 0 || st.DefaultDueDays > 365 {
		fields["defaultDueDays"] = "Due days must be between 0 and 365"
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Op: "business.update_invoice_settings", Fields: fields}
}

// UploadLogo stores a new logo and drops the previous one.
func (s *businessService) UploadLogo(ctx context.Context, upload domain.Upload) (*domain.Business, error) {
	b, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	data, ext, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	key := storage.LogoKey(b.ID, ext)
	url, err := replaceObject(ctx, s.storage, s.logger, key, b.LogoKey, upload.ContentType, data)
	if err != nil {
		return nil, err
	}

	b.LogoKey = key
	b.LogoURL = url
	if err := s.businesses.UpdateBusiness(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
