package domain

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/dukerupert/fakturo/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLanguage is used when neither the request nor the member picks one.
const DefaultLanguage = "en"

// MemberRole is a member's permission level within a business.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

// Address is a postal address. Every line is optional.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Lines returns the non-empty address lines in print order.
func (a Address) Lines() []string {
	var lines []string
	for _, l := range []string{a.Line1, a.Line2} {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	locality := strings.TrimSpace(strings.Join(nonEmpty(a.PostalCode, a.City, a.State), " "))
	if locality != "" {
		lines = append(lines, locality)
	}
	if c := strings.TrimSpace(a.Country); c != "" {
		lines = append(lines, c)
	}
	return lines
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogoSize controls how large the logo is drawn in document headers.
type LogoSize string

const (
	LogoSmall  LogoSize = "small"
	LogoMedium LogoSize = "medium"
	LogoLarge  LogoSize = "large"
)

// Palette holds the document colours as #rrggbb strings.
type Palette struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
	Text    string `json:"text"`
}

// FieldVisibility toggles optional parts of rendered documents.
type FieldVisibility struct {
	Logo        bool `json:"logo"`
	SKU         bool `json:"sku"`
	DueDate     bool `json:"dueDate"`
	ClientEmail bool `json:"clientEmail"`
	ClientPhone bool `json:"clientPhone"`
	TaxID       bool `json:"taxId"`
	Notes       bool `json:"notes"`
	QRCode      bool `json:"qrCode"`
}

// InvoiceSettings is a business's document branding.
type InvoiceSettings struct {
	Template       string          `json:"template"`
	Colors         Palette         `json:"colors"`
	LogoSize       LogoSize        `json:"logoSize"`
	Show           FieldVisibility `json:"show"`
	FooterText     string          `json:"footerText"`
	PaymentTerms   string          `json:"paymentTerms"`
	DefaultTaxRate decimal.Decimal `json:"defaultTaxRate"`
	DefaultDueDays int             `json:"defaultDueDays"`
}

// DefaultInvoiceSettings is what a newly registered business starts with.
func DefaultInvoiceSettings() InvoiceSettings {
	return InvoiceSettings{
		Template: "classic",
		Colors:   Palette{Primary: "#1f2937", Accent: "#2563eb", Text: "#111827"},
		LogoSize: LogoMedium,
		Show: FieldVisibility{
			Logo:        true,
			DueDate:     true,
			ClientEmail: true,
			ClientPhone: true,
			Notes:       true,
			QRCode:      true,
		},
		DefaultDueDays: 30,
	}
}

// Business owns clients, items, invoices and delivery notes.
type Business struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Website         string          `json:"website"`
	TaxID           string          `json:"taxId"`
	Address         Address         `json:"address"`
	Currency        string          `json:"currency"`
	CurrencyFormat  money.Options   `json:"currencyFormat"`
	InvoiceSettings InvoiceSettings `json:"invoiceSettings"`
	LogoKey         string          `json:"-"`
	LogoURL         string          `json:"logoUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// FormatMoney renders amount with the business currency and preferences.
func (b *Business) FormatMoney(amount decimal.Decimal) string {
	return money.Format(amount, b.Currency, &b.CurrencyFormat)
}

// Member is a login that acts for a business.
type Member struct {
	ID           uuid.UUID  `json:"id"`
	BusinessID   uuid.UUID  `json:"businessId"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         MemberRole `json:"role"`
	Language     string     `json:"language"`
	Theme        Theme      `json:"theme"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UpdateBusinessParams carries a profile edit. Nil fields are unchanged.
type UpdateBusinessParams struct {
	Name           *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Email          *string        `json:"email" validate:"omitempty,email"`
	Phone          *string        `json:"phone"`
	Website        *string        `json:"website"`
	TaxID          *string        `json:"taxId"`
	Address        *Address       `json:"address"`
	Currency       *string        `json:"currency" validate:"omitempty,len=3"`
	CurrencyFormat *money.Options `json:"currencyFormat"`
}

// RegisterParams creates a business together with its owner login.
type RegisterParams struct {
	BusinessName string `json:"businessName" validate:"required,max=200"`
	Currency     string `json:"currency" validate:"omitempty,len=3"`
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Language     string `json:"language" validate:"omitempty,oneof=en es fr"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Member    *Member   `json:"member"`
	Business  *Business `json:"business"`
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// BusinessStore persists businesses and members.
type BusinessStore interface {
	CreateBusiness(ctx context.Context, b *Business, owner *Member) error
	GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error)
	UpdateBusiness(ctx context.Context, b *Business) error
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
}

// BusinessService manages the signed-in business profile and branding.
type BusinessService interface {
	Get(ctx context.Context) (*Business, error)
	Update(ctx context.Context, params UpdateBusinessParams) (*Business, error)
	UpdateInvoiceSettings(ctx context.Context, settings InvoiceSettings) (*Business, error)
	UploadLogo(ctx context.Context, upload Upload) (*Business, error)
}

// AuthService registers businesses and signs members in.
type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
