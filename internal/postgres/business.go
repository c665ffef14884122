package postgres

import (
	"context"
	"strings"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BusinessStore implements domain.BusinessStore.
type BusinessStore struct {
	db *DB
}

var _ domain.BusinessStore = (*BusinessStore)(nil)

func NewBusinessStore(db *DB) *BusinessStore {
	return &BusinessStore{db: db}
}

const businessColumns = `id, name, email, phone, website, tax_id, address, currency,
	currency_format, invoice_settings, logo_key, logo_url, created_at, updated_at`

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Website, &b.TaxID, &b.Address,
		&b.Currency, &b.CurrencyFormat, &b.InvoiceSettings, &b.LogoKey, &b.LogoURL,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBusiness inserts the business and its owner in one transaction.
func (s *BusinessStore) CreateBusiness(ctx context.Context, b *domain.Business, owner *domain.Member) error {
	return s.db.WithinTx(ctx, func(ctx context.Context) error {
		q := s.db.q(ctx)

		err := q.QueryRow(ctx, `
			INSERT INTO businesses (name, email, phone, website, tax_id, address, currency,
				currency_format, invoice_settings)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			b.Name, b.Email, b.Phone, b.Website, b.TaxID, b.Address, b.Currency,
			b.CurrencyFormat, b.InvoiceSettings,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return mapError(err, "business.create", "business", b.Name)
		}

		owner.BusinessID = b.ID
		err = q.QueryRow(ctx, `
			INSERT INTO members (business_id, email, name, password_hash, role, language, theme)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			owner.BusinessID, strings.ToLower(owner.Email), owner.Name, owner.PasswordHash,
			owner.Role, owner.Language, owner.Theme,
		).Scan(&owner.ID, &owner.CreatedAt)
		if err != nil {
			return mapError(err, "business.create", "member", owner.Email)
		}
		return nil
	})
}

func (s *BusinessStore) GetBusiness(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	b, err := scanBusiness(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "business.get", "business", id.String())
	}
	return b, nil
}

func (s *BusinessStore) UpdateBusiness(ctx context.Context, b *domain.Business) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		UPDATE businesses SET
			name = $2, email = $3, phone = $4, website = $5, tax_id = $6, address = $7,
			currency = $8, currency_format = $9, invoice_settings = $10,
			logo_key = $11, logo_url = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		b.ID, b.Name, b.Email, b.Phone, b.Website, b.TaxID, b.Address,
		b.Currency, b.CurrencyFormat, b.InvoiceSettings, b.LogoKey, b.LogoURL,
	).Scan(&b.UpdatedAt)
	return mapError(err, "business.update", "business", b.ID.String())
}

func (s *BusinessStore) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	var m domain.Member
	err := s.db.q(ctx).QueryRow(ctx, `
		SELECT id, business_id, email, name, password_hash, role, language, theme, created_at
		FROM members WHERE lower(email) = lower($1)`, email,
	).Scan(&m.ID, &m.BusinessID, &m.Email, &m.Name, &m.PasswordHash, &m.Role,
		&m.Language, &m.Theme, &m.CreatedAt)
	if err != nil {
		return nil, mapError(err, "member.get_by_email", "member", email)
	}
	return &m, nil
}
