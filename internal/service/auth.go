package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/fakturo/internal/auth"
	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/money"
	"github.com/dukerupert/fakturo/internal/telemetry"
)

type authService struct {
	businesses domain.BusinessStore
	passwords  *auth.Passwords
	tokens     *auth.Tokens
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
}

// NewAuthService creates the registration and login service.
func NewAuthService(businesses domain.BusinessStore, passwords *auth.Passwords, tokens *auth.Tokens, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.AuthService {
	return &authService{
		businesses: businesses,
		passwords:  passwords,
		tokens:     tokens,
		metrics:    metrics,
		logger:     loggerOrDefault(logger),
	}
}

// Register creates a business with default invoice settings and its owner.
func (s *authService) Register(ctx context.Context, params domain.RegisterParams) (*domain.AuthResult, error) {
	const op = "auth.register"

	hash, err := s.passwords.Hash(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError(op, "password", err.Error())
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}
	lang := params.Language
	if lang == "" {
		lang = domain.DefaultLanguage
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	biz := &domain.Business{
		Name:            strings.TrimSpace(params.BusinessName),
		Email:           email,
		Currency:        currency,
		CurrencyFormat:  money.Options{},
		InvoiceSettings: domain.DefaultInvoiceSettings(),
	}
	owner := &domain.Member{
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: hash,
		Role:         domain.RoleOwner,
		Language:     lang,
		Theme:        domain.ThemeLight,
	}

	if err := s.businesses.CreateBusiness(ctx, biz, owner); err != nil {
		if domain.IsCode(err, domain.ECONFLICT) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.metrics.Signup()
	s.logger.InfoContext(ctx, "business registered", "business_id", biz.ID, "member_id", owner.ID)

	return s.issue(owner, biz)
}

// Login verifies the password and issues a bearer token. Unknown emails
// and wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	const op = "auth.login"

	member, err := s.businesses.GetMemberByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	hash := ""
	if member != nil {
		hash = member.PasswordHash
	}
	if err := s.passwords.Verify(password, hash); err != nil {
		s.metrics.Login(false)
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	biz, err := s.businesses.GetBusiness(ctx, member.BusinessID)
	if err != nil {
		return nil, err
	}

	s.metrics.Login(true)
	return s.issue(member, biz)
}

func (s *authService) issue(m *domain.Member, biz *domain.Business) (*domain.AuthResult, error) {
	token, expires, err := s.tokens.Issue(m)
	if err != nil {
		return nil, domain.Internal(err, "auth.issue", "failed to issue token")
	}
	return &domain.AuthResult{Token: token, ExpiresAt: expires, Member: m, Business: biz}, nil
}
