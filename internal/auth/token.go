package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "fakturo"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the bearer token payload. It carries everything the Session
// needs so requests do not hit the database to authenticate.
type Claims struct {
	BusinessID uuid.UUID `json:"bid"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Language   string    `json:"lang,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the member acting on behalf of their business.
func (t *Tokens) Issue(m *domain.Member) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := &Claims{
		BusinessID: m.BusinessID,
		Email:      m.Email,
		Role:       string(m.Role),
		Language:   m.Language,
		Theme:      string(m.Theme),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   m.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies the token and returns the session it describes.
func (t *Tokens) Parse(raw string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.BusinessID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return &domain.Session{
		UserID:     userID,
		BusinessID: claims.BusinessID,
		Email:      claims.Email,
		Role:       domain.MemberRole(claims.Role),
		Language:   claims.Language,
		Theme:      domain.Theme(claims.Theme),
	}, nil
}
