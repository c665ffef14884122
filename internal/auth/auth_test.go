package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswords(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	_, err := p.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = p.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := p.Hash("correct horse")
	require.NoError(t, err)

	assert.NoError(t, p.Verify("correct horse", hash))
	assert.ErrorIs(t, p.Verify("wrong horse", hash), ErrPasswordMismatch)
	assert.ErrorIs(t, p.Verify("correct horse", ""), ErrPasswordMismatch)
}

func TestNewPasswords_CostOutOfRange(t *testing.T) {
	assert.Equal(t, DefaultCost, NewPasswords(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswords(bcrypt.MinCost).cost)
}

func testMember() *domain.Member {
	return &domain.Member{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Email:      "owner@acme.test",
		Role:       domain.RoleOwner,
		Language:   "es",
		Theme:      domain.ThemeDark,
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	m := testMember()

	raw, expires, err := tokens.Issue(m)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	s, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, m.ID, s.UserID)
	assert.Equal(t, m.BusinessID, s.BusinessID)
	assert.Equal(t, "owner@acme.test", s.Email)
	assert.Equal(t, domain.RoleOwner, s.Role)
	assert.Equal(t, "es", s.Language)
	assert.Equal(t, domain.ThemeDark, s.Theme)
}

func TestTokens_Rejects(t *testing.T) {
	m := testMember()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return issued }
	raw, _, err := tokens.Issue(m)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewTokens("secret", time.Hour)
		later.now = func() time.Time { return issued.Add(2 * time.Hour) }
		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other", time.Hour)
		other.now = tokens.now
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := tokens.Parse(raw + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
