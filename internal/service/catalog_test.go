package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/fakturo/internal/auth"
	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func Test_RegisterAndLogin(t *testing.T) {
	m := newMemStore()
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := NewAuthService(m, auth.NewPasswords(bcrypt.MinCost), tokens, nil, nil)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.RegisterParams{
		BusinessName: "Acme",
		Name:         "Ada",
		Email:        "Ada@Acme.test",
		Password:     "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", res.Business.Currency)
	assert.Equal(t, "classic", res.Business.InvoiceSettings.Template)
	assert.Equal(t, "ada@acme.test", res.Member.Email)
	assert.Equal(t, domain.RoleOwner, res.Member.Role)

	session, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Business.ID, session.BusinessID)

	_, err = svc.Register(ctx, domain.RegisterParams{BusinessName: "Again", Name: "Ada", Email: "ada@acme.test", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, domain.RegisterParams{BusinessName: "Short", Name: "Bo", Email: "bo@acme.test", Password: "short"})
	assert.Contains(t, domain.GetValidationFields(err), "password")

	login, err := svc.Login(ctx, "ADA@acme.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.Business.ID, login.Business.ID)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ada@acme.test", "wrong horse"},
		{"unknown email", "nobody@acme.test", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func Test_BusinessSettings(t *testing.T) {
	m := newMemStore()
	b := testBusiness(m)
	ctx := sessionCtx(b)
	store := newMemStorage()
	svc := NewBusinessService(m, store, nil)

	updated, err := svc.Update(ctx, domain.UpdateBusinessParams{Name: strp(" Acme Ltd "), Currency: strp("eur")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "EUR", updated.Currency)

	_, err = svc.Update(ctx, domain.UpdateBusinessParams{Name: strp("  ")})
	assert.Contains(t, domain.GetValidationFields(err), "name")

	settings := domain.DefaultInvoiceSettings()
	settings.Template = "modern"
	settings.Colors.Primary = "#0a0B0c"
	b2, err := svc.UpdateInvoiceSettings(ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, "modern", b2.InvoiceSettings.Template)

	bad := domain.DefaultInvoiceSettings()
	bad.Template = "baroque"
	bad.Colors.Accent = "blue"
	bad.LogoSize = "huge"
	bad.DefaultDueDays = -1
	_, err = svc.UpdateInvoiceSettings(ctx, bad)
	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "template")
	assert.Contains(t, fields, "colors.accent")
	assert.Contains(t, fields, "logoSize")
	assert.Contains(t, fields, "defaultDueDays")
}

func Test_UploadLogo(t *testing.T) {
	m := newMemStore()
	b := testBusiness(m)
	ctx := sessionCtx(b)
	store := newMemStorage()
	svc := NewBusinessService(m, store, nil)

	png := []byte("\x89PNG fake")
	first, err := svc.UploadLogo(ctx, domain.Upload{ContentType: "image/png", Size: int64(len(png)), Body: bytes.NewReader(png)})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.LogoKey, ".png"))
	assert.Equal(t, "https://cdn.test/"+first.LogoKey, first.LogoURL)

	second, err := svc.UploadLogo(ctx, domain.Upload{ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.NotEqual(t, first.LogoKey, second.LogoKey)
	assert.Contains(t, store.deleted, first.LogoKey)

	_, err = svc.UploadLogo(ctx, domain.Upload{ContentType: "image/gif", Size: 3, Body: strings.NewReader("gif")})
	assert.Error(t, err)

	_, err = svc.UploadLogo(ctx, domain.Upload{ContentType: "image/png", Size: MaxUploadSize + 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func Test_ClientCRUD(t *testing.T) {
	m := newMemStore()
	b := testBusiness(m)
	ctx := sessionCtx(b)
	svc := NewClientService(m)

	c, err := svc.Create(ctx, domain.ClientParams{Name: " Globex ", Email: "AP@Globex.test"})
	require.NoError(t, err)
	assert.Equal(t, "Globex", c.Name)
	assert.Equal(t, "ap@globex.test", c.Email)

	_, err = svc.Create(ctx, domain.ClientParams{Name: ""})
	assert.Contains(t, domain.GetValidationFields(err), "name")

	updated, err := svc.Update(ctx, c.ID, domain.ClientParams{Name: "Globex Corp"})
	require.NoError(t, err)
	assert.Equal(t, "Globex Corp", updated.Name)

	list, err := svc.List(ctx, domain.ListParams{Query: "corp"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other := sessionCtx(testBusiness(m))
	_, err = svc.Get(other, c.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func Test_ItemCatalog(t *testing.T) {
	m := newMemStore()
	b := testBusiness(m)
	ctx := sessionCtx(b)
	store := newMemStorage()
	svc := NewItemService(m, store, nil)

	it, err := svc.Create(ctx, domain.ItemParams{Name: "Coffee beans", SKU: "CB-1", Price: dec("12.5"), Stock: dec("3")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.ItemParams{Name: "Bad", Price: dec("-1")})
	assert.Contains(t, domain.GetValidationFields(err), "price")

	t.Run("search", func(t *testing.T) {
		found, err := svc.Search(ctx, "cof", 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, it.ID, found[0].ID)

		bySKU, err := svc.Search(ctx, "cb-", 5)
		require.NoError(t, err)
		assert.Len(t, bySKU, 1)

		none, err := svc.Search(ctx, "  ", 5)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("stock never goes below zero", func(t *testing.T) {
		got, err := svc.AdjustStock(ctx, it.ID, dec("-2"))
		require.NoError(t, err)
		assert.True(t, got.Stock.Equal(dec("1")))

		_, err = svc.AdjustStock(ctx, it.ID, dec("-2"))
		assert.Contains(t, domain.GetValidationFields(err), "delta")

		same, err := svc.AdjustStock(ctx, it.ID, dec("0"))
		require.NoError(t, err)
		assert.True(t, same.Stock.Equal(dec("1")))
	})

	t.Run("image and delete", func(t *testing.T) {
		withImage, err := svc.UploadImage(ctx, it.ID, domain.Upload{ContentType: "image/png", Size: 3, Body: strings.NewReader("png")})
		require.NoError(t, err)
		require.NotEmpty(t, withImage.ImageKey)

		require.NoError(t, svc.Delete(ctx, it.ID))
		assert.Contains(t, store.deleted, withImage.ImageKey)
	})
}
