package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceWhere(t *testing.T) {
	biz := uuid.New()
	paid := true
	deleted := true
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   domain.InvoiceFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "default hides voided",
			filter:   domain.InvoiceFilter{},
			wantSQL:  "business_id = $1 AND is_deleted = $2",
			wantArgs: []any{biz, false},
		},
		{
			name: "every filter",
			filter: domain.InvoiceFilter{
				IsPaid:         &paid,
				Deleted:        &deleted,
				DeliveryStatus: domain.DeliveryShipped,
				ClientName:     " acme ",
				IssuedFrom:     &from,
			},
			wantSQL: "business_id = $1 AND is_deleted = $2 AND is_paid = $3 AND delivery_status = $4" +
				" AND client->>'name' ILIKE '%' || $5 || '%' AND issue_date >= $6",
			wantArgs: []any{biz, true, true, domain.DeliveryShipped, "acme", from},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := invoiceWhere(biz, tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestClampPage(t *testing.T) {
	limit, offset := clampPage(0, -3, 50, 500)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = clampPage(1000, 20, 50, 500)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 20, offset)

	limit, _ = clampPage(120, 0, 50, 500)
	assert.Equal(t, 120, limit)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, "op", "invoice", "1"))

	err := mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows), "invoice.get", "invoice", "42")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Equal(t, "invoice not found: 42", domain.ErrorMessage(err))

	err = mapError(&pgconn.PgError{Code: pgUniqueViolation}, "business.create", "member", "a@b.c")
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	err = mapError(&pgconn.PgError{Code: pgCheckViolation, ConstraintName: "invoices_grand_total_check"},
		"invoice.update", "invoice", "1")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	err = mapError(&pgconn.PgError{Code: pgDeadlock}, "invoice.lock", "invoice", "1")
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	cause := errors.New("connection reset")
	err = mapError(cause, "client.list", "clients", "1")
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
}
