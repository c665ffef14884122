package service

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hookedInvoices calls afterLock once, right after the first locked read.
type hookedInvoices struct {
	domain.InvoiceStore
	afterLock func(inv *domain.Invoice)
}

func (h *hookedInvoices) GetInvoiceForUpdate(ctx context.Context, businessID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := h.InvoiceStore.GetInvoiceForUpdate(ctx, businessID, id)
	if err == nil && h.afterLock != nil {
		hook := h.afterLock
		h.afterLock = nil
		hook(inv)
	}
	return inv, err
}

func hookedInvoiceService(m *memStore, afterLock func(inv *domain.Invoice)) domain.InvoiceService {
	stores := m.stores()
	stores.Invoices = &hookedInvoices{InvoiceStore: m, afterLock: afterLock}
	svc := NewInvoiceService(m, stores, nil, nil)
	svc.(*invoiceService).now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }
	return svc
}

func waitForBlocked(t *testing.T, m *memStore, before int) {
	t.Helper()
	require.Eventually(t, func() bool { return m.blocked() > before }, 2*time.Second, time.Millisecond)
}

func Test_UpdateInvoice_PaymentDuringEditIsKept(t *testing.T) {
	m, _, plain, ctx := newInvoiceFixture(t)

	inv, err := plain.Create(ctx, domain.InvoiceParams{
		Client: &domain.ClientSnapshot{Name: "Globex"},
		Items:  []domain.LineInput{adHoc("Widget", "2", "5")},
	})
	require.NoError(t, err)

	paid := make(chan error, 1)
	svc := hookedInvoiceService(m, func(*domain.Invoice) {
		before := m.blocked()
		go func() {
			_, err := plain.SetPaid(ctx, inv.ID, true)
			paid <- err
		}()
		waitForBlocked(t, m, before)
		assert.False(t, m.invoice(inv.ID).IsPaid, "payment must wait for the edit")
	})

	updated, err := svc.Update(ctx, inv.ID, domain.InvoiceParams{Notes: strp("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Notes)
	require.NoError(t, <-paid)

	stored := m.invoice(inv.ID)
	assert.True(t, stored.IsPaid)
	assert.NotNil(t, stored.PaidAt)
	assert.Equal(t, "edited", stored.Notes)
}

func Test_UpdateInvoice_GuardRejectsPaidRow(t *testing.T) {
	m, _, plain, ctx := newInvoiceFixture(t)

	inv, err := plain.Create(ctx, domain.InvoiceParams{
		Client: &domain.ClientSnapshot{Name: "Globex"},
		Items:  []domain.LineInput{adHoc("Widget", "2", "5")},
	})
	require.NoError(t, err)

	paidAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := hookedInvoiceService(m, func(*domain.Invoice) {
		// A write that skipped the row lock.
		m.mu.Lock()
		m.invoices[inv.ID].IsPaid = true
		m.invoices[inv.ID].PaidAt = &paidAt
		m.mu.Unlock()
	})

	_, err = svc.Update(ctx, inv.ID, domain.InvoiceParams{Notes: strp("edited")})
	assert.ErrorIs(t, err, domain.ErrInvoiceLocked)

	stored := m.invoice(inv.ID)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, &paidAt, stored.PaidAt)
	assert.Empty(t, stored.Notes)
}

func Test_VoidDuringClientEdit(t *testing.T) {
	m, _, plain, ctx := newInvoiceFixture(t)

	inv, err := plain.Create(ctx, domain.InvoiceParams{
		Client: &domain.ClientSnapshot{Name: "Globex"},
		Items:  []domain.LineInput{adHoc("Widget", "1", "5")},
	})
	require.NoError(t, err)

	voided := make(chan error, 1)
	svc := hookedInvoiceService(m, func(*domain.Invoice) {
		before := m.blocked()
		go func() { voided <- plain.Void(ctx, inv.ID) }()
		waitForBlocked(t, m, before)
	})

	_, err = svc.UpdateClient(ctx, inv.ID, domain.ClientSnapshot{Name: "Globex Corp"})
	require.NoError(t, err)
	require.NoError(t, <-voided)

	stored := m.invoice(inv.ID)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, "Globex Corp", stored.Client.Name)
}

func Test_SetDeliveryStatus_ConcurrentMembersBothCounted(t *testing.T) {
	m, b, plain, ctx := newInvoiceFixture(t)

	a := m.addInvoice(&domain.Invoice{BusinessID: b.ID, Client: domain.ClientSnapshot{Name: "A"}})
	c := m.addInvoice(&domain.Invoice{BusinessID: b.ID, Client: domain.ClientSnapshot{Name: "C"}})

	deliveries := NewDeliveryService(m, m.stores(), nil, nil)
	view, err := deliveries.Create(ctx, domain.CreateDeliveryParams{Name: "Monday run", InvoiceIDs: []uuid.UUID{a.ID, c.ID}})
	require.NoError(t, err)

	shipped := make(chan error, 1)
	svc := hookedInvoiceService(m, func(*domain.Invoice) {
		before := m.blocked()
		go func() {
			_, err := plain.SetDeliveryStatus(ctx, c.ID, domain.DeliveryShipped)
			shipped <- err
		}()
		// The second writer queues on the note, which the first holds.
		waitForBlocked(t, m, before)
	})

	_, err = svc.SetDeliveryStatus(ctx, a.ID, domain.DeliveryShipped)
	require.NoError(t, err)
	require.NoError(t, <-shipped)

	note := m.note(view.ID)
	assert.Equal(t, domain.StatusCounts{Shipped: 2}, note.StatusCounts)
	assert.True(t, note.Consistent())
}

func Test_RemoveInvoice_WaitsForStatusChange(t *testing.T) {
	m, b, plain, ctx := newInvoiceFixture(t)

	a := m.addInvoice(&domain.Invoice{BusinessID: b.ID, Client: domain.ClientSnapshot{Name: "A"}})
	c := m.addInvoice(&domain.Invoice{BusinessID: b.ID, Client: domain.ClientSnapshot{Name: "C"}})

	deliveries := NewDeliveryService(m, m.stores(), nil, nil)
	view, err := deliveries.Create(ctx, domain.CreateDeliveryParams{Name: "Monday run", InvoiceIDs: []uuid.UUID{a.ID, c.ID}})
	require.NoError(t, err)

	removed := make(chan error, 1)
	svc := hookedInvoiceService(m, func(*domain.Invoice) {
		before := m.blocked()
		go func() {
			_, err := deliveries.RemoveInvoice(ctx, view.ID, a.ID)
			removed <- err
		}()
		waitForBlocked(t, m, before)
	})

	_, err = svc.SetDeliveryStatus(ctx, c.ID, domain.DeliveryDelivered)
	require.NoError(t, err)
	require.NoError(t, <-removed)

	note := m.note(view.ID)
	assert.Equal(t, []uuid.UUID{c.ID}, note.InvoiceIDs)
	assert.Equal(t, domain.StatusCounts{Delivered: 1}, note.StatusCounts)
	assert.True(t, note.Consistent())
}
