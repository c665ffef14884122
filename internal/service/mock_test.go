package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// In-memory stores
// ============================================================================

// memStore implements every domain store plus Transactor. Failed
// transactions are not rolled back, but the ForUpdate reads take row
// locks that are held until the outermost WithinTx returns.
type memStore struct {
	mu         sync.Mutex
	clock      time.Time
	businesses map[uuid.UUID]*domain.Business
	members    map[string]*domain.Member
	clients    map[uuid.UUID]*domain.Client
	items      map[uuid.UUID]*domain.Item
	invoices   map[uuid.UUID]*domain.Invoice
	notes      map[uuid.UUID]*domain.DeliveryNote
	next       map[uuid.UUID]int64
	rows       map[uuid.UUID]*sync.Mutex
	waits      int
	txCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		businesses: map[uuid.UUID]*domain.Business{},
		members:    map[string]*domain.Member{},
		clients:    map[uuid.UUID]*domain.Client{},
		items:      map[uuid.UUID]*domain.Item{},
		invoices:   map[uuid.UUID]*domain.Invoice{},
		notes:      map[uuid.UUID]*domain.DeliveryNote{},
		next:       map[uuid.UUID]int64{},
		rows:       map[uuid.UUID]*sync.Mutex{},
	}
}

func (m *memStore) stores() Stores {
	return Stores{Businesses: m, Clients: m, Items: m, Invoices: m, Deliveries: m}
}

// tick advances the fake clock so every write gets a distinct UpdatedAt.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memTxKey struct{}

type memTx struct {
	held map[uuid.UUID]*sync.Mutex
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()

	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}
	tx := &memTx{held: map[uuid.UUID]*sync.Mutex{}}
	defer func() {
		for _, l := range tx.held {
			l.Unlock()
		}
	}()
	return fn(context.WithValue(ctx, memTxKey{}, tx))
}

// lockRows blocks until the transaction in ctx holds every row in ids.
// Rows are taken in id order. Outside a transaction it does nothing.
func (m *memStore) lockRows(ctx context.Context, ids []uuid.UUID) {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return
	}
	sorted := append([]uuid.UUID(nil), ids...)
	sortIDs(sorted)
	for _, id := range sorted {
		if _, held := tx.held[id]; held {
			continue
		}
		m.mu.Lock()
		l, ok := m.rows[id]
		if !ok {
			l = &sync.Mutex{}
			m.rows[id] = l
		}
		m.mu.Unlock()

		if !l.TryLock() {
			m.mu.Lock()
			m.waits++
			m.mu.Unlock()
			l.Lock()
		}
		tx.held[id] = l
	}
}

func (m *memStore) holds(ctx context.Context, id uuid.UUID) bool {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return false
	}
	_, held := tx.held[id]
	return held
}

// blocked reports how many lock requests have had to wait so far.
func (m *memStore) blocked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waits
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
}

func cloneInvoice(inv *domain.Invoice) *domain.Invoice {
	cp := *inv
	cp.Items = append([]domain.LineItem(nil), inv.Items...)
	return &cp
}

func cloneNote(n *domain.DeliveryNote) *domain.DeliveryNote {
	cp := *n
	cp.InvoiceIDs = append([]uuid.UUID(nil), n.InvoiceIDs...)
	return &cp
}

// Businesses

func (m *memStore) CreateBusiness(ctx context.Context, b *domain.Business, owner *domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[strings.ToLower(owner.Email)]; ok {
		return domain.Conflict("business.create", "member already exists")
	}
	b.ID = uuid.New()
	b.CreatedAt = m.tick()
	b.UpdatedAt = b.CreatedAt
	owner.ID = uuid.New()
	owner.BusinessID = b.ID
	cp := *b
	m.businesses[b.ID] = &cp
	mcp := *owner
	m.members[strings.ToLower(owner.Email)] = &mcp
	m.next[b.ID] = 1
	return nil
}

func (m *memStore) addBusiness(b *domain.Business) *domain.Business {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.UpdatedAt = m.tick()
	cp := *b
	m.businesses[b.ID] = &cp
	m.next[b.ID] = 1
	return b
}

func (m *memStore) GetBusiness(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, domain.NotFound("business.get", "business", id.String())
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateBusiness(ctx context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.businesses[b.ID]; !ok {
		return domain.NotFound("business.update", "business", b.ID.String())
	}
	b.UpdatedAt = m.tick()
	cp := *b
	m.businesses[b.ID] = &cp
	return nil
}

func (m *memStore) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[strings.ToLower(email)]
	if !ok {
		return nil, domain.NotFound("member.get", "member", email)
	}
	cp := *mem
	return &cp, nil
}

// Clients

func (m *memStore) CreateClient(ctx context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memStore) GetClient(ctx context.Context, businessID, id uuid.UUID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || c.BusinessID != businessID {
		return nil, domain.NotFound("client.get", "client", id.String())
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListClients(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Client
	for _, c := range m.clients {
		if c.BusinessID == businessID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(params.Query)) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateClient(ctx context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.clients[c.ID]; !ok || old.BusinessID != c.BusinessID {
		return domain.NotFound("client.update", "client", c.ID.String())
	}
	c.UpdatedAt = m.tick()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memStore) DeleteClient(ctx context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; !ok || c.BusinessID != businessID {
		return domain.NotFound("client.delete", "client", id.String())
	}
	delete(m.clients, id)
	return nil
}

// Items

func (m *memStore) CreateItem(ctx context.Context, it *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = uuid.New()
	it.CreatedAt = m.tick()
	it.UpdatedAt = it.CreatedAt
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memStore) GetItem(ctx context.Context, businessID, id uuid.UUID) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.BusinessID != businessID {
		return nil, domain.NotFound("item.get", "item", id.String())
	}
	cp := *it
	return &cp, nil
}

func (m *memStore) GetItems(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Item
	for _, id := range ids {
		if it, ok := m.items[id]; ok && it.BusinessID == businessID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) ListItems(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.Item, error) {
	return m.SearchItems(ctx, businessID, params.Query, params.Limit)
}

func (m *memStore) SearchItems(ctx context.Context, businessID uuid.UUID, query string, limit int) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []*domain.Item
	for _, it := range m.items {
		if it.BusinessID != businessID {
			continue
		}
		if strings.HasPrefix(strings.ToLower(it.Name), q) || strings.HasPrefix(strings.ToLower(it.SKU), q) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateItem(ctx context.Context, it *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[it.ID]; !ok || old.BusinessID != it.BusinessID {
		return domain.NotFound("item.update", "item", it.ID.String())
	}
	it.UpdatedAt = m.tick()
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memStore) DeleteItem(ctx context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; !ok || it.BusinessID != businessID {
		return domain.NotFound("item.delete", "item", id.String())
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) AdjustStock(ctx context.Context, businessID, id uuid.UUID, delta decimal.Decimal) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.BusinessID != businessID {
		return nil, domain.NotFound("item.adjust_stock", "item", id.String())
	}
	next := it.Stock.Add(delta)
	if next.IsNegative() {
		return nil, domain.NewValidationError("item.adjust_stock", "delta", "Stock cannot go below zero")
	}
	it.Stock = next
	it.UpdatedAt = m.tick()
	cp := *it
	return &cp, nil
}

// Invoices

func (m *memStore) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = uuid.New()
	inv.Number = m.next[inv.BusinessID]
	if inv.Number == 0 {
		inv.Number = 1
	}
	m.next[inv.BusinessID] = inv.Number + 1
	inv.CreatedAt = m.tick()
	inv.UpdatedAt = inv.CreatedAt
	m.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (m *memStore) addInvoice(inv *domain.Invoice) *domain.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.DeliveryStatus == "" {
		inv.DeliveryStatus = domain.DeliveryPending
	}
	inv.UpdatedAt = m.tick()
	m.invoices[inv.ID] = cloneInvoice(inv)
	return inv
}

func (m *memStore) GetInvoice(ctx context.Context, businessID, id uuid.UUID) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return nil, domain.NotFound("invoice.get", "invoice", id.String())
	}
	return cloneInvoice(inv), nil
}

func (m *memStore) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, domain.NotFound("invoice.get", "invoice", id.String())
	}
	return cloneInvoice(inv), nil
}

func (m *memStore) GetInvoices(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Invoice
	for _, id := range ids {
		if inv, ok := m.invoices[id]; ok && inv.BusinessID == businessID {
			out = append(out, cloneInvoice(inv))
		}
	}
	return out, nil
}

func (m *memStore) GetInvoiceForUpdate(ctx context.Context, businessID, id uuid.UUID) (*domain.Invoice, error) {
	m.lockRows(ctx, []uuid.UUID{id})
	return m.GetInvoice(ctx, businessID, id)
}

func (m *memStore) GetInvoicesForUpdate(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Invoice, error) {
	m.lockRows(ctx, ids)
	out, err := m.GetInvoices(ctx, businessID, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, nil
}

func (m *memStore) ListInvoices(ctx context.Context, businessID uuid.UUID, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := false
	if filter.Deleted != nil {
		deleted = *filter.Deleted
	}
	var out []*domain.Invoice
	for _, inv := range m.invoices {
		if inv.BusinessID != businessID || inv.IsDeleted != deleted {
			continue
		}
		if filter.IsPaid != nil && inv.IsPaid != *filter.IsPaid {
			continue
		}
		if filter.DeliveryStatus != "" && inv.DeliveryStatus != filter.DeliveryStatus {
			continue
		}
		if filter.ClientName != "" && !strings.Contains(strings.ToLower(inv.Client.Name), strings.ToLower(filter.ClientName)) {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (m *memStore) ListInvoicesIssued(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Invoice
	for _, inv := range m.invoices {
		if inv.BusinessID != businessID || inv.IssueDate.Before(from) || inv.IssueDate.After(to) {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	return out, nil
}

func (m *memStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.invoices[inv.ID]; !ok || old.BusinessID != inv.BusinessID {
		return domain.NotFound("invoice.update", "invoice", inv.ID.String())
	}
	inv.UpdatedAt = m.tick()
	m.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

// UpdateInvoiceContent copies the editable columns onto the stored row,
// leaving payment, void and delivery state as they are.
func (m *memStore) UpdateInvoiceContent(ctx context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.invoices[inv.ID]
	if !ok || old.BusinessID != inv.BusinessID {
		return domain.NotFound("invoice.update_content", "invoice", inv.ID.String())
	}
	if !old.Editable() {
		return domain.ErrInvoiceLocked
	}

	next := cloneInvoice(old)
	next.Client = inv.Client
	next.Items = append([]domain.LineItem(nil), inv.Items...)
	next.Currency = inv.Currency
	next.IssueDate = inv.IssueDate
	next.DueDate = inv.DueDate
	next.Notes = inv.Notes
	next.TaxRate = inv.TaxRate
	next.Discount = inv.Discount
	next.DeliveryFee = inv.DeliveryFee
	next.Totals = inv.Totals
	next.UpdatedAt = m.tick()
	inv.UpdatedAt = next.UpdatedAt
	m.invoices[inv.ID] = next
	return nil
}

func (m *memStore) invoice(id uuid.UUID) *domain.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneInvoice(m.invoices[id])
}

// Delivery notes

func (m *memStore) CreateDelivery(ctx context.Context, d *domain.DeliveryNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !d.Consistent() {
		return domain.Invalid("delivery.create", "status counts do not match invoices")
	}
	d.ID = uuid.New()
	d.CreatedAt = m.tick()
	d.UpdatedAt = d.CreatedAt
	m.notes[d.ID] = cloneNote(d)
	return nil
}

func (m *memStore) GetDelivery(ctx context.Context, businessID, id uuid.UUID) (*domain.DeliveryNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok || n.BusinessID != businessID {
		return nil, domain.NotFound("delivery.get", "delivery note", id.String())
	}
	return cloneNote(n), nil
}

func (m *memStore) GetDeliveryForUpdate(ctx context.Context, businessID, id uuid.UUID) (*domain.DeliveryNote, error) {
	m.lockRows(ctx, []uuid.UUID{id})
	return m.GetDelivery(ctx, businessID, id)
}

func (m *memStore) GetDeliveryByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, domain.NotFound("delivery.get", "delivery note", id.String())
	}
	return cloneNote(n), nil
}

func (m *memStore) ListDeliveries(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.DeliveryNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DeliveryNote
	for _, n := range m.notes {
		if n.BusinessID == businessID {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*domain.DeliveryNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DeliveryNote
	for _, n := range m.notes {
		if n.BusinessID == businessID && n.Contains(invoiceID) {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, nil
}

// LockDeliveriesWithInvoice relists after locking until every returned
// note is held, so the copies reflect the latest committed writes.
func (m *memStore) LockDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*domain.DeliveryNote, error) {
	for {
		notes, err := m.ListDeliveriesWithInvoice(ctx, businessID, invoiceID)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(notes))
		fresh := true
		for _, n := range notes {
			ids = append(ids, n.ID)
			if !m.holds(ctx, n.ID) {
				fresh = false
			}
		}
		if fresh {
			return notes, nil
		}
		m.lockRows(ctx, ids)
		if _, ok := ctx.Value(memTxKey{}).(*memTx); !ok {
			return notes, nil
		}
	}
}

func (m *memStore) UpdateDelivery(ctx context.Context, d *domain.DeliveryNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !d.Consistent() {
		return domain.Invalid("delivery.update", "status counts do not match invoices")
	}
	if old, ok := m.notes[d.ID]; !ok || old.BusinessID != d.BusinessID {
		return domain.NotFound("delivery.update", "delivery note", d.ID.String())
	}
	d.UpdatedAt = m.tick()
	m.notes[d.ID] = cloneNote(d)
	return nil
}

func (m *memStore) DeleteDelivery(ctx context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notes[id]; !ok || n.BusinessID != businessID {
		return domain.NotFound("delivery.delete", "delivery note", id.String())
	}
	delete(m.notes, id)
	return nil
}

func (m *memStore) note(id uuid.UUID) *domain.DeliveryNote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneNote(m.notes[id])
}

// ============================================================================
// Storage, cache and mail fakes
// ============================================================================

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return s.URL(key), nil
}

func (s *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.NotFound("storage.get", "object", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) URL(key string) string {
	return "https://cdn.test/" + key
}

func (s *memStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

type memCache struct {
	data map[string][]byte
	gets int
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	data, ok := c.data[key]
	if ok {
		c.hits++
	}
	return data, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, data []byte) error {
	c.data[key] = data
	return nil
}

// ============================================================================
// Fixtures
// ============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strp(s string) *string { return &s }

// sessionCtx returns a context signed in to b.
func sessionCtx(b *domain.Business) context.Context {
	return domain.NewContextWithSession(context.Background(), &domain.Session{
		UserID:     uuid.New(),
		BusinessID: b.ID,
		Email:      "owner@example.com",
		Role:       domain.RoleOwner,
		Language:   "en",
	})
}

func testBusiness(m *memStore) *domain.Business {
	settings := domain.DefaultInvoiceSettings()
	settings.DefaultDueDays = 14
	return m.addBusiness(&domain.Business{
		Name:            "Acme Supplies",
		Email:           "billing@acme.test",
		Currency:        "USD",
		InvoiceSettings: settings,
	})
}
