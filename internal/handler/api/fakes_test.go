package api

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/totals"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fakes embed the service interface so a test only implements what it
// exercises; anything else panics.

type fakeInvoices struct {
	domain.InvoiceService
	list              func(domain.InvoiceFilter) ([]*domain.Invoice, error)
	create            func(domain.InvoiceParams) (*domain.Invoice, error)
	preview           func(domain.InvoiceParams) (*totals.Totals, error)
	setPaid           func(uuid.UUID, bool) (*domain.Invoice, error)
	setDeliveryStatus func(uuid.UUID, domain.DeliveryStatus) (*domain.Invoice, error)
	void              func(uuid.UUID) error
}

func (f *fakeInvoices) List(_ context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	return f.list(filter)
}

func (f *fakeInvoices) Create(_ context.Context, p domain.InvoiceParams) (*domain.Invoice, error) {
	return f.create(p)
}

func (f *fakeInvoices) Preview(_ context.Context, p domain.InvoiceParams) (*totals.Totals, error) {
	return f.preview(p)
}

func (f *fakeInvoices) SetPaid(_ context.Context, id uuid.UUID, paid bool) (*domain.Invoice, error) {
	return f.setPaid(id, paid)
}

func (f *fakeInvoices) SetDeliveryStatus(_ context.Context, id uuid.UUID, s domain.DeliveryStatus) (*domain.Invoice, error) {
	return f.setDeliveryStatus(id, s)
}

func (f *fakeInvoices) Void(_ context.Context, id uuid.UUID) error {
	return f.void(id)
}

type fakeDocuments struct {
	domain.DocumentService
	render        func(uuid.UUID, domain.RenderOptions) (*domain.RenderedDocument, error)
	publicInvoice func(uuid.UUID) (*domain.Invoice, *domain.Business, error)
	send          func(uuid.UUID, domain.SendInvoiceParams) error
}

func (f *fakeDocuments) RenderInvoice(_ context.Context, id uuid.UUID, opts domain.RenderOptions) (*domain.RenderedDocument, error) {
	return f.render(id, opts)
}

func (f *fakeDocuments) RenderPublic(_ context.Context, id uuid.UUID, opts domain.RenderOptions) (*domain.RenderedDocument, error) {
	return f.render(id, opts)
}

func (f *fakeDocuments) PublicInvoice(_ context.Context, id uuid.UUID) (*domain.Invoice, *domain.Business, error) {
	return f.publicInvoice(id)
}

func (f *fakeDocuments) SendInvoice(_ context.Context, id uuid.UUID, p domain.SendInvoiceParams) error {
	return f.send(id, p)
}

type fakeDeliveries struct {
	domain.DeliveryService
	create        func(domain.CreateDeliveryParams) (*domain.DeliveryView, error)
	removeInvoice func(id, invoiceID uuid.UUID) (*domain.DeliveryNote, error)
	getPublic     func(uuid.UUID) (*domain.DeliveryView, error)
}

func (f *fakeDeliveries) Create(_ context.Context, p domain.CreateDeliveryParams) (*domain.DeliveryView, error) {
	return f.create(p)
}

func (f *fakeDeliveries) RemoveInvoice(_ context.Context, id, invoiceID uuid.UUID) (*domain.DeliveryNote, error) {
	return f.removeInvoice(id, invoiceID)
}

func (f *fakeDeliveries) GetPublic(_ context.Context, id uuid.UUID) (*domain.DeliveryView, error) {
	return f.getPublic(id)
}

type fakeAnalytics struct {
	summary func(domain.AnalyticsRange) (*domain.AnalyticsSummary, error)
	export  func(domain.AnalyticsRange) (*domain.Spreadsheet, error)
}

func (f *fakeAnalytics) Summary(_ context.Context, r domain.AnalyticsRange) (*domain.AnalyticsSummary, error) {
	return f.summary(r)
}

func (f *fakeAnalytics) Export(_ context.Context, r domain.AnalyticsRange) (*domain.Spreadsheet, error) {
	return f.export(r)
}

type fakeItems struct {
	domain.ItemService
	search      func(query string, limit int) ([]*domain.Item, error)
	adjustStock func(uuid.UUID, decimal.Decimal) (*domain.Item, error)
	uploadImage func(uuid.UUID, domain.Upload) (*domain.Item, error)
}

func (f *fakeItems) Search(_ context.Context, query string, limit int) ([]*domain.Item, error) {
	return f.search(query, limit)
}

func (f *fakeItems) AdjustStock(_ context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Item, error) {
	return f.adjustStock(id, delta)
}

func (f *fakeItems) UploadImage(_ context.Context, id uuid.UUID, u domain.Upload) (*domain.Item, error) {
	return f.uploadImage(id, u)
}

type fakeAuth struct {
	login func(email, password string) (*domain.AuthResult, error)
}

func (f *fakeAuth) Register(context.Context, domain.RegisterParams) (*domain.AuthResult, error) {
	panic("not used")
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	return f.login(email, password)
}

// serve routes req through a mux so path values resolve.
func serve(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}
