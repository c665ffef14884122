package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// TopItemsLimit caps the top items table.
const TopItemsLimit = 10

type analyticsService struct {
	stores Stores
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates the dashboard and export service.
func NewAnalyticsService(stores Stores, logger *slog.Logger) domain.AnalyticsService {
	return &analyticsService{stores: stores, logger: loggerOrDefault(logger), now: time.Now}
}

// span fills in a missing range with the twelve months up to now and
// rejects a reversed one.
func (s *analyticsService) span(r domain.AnalyticsRange) (domain.AnalyticsRange, error) {
	if r.To.IsZero() {
		r.To = s.now().UTC()
	}
	if r.From.IsZero() {
		y, m, _ := r.To.Date()
		r.From = time.Date(y, m-11, 1, 0, 0, 0, 0, time.UTC)
	}
	if r.From.After(r.To) {
		return r, ErrInvalidDateRange
	}
	return r, nil
}

func (s *analyticsService) load(ctx context.Context, r domain.AnalyticsRange) (*domain.Business, domain.AnalyticsRange, []*domain.Invoice, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, r, nil, err
	}
	r, err = s.span(r)
	if err != nil {
		return nil, r, nil, err
	}
	b, err := s.stores.Businesses.GetBusiness(ctx, biz)
	if err != nil {
		return nil, r, nil, err
	}
	invoices, err := s.stores.Invoices.ListInvoicesIssued(ctx, biz, r.From, r.To)
	if err != nil {
		return nil, r, nil, err
	}
	return b, r, invoices, nil
}

// Summary aggregates the invoices issued in r. Money sums only cover
// invoices in the business currency; counts cover all of them.
func (s *analyticsService) Summary(ctx context.Context, r domain.AnalyticsRange) (*domain.AnalyticsSummary, error) {
	b, r, invoices, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}
	return Summarize(b.Currency, r, invoices), nil
}

type itemKey struct {
	id   uuid.UUID
	name string
}

// Summarize is the pure aggregation behind Summary.
func Summarize(currency string, r domain.AnalyticsRange, invoices []*domain.Invoice) *domain.AnalyticsSummary {
	sum := &domain.AnalyticsSummary{
		From:        r.From,
		To:          r.To,
		Currency:    currency,
		Revenue:     decimal.Zero,
		Outstanding: decimal.Zero,
		Tax:         decimal.Zero,
		Discounts:   decimal.Zero,
		Profit:      decimal.Zero,
	}

	months, index := monthSeries(r.From, r.To)
	items := map[itemKey]*domain.ItemRevenue{}

	for _, inv := range invoices {
		if inv.IsDeleted {
			sum.Counts.Voided++
			continue
		}

		sum.Counts.Total++
		if inv.IsPaid {
			sum.Counts.Paid++
		} else {
			sum.Counts.Unpaid++
		}
		sum.Delivery.Add(inv.DeliveryStatus)

		point, ok := index[inv.IssueDate.UTC().Format("2006-01")]
		if ok {
			months[point].Count++
		}

		if inv.Currency != "" && inv.Currency != currency {
			continue
		}

		t := inv.Totals
		sum.Tax = sum.Tax.Add(t.TotalTax)
		sum.Discounts = sum.Discounts.Add(t.TotalDiscount)
		if ok {
			months[point].Invoiced = months[point].Invoiced.Add(t.GrandTotal)
		}

		if inv.IsPaid {
			sum.Revenue = sum.Revenue.Add(t.GrandTotal)
			sum.Profit = sum.Profit.Add(t.SubTotal.Sub(t.TotalDiscount).Sub(inv.Cost()))
			if ok {
				months[point].Paid = months[point].Paid.Add(t.GrandTotal)
			}
		} else {
			sum.Outstanding = sum.Outstanding.Add(t.GrandTotal)
		}

		for _, line := range inv.Items {
			k := itemKey{name: line.Name}
			if line.ItemID != nil {
				k = itemKey{id: *line.ItemID}
			}
			row, ok := items[k]
			if !ok {
				row = &domain.ItemRevenue{ItemID: line.ItemID, Name: line.Name, Quantity: decimal.Zero, Revenue: decimal.Zero}
				items[k] = row
			}
			row.Quantity = row.Quantity.Add(line.Quantity)
			row.Revenue = row.Revenue.Add(line.Total())
		}
	}

	sum.Monthly = months
	sum.TopItems = topItems(items, TopItemsLimit)
	return sum
}

// monthSeries returns a zero-filled point per calendar month in
// [from, to] and the index of each month key.
func monthSeries(from, to time.Time) ([]domain.MonthlyPoint, map[string]int) {
	from, to = from.UTC(), to.UTC()
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var points []domain.MonthlyPoint
	index := map[string]int{}
	for !cur.After(end) {
		key := cur.Format("2006-01")
		index[key] = len(points)
		points = append(points, domain.MonthlyPoint{Month: key, Invoiced: decimal.Zero, Paid: decimal.Zero})
		cur = cur.AddDate(0, 1, 0)
	}
	return points, index
}

func topItems(items map[itemKey]*domain.ItemRevenue, limit int) []domain.ItemRevenue {
	out := make([]domain.ItemRevenue, 0, len(items))
	for _, row := range items {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var exportHeaders = []string{
	"Number", "Issue date", "Due date", "Client", "Client email", "Currency",
	"Subtotal", "Discount", "Tax", "Delivery fee", "Total", "Cost",
	"Paid", "Paid at", "Delivery status", "Voided",
}

// Export writes the invoices issued in r to a workbook with an Invoices
// sheet and a Summary sheet.
func (s *analyticsService) Export(ctx context.Context, r domain.AnalyticsRange) (*domain.Spreadsheet, error) {
	const op = "analytics.export"

	b, r, invoices, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WarnContext(ctx, "failed to close workbook", "error", err)
		}
	}()

	if err := writeInvoiceSheet(f, invoices); err != nil {
		return nil, domain.Internal(err, op, "failed to build export")
	}
	if err := writeSummarySheet(f, Summarize(b.Currency, r, invoices)); err != nil {
		return nil, domain.Internal(err, op, "failed to build export")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to write export")
	}

	s.logger.InfoContext(ctx, "invoices exported", "invoices", len(invoices), "bytes", buf.Len())
	return &domain.Spreadsheet{
		Filename: fmt.Sprintf("invoices_%s_%s.xlsx", r.From.Format("20060102"), r.To.Format("20060102")),
		Data:     buf.Bytes(),
	}, nil
}

func writeInvoiceSheet(f *excelize.File, invoices []*domain.Invoice) error {
	const sheet = "Invoices"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, inv := range invoices {
		values := []any{
			inv.DisplayNumber(),
			inv.IssueDate.Format("2006-01-02"),
			dateOrBlank(inv.DueDate),
			inv.Client.Name,
			inv.Client.Email,
			inv.Currency,
			inv.Totals.SubTotal.InexactFloat64(),
			inv.Totals.TotalDiscount.InexactFloat64(),
			inv.Totals.TotalTax.InexactFloat64(),
			inv.Totals.DeliveryFee.InexactFloat64(),
			inv.Totals.GrandTotal.InexactFloat64(),
			inv.Cost().InexactFloat64(),
			inv.IsPaid,
			dateOrBlank(inv.PaidAt),
			string(inv.DeliveryStatus),
			inv.IsDeleted,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sum *domain.AnalyticsSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"From", sum.From.Format("2006-01-02")},
		{"To", sum.To.Format("2006-01-02")},
		{"Currency", sum.Currency},
		{"Invoices", sum.Counts.Total},
		{"Paid", sum.Counts.Paid},
		{"Unpaid", sum.Counts.Unpaid},
		{"Voided", sum.Counts.Voided},
		{"Revenue", sum.Revenue.InexactFloat64()},
		{"Outstanding", sum.Outstanding.InexactFloat64()},
		{"Tax", sum.Tax.InexactFloat64()},
		{"Discounts", sum.Discounts.InexactFloat64()},
		{"Profit", sum.Profit.InexactFloat64()},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	return nil
}

func dateOrBlank(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
