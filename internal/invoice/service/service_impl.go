package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/config"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/pkg/db"
	"github.com/smallbiznis/facturo/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Prices  invoicedomain.PriceLookup
	Policy  *config.InvoicingConfigHolder
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	prices  invoicedomain.PriceLookup
	policy  *config.InvoicingConfigHolder
	metrics *telemetry.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		prices:  p.Prices,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

// Create runs the whole creation pipeline: strict header validation,
// permissive line-item normalization, totals computation, and one atomic
// write of the header plus all lines. No partial state survives a failure
// at any step.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	header, err := s.validateHeader(req)
	if err != nil {
		s.metrics.InvoiceRejected(err.Error())
		return invoicedomain.Invoice{}, err
	}

	discountPct, err := parseDiscountPercent(req.DiscountPercent)
	if err != nil {
		s.metrics.InvoiceRejected(err.Error())
		return invoicedomain.Invoice{}, err
	}

	lines, err := normalizeLines(ctx, s.prices, req.ProductCodes, req.Quantities)
	if err != nil {
		if err == invoicedomain.ErrNoValidLineItems {
			s.metrics.InvoiceRejected(err.Error())
		}
		return invoicedomain.Invoice{}, err
	}

	totals, err := computeTotals(lines, discountPct, s.policy.Get().TaxRate)
	if err != nil {
		s.metrics.InvoiceRejected(err.Error())
		return invoicedomain.Invoice{}, err
	}

	now := time.Now().UTC()
	invoice := invoicedomain.Invoice{
		ID:             s.genID.Generate(),
		Number:         header.number,
		IssueDate:      header.issueDate,
		DueDate:        header.dueDate,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.Total,
		CustomerCode:   header.customerCode,
		SellerCode:     header.sellerCode,
		CompanyCode:    header.companyCode,
		CreatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertInvoice(ctx, tx, invoice); err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.insertInvoiceLine(ctx, tx, invoicedomain.InvoiceLine{
				ID:            s.genID.Generate(),
				InvoiceNumber: invoice.Number,
				ProductCode:   line.ProductCode,
				Quantity:      line.Quantity,
				Amount:        line.Amount,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.metrics.InvoiceRejected(invoicedomain.ErrDuplicateNumber.Error())
			return invoicedomain.Invoice{}, invoicedomain.ErrDuplicateNumber
		}
		return invoicedomain.Invoice{}, err
	}

	s.metrics.InvoiceCreated(totals.Total)
	s.log.Info("invoice created",
		zap.String("number", invoice.Number),
		zap.Int64("subtotal", totals.Subtotal),
		zap.Int64("discount", totals.DiscountAmount),
		zap.Int64("tax", totals.TaxAmount),
		zap.Int64("total", totals.Total),
		zap.Int("lines", len(lines)),
	)
	return invoice, nil
}

type invoiceHeader struct {
	number       string
	issueDate    time.Time
	dueDate      *time.Time
	customerCode string
	sellerCode   string
	companyCode  string
}

// validateHeader is the strict half of input validation: any bad header
// field rejects the request outright.
func (s *Service) validateHeader(req invoicedomain.CreateInvoiceRequest) (invoiceHeader, error) {
	header := invoiceHeader{
		number:       strings.TrimSpace(req.Number),
		customerCode: strings.TrimSpace(req.CustomerCode),
		sellerCode:   strings.TrimSpace(req.SellerCode),
		companyCode:  strings.TrimSpace(req.CompanyCode),
	}

	if header.number == "" {
		return invoiceHeader{}, invoicedomain.ErrInvalidNumber
	}
	if header.customerCode == "" {
		return invoiceHeader{}, invoicedomain.ErrInvalidCustomer
	}
	if header.sellerCode == "" {
		return invoiceHeader{}, invoicedomain.ErrInvalidSeller
	}
	if header.companyCode == "" {
		header.companyCode = s.policy.Get().DefaultCompanyCode
	}
	if header.companyCode == "" {
		return invoiceHeader{}, invoicedomain.ErrInvalidCompany
	}

	issueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.IssueDate))
	if err != nil {
		return invoiceHeader{}, invoicedomain.ErrInvalidIssueDate
	}
	header.issueDate = issueDate

	if due := strings.TrimSpace(req.DueDate); due != "" {
		dueDate, err := time.Parse(dateLayout, due)
		if err != nil {
			return invoiceHeader{}, invoicedomain.ErrInvalidDueDate
		}
		header.dueDate = &dueDate
	}

	return header, nil
}

func parseDiscountPercent(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	pct, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, invoicedomain.ErrInvalidDiscountPercent
	}
	return pct, nil
}

func (s *Service) insertInvoice(ctx context.Context, tx *gorm.DB, invoice invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, number, issue_date, due_date, discount_amount, tax_amount,
			total_amount, customer_code, seller_code, company_code, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.Number,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.DiscountAmount,
		invoice.TaxAmount,
		invoice.TotalAmount,
		invoice.CustomerCode,
		invoice.SellerCode,
		invoice.CompanyCode,
		invoice.CreatedAt,
	).Error
}

func (s *Service) insertInvoiceLine(ctx context.Context, tx *gorm.DB, line invoicedomain.InvoiceLine) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_lines (
			id, invoice_number, product_code, quantity, amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.InvoiceNumber,
		line.ProductCode,
		line.Quantity,
		line.Amount,
		line.CreatedAt,
	).Error
}

type summaryRow struct {
	Number         string
	IssueDate      time.Time
	DueDate        *time.Time
	DiscountAmount int64
	TaxAmount      int64
	TotalAmount    int64
	CustomerName   string
	SellerName     string
	CompanyName    string
}

func (s *Service) List(ctx context.Context) (invoicedomain.ListInvoiceResponse, error) {
	var rows []summaryRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT f.number, f.issue_date, f.due_date, f.discount_amount, f.tax_amount, f.total_amount,
		        c.first_name || ' ' || c.last_name AS customer_name,
		        v.first_name || ' ' || v.last_name AS seller_name,
		        e.legal_name AS company_name
		 FROM invoices f
		 JOIN customers c ON c.code = f.customer_code
		 JOIN sellers   v ON v.code = f.seller_code
		 JOIN companies e ON e.code = f.company_code
		 ORDER BY f.issue_date DESC, f.number DESC`,
	).Scan(&rows).Error
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	invoices := make([]invoicedomain.InvoiceSummary, 0, len(rows))
	for _, row := range rows {
		summary := invoicedomain.InvoiceSummary{
			Number:         row.Number,
			IssueDate:      row.IssueDate.Format(dateLayout),
			DiscountAmount: row.DiscountAmount,
			TaxAmount:      row.TaxAmount,
			TotalAmount:    row.TotalAmount,
			CustomerName:   row.CustomerName,
			SellerName:     row.SellerName,
			CompanyName:    row.CompanyName,
		}
		if row.DueDate != nil {
			due := row.DueDate.Format(dateLayout)
			summary.DueDate = &due
		}
		invoices = append(invoices, summary)
	}

	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

type lineRow struct {
	ProductCode string
	ProductName string
	Unit        string
	Quantity    int64
	Amount      int64
}

func (s *Service) GetByNumber(ctx context.Context, number string) (invoicedomain.InvoiceView, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return invoicedomain.InvoiceView{}, invoicedomain.ErrInvalidNumber
	}

	var invoice invoicedomain.Invoice
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, number, issue_date, due_date, discount_amount, tax_amount,
		        total_amount, customer_code, seller_code, company_code, created_at
		 FROM invoices WHERE number = ?`,
		number,
	).Scan(&invoice).Error
	if err != nil {
		return invoicedomain.InvoiceView{}, err
	}
	if invoice.ID == 0 {
		return invoicedomain.InvoiceView{}, invoicedomain.ErrNotFound
	}

	// id ascending preserves insertion order.
	var rows []lineRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT l.product_code, COALESCE(p.name, l.product_code) AS product_name,
		        COALESCE(p.unit, '') AS unit, l.quantity, l.amount
		 FROM invoice_lines l
		 LEFT JOIN products p ON p.code = l.product_code
		 WHERE l.invoice_number = ?
		 ORDER BY l.id ASC`,
		number,
	).Scan(&rows).Error
	if err != nil {
		return invoicedomain.InvoiceView{}, err
	}

	lines := make([]invoicedomain.InvoiceLine, 0, len(rows))
	views := make([]invoicedomain.InvoiceLineView, 0, len(rows))
	for _, row := range rows {
		line := invoicedomain.InvoiceLine{
			ProductCode: row.ProductCode,
			Quantity:    row.Quantity,
			Amount:      row.Amount,
		}
		lines = append(lines, line)
		views = append(views, invoicedomain.InvoiceLineView{
			ProductCode: row.ProductCode,
			ProductName: row.ProductName,
			Unit:        row.Unit,
			Quantity:    row.Quantity,
			UnitPrice:   lineUnitPrice(line),
			Amount:      row.Amount,
		})
	}

	subtotal, base := reconstructTotals(lines, invoice.DiscountAmount)

	view := invoicedomain.InvoiceView{
		Invoice:  invoice,
		Lines:    views,
		Subtotal: subtotal,
		Base:     base,
	}
	if err := s.attachPartyNames(ctx, &view); err != nil {
		return invoicedomain.InvoiceView{}, err
	}

	return view, nil
}

type partyNamesRow struct {
	CustomerName   string
	SellerName     string
	CompanyName    string
	CompanyTaxID   string
	CompanyAddress string
}

func (s *Service) attachPartyNames(ctx context.Context, view *invoicedomain.InvoiceView) error {
	var row partyNamesRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT c.first_name || ' ' || c.last_name AS customer_name,
		        v.first_name || ' ' || v.last_name AS seller_name,
		        e.legal_name AS company_name,
		        e.tax_id AS company_tax_id,
		        e.street || ', ' || e.district || ', ' || e.city AS company_address
		 FROM invoices f
		 JOIN customers c ON c.code = f.customer_code
		 JOIN sellers   v ON v.code = f.seller_code
		 JOIN companies e ON e.code = f.company_code
		 WHERE f.number = ?`,
		view.Invoice.Number,
	).Scan(&row).Error
	if err != nil {
		return err
	}

	view.CustomerName = row.CustomerName
	view.SellerName = row.SellerName
	view.CompanyName = row.CompanyName
	view.CompanyTaxID = row.CompanyTaxID
	view.CompanyAddress = row.CompanyAddress
	return nil
}
