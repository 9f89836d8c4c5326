package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/facturo/internal/catalog/domain"
	"github.com/smallbiznis/facturo/internal/config"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	partydomain "github.com/smallbiznis/facturo/internal/party/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&catalogdomain.Product{},
		&partydomain.Customer{},
		&partydomain.Seller{},
		&partydomain.Company{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
	))
	return gdb
}

func newTestService(t *testing.T, gdb *gorm.DB, prices invoicedomain.PriceLookup) invoicedomain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:     gdb,
		Log:    zap.NewNop(),
		GenID:  node,
		Prices: prices,
		Policy: config.NewStaticInvoicingConfigHolder(config.InvoicingConfig{
			TaxRate:            0.18,
			DefaultCompanyCode: "E0001",
		}),
	})
}

func seedParties(t *testing.T, gdb *gorm.DB, node *snowflake.Node) {
	t.Helper()

	require.NoError(t, gdb.Create(&partydomain.Customer{
		ID: node.Generate(), Code: "C00001", DNI: "12345678",
		FirstName: "Ana", LastName: "Pérez",
	}).Error)
	require.NoError(t, gdb.Create(&partydomain.Seller{
		ID: node.Generate(), Code: "V0001",
		FirstName: "María", LastName: "Lopez",
	}).Error)
	require.NoError(t, gdb.Create(&partydomain.Company{
		ID: node.Generate(), Code: "E0001", TaxID: "20123456789",
		LegalName: "Empresa ABC SAC",
		Street:    "Av. Principal 123", District: "Miraflores", City: "Lima",
	}).Error)
}

func seedProducts(t *testing.T, gdb *gorm.DB, node *snowflake.Node) {
	t.Helper()

	for code, price := range map[string]int64{
		"P00001": 450,
		"P00002": 380,
		"P00003": 250,
	} {
		require.NoError(t, gdb.Create(&catalogdomain.Product{
			ID: node.Generate(), Code: code,
			Name: "Producto " + code, Unit: "UND", UnitPrice: price,
		}).Error)
	}
}

func countRows(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM "+table).Scan(&n).Error)
	return n
}

func TestCreate_PersistsHeaderAndLines(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450, "P00002": 380})

	created, err := svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Number:          "F001-00000001",
		IssueDate:       "2024-03-01",
		CustomerCode:    "C00001",
		SellerCode:      "V0001",
		CompanyCode:     "E0001",
		DiscountPercent: "10",
		ProductCodes:    []string{"P00001", "P00002"},
		Quantities:      []string{"2", "1"},
	})
	require.NoError(t, err)

	// subtotal 12.80, discount 1.28, base 11.52, tax 2.07, total 13.59
	assert.Equal(t, int64(128), created.DiscountAmount)
	assert.Equal(t, int64(207), created.TaxAmount)
	assert.Equal(t, int64(1359), created.TotalAmount)

	assert.Equal(t, int64(1), countRows(t, gdb, "invoices"))
	assert.Equal(t, int64(2), countRows(t, gdb, "invoice_lines"))
}

func TestCreate_CompanyDefaultsFromPolicy(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00003": 250})

	created, err := svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Number:       "F001-00000002",
		IssueDate:    "2024-03-02",
		CustomerCode: "C00001",
		SellerCode:   "V0001",
		ProductCodes: []string{"P00003"},
		Quantities:   []string{"1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "E0001", created.CompanyCode)
}

func TestCreate_DuplicateNumberLeavesNoPartialRows(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450, "P00002": 380})

	req := invoicedomain.CreateInvoiceRequest{
		Number:       "F001-00000003",
		IssueDate:    "2024-03-03",
		CustomerCode: "C00001",
		SellerCode:   "V0001",
		CompanyCode:  "E0001",
		ProductCodes: []string{"P00001", "P00002"},
		Quantities:   []string{"2", "1"},
	}
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, invoicedomain.ErrDuplicateNumber)

	// The failed attempt must not leave orphan lines behind.
	assert.Equal(t, int64(1), countRows(t, gdb, "invoices"))
	assert.Equal(t, int64(2), countRows(t, gdb, "invoice_lines"))
}

func TestCreate_AllLinesInvalidPersistsNothing(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450})

	_, err = svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Number:       "F001-00000004",
		IssueDate:    "2024-03-04",
		CustomerCode: "C00001",
		SellerCode:   "V0001",
		CompanyCode:  "E0001",
		ProductCodes: []string{"P00001", "P99999"},
		Quantities:   []string{"abc", "2"},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrNoValidLineItems)
	assert.Equal(t, int64(0), countRows(t, gdb, "invoices"))
	assert.Equal(t, int64(0), countRows(t, gdb, "invoice_lines"))
}

func TestCreate_HeaderValidation(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450})

	base := invoicedomain.CreateInvoiceRequest{
		Number:       "F001-00000005",
		IssueDate:    "2024-03-05",
		CustomerCode: "C00001",
		SellerCode:   "V0001",
		CompanyCode:  "E0001",
		ProductCodes: []string{"P00001"},
		Quantities:   []string{"1"},
	}

	tests := []struct {
		name    string
		mutate  func(r *invoicedomain.CreateInvoiceRequest)
		wantErr error
	}{
		{"empty number", func(r *invoicedomain.CreateInvoiceRequest) { r.Number = "  " }, invoicedomain.ErrInvalidNumber},
		{"bad issue date", func(r *invoicedomain.CreateInvoiceRequest) { r.IssueDate = "01/03/2024" }, invoicedomain.ErrInvalidIssueDate},
		{"bad due date", func(r *invoicedomain.CreateInvoiceRequest) { r.DueDate = "soon" }, invoicedomain.ErrInvalidDueDate},
		{"empty customer", func(r *invoicedomain.CreateInvoiceRequest) { r.CustomerCode = "" }, invoicedomain.ErrInvalidCustomer},
		{"empty seller", func(r *invoicedomain.CreateInvoiceRequest) { r.SellerCode = "" }, invoicedomain.ErrInvalidSeller},
		{"discount not a number", func(r *invoicedomain.CreateInvoiceRequest) { r.DiscountPercent = "ten" }, invoicedomain.ErrInvalidDiscountPercent},
		{"discount out of range", func(r *invoicedomain.CreateInvoiceRequest) { r.DiscountPercent = "150" }, invoicedomain.ErrInvalidDiscountPercent},
		{"discount NaN", func(r *invoicedomain.CreateInvoiceRequest) { r.DiscountPercent = "NaN" }, invoicedomain.ErrInvalidDiscountPercent},
		{"discount infinite", func(r *invoicedomain.CreateInvoiceRequest) { r.DiscountPercent = "Inf" }, invoicedomain.ErrInvalidDiscountPercent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreate_NaNDiscountPersistsNothing(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450})

	_, err = svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Number:          "F001-00000007",
		IssueDate:       "2024-03-07",
		CustomerCode:    "C00001",
		SellerCode:      "V0001",
		CompanyCode:     "E0001",
		DiscountPercent: "NaN",
		ProductCodes:    []string{"P00001"},
		Quantities:      []string{"2"},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidDiscountPercent)
	assert.Equal(t, int64(0), countRows(t, gdb, "invoices"))
	assert.Equal(t, int64(0), countRows(t, gdb, "invoice_lines"))
}

func TestGetByNumber_ReconstructsTotals(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450, "P00002": 380})

	created, err := svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Number:          "F001-00000006",
		IssueDate:       "2024-03-06",
		CustomerCode:    "C00001",
		SellerCode:      "V0001",
		CompanyCode:     "E0001",
		DiscountPercent: "10",
		ProductCodes:    []string{"P00001", "P00002"},
		Quantities:      []string{"2", "1"},
	})
	require.NoError(t, err)

	view, err := svc.GetByNumber(context.Background(), "F001-00000006")
	require.NoError(t, err)

	// Subtotal and base are never stored; they come back from the lines.
	assert.Equal(t, int64(1280), view.Subtotal)
	assert.Equal(t, int64(1152), view.Base)
	assert.Equal(t, created.DiscountAmount, view.Invoice.DiscountAmount)
	assert.Equal(t, created.TaxAmount, view.Invoice.TaxAmount)
	assert.Equal(t, created.TotalAmount, view.Invoice.TotalAmount)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "P00001", view.Lines[0].ProductCode)
	assert.Equal(t, "Producto P00001", view.Lines[0].ProductName)
	assert.Equal(t, int64(450), view.Lines[0].UnitPrice)
	assert.Equal(t, int64(900), view.Lines[0].Amount)
	assert.Equal(t, "P00002", view.Lines[1].ProductCode)

	assert.Equal(t, "Ana Pérez", view.CustomerName)
	assert.Equal(t, "María Lopez", view.SellerName)
	assert.Equal(t, "Empresa ABC SAC", view.CompanyName)
	assert.Equal(t, "20123456789", view.CompanyTaxID)
}

func TestGetByNumber_NotFound(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb, stubPrices{})

	_, err := svc.GetByNumber(context.Background(), "F999-00000001")
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)

	_, err = svc.GetByNumber(context.Background(), "   ")
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidNumber)
}

func TestList_ReturnsJoinedSummaries(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	seedParties(t, gdb, node)
	seedProducts(t, gdb, node)

	svc := newTestService(t, gdb, stubPrices{"P00001": 450, "P00003": 250})

	for i, issue := range []string{"2024-03-01", "2024-03-09"} {
		_, err := svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
			Number:       fmt.Sprintf("F001-0000001%d", i),
			IssueDate:    issue,
			CustomerCode: "C00001",
			SellerCode:   "V0001",
			CompanyCode:  "E0001",
			ProductCodes: []string{"P00001"},
			Quantities:   []string{"1"},
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 2)

	// Newest issue date first.
	assert.Equal(t, "2024-03-09", resp.Invoices[0].IssueDate)
	assert.Equal(t, "2024-03-01", resp.Invoices[1].IssueDate)
	assert.Equal(t, "Ana Pérez", resp.Invoices[0].CustomerName)
	assert.Equal(t, "María Lopez", resp.Invoices[0].SellerName)
	assert.Equal(t, "Empresa ABC SAC", resp.Invoices[0].CompanyName)
}
