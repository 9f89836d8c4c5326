package domain

import (
	"context"
	"errors"
)

// CreateInvoiceRequest carries raw form-shaped input: string-typed header
// fields, the discount as a percentage string, and the line items as two
// parallel arrays of product codes and quantity strings.
type CreateInvoiceRequest struct {
	Number          string
	IssueDate       string
	DueDate         string
	CustomerCode    string
	SellerCode      string
	CompanyCode     string
	DiscountPercent string
	ProductCodes    []string
	Quantities      []string
}

// InvoiceSummary is one row of the invoice listing, joined with the
// display names of the referenced parties.
type InvoiceSummary struct {
	Number         string  `json:"number"`
	IssueDate      string  `json:"issue_date"`
	DueDate        *string `json:"due_date,omitempty"`
	DiscountAmount int64   `json:"discount_amount"`
	TaxAmount      int64   `json:"tax_amount"`
	TotalAmount    int64   `json:"total_amount"`
	CustomerName   string  `json:"customer_name"`
	SellerName     string  `json:"seller_name"`
	CompanyName    string  `json:"company_name"`
}

type ListInvoiceResponse struct {
	Invoices []InvoiceSummary `json:"invoices"`
}

// InvoiceLineView is a line prepared for display: unit price is derived
// from the stored amount, never re-read from the catalog.
type InvoiceLineView struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

// InvoiceView is the reconstructed invoice used for display and document
// rendering. Subtotal and Base are recomputed from the persisted lines and
// the stored discount amount; DiscountAmount, TaxAmount, and TotalAmount
// come straight from the header and are source of truth once written.
type InvoiceView struct {
	Invoice        Invoice           `json:"invoice"`
	Lines          []InvoiceLineView `json:"lines"`
	Subtotal       int64             `json:"subtotal"`
	Base           int64             `json:"base"`
	CustomerName   string            `json:"customer_name"`
	SellerName     string            `json:"seller_name"`
	CompanyName    string            `json:"company_name"`
	CompanyTaxID   string            `json:"company_tax_id"`
	CompanyAddress string            `json:"company_address"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context) (ListInvoiceResponse, error)
	GetByNumber(ctx context.Context, number string) (InvoiceView, error)
}

// PriceLookup resolves the current unit price for a product code. It is
// the only catalog dependency of invoice creation.
type PriceLookup interface {
	UnitPriceByCode(ctx context.Context, code string) (price int64, ok bool, err error)
}

var (
	ErrInvalidNumber          = errors.New("invalid_number")
	ErrInvalidIssueDate       = errors.New("invalid_issue_date")
	ErrInvalidDueDate         = errors.New("invalid_due_date")
	ErrInvalidCustomer        = errors.New("invalid_customer")
	ErrInvalidSeller          = errors.New("invalid_seller")
	ErrInvalidCompany         = errors.New("invalid_company")
	ErrInvalidDiscountPercent = errors.New("invalid_discount_percent")
	ErrNoValidLineItems       = errors.New("no_valid_line_items")
	ErrNegativeTotal          = errors.New("negative_total")
	ErrDuplicateNumber        = errors.New("duplicate_invoice_number")
	ErrNotFound               = errors.New("not_found")
)
