package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/internal/providers/pdf"
	"github.com/smallbiznis/facturo/pkg/money"
)

type createInvoiceRequest struct {
	Number          string   `json:"number"`
	IssueDate       string   `json:"issue_date"`
	DueDate         string   `json:"due_date"`
	CustomerCode    string   `json:"customer_code"`
	SellerCode      string   `json:"seller_code"`
	CompanyCode     string   `json:"company_code"`
	DiscountPercent string   `json:"discount_percent"`
	ProductCodes    []string `json:"product_codes"`
	Quantities      []string `json:"quantities"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		Number:          req.Number,
		IssueDate:       req.IssueDate,
		DueDate:         req.DueDate,
		CustomerCode:    req.CustomerCode,
		SellerCode:      req.SellerCode,
		CompanyCode:     req.CompanyCode,
		DiscountPercent: req.DiscountPercent,
		ProductCodes:    req.ProductCodes,
		Quantities:      req.Quantities,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": invoice})
}

func (s *Server) ListInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

// invoiceDisplay carries the reconstructed figures formatted for currency
// display, alongside the raw view.
type invoiceDisplay struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Base     string `json:"base"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func (s *Server) GetInvoiceByNumber(c *gin.Context) {
	view, err := s.loadInvoiceView(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": view,
		"display": invoiceDisplay{
			Subtotal: money.Format(view.Subtotal),
			Discount: money.Format(view.Invoice.DiscountAmount),
			Base:     money.Format(view.Base),
			Tax:      money.Format(view.Invoice.TaxAmount),
			Total:    money.Format(view.Invoice.TotalAmount),
		},
	})
}

func (s *Server) GetInvoicePDF(c *gin.Context) {
	view, err := s.loadInvoiceView(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.InvoiceData{
		CompanyName:    view.CompanyName,
		CompanyTaxID:   view.CompanyTaxID,
		CompanyAddress: view.CompanyAddress,
		InvoiceNumber:  view.Invoice.Number,
		IssueDate:      view.Invoice.IssueDate.Format("2006-01-02"),
		DueDate:        "-",
		CustomerName:   view.CustomerName,
		SellerName:     view.SellerName,
		Subtotal:       money.Format(view.Subtotal),
		Discount:       money.Format(view.Invoice.DiscountAmount),
		Base:           money.Format(view.Base),
		Tax:            money.Format(view.Invoice.TaxAmount),
		Total:          money.Format(view.Invoice.TotalAmount),
	}
	if view.Invoice.DueDate != nil {
		data.DueDate = view.Invoice.DueDate.Format("2006-01-02")
	}
	for _, line := range view.Lines {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: line.ProductName,
			Unit:        line.Unit,
			Qty:         line.Quantity,
			UnitPrice:   money.Format(line.UnitPrice),
			Amount:      money.Format(line.Amount),
		})
	}

	doc, err := s.pdfSvc.GenerateInvoice(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	buf, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice-`+view.Invoice.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf)
}

func (s *Server) loadInvoiceView(c *gin.Context) (invoicedomain.InvoiceView, error) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		return invoicedomain.InvoiceView{}, invoicedomain.ErrInvalidNumber
	}
	return s.invoiceSvc.GetByNumber(c.Request.Context(), number)
}
