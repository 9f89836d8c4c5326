// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Invoice is a finalized invoice header. Monetary columns are cents.
//
// Subtotal and taxable base are intentionally not stored: they are
// recomputed from the lines and the stored discount amount on every read,
// and must reproduce the figures computed at creation time.
type Invoice struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Number         string       `gorm:"uniqueIndex;not null" json:"number"`
	IssueDate      time.Time    `gorm:"not null" json:"issue_date"`
	DueDate        *time.Time   `gorm:"" json:"due_date,omitempty"`
	DiscountAmount int64        `gorm:"not null;default:0" json:"discount_amount"`
	TaxAmount      int64        `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount    int64        `gorm:"not null;default:0" json:"total_amount"`
	CustomerCode   string       `gorm:"not null;index" json:"customer_code"`
	SellerCode     string       `gorm:"not null;index" json:"seller_code"`
	CompanyCode    string       `gorm:"not null;index" json:"company_code"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one priced line on an invoice. Amount is always
// unit price times quantity, rounded to whole cents at normalization.
type InvoiceLine struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceNumber string       `gorm:"not null;index" json:"invoice_number"`
	ProductCode   string       `gorm:"not null;index" json:"product_code"`
	Quantity      int64        `gorm:"not null" json:"quantity"`
	Amount        int64        `gorm:"not null" json:"amount"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }
