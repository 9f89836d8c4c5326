// Package domain contains persistence models for the parties on an invoice:
// customers, sellers, and the issuing company.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex;not null" json:"code"`
	DNI       string       `gorm:"column:dni;uniqueIndex;not null" json:"dni"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null" json:"last_name"`
	Phone     string       `gorm:"" json:"phone,omitempty"`
	Email     string       `gorm:"" json:"email,omitempty"`
	Street    string       `gorm:"" json:"street,omitempty"`
	District  string       `gorm:"" json:"district,omitempty"`
	City      string       `gorm:"" json:"city,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

type Seller struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex;not null" json:"code"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null" json:"last_name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Seller) TableName() string { return "sellers" }

// Company is the invoice-issuing legal entity.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex;not null" json:"code"`
	TaxID     string       `gorm:"column:tax_id;not null" json:"tax_id"`
	LegalName string       `gorm:"not null" json:"legal_name"`
	Street    string       `gorm:"" json:"street,omitempty"`
	District  string       `gorm:"" json:"district,omitempty"`
	City      string       `gorm:"" json:"city,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// DisplayName is the customer name used on rendered documents.
func (c Customer) DisplayName() string { return c.FirstName + " " + c.LastName }

// DisplayName is the seller name used on rendered documents.
func (s Seller) DisplayName() string { return s.FirstName + " " + s.LastName }
