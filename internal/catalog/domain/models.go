// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a sellable catalog entry. UnitPrice is stored in cents.
type Product struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex;not null" json:"code"`
	Name      string       `gorm:"not null;uniqueIndex:ux_products_name_unit" json:"name"`
	Unit      string       `gorm:"not null;uniqueIndex:ux_products_name_unit" json:"unit"`
	UnitPrice int64        `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
