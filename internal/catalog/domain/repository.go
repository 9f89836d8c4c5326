package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	FindByNameUnit(ctx context.Context, db *gorm.DB, name, unit string) (*Product, error)
	List(ctx context.Context, db *gorm.DB) ([]*Product, error)
}
