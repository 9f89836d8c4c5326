package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	InsertCustomer(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindCustomerByCode(ctx context.Context, db *gorm.DB, code string) (*Customer, error)
	CustomerFieldTaken(ctx context.Context, db *gorm.DB, field, value string) (bool, error)
	ListCustomers(ctx context.Context, db *gorm.DB) ([]*Customer, error)

	InsertSeller(ctx context.Context, db *gorm.DB, seller *Seller) error
	FindSellerByCode(ctx context.Context, db *gorm.DB, code string) (*Seller, error)
	ListSellers(ctx context.Context, db *gorm.DB) ([]*Seller, error)

	FindCompanyByCode(ctx context.Context, db *gorm.DB, code string) (*Company, error)
}
