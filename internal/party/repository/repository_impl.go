package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/facturo/internal/party/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertCustomer(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, code, dni, first_name, last_name, phone, email, street, district, city, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Code,
		customer.DNI,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		customer.Email,
		customer.Street,
		customer.District,
		customer.City,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindCustomerByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, dni, first_name, last_name, phone, email, street, district, city, created_at, updated_at
		 FROM customers WHERE code = ?`,
		code,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

// CustomerFieldTaken reports whether any customer row already holds value in
// the given column. field is restricted to a fixed set; it is never
// interpolated from user input.
func (r *repo) CustomerFieldTaken(ctx context.Context, db *gorm.DB, field, value string) (bool, error) {
	switch field {
	case "code", "dni", "phone", "email":
	default:
		return false, fmt.Errorf("unsupported customer field %q", field)
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where(field+" = ?", value).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListCustomers(ctx context.Context, db *gorm.DB) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Order("code asc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) InsertSeller(ctx context.Context, db *gorm.DB, seller *domain.Seller) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sellers (id, code, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seller.ID,
		seller.Code,
		seller.FirstName,
		seller.LastName,
		seller.CreatedAt,
		seller.UpdatedAt,
	).Error
}

func (r *repo) FindSellerByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Seller, error) {
	var seller domain.Seller
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, first_name, last_name, created_at, updated_at
		 FROM sellers WHERE code = ?`,
		code,
	).Scan(&seller).Error
	if err != nil {
		return nil, err
	}
	if seller.ID == 0 {
		return nil, nil
	}
	return &seller, nil
}

func (r *repo) ListSellers(ctx context.Context, db *gorm.DB) ([]*domain.Seller, error) {
	var sellers []*domain.Seller
	err := db.WithContext(ctx).
		Model(&domain.Seller{}).
		Order("code asc").
		Find(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *repo) FindCompanyByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, tax_id, legal_name, street, district, city, created_at, updated_at
		 FROM companies WHERE code = ?`,
		code,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}
