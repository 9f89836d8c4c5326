package domain

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	Code      string
	DNI       string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Street    string
	District  string
	City      string
}

type CreateSellerRequest struct {
	Code      string
	FirstName string
	LastName  string
}

type ListCustomerResponse struct {
	Customers []Customer `json:"customers"`
}

type ListSellerResponse struct {
	Sellers []Seller `json:"sellers"`
}

// Service manages the customer, seller, and company masters. Header
// validation here is strict: a bad field rejects the whole request,
// unlike the permissive line-item path on invoice creation.
type Service interface {
	CreateCustomer(context.Context, CreateCustomerRequest) (Customer, error)
	ListCustomers(context.Context) (ListCustomerResponse, error)
	GetCustomerByCode(ctx context.Context, code string) (Customer, error)

	CreateSeller(context.Context, CreateSellerRequest) (Seller, error)
	ListSellers(context.Context) (ListSellerResponse, error)
	GetSellerByCode(ctx context.Context, code string) (Seller, error)

	GetCompanyByCode(ctx context.Context, code string) (Company, error)
}

var (
	ErrInvalidCode    = errors.New("invalid_code")
	ErrInvalidDNI     = errors.New("invalid_dni")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPhone   = errors.New("invalid_phone")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrDuplicateDNI   = errors.New("duplicate_dni")
	ErrDuplicatePhone = errors.New("duplicate_phone")
	ErrDuplicateEmail = errors.New("duplicate_email")
	ErrDuplicateCode  = errors.New("duplicate_code")
	ErrNotFound       = errors.New("not_found")
)
