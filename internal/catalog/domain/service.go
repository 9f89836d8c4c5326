package domain

import (
	"context"
	"errors"
)

type CreateProductRequest struct {
	Code      string
	Name      string
	Unit      string
	UnitPrice string
}

type ListProductRequest struct{}

type ListProductResponse struct {
	Products []Product `json:"products"`
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByCode(ctx context.Context, code string) (Product, error)

	// UnitPriceByCode reports the current unit price in cents for a product
	// code, with ok=false when the code does not resolve.
	UnitPriceByCode(ctx context.Context, code string) (price int64, ok bool, err error)
}

var (
	ErrInvalidCode      = errors.New("invalid_code")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidUnit      = errors.New("invalid_unit")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrDuplicateProduct = errors.New("duplicate_product")
	ErrNotFound         = errors.New("not_found")
)
