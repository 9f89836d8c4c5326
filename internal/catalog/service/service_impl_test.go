package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/facturo/internal/catalog/domain"
	"github.com/smallbiznis/facturo/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateProduct(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Code:      "P00001",
		Name:      "Cuaderno A4",
		Unit:      "UND",
		UnitPrice: "4.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "P00001", created.Code)
	assert.Equal(t, int64(450), created.UnitPrice)

	got, err := svc.GetByCode(context.Background(), "P00001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		req     domain.CreateProductRequest
		wantErr error
	}{
		{"empty code", domain.CreateProductRequest{Name: "Lapicero", Unit: "UND", UnitPrice: "1.00"}, domain.ErrInvalidCode},
		{"empty name", domain.CreateProductRequest{Code: "P00002", Unit: "UND", UnitPrice: "1.00"}, domain.ErrInvalidName},
		{"unit too long", domain.CreateProductRequest{Code: "P00002", Name: "Lapicero", Unit: "UNIDADES123", UnitPrice: "1.00"}, domain.ErrInvalidUnit},
		{"price not a number", domain.CreateProductRequest{Code: "P00002", Name: "Lapicero", Unit: "UND", UnitPrice: "cheap"}, domain.ErrInvalidPrice},
		{"price negative", domain.CreateProductRequest{Code: "P00002", Name: "Lapicero", Unit: "UND", UnitPrice: "-1.00"}, domain.ErrInvalidPrice},
		{"price too many decimals", domain.CreateProductRequest{Code: "P00002", Name: "Lapicero", Unit: "UND", UnitPrice: "1.005"}, domain.ErrInvalidPrice},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateProduct_DuplicateNameUnit(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00001", Name: "Cuaderno A4", Unit: "UND", UnitPrice: "4.50",
	})
	require.NoError(t, err)

	// Same name under a different unit is a distinct product.
	_, err = svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00002", Name: "Cuaderno A4", Unit: "PAQ", UnitPrice: "40.00",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00003", Name: "Cuaderno A4", Unit: "UND", UnitPrice: "5.00",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00001", Name: "Cuaderno A4", Unit: "UND", UnitPrice: "4.50",
	})
	require.NoError(t, err)

	// A different name+unit passes the pre-check, so the unique index on
	// code is what rejects this one.
	_, err = svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00001", Name: "Lapicero azul", Unit: "UND", UnitPrice: "1.20",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

func TestListProducts_OrderedByNameAndUnit(t *testing.T) {
	svc := newTestService(t)

	for _, p := range []domain.CreateProductRequest{
		{Code: "P00001", Name: "Tijeras", Unit: "UND", UnitPrice: "9.90"},
		{Code: "P00002", Name: "Cuaderno A4", Unit: "UND", UnitPrice: "4.50"},
		{Code: "P00003", Name: "Cuaderno A4", Unit: "PAQ", UnitPrice: "40.00"},
	} {
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListProductRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "P00003", resp.Products[0].Code)
	assert.Equal(t, "P00002", resp.Products[1].Code)
	assert.Equal(t, "P00001", resp.Products[2].Code)
}

func TestUnitPriceByCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Code: "P00001", Name: "Cuaderno A4", Unit: "UND", UnitPrice: "4.50",
	})
	require.NoError(t, err)

	price, ok, err := svc.UnitPriceByCode(context.Background(), "P00001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(450), price)

	_, ok, err = svc.UnitPriceByCode(context.Background(), "P99999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByCode_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByCode(context.Background(), "P99999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
