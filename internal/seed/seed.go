// Package seed bootstraps the schema and minimal fixture data. It runs
// once at startup, before the server accepts requests, and is idempotent:
// existing rows are left untouched.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/facturo/internal/catalog/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	partydomain "github.com/smallbiznis/facturo/internal/party/domain"
	"gorm.io/gorm"
)

// Ensure migrates the schema and seeds the demo masters.
func Ensure(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	if err := db.AutoMigrate(
		&partydomain.Customer{},
		&partydomain.Seller{},
		&partydomain.Company{},
		&catalogdomain.Product{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
	); err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCustomers(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureCompany(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSellers(ctx, tx, node); err != nil {
			return err
		}
		return ensureProducts(ctx, tx, node)
	})
}

func ensureCustomers(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	fixtures := []partydomain.Customer{
		{Code: "C00001", DNI: "12345678", FirstName: "Ana", LastName: "Pérez", Phone: "999111222", Email: "ana@demo.com", Street: "Av. Aviación", District: "Cercado", City: "Arequipa"},
		{Code: "C00002", DNI: "87654321", FirstName: "Luis", LastName: "Soto", Phone: "999333444", Email: "luis@demo.com", Street: "Jr. Unión", District: "Cayma", City: "Arequipa"},
	}
	now := time.Now().UTC()
	for _, fixture := range fixtures {
		var count int64
		if err := tx.WithContext(ctx).Model(&partydomain.Customer{}).Where("code = ?", fixture.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		fixture.ID = node.Generate()
		fixture.CreatedAt = now
		fixture.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&fixture).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureCompany(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&partydomain.Company{}).Where("code = ?", "E0001").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	now := time.Now().UTC()
	company := partydomain.Company{
		ID:        node.Generate(),
		Code:      "E0001",
		TaxID:     "20123456789",
		LegalName: "Empresa ABC SAC",
		Street:    "Av. Metropolitana 100",
		District:  "Cercado",
		City:      "Arequipa",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&company).Error
}

func ensureSellers(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	fixtures := []partydomain.Seller{
		{Code: "V0001", FirstName: "María", LastName: "Lopez"},
		{Code: "V0002", FirstName: "Jorge", LastName: "Torres"},
	}
	now := time.Now().UTC()
	for _, fixture := range fixtures {
		var count int64
		if err := tx.WithContext(ctx).Model(&partydomain.Seller{}).Where("code = ?", fixture.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		fixture.ID = node.Generate()
		fixture.CreatedAt = now
		fixture.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&fixture).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureProducts(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	fixtures := []catalogdomain.Product{
		{Code: "P00001", Name: "Arroz extra", Unit: "kg", UnitPrice: 450},
		{Code: "P00002", Name: "Azúcar rubia", Unit: "kg", UnitPrice: 380},
		{Code: "P00003", Name: "Leche evaporada", Unit: "lt", UnitPrice: 520},
		{Code: "P00004", Name: "Aceite vegetal", Unit: "lt", UnitPrice: 990},
		{Code: "P00005", Name: "Pan de molde", Unit: "paq", UnitPrice: 750},
		{Code: "P00006", Name: "Huevos", Unit: "doc", UnitPrice: 1000},
		{Code: "P00007", Name: "Agua mineral", Unit: "bot", UnitPrice: 250},
	}
	now := time.Now().UTC()
	for _, fixture := range fixtures {
		var count int64
		if err := tx.WithContext(ctx).Model(&catalogdomain.Product{}).Where("code = ?", fixture.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		fixture.ID = node.Generate()
		fixture.CreatedAt = now
		fixture.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&fixture).Error; err != nil {
			return err
		}
	}
	return nil
}
