package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/catalog/domain"
	"github.com/smallbiznis/facturo/pkg/db"
	"github.com/smallbiznis/facturo/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Product{}, domain.ErrInvalidCode
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	unit := strings.TrimSpace(req.Unit)
	if len(unit) < 1 || len(unit) > 10 {
		return domain.Product{}, domain.ErrInvalidUnit
	}

	price, err := money.Parse(req.UnitPrice)
	if err != nil || price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	// Name+unit duplicates are rejected up front; the unique index
	// still backstops concurrent inserts.
	existing, err := s.repo.FindByNameUnit(ctx, s.db, name, unit)
	if err != nil {
		return domain.Product{}, err
	}
	if existing != nil {
		return domain.Product{}, domain.ErrDuplicateProduct
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		Unit:      unit,
		UnitPrice: price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrDuplicateProduct
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) List(ctx context.Context, _ domain.ListProductRequest) (domain.ListProductResponse, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		products = append(products, *item)
	}

	return domain.ListProductResponse{Products: products}, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (domain.Product, error) {
	item, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) UnitPriceByCode(ctx context.Context, code string) (int64, bool, error) {
	item, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return 0, false, err
	}
	if item == nil {
		return 0, false, nil
	}
	return item.UnitPrice, true, nil
}
