package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/party/domain"
	"github.com/smallbiznis/facturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	dniRe   = regexp.MustCompile(`^\d{8}$`)
	phoneRe = regexp.MustCompile(`^\d{6,15}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
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
		log:   p.Log.Named("party.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Customer{}, domain.ErrInvalidCode
	}

	dni := strings.TrimSpace(req.DNI)
	if !dniRe.MatchString(dni) {
		return domain.Customer{}, domain.ErrInvalidDNI
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	phone := strings.TrimSpace(req.Phone)
	if phone != "" && !phoneRe.MatchString(phone) {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !emailRe.MatchString(email) {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	if conflict, err := s.customerConflict(ctx, code, dni, phone, email); err != nil {
		return domain.Customer{}, err
	} else if conflict != nil {
		return domain.Customer{}, conflict
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Code:      code,
		DNI:       dni,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     email,
		Street:    strings.TrimSpace(req.Street),
		District:  strings.TrimSpace(req.District),
		City:      strings.TrimSpace(req.City),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertCustomer(ctx, s.db, &customer); err != nil {
		// Pre-checks can lose a race; the unique index has the last word.
		// Re-run them to name the column that actually collided.
		if db.IsDuplicateKeyErr(err) {
			if conflict, checkErr := s.customerConflict(ctx, code, dni, phone, email); checkErr == nil && conflict != nil {
				return domain.Customer{}, conflict
			}
			return domain.Customer{}, domain.ErrDuplicateDNI
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

// customerConflict reports which unique customer field, if any, is already
// taken. The first hit wins, in code, dni, phone, email order.
func (s *Service) customerConflict(ctx context.Context, code, dni, phone, email string) (error, error) {
	checks := []struct {
		field string
		value string
		fail  error
	}{
		{"code", code, domain.ErrDuplicateCode},
		{"dni", dni, domain.ErrDuplicateDNI},
		{"phone", phone, domain.ErrDuplicatePhone},
		{"email", email, domain.ErrDuplicateEmail},
	}
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		taken, err := s.repo.CustomerFieldTaken(ctx, s.db, check.field, check.value)
		if err != nil {
			return nil, err
		}
		if taken {
			return check.fail, nil
		}
	}
	return nil, nil
}

func (s *Service) ListCustomers(ctx context.Context) (domain.ListCustomerResponse, error) {
	items, err := s.repo.ListCustomers(ctx, s.db)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{Customers: customers}, nil
}

func (s *Service) GetCustomerByCode(ctx context.Context, code string) (domain.Customer, error) {
	item, err := s.repo.FindCustomerByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) CreateSeller(ctx context.Context, req domain.CreateSellerRequest) (domain.Seller, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Seller{}, domain.ErrInvalidCode
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Seller{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	seller := domain.Seller{
		ID:        s.genID.Generate(),
		Code:      code,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertSeller(ctx, s.db, &seller); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Seller{}, domain.ErrDuplicateCode
		}
		return domain.Seller{}, err
	}

	return seller, nil
}

func (s *Service) ListSellers(ctx context.Context) (domain.ListSellerResponse, error) {
	items, err := s.repo.ListSellers(ctx, s.db)
	if err != nil {
		return domain.ListSellerResponse{}, err
	}

	sellers := make([]domain.Seller, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sellers = append(sellers, *item)
	}

	return domain.ListSellerResponse{Sellers: sellers}, nil
}

func (s *Service) GetSellerByCode(ctx context.Context, code string) (domain.Seller, error) {
	item, err := s.repo.FindSellerByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return domain.Seller{}, err
	}
	if item == nil {
		return domain.Seller{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetCompanyByCode(ctx context.Context, code string) (domain.Company, error) {
	item, err := s.repo.FindCompanyByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return domain.Company{}, err
	}
	if item == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *item, nil
}
