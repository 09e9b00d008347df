package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicing/internal/product/cache"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache *cache.ProductCache `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	cache *cache.ProductCache
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(req.SupplierID))
	if err != nil || supplierID == 0 {
		return nil, domain.ErrInvalidSupplier
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, domain.ErrInvalidCurrency
	}

	price, err := parseAmount(req.Price, domain.ErrInvalidPrice)
	if err != nil {
		return nil, err
	}
	taxRate, err := parseAmount(req.TaxRate, domain.ErrInvalidTaxRate)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate(),
		SupplierID:  supplierID,
		Code:        code,
		Name:        name,
		Description: descriptionPtr,
		Price:       price,
		Currency:    currency,
		TaxRate:     taxRate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Debug("product created", zap.String("product_id", p.ID.String()), zap.String("supplier_id", supplierID.String()))

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			item.Description = nil
		} else {
			item.Description = &description
		}
	}
	if req.Price != nil {
		price, err := parseAmount(*req.Price, domain.ErrInvalidPrice)
		if err != nil {
			return nil, err
		}
		item.Price = price
	}
	if req.TaxRate != nil {
		taxRate, err := parseAmount(*req.TaxRate, domain.ErrInvalidTaxRate)
		if err != nil {
			return nil, err
		}
		item.TaxRate = taxRate
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, item.ID)

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) ListBySupplier(ctx context.Context, supplierID string) ([]domain.Response, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(supplierID))
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidSupplier
	}

	items, err := s.repo.FindBySupplier(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// SetDefault makes the product the supplier's default, clearing any other.
func (s *Service) SetDefault(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetDefault(ctx, s.db, item.SupplierID, item.ID); err != nil {
		if db.IsNotFoundErr(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	item.IsDefault = true
	s.invalidate(ctx, item.ID)
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID == 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) invalidate(ctx context.Context, id snowflake.ID) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}

func parseAmount(raw string, invalid error) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return decimal.Zero, invalid
	}
	return value, nil
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:          p.ID.String(),
		SupplierID:  p.SupplierID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Currency:    p.Currency,
		TaxRate:     p.TaxRate.String(),
		IsDefault:   p.IsDefault,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}

	return resp
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
