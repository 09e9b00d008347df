package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/supplier/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"github.com/smallbiznis/invoicing/pkg/db/option"
	"github.com/smallbiznis/invoicing/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var sortable = map[string]bool{"created_at": true, "name": true}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	supplierrepo repository.Repository[domain.Supplier]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("supplier.service"),

		genID:        p.GenID,
		supplierrepo: repository.ProvideStore[domain.Supplier](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Supplier, error) {
	ownerID, err := snowflake.ParseString(strings.TrimSpace(req.OwnerID))
	if err != nil || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, domain.ErrInvalidCurrency
	}

	count, err := s.supplierrepo.Count(ctx, &domain.Supplier{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	supplier := &domain.Supplier{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Name:      name,
		Currency:  currency,
		IsDefault: count == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supplierrepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || supplierID == 0 {
		return nil, domain.ErrInvalidID
	}

	supplier, err := s.supplierrepo.FindOne(ctx, &domain.Supplier{ID: supplierID})
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return supplier, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Supplier, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(ownerID))
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidOwner
	}
	return s.supplierrepo.Find(ctx, &domain.Supplier{OwnerID: parsed},
		option.WithSortBy(option.WithQuerySortBy("created_at", "asc", sortable)),
	)
}

// SetDefault makes the supplier its owner's default profile.
func (s *Service) SetDefault(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.supplierrepo.SetDefault(ctx, "owner_id", supplier.OwnerID, supplier.ID); err != nil {
		if db.IsNotFoundErr(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	s.log.Info("default supplier changed",
		zap.String("owner_id", supplier.OwnerID.String()),
		zap.String("supplier_id", supplier.ID.String()),
	)
	supplier.IsDefault = true
	return supplier, nil
}
