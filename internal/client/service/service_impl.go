package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/client/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"github.com/smallbiznis/invoicing/pkg/db/option"
	"github.com/smallbiznis/invoicing/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	clientrepo repository.Repository[domain.Client]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("client.service"),

		genID:      p.GenID,
		clientrepo: repository.ProvideStore[domain.Client](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Client, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(req.SupplierID))
	if err != nil || supplierID == 0 {
		return nil, domain.ErrInvalidSupplier
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	var email *string
	if req.Email != nil {
		if trimmed := strings.ToLower(strings.TrimSpace(*req.Email)); trimmed != "" {
			email = &trimmed
		}
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:         s.genID.Generate(),
		SupplierID: supplierID,
		Name:       name,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.clientrepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Client, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || clientID == 0 {
		return nil, domain.ErrInvalidID
	}

	client, err := s.clientrepo.FindOne(ctx, &domain.Client{ID: clientID})
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (s *Service) ListBySupplier(ctx context.Context, supplierID string) ([]*domain.Client, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(supplierID))
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidSupplier
	}
	return s.clientrepo.Find(ctx, &domain.Client{SupplierID: parsed},
		option.WithSortBy(option.WithQuerySortBy("name", "asc", map[string]bool{"name": true})),
	)
}

// SetDefault marks the client as the one preselected on new invoices of its supplier.
func (s *Service) SetDefault(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.clientrepo.SetDefault(ctx, "supplier_id", client.SupplierID, client.ID); err != nil {
		if db.IsNotFoundErr(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	client.IsDefault = true
	return client, nil
}
