package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/status/domain"
	"github.com/smallbiznis/invoicing/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Status, error) {
	if id == 0 {
		return nil, nil
	}
	return repository.ProvideStore[domain.Status](db).FindOne(ctx, &domain.Status{ID: id})
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, value string) (*domain.Status, error) {
	normalized := domain.NormalizeSlug(value)
	if normalized == "" {
		return nil, nil
	}
	return repository.ProvideStore[domain.Status](db).FindOne(ctx, &domain.Status{Slug: normalized})
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, status *domain.Status) error {
	if strings.TrimSpace(status.Slug) == "" {
		status.Slug = status.Name
	}
	status.Slug = domain.NormalizeSlug(status.Slug)
	return repository.ProvideStore[domain.Status](db).Create(ctx, status)
}
