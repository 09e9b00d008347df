package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"gorm.io/gorm"
)

type lookup struct {
	db   *gorm.DB
	repo domain.Repository
}

// NewLookup returns a repository-backed product lookup.
func NewLookup(db *gorm.DB, repo domain.Repository) domain.Lookup {
	return &lookup{db: db, repo: repo}
}

func (l *lookup) FindByID(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	return l.repo.FindByID(ctx, l.db, id)
}
