package repository

import (
	"context"

	"github.com/smallbiznis/invoicing/pkg/db/option"
)

// Repository is a generic gorm-backed store for a single model type.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Save(ctx context.Context, resource *T) error
	Delete(ctx context.Context, resourceID any) error
	Count(ctx context.Context, query *T) (int64, error)
	SetDefault(ctx context.Context, ownerColumn string, ownerID, resourceID any) error
}
