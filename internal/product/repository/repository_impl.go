package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, price = ?, tax_rate = ?, active = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Description,
		product.Price,
		product.TaxRate,
		product.Active,
		product.Metadata,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	if id == 0 {
		return nil, nil
	}
	return repository.ProvideStore[domain.Product](db).FindOne(ctx, &domain.Product{ID: id})
}

func (r *repo) FindBySupplier(ctx context.Context, db *gorm.DB, supplierID snowflake.ID) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetDefault(ctx context.Context, db *gorm.DB, supplierID, id snowflake.ID) error {
	return repository.ProvideStore[domain.Product](db).SetDefault(ctx, "supplier_id", supplierID, id)
}
