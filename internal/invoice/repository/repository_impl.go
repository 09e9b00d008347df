package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicing/internal/invoice/domain"
	"github.com/smallbiznis/invoicing/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return repository.ProvideStore[domain.Invoice](db).Create(ctx, invoice)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	return repository.ProvideStore[domain.Invoice](db).FindOne(ctx, &domain.Invoice{ID: id})
}

// FindByIDForUpdate locks the invoice row for the rest of the transaction.
// SQLite ignores the locking clause and serializes writers instead.
func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	stmt := db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var invoice domain.Invoice
	err := stmt.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// UpdatePaymentAmount stores the recalculated total. MySQL reports zero
// affected rows when nothing changed, so a miss is confirmed with a count.
func (r *repo) UpdatePaymentAmount(ctx context.Context, db *gorm.DB, id snowflake.ID, amount decimal.Decimal, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_amount": amount.Round(domain.MoneyScale),
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&domain.Invoice{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return repository.ProvideStore[domain.Invoice](db).Delete(ctx, id)
}

func (r *repo) ListLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.LineItem, error) {
	var items []domain.LineItem
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindLineItem(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.LineItem, error) {
	if id == 0 {
		return nil, nil
	}
	return repository.ProvideStore[domain.LineItem](db).FindOne(ctx, &domain.LineItem{ID: id})
}

func (r *repo) CreateLineItem(ctx context.Context, db *gorm.DB, item *domain.LineItem) error {
	return repository.ProvideStore[domain.LineItem](db).Create(ctx, item)
}

func (r *repo) UpdateLineItem(ctx context.Context, db *gorm.DB, item *domain.LineItem) error {
	if item == nil || item.ID == 0 {
		return gorm.ErrInvalidData
	}
	return repository.ProvideStore[domain.LineItem](db).Save(ctx, item)
}

func (r *repo) DeleteLineItems(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.LineItem{}).Error
}

func (r *repo) DeleteLineItemsByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&domain.LineItem{}).Error
}
