package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	"github.com/smallbiznis/invoicing/internal/observability/metrics"
	productdomain "github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type syncResult struct {
	created   int
	updated   int
	deleted   int
	unchanged int
}

// SyncLineItemsFromPayload reconciles the invoice's line items with the JSON
// payload. Lines are matched by position: matching lines are updated in place,
// extra payload lines are created and surplus persisted lines are deleted.
// A malformed payload changes nothing and is not reported as an error.
func (s *Service) SyncLineItemsFromPayload(ctx context.Context, invoiceID string, raw string) error {
	id, err := parseID(invoiceID)
	if err != nil {
		return err
	}

	ctx, span := s.startSpan(ctx, "invoice.SyncLineItemsFromPayload", id)
	defer span.End()
	started := time.Now()

	payload, err := invoicedomain.ParseSyncPayload(raw)
	if err != nil {
		s.skipMalformed(ctx, id, err)
		span.SetAttributes(attribute.String("sync.outcome", metrics.SyncOutcomeMalformed))
		return nil
	}

	products, err := s.resolveProducts(ctx, id, payload)
	if err != nil {
		span.RecordError(err)
		return err
	}

	var result syncResult
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		result, err = s.applyPayload(ctx, tx, invoice, payload, products)
		return err
	})
	if err != nil {
		s.metrics.RecordSync(ctx, metrics.SyncOutcomeFailed, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.recordApplied(ctx, id, result, time.Since(started))
	return nil
}

// SyncLegacyNotes treats the invoice notes as the item payload, reconciles
// the line items and refreshes the payment amount in one transaction.
func (s *Service) SyncLegacyNotes(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	id, err := parseID(invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	ctx, span := s.startSpan(ctx, "invoice.SyncLegacyNotes", id)
	defer span.End()
	started := time.Now()

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return decimal.Zero, err
	}
	if invoice == nil {
		return decimal.Zero, invoicedomain.ErrNotFound
	}

	raw := ""
	if invoice.Notes != nil {
		raw = *invoice.Notes
	}
	payload, perr := invoicedomain.ParseSyncPayload(raw)
	applied := perr == nil
	if !applied {
		s.skipMalformed(ctx, id, perr)
	}

	var products map[snowflake.ID]*productdomain.Product
	if applied {
		if products, err = s.resolveProducts(ctx, id, payload); err != nil {
			span.RecordError(err)
			return decimal.Zero, err
		}
	}

	var (
		total  decimal.Decimal
		result syncResult
	)
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		locked, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return invoicedomain.ErrNotFound
		}
		if applied {
			if result, err = s.applyPayload(ctx, tx, locked, payload, products); err != nil {
				return err
			}
		}
		total, err = s.recalculate(ctx, tx, id)
		return err
	})
	if err != nil {
		if applied {
			s.metrics.RecordSync(ctx, metrics.SyncOutcomeFailed, 0)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, err
	}

	if applied {
		s.recordApplied(ctx, id, result, time.Since(started))
	}
	return total, nil
}

// resolveProducts looks up every product the payload references before any
// row is locked. Unknown products map to nil.
func (s *Service) resolveProducts(ctx context.Context, invoiceID snowflake.ID, payload invoicedomain.SyncPayload) (map[snowflake.ID]*productdomain.Product, error) {
	products := make(map[snowflake.ID]*productdomain.Product)
	for position, item := range payload.Items {
		if item.ProductID == nil {
			continue
		}
		if _, seen := products[*item.ProductID]; seen {
			continue
		}
		product, err := s.products.FindByID(ctx, *item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			s.log.Info("payload references unknown product, storing custom item",
				zap.String("invoice_id", invoiceID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("position", position),
			)
		}
		products[*item.ProductID] = product
	}
	return products, nil
}

func (s *Service) applyPayload(
	ctx context.Context,
	tx *gorm.DB,
	invoice *invoicedomain.Invoice,
	payload invoicedomain.SyncPayload,
	products map[snowflake.ID]*productdomain.Product,
) (syncResult, error) {
	var result syncResult

	existing, err := s.repo.ListLineItems(ctx, tx, invoice.ID)
	if err != nil {
		return result, err
	}

	now := s.clock.Now()
	for position, item := range payload.Items {
		desired := s.desiredLineItem(ctx, invoice, position, item, products)

		if position >= len(existing) {
			desired.ID = s.genID.Generate()
			desired.CreatedAt = now
			desired.UpdatedAt = now
			if err := s.repo.CreateLineItem(ctx, tx, &desired); err != nil {
				return result, err
			}
			result.created++
			continue
		}

		current := existing[position]
		if sameLine(current, desired) {
			result.unchanged++
			continue
		}

		current.ProductID = desired.ProductID
		current.Position = desired.Position
		current.Name = desired.Name
		current.Quantity = desired.Quantity
		current.Price = desired.Price
		current.Currency = desired.Currency
		current.TaxRate = desired.TaxRate
		current.IsCustomProduct = desired.IsCustomProduct
		current.UpdatedAt = now
		if err := s.repo.UpdateLineItem(ctx, tx, &current); err != nil {
			return result, err
		}
		result.updated++
	}

	if len(existing) > len(payload.Items) {
		stale := make([]snowflake.ID, 0, len(existing)-len(payload.Items))
		for _, line := range existing[len(payload.Items):] {
			stale = append(stale, line.ID)
		}
		if err := s.repo.DeleteLineItems(ctx, tx, stale); err != nil {
			return result, err
		}
		result.deleted = len(stale)
	}

	return result, nil
}

// desiredLineItem builds the line described by one payload entry. A product
// reference that cannot be resolved turns the line into a custom item.
func (s *Service) desiredLineItem(
	ctx context.Context,
	invoice *invoicedomain.Invoice,
	position int,
	item invoicedomain.SyncItem,
	products map[snowflake.ID]*productdomain.Product,
) invoicedomain.LineItem {
	line := invoicedomain.LineItem{
		InvoiceID:       invoice.ID,
		Position:        position,
		Name:            strings.TrimSpace(item.Name),
		Quantity:        item.Quantity,
		Price:           item.Price,
		Currency:        invoice.PaymentCurrency,
		TaxRate:         item.TaxRate,
		IsCustomProduct: true,
	}

	if item.ProductID != nil {
		if product := products[*item.ProductID]; product != nil {
			line.ProductID = &product.ID
			line.IsCustomProduct = false
			if line.Name == "" {
				line.Name = product.Name
			}
		} else {
			s.metrics.RecordCustomFallback(ctx, "not_found")
		}
	}
	if line.Name == "" {
		line.Name = customItemName
	}

	line.Normalize()
	line.Recalculate()
	return line
}

// sameLine reports whether the persisted line already matches the desired one,
// including its derived amounts.
func sameLine(current, desired invoicedomain.LineItem) bool {
	if !sameProduct(current.ProductID, desired.ProductID) {
		return false
	}
	return current.Position == desired.Position &&
		current.Name == desired.Name &&
		current.Currency == desired.Currency &&
		current.IsCustomProduct == desired.IsCustomProduct &&
		current.Quantity.Equal(desired.Quantity) &&
		current.Price.Equal(desired.Price) &&
		current.TaxRate.Equal(desired.TaxRate) &&
		current.TaxAmount.Equal(desired.TaxAmount) &&
		current.TotalPrice.Equal(desired.TotalPrice)
}

func sameProduct(a, b *snowflake.ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Service) skipMalformed(ctx context.Context, invoiceID snowflake.ID, err error) {
	s.metrics.RecordSync(ctx, metrics.SyncOutcomeMalformed, 0)
	s.log.Warn("ignoring malformed line item payload",
		zap.String("invoice_id", invoiceID.String()),
		zap.Error(err),
	)
}

func (s *Service) recordApplied(ctx context.Context, invoiceID snowflake.ID, result syncResult, elapsed time.Duration) {
	s.metrics.RecordSync(ctx, metrics.SyncOutcomeApplied, elapsed)
	s.metrics.RecordLineItemChanges(ctx, "created", result.created)
	s.metrics.RecordLineItemChanges(ctx, "updated", result.updated)
	s.metrics.RecordLineItemChanges(ctx, "deleted", result.deleted)
	s.log.Info("synchronized invoice line items",
		zap.String("invoice_id", invoiceID.String()),
		zap.Int("created", result.created),
		zap.Int("updated", result.updated),
		zap.Int("deleted", result.deleted),
		zap.Int("unchanged", result.unchanged),
		zap.Duration("elapsed", elapsed),
	)
}
