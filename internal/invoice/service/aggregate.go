package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) GetSubtotal(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	totals, err := s.Summarize(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Subtotal, nil
}

func (s *Service) GetTotalTax(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	totals, err := s.Summarize(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.TaxTotal, nil
}

// Summarize aggregates the persisted line items without writing anything.
func (s *Service) Summarize(ctx context.Context, invoiceID string) (invoicedomain.Totals, error) {
	id, err := parseID(invoiceID)
	if err != nil {
		return invoicedomain.Totals{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Totals{}, err
	}
	if invoice == nil {
		return invoicedomain.Totals{}, invoicedomain.ErrNotFound
	}

	items, err := s.repo.ListLineItems(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Totals{}, err
	}
	return invoicedomain.Summarize(items), nil
}

// CalculateTotalAmount sums the line item totals and stores the result as the
// invoice payment amount. Repeated calls over unchanged items store the same value.
func (s *Service) CalculateTotalAmount(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	id, err := parseID(invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	ctx, span := s.startSpan(ctx, "invoice.CalculateTotalAmount", id)
	defer span.End()

	var total decimal.Decimal
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		total, err = s.recalculate(ctx, tx, id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, err
	}
	return total, nil
}

// recalculate must run on a transaction that already holds the invoice row.
func (s *Service) recalculate(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) (decimal.Decimal, error) {
	items, err := s.repo.ListLineItems(ctx, tx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	totals := invoicedomain.Summarize(items)
	if err := s.repo.UpdatePaymentAmount(ctx, tx, invoiceID, totals.Total, s.clock.Now()); err != nil {
		if db.IsNotFoundErr(err) {
			return decimal.Zero, invoicedomain.ErrNotFound
		}
		return decimal.Zero, err
	}

	s.metrics.RecordRecalculation(ctx)
	s.log.Debug("recalculated invoice payment amount",
		zap.String("invoice_id", invoiceID.String()),
		zap.Int("line_items", len(items)),
		zap.String("payment_amount", totals.Total.StringFixed(invoicedomain.MoneyScale)),
	)
	return totals.Total, nil
}
