package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	productdomain "github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"gorm.io/gorm"
)

const customItemName = "Custom item"

func (s *Service) ListLineItems(ctx context.Context, invoiceID string) ([]invoicedomain.LineItem, error) {
	id, err := parseID(invoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return s.repo.ListLineItems(ctx, s.db, id)
}

// AddLineItem appends a line to the invoice. Price and tax rate default to the
// product's current values when a product is referenced. The invoice payment
// amount is left untouched until the next recalculation.
func (s *Service) AddLineItem(ctx context.Context, req invoicedomain.AddLineItemRequest) (*invoicedomain.LineItem, error) {
	invoiceID, err := parseID(req.InvoiceID)
	if err != nil {
		return nil, err
	}
	productID, err := parseOptionalID(req.ProductID)
	if err != nil {
		return nil, err
	}
	quantity, err := parseDecimal(req.Quantity, quantityField)
	if err != nil {
		return nil, err
	}

	var product *productdomain.Product
	if productID != nil {
		product, err = s.products.FindByID(ctx, *productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, invoicedomain.ErrProductNotFound
		}
	}

	var price *decimal.Decimal
	taxRate := decimal.Zero
	if product != nil {
		price = &product.Price
		taxRate = product.TaxRate
	}
	if price, err = optionalDecimal(req.Price, price, priceField); err != nil {
		return nil, err
	}
	if price == nil {
		return nil, invoicedomain.ErrInvalidPrice
	}
	rate, err := optionalDecimal(req.TaxRate, &taxRate, taxRateField)
	if err != nil {
		return nil, err
	}

	if err := invoicedomain.CheckLineRange(*price, quantity, *rate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" && product != nil {
		name = product.Name
	}
	if name == "" {
		return nil, invoicedomain.ErrInvalidName
	}

	var item invoicedomain.LineItem
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}

		existing, err := s.repo.ListLineItems(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		position := 0
		for _, line := range existing {
			if line.Position >= position {
				position = line.Position + 1
			}
		}

		now := s.clock.Now()
		item = invoicedomain.LineItem{
			ID:              s.genID.Generate(),
			InvoiceID:       invoiceID,
			Position:        position,
			Name:            name,
			Quantity:        quantity,
			Price:           *price,
			Currency:        invoice.PaymentCurrency,
			TaxRate:         *rate,
			IsCustomProduct: product == nil,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if product != nil {
			item.ProductID = &product.ID
		}
		return s.repo.CreateLineItem(ctx, tx, &item)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLineItemChanges(ctx, "created", 1)
	return &item, nil
}

// UpdateLineItem changes the editable inputs of a line. Tax and total are
// always recomputed from the stored inputs on save.
func (s *Service) UpdateLineItem(ctx context.Context, req invoicedomain.UpdateLineItemRequest) (*invoicedomain.LineItem, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	var item *invoicedomain.LineItem
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		item, err = s.repo.FindLineItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return invoicedomain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invoicedomain.ErrInvalidName
			}
			item.Name = name
		}
		if req.Quantity != nil {
			if item.Quantity, err = parseDecimal(*req.Quantity, quantityField); err != nil {
				return err
			}
		}
		if req.Price != nil {
			if item.Price, err = parseDecimal(*req.Price, priceField); err != nil {
				return err
			}
		}
		if req.TaxRate != nil {
			if item.TaxRate, err = parseDecimal(*req.TaxRate, taxRateField); err != nil {
				return err
			}
		}

		if err := invoicedomain.CheckLineRange(item.Price, item.Quantity, item.TaxRate); err != nil {
			return err
		}
		item.UpdatedAt = s.clock.Now()
		return s.repo.UpdateLineItem(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLineItemChanges(ctx, "updated", 1)
	return item, nil
}

func (s *Service) RemoveLineItem(ctx context.Context, lineItemID string) error {
	id, err := parseID(lineItemID)
	if err != nil {
		return err
	}

	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		item, err := s.repo.FindLineItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return invoicedomain.ErrNotFound
		}
		return s.repo.DeleteLineItems(ctx, tx, []snowflake.ID{id})
	})
	if err != nil {
		return err
	}

	s.metrics.RecordLineItemChanges(ctx, "deleted", 1)
	return nil
}

// optionalDecimal parses value when present and returns fallback otherwise.
func optionalDecimal(value *string, fallback *decimal.Decimal, field decimalField) (*decimal.Decimal, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback, nil
	}
	parsed, err := parseDecimal(*value, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
