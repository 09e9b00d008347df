package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicing/internal/clock"
	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	"github.com/smallbiznis/invoicing/internal/observability/metrics"
	productdomain "github.com/smallbiznis/invoicing/internal/product/domain"
	statusdomain "github.com/smallbiznis/invoicing/internal/status/domain"
	"github.com/smallbiznis/invoicing/pkg/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/smallbiznis/invoicing/internal/invoice/service")

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       invoicedomain.Repository
	StatusRepo statusdomain.Repository
	Products   productdomain.Lookup
	Colors     statusdomain.ColorTable
	Clock      clock.Clock      `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	repo       invoicedomain.Repository
	statusRepo statusdomain.Repository
	products   productdomain.Lookup
	colors     statusdomain.ColorTable
	clock      clock.Clock
	metrics    *metrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:      p.GenID,
		repo:       p.Repo,
		statusRepo: p.StatusRepo,
		products:   p.Products,
		colors:     p.Colors,
		clock:      clk,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, invoicedomain.ErrInvalidCurrency
	}

	clientID, err := parseOptionalID(req.ClientID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseOptionalID(req.SupplierID)
	if err != nil {
		return nil, err
	}
	paymentMethodID, err := parseOptionalID(req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	statusID, err := parseOptionalID(req.StatusID)
	if err != nil {
		return nil, err
	}

	if req.DueIn != nil && *req.DueIn < 0 {
		return nil, invoicedomain.ErrInvalidDueIn
	}

	issueDate := clock.Today(s.clock)
	if req.IssueDate != nil && !req.IssueDate.IsZero() {
		issueDate = req.IssueDate.UTC()
	}

	now := s.clock.Now()
	invoice := invoicedomain.Invoice{
		ID:              s.genID.Generate(),
		Number:          trimmedPtr(req.Number),
		ClientID:        clientID,
		SupplierID:      supplierID,
		PaymentMethodID: paymentMethodID,
		StatusID:        statusID,
		IssueDate:       issueDate,
		DueIn:           req.DueIn,
		PaymentAmount:   decimal.Zero,
		PaymentCurrency: currency,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, s.db, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) Get(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return invoice, nil
}

// Delete removes an invoice together with all of its line items.
func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if err := s.repo.DeleteLineItemsByInvoice(ctx, tx, invoiceID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, invoiceID)
	})
}

func (s *Service) startSpan(ctx context.Context, name string, invoiceID snowflake.ID) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("invoice.id", invoiceID.String())))
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := parseID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// decimalField describes the accepted range of a numeric line item input.
type decimalField struct {
	max     decimal.Decimal
	scale   int32
	invalid error
}

var (
	quantityField = decimalField{max: invoicedomain.MaxQuantity, scale: invoicedomain.QuantityScale, invalid: invoicedomain.ErrInvalidQuantity}
	priceField    = decimalField{max: invoicedomain.MaxPrice, scale: invoicedomain.UnitPriceScale, invalid: invoicedomain.ErrInvalidPrice}
	taxRateField  = decimalField{max: invoicedomain.MaxTaxRate, scale: invoicedomain.TaxRateScale, invalid: invoicedomain.ErrInvalidTaxRate}
)

// parseDecimal parses a non-negative decimal input that fits its column.
func parseDecimal(value string, field decimalField) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, field.invalid
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil || parsed.IsNegative() || !invoicedomain.InRange(parsed, field.max, field.scale) {
		return decimal.Zero, field.invalid
	}
	return parsed, nil
}
