package service

import (
	"context"
	"time"

	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	statusdomain "github.com/smallbiznis/invoicing/internal/status/domain"
	"go.uber.org/zap"
)

func (s *Service) GetDueDate(invoice invoicedomain.Invoice) (time.Time, bool) {
	return invoice.DueDate()
}

// GetStatusColorClass always yields a color. Lookup failures are logged and
// rendered with the default color.
func (s *Service) GetStatusColorClass(ctx context.Context, invoice invoicedomain.Invoice) string {
	if invoice.StatusID == nil {
		return statusdomain.ColorClass(nil, s.colors)
	}

	status, err := s.statusRepo.FindByID(ctx, s.db, *invoice.StatusID)
	if err != nil {
		s.log.Warn("failed to load invoice status",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("status_id", invoice.StatusID.String()),
			zap.Error(err),
		)
		return statusdomain.ColorClass(nil, s.colors)
	}
	return statusdomain.ColorClass(status, s.colors)
}
