package main

import (
	"context"
	"encoding/json"
	"time"

	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newRecalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "recalculate <invoice-id>",
		Short:   "Recompute and store the invoice payment amount",
		Example: "  invoicing recalculate 1790321473120133120",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc invoicedomain.Service
			return runApp(cmd.Context(), func(ctx context.Context) error {
				total, err := svc.CalculateTotalAmount(ctx, args[0])
				if err != nil {
					return err
				}
				cmd.Println(total.StringFixed(invoicedomain.MoneyScale))
				return nil
			}, fx.Populate(&svc))
		},
	}
}

func newSyncLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-legacy <invoice-id>",
		Short: "Rebuild line items from the JSON kept in the invoice notes",
		Long: `sync-legacy reads the item list stored in the invoice notes, reconciles
the line items with it and recomputes the payment amount. Notes that do not
hold a valid item list leave the line items unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc invoicedomain.Service
			return runApp(cmd.Context(), func(ctx context.Context) error {
				total, err := svc.SyncLegacyNotes(ctx, args[0])
				if err != nil {
					return err
				}
				cmd.Println(total.StringFixed(invoicedomain.MoneyScale))
				return nil
			}, fx.Populate(&svc))
		},
	}
}

type invoiceView struct {
	Invoice    *invoicedomain.Invoice   `json:"invoice"`
	LineItems  []invoicedomain.LineItem `json:"line_items"`
	Subtotal   string                   `json:"subtotal"`
	TaxTotal   string                   `json:"tax_total"`
	Total      string                   `json:"total"`
	DueDate    *string                  `json:"due_date"`
	ColorClass string                   `json:"color_class"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <invoice-id>",
		Short: "Print an invoice with its line items and computed totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc invoicedomain.Service
			return runApp(cmd.Context(), func(ctx context.Context) error {
				view, err := buildInvoiceView(ctx, svc, args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}, fx.Populate(&svc))
		},
	}
}

func buildInvoiceView(ctx context.Context, svc invoicedomain.Service, id string) (invoiceView, error) {
	invoice, err := svc.Get(ctx, id)
	if err != nil {
		return invoiceView{}, err
	}
	items, err := svc.ListLineItems(ctx, id)
	if err != nil {
		return invoiceView{}, err
	}
	totals, err := svc.Summarize(ctx, id)
	if err != nil {
		return invoiceView{}, err
	}

	view := invoiceView{
		Invoice:    invoice,
		LineItems:  items,
		Subtotal:   totals.Subtotal.StringFixed(invoicedomain.MoneyScale),
		TaxTotal:   totals.TaxTotal.StringFixed(invoicedomain.MoneyScale),
		Total:      totals.Total.StringFixed(invoicedomain.MoneyScale),
		ColorClass: svc.GetStatusColorClass(ctx, *invoice),
	}
	if due, ok := svc.GetDueDate(*invoice); ok {
		formatted := due.Format(time.DateOnly)
		view.DueDate = &formatted
	}
	return view, nil
}
