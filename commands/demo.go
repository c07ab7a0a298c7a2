// Package commands holds the extra subcommands registered on the PocketBase
// root command.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"boqtracker/boq"
	"boqtracker/config"
	"boqtracker/services"
)

// NewDemoCommand returns the boq-demo command. It runs the create, approve
// and purchase request flow against an in-memory registry and prints each
// step; no database is touched. settings is read when the command runs so
// root flags are already parsed.
func NewDemoCommand(settings *config.Settings) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "boq-demo",
		Short: "Walk a BOQ through approval and raise a dry-run purchase order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			}
			return RunDemo(cmd.OutOrStdout(), *settings, logger, time.Now)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every service command to stderr")
	return cmd
}

var demoItems = []struct {
	code, description, uom string
	qty                    float64
	rate                   int64
}{
	{"CIV-01", "Gypsum board partition, 75mm", "Sqm", 120, 185000},
	{"ELE-01", "LED panel light 2x2, 36W", "Nos", 48, 210000},
	{"", "FRLS copper wiring, 2.5 sq mm", "Rmt", 650.5, 4850},
}

// RunDemo runs the walk-through and writes a report to out.
func RunDemo(out io.Writer, settings config.Settings, logger *slog.Logger, now func() time.Time) error {
	purchasing := &services.DryRunPurchaseRequests{}
	svc := services.NewBOQService(services.BOQServiceOptions{
		Projects:   services.StaticProjectDirectory{"demo": "Demo Campus"},
		Purchasing: purchasing,
		Settings:   settings,
		Logger:     logger,
		Now:        now,
	})

	b, err := svc.CreateBOQ(services.CreateBOQInput{
		Title:     "Demo Fit-out",
		ProjectID: "demo",
		Priority:  boq.PriorityHigh,
	}, "planner")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	fmt.Fprintf(out, "Created %s %q for %s (contingency %s)\n",
		b.ID, b.Title, b.Project.Name, services.FormatPercentBP(b.ContingencyBP))

	for _, it := range demoItems {
		qty, rate := it.qty, it.rate
		b, err = svc.AddItem(b.ID, boq.ItemFields{
			Code: it.code, Description: it.description, UOM: it.uom,
			Quantity: &qty, Rate: &rate,
		}, "planner")
		if err != nil {
			return fmt.Errorf("add item %q: %w", it.description, err)
		}
		last := b.Items[len(b.Items)-1]
		fmt.Fprintf(out, "  %-8s %-32s %10s %-4s @ %12s = %14s\n",
			last.Code, last.Description, services.FormatQty(last.Quantity), last.UOM,
			services.FormatMinor(last.Rate), services.FormatMinor(last.Amount))
	}

	steps := []struct {
		label string
		run   func() (boq.BOQ, error)
	}{
		{"Submitted", func() (boq.BOQ, error) { return svc.SubmitForApproval(b.ID, "planner") }},
		{"In review", func() (boq.BOQ, error) { return svc.BeginReview(b.ID, "reviewer") }},
		{"Approved", func() (boq.BOQ, error) { return svc.Approve(b.ID, "reviewer") }},
	}
	for _, step := range steps {
		if b, err = step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.label, err)
		}
		fmt.Fprintf(out, "%s (version %d)\n", step.label, b.Version)
	}

	fmt.Fprintf(out, "Subtotal     %s\n", services.FormatMinor(b.Subtotal))
	fmt.Fprintf(out, "Contingency  %s\n", services.FormatMinor(b.Contingency))
	fmt.Fprintf(out, "Final amount %s\n", services.FormatMinor(b.FinalAmount))

	conf, err := svc.CreatePurchaseRequest(b.ID, "buyer")
	if err != nil {
		return fmt.Errorf("purchase request: %w", err)
	}
	fmt.Fprintf(out, "Raised %s with %s line items: %s\n",
		conf.PONumber, humanize.Comma(int64(conf.LineItems)), conf.AmountInWords)

	stats := svc.Stats()
	fmt.Fprintf(out, "%s BOQ(s), %s paise approved\n",
		humanize.Comma(int64(stats.Total)), humanize.Comma(stats.TotalFinalAmount))
	return nil
}
