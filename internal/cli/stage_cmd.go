package cli

import (
	"context"
	"fmt"

	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	var form report.RawForm
	var measure string

	cmd := &cobra.Command{
		Use:   "stage CATEGORY",
		Short: "Validate an entry and add it to the staging list",
		Long: `Stage validates one entry and appends it to the category's staging
list. Nothing is sent to the backend until "sitelog confirm" flushes the
whole list in a single batch.

With no entry flags on a terminal, stage opens an interactive form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := resolveCategory(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, err := reportService(ctx, app, cat)
			if err != nil {
				return err
			}

			form.MeasureText = measure
			form.ManualMode = form.ManualMode || (form.ManualText != "" && form.CatalogID == "")

			if app.Interactive && !entryFlagsGiven(cmd) {
				f := stageForm(app.Cache, svc.Strategy(), &form)
				if err := f.Run(); err != nil {
					return err
				}
				// The form collects both a selection and a free-text name;
				// a typed name wins.
				form.ManualMode = form.ManualText != ""
			}

			draft, err := svc.Stage(ctx, form)
			if err != nil {
				return err
			}

			label := svc.DraftLabel(draft)
			var measureStr string
			if svc.Strategy().HasMeasure {
				measureStr = formatter.FormatMeasure(draft.Measure, svc.Strategy().MeasureUnit)
			}
			fmt.Println(formatter.StagedSummary(label, measureStr))
			fmt.Println(formatter.Dim(fmt.Sprintf("%d entries staged. Run: sitelog confirm %s", len(svc.Staged()), cat)))
			return nil
		},
	}

	cmd.Flags().StringVar(&form.CatalogID, "id", "", "Catalog item ID (worker or equipment)")
	cmd.Flags().StringVar(&form.ManualText, "name", "", "Free-text name for entries not in the catalog")
	cmd.Flags().BoolVar(&form.ManualMode, "manual", false, "Force manual entry even when --id is set")
	cmd.Flags().StringVar(&measure, "hours", "", "Hours worked or used")
	cmd.Flags().StringVar(&measure, "qty", "", "Quantity consumed")
	cmd.Flags().StringVar(&form.ActivityCodeID, "activity", "", "Activity code ID")
	cmd.Flags().StringVar(&form.PaymentItemID, "payment-item", "", "Payment item ID")
	cmd.Flags().StringVar(&form.WorkPackageID, "cwp", "", "Work package code")
	cmd.Flags().StringVar(&form.WorkOrderID, "work-order", "", "Work order ID")
	cmd.Flags().StringVar(&form.NoteText, "note", "", "Note text")
	cmd.MarkFlagsMutuallyExclusive("hours", "qty")

	return cmd
}

// entryFlagsGiven reports whether any entry-content flag was set, which
// switches stage into non-interactive mode.
func entryFlagsGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"id", "name", "manual", "hours", "qty", "activity", "payment-item", "cwp", "work-order", "note"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
