package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/spf13/cobra"
)

func newEntriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "entries CATEGORY",
		Short: "Show the day's entries, confirmed and staged",
		Args:  cobra.ExactArgs(1),
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

			rows, err := svc.Merged(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No entries for this report yet.")
				return nil
			}

			scope := svc.Scope()
			fmt.Printf("%s\n%s\n",
				formatter.Header(fmt.Sprintf("%s — %s %s", formatter.CategoryTitle(cat), scope.ProjectID, scope.Date)),
				formatter.FormatEntryRows(svc.Strategy(), mergedRows(svc, rows)))
			return nil
		},
	}
}

// mergedRows resolves merged report rows into display rows.
func mergedRows(svc *report.Service, rows []report.Row) []formatter.EntryRow {
	st := svc.Strategy()
	out := make([]formatter.EntryRow, 0, len(rows))
	for _, r := range rows {
		switch r.Provenance {
		case domain.ProvenanceConfirmed:
			e := r.Confirmed
			row := formatter.EntryRow{
				Provenance:  domain.ProvenanceConfirmed,
				ID:          e.ServerID,
				Label:       e.Label,
				Activity:    e.ActivityLabel,
				PaymentItem: e.PaymentItemLabel,
				WorkPackage: e.WorkPackage,
				Note:        e.Note,
			}
			if st.HasMeasure {
				row.Measure = formatter.FormatMeasure(e.Measure, st.MeasureUnit)
			}
			out = append(out, row)
		case domain.ProvenanceStaged:
			out = append(out, draftRows(svc, []domain.DraftEntry{*r.Draft})...)
		}
	}
	return out
}

func newEditCmd(app *App) *cobra.Command {
	var hours, qty, activity, payment, cwp, workOrder, note string

	cmd := &cobra.Command{
		Use:   "edit CATEGORY ID",
		Short: "Edit one confirmed entry by its server id",
		Args:  cobra.ExactArgs(2),
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
			serverID := args[1]

			var update backend.EntryUpdate
			if cmd.Flags().Changed("hours") {
				v, err := strconv.ParseFloat(hours, 64)
				if err != nil {
					return fmt.Errorf("invalid hours %q", hours)
				}
				update.Hours = &v
			}
			if cmd.Flags().Changed("qty") {
				v, err := strconv.ParseFloat(qty, 64)
				if err != nil {
					return fmt.Errorf("invalid quantity %q", qty)
				}
				update.Quantity = &v
			}
			if cmd.Flags().Changed("activity") {
				update.ActivityCodeID = &activity
			}
			if cmd.Flags().Changed("payment-item") {
				update.PaymentItemID = &payment
			}
			if cmd.Flags().Changed("cwp") {
				update.CWP = &cwp
			}
			if cmd.Flags().Changed("work-order") {
				update.WorkOrderID = &workOrder
			}
			if cmd.Flags().Changed("note") {
				update.Note = &note
			}

			if update == (backend.EntryUpdate{}) {
				if !app.Interactive {
					return fmt.Errorf("nothing to change: pass at least one of --hours, --qty, --activity, --payment-item, --cwp, --work-order, --note")
				}
				update, err = editFormRun(ctx, svc, serverID)
				if err != nil {
					return err
				}
			}

			if err := svc.SaveEdit(ctx, serverID, update); err != nil {
				if errors.Is(err, backend.ErrNotFound) {
					return fmt.Errorf("entry %s no longer exists on the server", serverID)
				}
				return err
			}

			fmt.Printf("%s Entry #%s updated.\n", formatter.StyleGreen.Render("✓"), serverID)
			return nil
		},
	}

	cmd.Flags().StringVar(&hours, "hours", "", "New hours value")
	cmd.Flags().StringVar(&qty, "qty", "", "New quantity value")
	cmd.Flags().StringVar(&activity, "activity", "", "New activity code ID")
	cmd.Flags().StringVar(&payment, "payment-item", "", "New payment item ID")
	cmd.Flags().StringVar(&cwp, "cwp", "", "New work package code")
	cmd.Flags().StringVar(&workOrder, "work-order", "", "New work order ID")
	cmd.Flags().StringVar(&note, "note", "", "New note text")
	cmd.MarkFlagsMutuallyExclusive("hours", "qty")

	return cmd
}

// editFormRun opens an interactive form seeded from the entry's current
// values and returns only the fields the user changed.
func editFormRun(ctx context.Context, svc *report.Service, serverID string) (backend.EntryUpdate, error) {
	var update backend.EntryUpdate

	entries, err := svc.LoadConfirmed(ctx)
	if err != nil {
		return update, err
	}
	var current *domain.ConfirmedEntry
	for i := range entries {
		if entries[i].ServerID == serverID {
			current = &entries[i]
			break
		}
	}
	if current == nil {
		return update, fmt.Errorf("entry %s not found in today's report", serverID)
	}

	st := svc.Strategy()
	measure := strconv.FormatFloat(current.Measure, 'f', -1, 64)
	note := current.Note

	fields := []formField{}
	if st.HasMeasure {
		fields = append(fields, formField{title: measureFieldTitle(st), value: &measure, validate: validatePositiveNumber})
	}
	fields = append(fields, formField{title: "Note", value: &note})

	if err := runFieldForm(fmt.Sprintf("Edit %s #%s (%s)", formatter.CategoryTitle(st.Category), serverID, current.Label), fields); err != nil {
		return update, err
	}

	if st.HasMeasure && measure != strconv.FormatFloat(current.Measure, 'f', -1, 64) {
		v, err := strconv.ParseFloat(measure, 64)
		if err != nil {
			return update, fmt.Errorf("invalid %s %q", measureFieldTitle(st), measure)
		}
		if st.MeasureUnit == "h" {
			update.Hours = &v
		} else {
			update.Quantity = &v
		}
	}
	if note != current.Note {
		update.Note = &note
	}
	if update == (backend.EntryUpdate{}) {
		return update, fmt.Errorf("nothing changed")
	}
	return update, nil
}

func measureFieldTitle(st report.Strategy) string {
	if st.MeasureUnit == "h" {
		return "Hours"
	}
	return "Quantity"
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete CATEGORY ID",
		Short: "Delete one confirmed entry by its server id",
		Args:  cobra.ExactArgs(2),
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
			serverID := args[1]

			if !yes {
				if !app.Interactive {
					return fmt.Errorf("pass --yes to delete without a prompt")
				}
				var confirmed bool
				if err := confirmPrompt(fmt.Sprintf("Delete %s entry #%s?", formatter.CategoryTitle(cat), serverID), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := svc.Delete(ctx, serverID); err != nil {
				if errors.Is(err, backend.ErrNotFound) {
					return fmt.Errorf("entry %s no longer exists on the server", serverID)
				}
				return err
			}

			fmt.Printf("Deleted entry #%s.\n", serverID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
