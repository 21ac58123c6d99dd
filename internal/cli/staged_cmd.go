package cli

import (
	"context"
	"fmt"

	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/spf13/cobra"
)

func newStagedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "staged CATEGORY",
		Short: "List the entries staged for confirmation",
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

			drafts := svc.Staged()
			if len(drafts) == 0 {
				fmt.Println("Nothing staged.")
				return nil
			}

			fmt.Printf("%s\n%s\n", formatter.Header(formatter.CategoryTitle(cat)+" (staged)"),
				formatter.FormatEntryRows(svc.Strategy(), draftRows(svc, drafts)))
			fmt.Println(formatter.Dim(fmt.Sprintf("Run: sitelog confirm %s", cat)))
			return nil
		},
	}
}

func newDiscardCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "discard CATEGORY [N]",
		Short: "Drop a staged entry (or the whole staging list)",
		Args:  cobra.RangeArgs(1, 2),
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

			if all {
				n := len(svc.Staged())
				if err := svc.DiscardAll(ctx); err != nil {
					return err
				}
				fmt.Printf("Discarded %d staged entries.\n", n)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("give the entry number from `sitelog staged %s`, or --all", cat)
			}
			draft, err := stagedByPosition(svc, args[1])
			if err != nil {
				return err
			}
			if err := svc.Discard(ctx, draft.ClientKey); err != nil {
				return err
			}
			fmt.Printf("Discarded %s.\n", svc.DraftLabel(draft))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Discard every staged entry in the category")

	return cmd
}

// stagedByPosition resolves the 1-based position shown by `sitelog staged`.
func stagedByPosition(svc *report.Service, arg string) (domain.DraftEntry, error) {
	drafts := svc.Staged()
	var n int
	if _, err := fmt.Sscanf(arg, "s%d", &n); err != nil {
		if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
			return domain.DraftEntry{}, fmt.Errorf("invalid entry number %q", arg)
		}
	}
	if n < 1 || n > len(drafts) {
		return domain.DraftEntry{}, fmt.Errorf("no staged entry %d (have %d)", n, len(drafts))
	}
	return drafts[n-1], nil
}

// draftRows resolves staged drafts into display rows with catalog labels.
func draftRows(svc *report.Service, drafts []domain.DraftEntry) []formatter.EntryRow {
	st := svc.Strategy()
	rows := make([]formatter.EntryRow, 0, len(drafts))
	for _, d := range drafts {
		activity, payment, cwp := svc.ClassificationLabels(d.Classification)
		row := formatter.EntryRow{
			Provenance:  domain.ProvenanceStaged,
			Label:       svc.DraftLabel(d),
			Activity:    activity,
			PaymentItem: payment,
			WorkPackage: cwp,
			Note:        d.Note,
		}
		if st.HasMeasure {
			row.Measure = formatter.FormatMeasure(d.Measure, st.MeasureUnit)
		}
		rows = append(rows, row)
	}
	return rows
}
