package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/spf13/cobra"
)

func newConfirmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm CATEGORY",
		Short: "Send every staged entry to the backend in one batch",
		Long: `Confirm submits the category's whole staging list in a single request.
Either every entry is accepted or none are: on failure the staging list
is left untouched and can be confirmed again.`,
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

			stop := formatter.StartSpinner(fmt.Sprintf("Confirming %d entries...", len(svc.Staged())))
			records, err := svc.Confirm(ctx)
			stop()

			if err != nil {
				if errors.Is(err, report.ErrNothingStaged) {
					fmt.Println("Nothing staged.")
					return nil
				}
				if !errors.Is(err, report.ErrStaleSnapshot) {
					return fmt.Errorf("confirm failed, staged entries kept: %w", err)
				}
				// Accepted server-side; only the local snapshot is dirty.
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}

			fmt.Println(formatter.ConfirmSummary(cat, len(records)))
			for _, rec := range records {
				fmt.Printf("  %s %s\n", formatter.Dim("#"+rec.ServerID), rec.Label)
			}
			return nil
		},
	}
}
