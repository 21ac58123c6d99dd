package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/repository"
	"github.com/spf13/cobra"
)

func newUseCmd(app *App) *cobra.Command {
	var project, date string

	cmd := &cobra.Command{
		Use:   "use",
		Short: "Set the active project and report date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("invalid report date %q: use YYYY-MM-DD", date)
			}

			ctx := context.Background()
			rc := &repository.ReportContext{
				ProjectID:  project,
				ReportDate: date,
				UpdatedAt:  time.Now(),
			}

			// Keep the other half when only one flag is given.
			if prev, err := app.Contexts.Get(ctx); err == nil {
				if project == "" {
					rc.ProjectID = prev.ProjectID
				}
				if !cmd.Flags().Changed("date") {
					rc.ReportDate = prev.ReportDate
				}
			}

			if err := rc.Validate(); err != nil {
				return err
			}
			if err := app.Contexts.Set(ctx, rc); err != nil {
				return err
			}

			fmt.Printf("Reporting on project %s for %s\n", rc.ProjectID, rc.ReportDate)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&date, "date", "", "Report date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newContextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Show the active project and report date",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := activeContext(context.Background(), app)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatContext(rc))
			return nil
		},
	}
}
