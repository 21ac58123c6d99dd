package cli

import (
	"context"
	"fmt"

	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the reference lists",
	}

	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogRefreshCmd(app),
	)

	return cmd
}

func resolveCatalogKind(input string) (domain.CatalogKind, error) {
	aliases := map[string]domain.CatalogKind{
		"workers":        domain.KindWorker,
		"equipment":      domain.KindEquipment,
		"activities":     domain.KindActivityCode,
		"activity-codes": domain.KindActivityCode,
		"payment-items":  domain.KindPaymentItem,
		"cwp":            domain.KindWorkPackage,
		"work-packages":  domain.KindWorkPackage,
	}
	kind, ok := aliases[input]
	if !ok {
		return "", fmt.Errorf("unknown catalog %q (workers, equipment, activities, payment-items, cwp)", input)
	}
	return kind, nil
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list KIND",
		Short: "List one reference catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := resolveCatalogKind(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			if !app.Cache.Loaded(kind) {
				if err := app.Cache.Load(ctx, kind); err != nil {
					return err
				}
			}

			fmt.Printf("%s\n%s\n", formatter.Header(args[0]), formatter.FormatCatalogItems(app.Cache.Items(kind)))
			return nil
		},
	}
}

func newCatalogRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch every reference catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := formatter.StartSpinner("Fetching catalogs...")
			err := app.Cache.Load(context.Background())
			stop()
			if err != nil {
				return err
			}

			for _, kind := range domain.AllCatalogKinds {
				fmt.Printf("  %s: %d items\n", kind, len(app.Cache.Items(kind)))
			}
			return nil
		},
	}
}
