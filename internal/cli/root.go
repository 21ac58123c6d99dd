package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/db"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/pascalpat/sitelog/internal/repository"
	"github.com/spf13/cobra"
)

// App bundles the shared collaborators every CLI command works against.
type App struct {
	Contexts repository.ContextRepo
	Staged   repository.StagedEntryRepo
	UoW      db.UnitOfWork
	Cache    *catalog.Cache
	Backend  backend.Client

	// Interactive is set when stdout is a terminal; commands fall back
	// to flag-only operation otherwise.
	Interactive bool
}

// NewRootCmd creates the top-level "sitelog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitelog",
		Short: "Daily construction report entry and confirmation",
	}

	root.AddCommand(
		newUseCmd(app),
		newContextCmd(app),
		newCatalogCmd(app),
		newStageCmd(app),
		newStagedCmd(app),
		newDiscardCmd(app),
		newConfirmCmd(app),
		newEntriesCmd(app),
		newEditCmd(app),
		newDeleteCmd(app),
		newReviewCmd(app),
	)

	return root
}

// resolveCategory maps a command argument onto a report category,
// accepting a few common aliases.
func resolveCategory(input string) (domain.Category, error) {
	aliases := map[string]domain.Category{
		"labor":          domain.CategoryLabor,
		"labour":         domain.CategoryLabor,
		"workers":        domain.CategoryLabor,
		"equipment":      domain.CategoryEquipment,
		"material":       domain.CategoryMaterial,
		"materials":      domain.CategoryMaterial,
		"note":           domain.CategoryNote,
		"notes":          domain.CategoryNote,
		"subcontractor":  domain.CategorySubcontractor,
		"subcontractors": domain.CategorySubcontractor,
		"subs":           domain.CategorySubcontractor,
	}
	cat, ok := aliases[input]
	if !ok {
		return "", fmt.Errorf("unknown category %q (labor, equipment, material, note, subcontractor)", input)
	}
	return cat, nil
}

// activeContext loads the stored (project, date) pair and rejects an
// unset one before a command touches the ledger or the network.
func activeContext(ctx context.Context, app *App) (repository.ReportContext, error) {
	rc, err := app.Contexts.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ReportContext{}, fmt.Errorf("no report context set (run: sitelog use --project <id> --date YYYY-MM-DD)")
		}
		return repository.ReportContext{}, err
	}
	if err := rc.Validate(); err != nil {
		return repository.ReportContext{}, err
	}
	return *rc, nil
}

// reportService builds the per-category workflow service for the active
// context, loading the catalog cache on first use and rehydrating any
// drafts staged by earlier invocations.
func reportService(ctx context.Context, app *App, cat domain.Category) (*report.Service, error) {
	rc, err := activeContext(ctx, app)
	if err != nil {
		return nil, err
	}
	if !app.Cache.Loaded(domain.KindActivityCode) {
		if err := app.Cache.Load(ctx); err != nil {
			return nil, err
		}
	}
	return report.NewService(ctx, cat, rc, app.Cache, app.Backend, app.Staged, app.UoW)
}
