package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/pascalpat/sitelog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewFixture(t *testing.T) (*reviewModel, *report.Service) {
	t.Helper()
	app, _ := testApp(t)
	require.NoError(t, app.Contexts.Set(context.Background(), &repository.ReportContext{
		ProjectID: "P1", ReportDate: "2024-05-01",
	}))

	svc, err := reportService(context.Background(), app, domain.CategoryLabor)
	require.NoError(t, err)
	return newReviewModel(svc), svc
}

// drive applies one message and returns the updated model.
func drive(t *testing.T, m tea.Model, msg tea.Msg) *reviewModel {
	t.Helper()
	updated, _ := m.Update(msg)
	rm, ok := updated.(*reviewModel)
	require.True(t, ok)
	return rm
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReviewModel_LoadPopulatesRows(t *testing.T) {
	m, svc := newReviewFixture(t)

	_, err := svc.Stage(context.Background(), report.RawForm{
		CatalogID: "7", MeasureText: "8", ActivityCodeID: "A1",
	})
	require.NoError(t, err)

	rows, err := svc.Merged(context.Background())
	require.NoError(t, err)

	m = drive(t, m, rowsLoadedMsg{rows: rows})
	assert.False(t, m.loading)
	require.Len(t, m.rows, 1)
	assert.Contains(t, m.View(), "Marc Gagnon")
	assert.Contains(t, m.View(), "staged")
}

func TestReviewModel_DiscardOnlyTouchesStagedRows(t *testing.T) {
	m, svc := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.Stage(ctx, report.RawForm{CatalogID: "7", MeasureText: "8", ActivityCodeID: "A1"})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx)
	require.NoError(t, err)
	_, err = svc.Stage(ctx, report.RawForm{ManualMode: true, ManualText: "Jean Tremblay", MeasureText: "4", ActivityCodeID: "A2"})
	require.NoError(t, err)

	rows, err := svc.Merged(ctx)
	require.NoError(t, err)
	m = drive(t, m, rowsLoadedMsg{rows: rows})
	require.Len(t, m.rows, 2)

	// Cursor starts on the confirmed row; discard refuses it.
	m = drive(t, m, keyMsg("d"))
	assert.Len(t, svc.Staged(), 1)
	assert.Contains(t, m.status, "Only staged entries")

	// Move down to the staged row and discard it.
	m = drive(t, m, keyMsg("j"))
	m = drive(t, m, keyMsg("d"))
	assert.Empty(t, svc.Staged())
}

func TestReviewModel_ConfirmWithNothingStaged(t *testing.T) {
	m, _ := newReviewFixture(t)
	m = drive(t, m, rowsLoadedMsg{})

	m = drive(t, m, keyMsg("c"))
	assert.False(t, m.loading)
	assert.Contains(t, m.status, "Nothing staged")
}

func TestReviewModel_ConfirmDoneReloads(t *testing.T) {
	m, svc := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.Stage(ctx, report.RawForm{CatalogID: "7", MeasureText: "8", ActivityCodeID: "A1"})
	require.NoError(t, err)

	m = drive(t, m, rowsLoadedMsg{rows: mustMerged(t, svc)})

	updated, cmd := m.Update(keyMsg("c"))
	m = updated.(*reviewModel)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	m = drive(t, m, confirmDoneMsg{count: 1})
	assert.Contains(t, m.status, "Confirmed 1")
}

func mustMerged(t *testing.T, svc *report.Service) []report.Row {
	t.Helper()
	rows, err := svc.Merged(context.Background())
	require.NoError(t, err)
	return rows
}
