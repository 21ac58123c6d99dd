package formatter

import (
	"strings"
	"testing"

	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/pascalpat/sitelog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMeasure(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  string
		want  string
	}{
		{"whole hours", 8, "h", "8h"},
		{"fractional hours", 7.5, "h", "7.5h"},
		{"quantity with unit", 12.5, "m³", "12.5 m³"},
		{"no unit", 3, "", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMeasure(tt.value, tt.unit))
		})
	}
}

func TestFormatEntryRows_LaborColumns(t *testing.T) {
	st, err := report.StrategyFor(domain.CategoryLabor)
	require.NoError(t, err)

	out := FormatEntryRows(st, []EntryRow{
		{Provenance: domain.ProvenanceConfirmed, ID: "101", Label: "Marc Gagnon", Measure: "8h", Activity: "A1"},
		{Provenance: domain.ProvenanceStaged, Label: "Jean Tremblay", Measure: "4h", Activity: "A2"},
	})

	assert.Contains(t, out, "WORKER")
	assert.Contains(t, out, "HOURS")
	assert.Contains(t, out, "Marc Gagnon")
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "staged")
	// Drafts have no server id; they get a positional placeholder.
	assert.Contains(t, out, "s2")
}

func TestFormatEntryRows_NoteColumns(t *testing.T) {
	st, err := report.StrategyFor(domain.CategoryNote)
	require.NoError(t, err)

	out := FormatEntryRows(st, []EntryRow{
		{Provenance: domain.ProvenanceStaged, Label: "Site meeting", Note: "Rain delay in the morning"},
	})

	assert.NotContains(t, out, "HOURS")
	assert.NotContains(t, out, "ACTIVITY")
	assert.Contains(t, out, "Rain delay in the morning")
}

func TestFormatCatalogItems(t *testing.T) {
	out := FormatCatalogItems([]domain.CatalogItem{
		{ID: "A1", Kind: domain.KindActivityCode, Label: "A1", Description: "Excavation"},
		{ID: "7", Kind: domain.KindWorker, Label: "Marc Gagnon"},
	})

	assert.Contains(t, out, "A1 – Excavation")
	assert.Contains(t, out, "Marc Gagnon")

	assert.Contains(t, FormatCatalogItems(nil), "No items")
}

func TestFormatContext(t *testing.T) {
	out := FormatContext(repository.ReportContext{ProjectID: "P1", ReportDate: "2024-05-01"})
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "2024-05-01")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"ID", "NAME"}, [][]string{
		{"1", "short"},
		{"22", "a much longer value"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[3], "a much longer value")
}

func TestConfirmSummary(t *testing.T) {
	assert.Contains(t, ConfirmSummary(domain.CategoryLabor, 2), "2 Labor entries")
	assert.Contains(t, ConfirmSummary(domain.CategoryNote, 1), "1 Daily Notes entry")
}
