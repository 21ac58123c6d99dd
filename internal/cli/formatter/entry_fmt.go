package formatter

import (
	"fmt"
	"strconv"

	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/pascalpat/sitelog/internal/repository"
)

// EntryRow is one display row of the report tab, staged or confirmed.
// Label and classification fields arrive already resolved to catalog
// labels; ID is the server id for confirmed rows and blank for drafts.
type EntryRow struct {
	Provenance  domain.Provenance
	ID          string
	Label       string
	Measure     string
	Activity    string
	PaymentItem string
	WorkPackage string
	Note        string
}

// FormatMeasure renders a measure value without trailing zeros, with its
// unit attached ("8h", "12.5 m³").
func FormatMeasure(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "h" {
		return s + "h"
	}
	if unit != "" {
		return s + " " + unit
	}
	return s
}

// FormatEntryRows renders the merged report tab for one category. Columns
// adapt to the category: measured categories get a measure column, note
// rows lead with their text.
func FormatEntryRows(st report.Strategy, rows []EntryRow) string {
	headers := entryHeaders(st)

	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		id := r.ID
		if id == "" {
			id = Dim(fmt.Sprintf("s%d", i+1))
		}
		cells := []string{ProvenanceIndicator(r.Provenance), id, r.Label}
		if st.HasMeasure {
			cells = append(cells, r.Measure)
		}
		if st.RequiresActivityCode {
			cells = append(cells, r.Activity, r.PaymentItem, r.WorkPackage)
		}
		cells = append(cells, r.Note)
		out = append(out, cells)
	}

	return RenderTable(headers, out)
}

func entryHeaders(st report.Strategy) []string {
	headers := []string{"", "ID", identityHeader(st.Category)}
	if st.HasMeasure {
		if st.MeasureUnit == "h" {
			headers = append(headers, "HOURS")
		} else {
			headers = append(headers, "QTY")
		}
	}
	if st.RequiresActivityCode {
		headers = append(headers, "ACTIVITY", "PAY ITEM", "CWP")
	}
	return append(headers, "NOTE")
}

func identityHeader(cat domain.Category) string {
	switch cat {
	case domain.CategoryLabor:
		return "WORKER"
	case domain.CategoryEquipment:
		return "EQUIPMENT"
	case domain.CategoryMaterial:
		return "MATERIAL"
	case domain.CategorySubcontractor:
		return "SUBCONTRACTOR"
	default:
		return "ENTRY"
	}
}

// FormatCatalogItems renders one reference list as a two-column table.
func FormatCatalogItems(items []domain.CatalogItem) string {
	if len(items) == 0 {
		return Dim("No items.")
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.ID, item.DisplayLabel()})
	}
	return RenderTable([]string{"ID", "LABEL"}, rows)
}

// FormatContext renders the active project and report date.
func FormatContext(rc repository.ReportContext) string {
	return fmt.Sprintf("%s  %s\n%s  %s",
		Bold("Project:"), rc.ProjectID,
		Bold("Date:   "), rc.ReportDate)
}

// StagedSummary is the one-line result banner after staging a draft.
func StagedSummary(label, measure string) string {
	if measure != "" {
		return fmt.Sprintf("%s %s (%s) staged for confirmation.", StyleYellow.Render("●"), label, measure)
	}
	return fmt.Sprintf("%s %s staged for confirmation.", StyleYellow.Render("●"), label)
}

// ConfirmSummary is the result banner after a successful batch confirm.
func ConfirmSummary(cat domain.Category, count int) string {
	noun := "entries"
	if count == 1 {
		noun = "entry"
	}
	return fmt.Sprintf("%s Confirmed %d %s %s.", StyleGreen.Render("✓"), count, CategoryTitle(cat), noun)
}
