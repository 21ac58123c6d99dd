package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
)

// sitelogHuhTheme returns the huh theme matching the formatter palette.
func sitelogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateRequired rejects an empty value.
func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("enter a value")
	}
	return nil
}

// validatePositiveNumber accepts empty or a finite number greater than zero.
func validatePositiveNumber(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// catalogOptions builds huh select options from one cached catalog,
// keyed by item id.
func catalogOptions(cache *catalog.Cache, st report.Strategy) []huh.Option[string] {
	items := cache.Items(st.IdentityKind)
	opts := make([]huh.Option[string], 0, len(items)+1)
	opts = append(opts, huh.NewOption("(type a name instead)", ""))
	for _, item := range items {
		opts = append(opts, huh.NewOption(item.DisplayLabel(), item.ID))
	}
	return opts
}

// classificationOptions builds select options for one classification
// catalog, with an optional leading blank choice.
func classificationOptions(cache *catalog.Cache, kind domain.CatalogKind, optional bool) []huh.Option[string] {
	items := cache.Items(kind)
	opts := make([]huh.Option[string], 0, len(items)+1)
	if optional {
		opts = append(opts, huh.NewOption("(none)", ""))
	}
	for _, item := range items {
		opts = append(opts, huh.NewOption(item.DisplayLabel(), item.ID))
	}
	return opts
}

// stageForm builds the interactive entry form for one category. Field
// groups appear only when the category calls for them; the completed
// form leaves its answers in the given RawForm.
func stageForm(cache *catalog.Cache, st report.Strategy, form *report.RawForm) *huh.Form {
	groups := make([]*huh.Group, 0, 4)

	if st.ManualOnly() {
		form.ManualMode = true
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(identityTitle(st)).
				Value(&form.ManualText).
				Validate(validateRequired),
		))
	} else {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title(identityTitle(st)).
				Options(catalogOptions(cache, st)...).
				Value(&form.CatalogID),
			huh.NewInput().
				Title("Name (when not in the list)").
				Value(&form.ManualText),
		))
	}

	if st.HasMeasure {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(measureTitle(st)).
				Placeholder("8").
				Value(&form.MeasureText).
				Validate(validatePositiveNumber),
		))
	}

	if st.RequiresActivityCode {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Activity Code").
				Options(classificationOptions(cache, domain.KindActivityCode, false)...).
				Value(&form.ActivityCodeID),
			huh.NewSelect[string]().
				Title("Payment Item (optional)").
				Options(classificationOptions(cache, domain.KindPaymentItem, true)...).
				Value(&form.PaymentItemID),
			huh.NewSelect[string]().
				Title("Work Package (optional)").
				Options(classificationOptions(cache, domain.KindWorkPackage, true)...).
				Value(&form.WorkPackageID),
		))
	}

	noteField := huh.NewInput().
		Title("Note (optional)").
		Value(&form.NoteText)
	if st.RequiresNote {
		noteField = huh.NewInput().
			Title("Note").
			Value(&form.NoteText).
			Validate(validateRequired)
	}
	groups = append(groups, huh.NewGroup(noteField))

	return huh.NewForm(groups...).WithTheme(sitelogHuhTheme()).WithShowHelp(false)
}

func identityTitle(st report.Strategy) string {
	switch st.Category {
	case domain.CategoryLabor:
		return "Worker"
	case domain.CategoryEquipment:
		return "Equipment"
	case domain.CategoryMaterial:
		return "Material"
	case domain.CategoryNote:
		return "Note Title"
	case domain.CategorySubcontractor:
		return "Subcontractor"
	default:
		return formatter.CategoryTitle(st.Category)
	}
}

func measureTitle(st report.Strategy) string {
	if st.MeasureUnit == "h" {
		return "Hours"
	}
	return "Quantity"
}

// formField is one text input in a generic single-column form.
type formField struct {
	title    string
	value    *string
	validate func(string) error
}

// runFieldForm shows a themed form of text inputs under one note title.
func runFieldForm(title string, fields []formField) error {
	inputs := make([]huh.Field, 0, len(fields)+1)
	inputs = append(inputs, huh.NewNote().Title(title))
	for _, f := range fields {
		in := huh.NewInput().Title(f.title).Value(f.value)
		if f.validate != nil {
			in = in.Validate(f.validate)
		}
		inputs = append(inputs, in)
	}
	return huh.NewForm(huh.NewGroup(inputs...)).
		WithTheme(sitelogHuhTheme()).
		WithShowHelp(false).
		Run()
}

// confirmPrompt builds a themed yes/no confirmation.
func confirmPrompt(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(sitelogHuhTheme()).WithShowHelp(false)
}
