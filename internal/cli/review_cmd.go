package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pascalpat/sitelog/internal/cli/formatter"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/report"
	"github.com/spf13/cobra"
)

func newReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review CATEGORY",
		Short: "Review the day's entries interactively",
		Long: `Review opens an interactive view of one category: confirmed entries
alongside the staged ones. Staged entries can be discarded one by one, and
the whole staging list confirmed, without leaving the view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return fmt.Errorf("review needs a terminal; use `sitelog entries %s` instead", args[0])
			}

			cat, err := resolveCategory(args[0])
			if err != nil {
				return err
			}
			svc, err := reportService(context.Background(), app, cat)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(newReviewModel(svc)).Run()
			return err
		},
	}
}

type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Discard key.Binding
	Confirm key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

var reviewKeys = reviewKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Discard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discard staged")),
	Confirm: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm all")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type rowsLoadedMsg struct {
	rows []report.Row
	err  error
}

type confirmDoneMsg struct {
	count int
	err   error
}

// reviewModel is the bubbletea model behind `sitelog review`.
type reviewModel struct {
	svc     *report.Service
	spinner spinner.Model

	rows    []report.Row
	cursor  int
	loading bool
	status  string
	err     error
}

func newReviewModel(svc *report.Service) *reviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorPurple)

	return &reviewModel{
		svc:     svc,
		spinner: sp,
		loading: true,
	}
}

func (m *reviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadRows())
}

func (m *reviewModel) loadRows() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.svc.Merged(context.Background())
		return rowsLoadedMsg{rows: rows, err: err}
	}
}

func (m *reviewModel) confirmAll() tea.Cmd {
	return func() tea.Msg {
		records, err := m.svc.Confirm(context.Background())
		return confirmDoneMsg{count: len(records), err: err}
	}
}

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
			if m.cursor < 0 {
				m.cursor = 0
			}
		}
		return m, nil

	case confirmDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, report.ErrStaleSnapshot) {
			m.loading = false
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = formatter.ConfirmSummary(m.svc.Strategy().Category, msg.count)
		if msg.err != nil {
			m.status += " " + formatter.Dim(msg.err.Error())
		}
		return m, m.loadRows()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *reviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, reviewKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, reviewKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, reviewKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, reviewKeys.Reload):
		m.loading = true
		m.status = ""
		return m, m.loadRows()

	case key.Matches(msg, reviewKeys.Discard):
		if m.loading || m.cursor >= len(m.rows) {
			return m, nil
		}
		row := m.rows[m.cursor]
		if row.Provenance != domain.ProvenanceStaged {
			m.status = formatter.Dim("Only staged entries can be discarded here.")
			return m, nil
		}
		if err := m.svc.Discard(context.Background(), row.Draft.ClientKey); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("Discarded %s.", m.svc.DraftLabel(*row.Draft))
		m.loading = true
		return m, m.loadRows()

	case key.Matches(msg, reviewKeys.Confirm):
		if m.loading {
			return m, nil
		}
		if len(m.svc.Staged()) == 0 {
			m.status = formatter.Dim("Nothing staged.")
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.confirmAll())
	}

	return m, nil
}

func (m *reviewModel) View() string {
	scope := m.svc.Scope()
	var b strings.Builder

	b.WriteString(formatter.Header(fmt.Sprintf("%s — %s %s",
		formatter.CategoryTitle(scope.Category), scope.ProjectID, scope.Date)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		fmt.Fprintf(&b, "  %s %s\n", m.spinner.View(), formatter.Dim("Working..."))
	case len(m.rows) == 0:
		b.WriteString(formatter.Dim("No entries for this report yet."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderRows())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatter.Dim("↑/↓ move · d discard staged · c confirm all · r reload · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *reviewModel) renderRows() string {
	table := formatter.FormatEntryRows(m.svc.Strategy(), mergedRows(m.svc, m.rows))

	// Mark the cursor line. Rows start below the header and separator.
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	for i := range lines {
		if i == m.cursor+2 {
			lines[i] = formatter.StyleHeader.Render("❯ ") + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
