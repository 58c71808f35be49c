package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/export"
)

type exportState int

const (
	exportStateAccount exportState = iota
	exportStateTimeframe
	exportStatePath
	exportStateExporting
	exportStateResult
)

const exportTimeout = 2 * time.Minute

// ExportModel walks through picking an account, a timeframe and an output
// directory, then writes the account's export archive there.
type ExportModel struct {
	CommonModel
	exports  *export.Service
	accounts *account.Service

	state  exportState
	err    error
	form   *huh.Form
	picker TimeframePicker

	accountID   uuid.UUID
	accountName string
	timeframe   TimeframeSelectedMsg

	spinner spinner.Model
	file    string
	count   int
	summary string
}

func NewExportModel(exports *export.Service, accounts *account.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exports:  exports,
		accounts: accounts,
		picker:   NewTimeframePicker(TimeframeThisMonth),
		spinner:  s,
	}
}

func (m ExportModel) Title() string { return "Export Movements" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.loadAccountsCmd()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportAccountsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = exportStateResult

			return m, nil
		}

		if len(msg.accounts) == 0 {
			m.err = errors.New("there are no active accounts to export")
			m.state = exportStateResult

			return m, nil
		}

		m.form = accountForm(msg.accounts)

		return m, m.form.Init()

	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.form = pathForm()
		m.state = exportStatePath

		return m, m.form.Init()

	case exportDoneMsg:
		m.state = exportStateResult
		m.err = msg.err
		m.file = msg.file
		m.count = msg.count
		m.summary = msg.summary

		return m, nil
	}

	switch m.state {
	case exportStateAccount:
		return m.updateAccount(msg)
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case exportStateResult:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateAccount(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		return m, Back
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	choice, _ := m.form.Get("account").(accountChoice)
	m.accountID = choice.id
	m.accountName = choice.name
	m.picker.Reset()
	m.state = exportStateTimeframe

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(m.form.GetString("path")))
}

type accountChoice struct {
	id   uuid.UUID
	name string
}

func accountForm(accounts []*account.Summary) *huh.Form {
	options := make([]huh.Option[accountChoice], 0, len(accounts))
	for _, a := range accounts {
		label := fmt.Sprintf("%s (%s, %s)", a.Name, a.Currency, a.Owner.Email)
		options = append(options, huh.NewOption(label, accountChoice{id: a.ID, name: a.Name}))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[accountChoice]().
				Key("account").
				Title("Account").
				Options(options...),
		),
	).WithWidth(60).WithShowHelp(false)
}

func pathForm() *huh.Form {
	dir := "./exports"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Created if it doesn't exist").
				Placeholder("./exports").
				Value(&dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateAccount:
		if m.form == nil {
			return pad.Render("Loading accounts...")
		}

		return pad.Render(m.form.View())
	case exportStateTimeframe:
		return pad.Render(fmt.Sprintf("Account: %s\n\n%s", activeStyle(m.accountName), m.picker.View()))
	case exportStatePath:
		return pad.Render(m.form.View())
	case exportStateExporting:
		return pad.Render(fmt.Sprintf("%s Exporting %s (%s) and downloading documents...", m.spinner.View(), m.accountName, m.timeframe.Label))
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	pad := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return pad.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	summary := m.summary
	if summary == "" {
		summary = "No movements in this range."
	}

	return pad.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("%d movements written to %s", m.count, m.file),
			"",
			"Summary:",
			"",
			summary,
		),
	)
}

type exportAccountsMsg struct {
	accounts []*account.Summary
	err      error
}

func (m ExportModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accounts.List(ctx, Operator, true, account.ListFilter{State: new(access.AccountActive)})

		return exportAccountsMsg{accounts: accounts, err: err}
	}
}

type exportDoneMsg struct {
	file    string
	count   int
	summary string
	err     error
}

// ArchiveName is the file an export of [from, to] is written to.
func ArchiveName(from, to time.Time) string {
	return fmt.Sprintf("export_%s_%s.zip", from.Format("20060102"), to.Format("20060102"))
}

func (m ExportModel) exportCmd(dir string) tea.Cmd {
	var (
		accountID = m.accountID
		from, to  = m.timeframe.Start, m.timeframe.End
	)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportDoneMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, ArchiveName(from, to))

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("creating archive: %w", err)}
		}

		items, err := m.exports.Export(ctx, accountID, from, to, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			_ = os.Remove(path)
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{file: path, count: len(items), summary: export.Summary(items)}
	}
}
