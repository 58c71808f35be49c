package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/currency"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateCurrency
	accountsStateArchive
)

var accountStateFilters = []*access.AccountState{
	nil,
	new(access.AccountActive),
	new(access.AccountArchived),
}

// AccountsModel lists every account and lets an operator convert an
// account's currency or archive it.
type AccountsModel struct {
	CommonModel
	svc *account.Service

	state    accountsState
	table    table.Model
	accounts []*account.Summary
	form     *huh.Form

	stateIdx int
	loading  bool
	err      error
	status   string
}

func NewAccountsModel(svc *account.Service) AccountsModel {
	return AccountsModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Type", Width: 10},
			{Title: "State", Width: 10},
			{Title: "Currency", Width: 8},
			{Title: "Owner", Width: 24},
			{Title: "Members", Width: 8},
			{Title: "Balance", Width: 16},
		}),
		loading: true,
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state != accountsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | c: convert currency | a: archive | s: state filter | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == accountsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.stateIdx = (m.stateIdx + 1) % len(accountStateFilters)
			m.loading = true

			return m, m.loadCmd()
		case "c":
			return m.openCurrencyForm()
		case "a":
			return m.openArchiveForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) selected() *account.Summary {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return nil
	}

	return m.accounts[idx]
}

func (m AccountsModel) openCurrencyForm() (tea.Model, tea.Cmd) {
	acc := m.selected()
	if acc == nil {
		return m, nil
	}

	code := acc.Currency

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Description("Every movement and event amount is converted").
				Options(huh.NewOptions(currency.DefaultRates().Codes()...)...).
				Value(&code),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateCurrency
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) openArchiveForm() (tea.Model, tea.Cmd) {
	acc := m.selected()
	if acc == nil || acc.State == access.AccountArchived {
		return m, nil
	}

	var confirm bool

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Archive %q?", acc.Name)).
				Description("Members keep read access but cannot change anything").
				Value(&confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateArchive
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	acc := m.selected()

	switch {
	case acc == nil:
	case m.state == accountsStateCurrency:
		return m, m.convertCmd(acc, m.form.GetString("currency"))
	case m.form.GetBool("confirm"):
		return m, m.archiveCmd(acc)
	}

	m.state = accountsStateBrowse
	m.form = nil
	m.table.Focus()

	return m, nil
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	stateLabel := "All"
	if f := accountStateFilters[m.stateIdx]; f != nil {
		stateLabel = string(*f)
	}

	header := fmt.Sprintf("Filter: [s] State: %s | %d accounts", activeStyle(stateLabel), len(m.accounts))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.form != nil {
		title := "Convert Currency"
		if m.state == accountsStateArchive {
			title = "Archive Account"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))

	for _, a := range m.accounts {
		rows = append(rows, table.Row{
			a.Name,
			string(a.Type),
			string(a.State),
			a.Currency,
			a.Owner.Email,
			strconv.Itoa(a.MemberCount),
			FormatMoney(a.Balance.Total, a.Currency),
		})
	}

	m.table.SetRows(rows)
}

type accountsLoadedMsg struct {
	accounts []*account.Summary
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	filter := account.ListFilter{State: accountStateFilters[m.stateIdx]}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.svc.List(ctx, Operator, true, filter)

		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

type accountSavedMsg struct {
	status string
	err    error
}

func grantFor(id uuid.UUID) access.Grant {
	// Admin principals never fail the decision.
	g, _ := access.Decide(Operator, nil, id)
	return g
}

func (m AccountsModel) convertCmd(acc *account.Summary, code string) tea.Cmd {
	g := grantFor(acc.ID)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.svc.Update(ctx, g, account.UpdateParams{Currency: &code})
		if err != nil {
			return accountSavedMsg{err: err}
		}

		if !res.Converted {
			return accountSavedMsg{status: fmt.Sprintf("%s already uses %s", acc.Name, code)}
		}

		return accountSavedMsg{status: fmt.Sprintf(
			"%s: %s -> %s, %d movements and %d events converted",
			acc.Name, res.OldCurrency, res.NewCurrency, res.Movements, res.Events,
		)}
	}
}

func (m AccountsModel) archiveCmd(acc *account.Summary) tea.Cmd {
	g := grantFor(acc.ID)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Archive(ctx, g); err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: acc.Name + " archived"}
	}
}
