package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

type categoriesState int

const (
	categoriesStateBrowse categoriesState = iota
	categoriesStateCreate
	categoriesStateDelete
)

// CategoriesModel manages the global categories new accounts start with.
type CategoriesModel struct {
	CommonModel
	svc *category.Service

	state      categoriesState
	table      table.Model
	categories []*category.Category
	form       *huh.Form

	loading bool
	err     error
	status  string
}

func NewCategoriesModel(svc *category.Service) CategoriesModel {
	return CategoriesModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Order", Width: 6},
			{Title: "Name", Width: 30},
			{Title: "Type", Width: 10},
		}),
		loading: true,
	}
}

func (m CategoriesModel) Title() string { return "Global Categories" }

func (m CategoriesModel) ShortHelp() string {
	if m.state != categoriesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | d: delete | r: refresh"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.categories = msg.categories
		m.refreshTable()

		return m, nil

	case categorySavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.closeForm()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == categoriesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m *CategoriesModel) closeForm() {
	m.state = categoriesStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m CategoriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.openCreateForm()
		case "d":
			return m.openDeleteForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) openCreateForm() (tea.Model, tea.Cmd) {
	var (
		name  string
		typ   = category.TypeExpense
		order = strconv.Itoa(len(m.categories))
	)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[category.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", category.TypeExpense),
					huh.NewOption("Income", category.TypeIncome),
					huh.NewOption("Both", category.TypeBoth),
				).
				Value(&typ),
			huh.NewInput().
				Key("order").
				Title("Order").
				Value(&order).
				Validate(func(s string) error {
					if _, err := strconv.Atoi(s); err != nil {
						return errors.New("order must be a number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = categoriesStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) openDeleteForm() (tea.Model, tea.Cmd) {
	c := m.selected()
	if c == nil {
		return m, nil
	}

	var confirm bool

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q?", c.Name)).
				Description("Existing accounts keep their own copy").
				Value(&confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = categoriesStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) selected() *category.Category {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.categories) {
		return nil
	}

	return m.categories[idx]
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == categoriesStateCreate {
		order, _ := strconv.Atoi(m.form.GetString("order"))
		typ, _ := m.form.Get("type").(category.Type)

		return m, m.createCmd(category.CreateParams{
			Name:  strings.TrimSpace(m.form.GetString("name")),
			Type:  typ,
			Order: order,
		})
	}

	c := m.selected()
	if c == nil || !m.form.GetBool("confirm") {
		m.closeForm()
		return m, nil
	}

	return m, m.deleteCmd(c)
}

func (m CategoriesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil {
		title := "New Category"
		if m.state == categoriesStateDelete {
			title = "Delete Category"
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

func (m *CategoriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.categories))

	for _, c := range m.categories {
		rows = append(rows, table.Row{strconv.Itoa(c.Order), c.Name, string(c.Type)})
	}

	m.table.SetRows(rows)
}

type categoriesLoadedMsg struct {
	categories []*category.Category
	err        error
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.svc.ListGlobal(ctx, nil)

		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

type categorySavedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) createCmd(params category.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.svc.CreateGlobal(ctx, params)
		if err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: c.Name + " created"}
	}
}

func (m CategoriesModel) deleteCmd(c *category.Category) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteGlobal(ctx, c.ID); err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: c.Name + " deleted"}
	}
}
