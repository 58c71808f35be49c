package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/account"
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/currency"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/document"
	documentStore "github.com/MrJamesThe3rd/tally/internal/document/store"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	movementStore "github.com/MrJamesThe3rd/tally/internal/movement/store"
)

type screen int

const (
	screenMenu screen = iota
	screenAccounts
	screenCategories
	screenExport
)

type model struct {
	accountService  *account.Service
	categoryService *category.Service
	exportService   *export.Service

	current screen
	active  view.View
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	accountSvc := account.NewService(accountStore.New(db), currency.NewConverter(currency.DefaultRates()), cfg.App.BaseCurrency)

	exportSvc, err := export.NewService(
		movement.NewService(movementStore.New(db)),
		document.NewService(documentStore.New(db)),
		cfg.Export.BaseURL,
		cfg.Export.Token,
	)
	if err != nil {
		slog.Error("failed to configure export", "error", err)
		os.Exit(1)
	}

	return model{
		accountService:  accountSvc,
		categoryService: category.NewService(categoryStore.New(db)),
		exportService:   exportSvc,
		current:         screenMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) open(s screen, v view.View) (model, tea.Cmd) {
	m.current = s
	m.active = v

	return m, v.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == screenMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(screenAccounts, view.NewAccountsModel(m.accountService))
			case "2":
				return m.open(screenCategories, view.NewCategoriesModel(m.categoryService))
			case "3":
				return m.open(screenExport, view.NewExportModel(m.exportService, m.accountService))
			}

			return m, nil
		}
	case view.BackMsg:
		m.current = screenMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.current == screenMenu || m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally Admin Console\n\n" +
				"1. Accounts\n" +
				"2. Global Categories\n" +
				"3. Export Movements\n\n" +
				"q. Quit",
		)
	}

	title := lipgloss.NewStyle().Bold(true).Render(m.active.Title())
	help := lipgloss.NewStyle().Faint(true).Render(m.active.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, m.active.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
