package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/hskhan/scrapledger/cmd/tui/internal/view"
	"github.com/hskhan/scrapledger/internal/config"
	"github.com/hskhan/scrapledger/internal/database"
	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/ledger/store"
)

type model struct {
	ledgerService *ledger.Service

	currentView View

	dashboardView view.DashboardModel
	ledgerView    view.LedgerModel
	pendingView   view.PendingModel
	entryView     view.EntryModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewLedger    View = 2
	ViewPending   View = 3
	ViewEntry     View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(
		store.New(db),
		ledger.NewSequencer(cfg.Invoice.PurchasePrefix, cfg.Invoice.SellPrefix),
	)

	return model{
		ledgerService: svc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(svc),
		ledgerView:    view.NewLedgerModel(svc),
		pendingView:   view.NewPendingModel(svc),
		entryView:     view.NewEntryModel(svc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledgerService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.ledgerService)

				return m, m.ledgerView.Init()
			case "3":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.ledgerService)

				return m, m.pendingView.Init()
			case "4":
				m.currentView = ViewEntry
				m.entryView = view.NewEntryModel(m.ledgerService)

				return m, m.entryView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewEntry:
		var newModel tea.Model
		newModel, cmd = m.entryView.Update(msg)
		m.entryView = newModel.(view.EntryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Scrap Ledger\n\n" +
				"1. Dashboard\n" +
				"2. Browse Ledger\n" +
				"3. Pending Payments\n" +
				"4. New Entry\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewPending:
		return m.pendingView.View()
	case ViewEntry:
		return m.entryView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
