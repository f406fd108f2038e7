package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hskhan/scrapledger/internal/ledger"
)

type DashboardModel struct {
	CommonModel
	svc *ledger.Service

	summary ledger.Summary
	metrics ledger.PeriodMetrics

	loading bool
	err     error
}

func NewDashboardModel(svc *ledger.Service) DashboardModel {
	return DashboardModel{svc: svc, loading: true}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}

	case dashboardLoadMsg:
		m.loading = false
		m.err = msg.err
		m.summary = msg.summary
		m.metrics = msg.metrics
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	summaryRow := lipgloss.JoinHorizontal(lipgloss.Top,
		statPanel("Total Sales", m.summary.TotalSells),
		statPanel("Total Purchases", m.summary.TotalPurchases),
		statPanel("Profit (Sell)", m.summary.TotalProfit),
		statPanel("Outstanding Due", m.summary.TotalDue),
		statPanel("Net", m.summary.NetProfit),
	)

	metricsRow := lipgloss.JoinHorizontal(lipgloss.Top,
		statPanel("Profit Today", m.metrics.DailyProfit),
		statPanel("Profit This Month", m.metrics.MonthlyProfit),
		statPanel("Profit This Year", m.metrics.YearlyProfit),
	)

	title := lipgloss.NewStyle().Bold(true).Render("Dashboard")

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			summaryRow,
			"",
			metricsRow,
			"",
			lipgloss.NewStyle().Faint(true).Render("r: refresh | Esc: back"),
		),
	)
}

func statPanel(label string, value float64) string {
	return lipgloss.NewStyle().
		Padding(0, 2).
		Margin(0, 1, 0, 0).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(
			lipgloss.NewStyle().Faint(true).Render(label) + "\n" +
				lipgloss.NewStyle().Bold(true).Render(FormatAmount(value)),
		)
}

type dashboardLoadMsg struct {
	summary ledger.Summary
	metrics ledger.PeriodMetrics
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.svc.Summary(ctx, ledger.ListFilter{})
		if err != nil {
			return dashboardLoadMsg{err: err}
		}

		metrics, err := m.svc.Metrics(ctx, time.Now())
		if err != nil {
			return dashboardLoadMsg{err: err}
		}

		return dashboardLoadMsg{summary: summary, metrics: metrics}
	}
}
