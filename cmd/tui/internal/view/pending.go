package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/share"
)

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStatePay
)

type PendingModel struct {
	CommonModel
	svc *ledger.Service

	state pendingState
	table table.Model
	txs   []ledger.Transaction
	form  *huh.Form

	loading bool
	err     error
	status  string

	formAmount string
}

func NewPendingModel(svc *ledger.Service) PendingModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Invoice", Width: 10},
		{Title: "Kind", Width: 10},
		{Title: "Party", Width: 24},
		{Title: "Contact", Width: 15},
		{Title: "Total", Width: 14},
		{Title: "Due", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return PendingModel{svc: svc, table: t}
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pendingLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case paymentSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Payment failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Payment recorded on %s, due %s",
				msg.tx.InvoiceNumber, FormatAmount(msg.tx.RemainingAmount))
		}
		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadPendingCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPendingCmd()
		case "p", "enter":
			return m.enterPayMode()
		case "w":
			if tx, ok := m.selected(); ok {
				m.status = "WhatsApp: " + share.InvoiceLink(tx)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PendingModel) enterPayMode() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.formAmount = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Payment for %s (due %s)", tx.InvoiceNumber, FormatAmount(tx.RemainingAmount))).
				Placeholder("0").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("amount is required")
					}
					return validateAmountInput(s)
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = pendingStatePay
	m.table.Blur()
	return m, m.form.Init()
}

func (m PendingModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = pendingStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.recordPaymentCmd()
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending payments...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.txs) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No pending payments.\n\n(Esc to back)")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().Faint(true).Render("Esc: back | p: record payment | w: whatsapp link | r: refresh"),
	)

	if m.state == pendingStatePay && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("Record Payment\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m PendingModel) selected() (ledger.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return ledger.Transaction{}, false
	}

	return m.txs[idx], true
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			tx.InvoiceNumber,
			string(tx.Kind),
			tx.PartyDisplay(),
			tx.PartyContact,
			FormatAmount(tx.TotalAmount),
			FormatAmount(tx.RemainingAmount),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type pendingLoadMsg struct {
	txs []ledger.Transaction
	err error
}

func (m PendingModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.svc.ListPending(ctx)
		return pendingLoadMsg{txs: txs, err: err}
	}
}

type paymentSavedMsg struct {
	tx  ledger.Transaction
	err error
}

func (m PendingModel) recordPaymentCmd() tea.Cmd {
	tx, ok := m.selected()
	if !ok {
		return nil
	}

	amount := parseAmountInput(m.formAmount)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		saved, err := m.svc.RecordPayment(ctx, tx.ID, amount)
		return paymentSavedMsg{tx: saved, err: err}
	}
}
