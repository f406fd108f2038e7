package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hskhan/scrapledger/internal/ledger"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateEdit
)

type LedgerModel struct {
	CommonModel
	svc *ledger.Service

	state ledgerState
	table table.Model
	txs   []ledger.Transaction
	form  *huh.Form

	// Filter cycling
	kindFilterIdx int
	dateFilterIdx int

	filter  ledger.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formParty   string
	formContact string
	formAddress string
	formPaid    string
}

func NewLedgerModel(svc *ledger.Service) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Invoice", Width: 10},
		{Title: "Kind", Width: 10},
		{Title: "Party", Width: 24},
		{Title: "Total", Width: 14},
		{Title: "Paid", Width: 14},
		{Title: "Due", Width: 14},
		{Title: "Profit", Width: 12},
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

	return LedgerModel{
		svc:    svc,
		table:  t,
		filter: ledger.ListFilter{},
	}
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.status = ""
		m.refreshTable()
		return m, nil

	case ledgerSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Saved %s", msg.invoice)
		}
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	case ledgerStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "k":
			m.kindFilterIdx = (m.kindFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m LedgerModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.formParty = tx.PartyName
	m.formContact = tx.PartyContact
	m.formAddress = tx.Address
	m.formPaid = strconv.FormatFloat(tx.PaidAmount, 'f', -1, 64)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("party").
				Title("Party Name").
				Value(&m.formParty).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("party name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("contact").
				Title("Contact").
				Placeholder("0300-1234567").
				Value(&m.formContact),

			huh.NewInput().
				Key("address").
				Title("Address").
				Value(&m.formAddress),

			huh.NewInput().
				Key("paid").
				Title("Paid Amount").
				Value(&m.formPaid).
				Validate(validateAmountInput),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m LedgerModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ledgerStateBrowse
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

	return m, m.saveCmd()
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	kindLabels := []string{"All", "Purchase", "Sell"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [k] Kind: %s | [d] Date: %s",
		activeStyle(kindLabels[m.kindFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render("Esc: back | e: edit | k: kind filter | d: date filter | r: refresh"),
	)

	if m.state == ledgerStateEdit && m.form != nil {
		idx := m.table.Cursor()
		invoice := ""
		if idx >= 0 && idx < len(m.txs) {
			invoice = m.txs[idx].InvoiceNumber
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Edit %s\n\n%s", invoice, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func validateAmountInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if v < 0 {
		return fmt.Errorf("cannot be negative")
	}

	return nil
}

func parseAmountInput(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}

func (m *LedgerModel) applyFilter() {
	switch m.kindFilterIdx {
	case 1:
		m.filter.Kind = new(ledger.KindPurchase)
	case 2:
		m.filter.Kind = new(ledger.KindSell)
	default:
		m.filter.Kind = nil
	}

	now := time.Now()
	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		profit := "—"
		if tx.Kind == ledger.KindSell {
			profit = FormatAmount(tx.Profit)
		}

		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			tx.InvoiceNumber,
			string(tx.Kind),
			tx.PartyDisplay(),
			FormatAmount(tx.TotalAmount),
			FormatAmount(tx.PaidAmount),
			FormatAmount(tx.RemainingAmount),
			profit,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type ledgerLoadMsg struct {
	txs []ledger.Transaction
	err error
}

func (m LedgerModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.svc.List(ctx, m.filter)
		return ledgerLoadMsg{txs: txs, err: err}
	}
}

type ledgerSaveMsg struct {
	invoice string
	err     error
}

func (m LedgerModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	tx := m.txs[idx]
	edit := ledger.EditParams{
		PartyName:    m.formParty,
		PartyContact: m.formContact,
		Address:      m.formAddress,
		Items:        tx.Items,
		PaidAmount:   parseAmountInput(m.formPaid),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		saved, err := m.svc.Edit(ctx, tx.ID, edit)
		if err != nil {
			return ledgerSaveMsg{err: err}
		}

		return ledgerSaveMsg{invoice: saved.InvoiceNumber}
	}
}
