package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/share"
)

type entryState int

const (
	entryStateHeader entryState = iota
	entryStateItem
	entryStatePaid
	entryStateDone
)

// EntryModel drives the new invoice flow: party details, then item
// lines one by one, then the paid amount.
type EntryModel struct {
	CommonModel
	svc *ledger.Service

	state entryState
	form  *huh.Form

	kind        string
	formParty   string
	formContact string
	formAddress string

	formDesc string
	formQty  string
	formRate string
	formCost string
	another  bool

	formPaid string

	items []ledger.ItemParams

	saved  ledger.Transaction
	status string
	err    error
}

func NewEntryModel(svc *ledger.Service) EntryModel {
	m := EntryModel{svc: svc, kind: string(ledger.KindSell)}
	m.form = m.headerForm()

	return m
}

func (m EntryModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == entryStateDone {
			switch msg.String() {
			case "n":
				fresh := NewEntryModel(m.svc)
				return fresh, fresh.Init()
			case "w":
				m.status = "WhatsApp: " + share.InvoiceLink(m.saved)
				return m, nil
			}

			return m, nil
		}

	case entrySavedMsg:
		m.state = entryStateDone
		m.form = nil
		m.err = msg.err
		m.saved = msg.tx
		return m, nil
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

	return m.advance()
}

// advance moves to the next step after a form completes.
func (m EntryModel) advance() (tea.Model, tea.Cmd) {
	switch m.state {
	case entryStateHeader:
		m.state = entryStateItem
		m.form = m.itemForm()

		return m, m.form.Init()

	case entryStateItem:
		m.items = append(m.items, ledger.ItemParams{
			Description: strings.TrimSpace(m.formDesc),
			QuantityKg:  parseAmountInput(m.formQty),
			UnitRate:    parseAmountInput(m.formRate),
			CostRate:    parseAmountInput(m.formCost),
		})

		if m.another {
			m.formDesc, m.formQty, m.formRate, m.formCost = "", "", "", ""
			m.another = false
			m.form = m.itemForm()

			return m, m.form.Init()
		}

		m.state = entryStatePaid
		m.form = m.paidForm()

		return m, m.form.Init()

	case entryStatePaid:
		m.form = nil
		return m, m.saveCmd()
	}

	return m, nil
}

func (m EntryModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("New Entry")

	if m.state == entryStateDone {
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				fmt.Sprintf("%s\n\nFailed to save: %v\n\n(n: new entry, Esc: back)", title, m.err),
			)
		}

		body := fmt.Sprintf(
			"%s\n\nSaved %s for %s\nTotal %s | Paid %s | Due %s\n\n(n: new entry, w: whatsapp link, Esc: back)",
			title,
			m.saved.InvoiceNumber,
			m.saved.PartyDisplay(),
			FormatAmount(m.saved.TotalAmount),
			FormatAmount(m.saved.PaidAmount),
			FormatAmount(m.saved.RemainingAmount),
		)

		if m.status != "" {
			body += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(body)
	}

	if m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	step := ""
	switch m.state {
	case entryStateHeader:
		step = "Party"
	case entryStateItem:
		step = fmt.Sprintf("Item %d", len(m.items)+1)
	case entryStatePaid:
		step = "Payment"
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		fmt.Sprintf("%s — %s\n\n%s\n\n%s", title, step, m.form.View(),
			lipgloss.NewStyle().Faint(true).Render("Esc: back")),
	)
}

func (m *EntryModel) headerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Options(
					huh.NewOption("Sell", string(ledger.KindSell)),
					huh.NewOption("Purchase", string(ledger.KindPurchase)),
				).
				Value(&m.kind),

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
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *EntryModel) itemForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Item Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("qty").
				Title("Quantity (KG)").
				Value(&m.formQty).
				Validate(validateAmountInput),

			huh.NewInput().
				Key("rate").
				Title("Rate per KG").
				Value(&m.formRate).
				Validate(validateAmountInput),

			huh.NewInput().
				Key("cost").
				Title("Cost Rate (sell only)").
				Value(&m.formCost).
				Validate(validateAmountInput),

			huh.NewConfirm().
				Key("another").
				Title("Add another item?").
				Value(&m.another),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *EntryModel) paidForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("paid").
				Title("Paid / Received Amount").
				Placeholder("0").
				Value(&m.formPaid).
				Validate(validateAmountInput),
		),
	).WithWidth(50).WithShowHelp(false)
}

type entrySavedMsg struct {
	tx  ledger.Transaction
	err error
}

func (m EntryModel) saveCmd() tea.Cmd {
	params := ledger.CreateParams{
		Kind:         ledger.NormalizeKind(m.kind),
		PartyName:    m.formParty,
		PartyContact: m.formContact,
		Address:      m.formAddress,
		Items:        m.items,
		PaidAmount:   parseAmountInput(m.formPaid),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.svc.Create(ctx, params)
		return entrySavedMsg{tx: tx, err: err}
	}
}
