package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/hskhan/scrapledger/internal/ledger"
)

type itemResponse struct {
	Description string  `json:"description"`
	QuantityKg  float64 `json:"quantity_kg"`
	UnitRate    float64 `json:"unit_rate"`
	CostRate    float64 `json:"cost_rate,omitempty"`
	LineTotal   float64 `json:"line_total"`
	LineProfit  float64 `json:"line_profit,omitempty"`
}

type transactionResponse struct {
	ID              uuid.UUID      `json:"id"`
	Kind            ledger.Kind    `json:"kind"`
	InvoiceNumber   string         `json:"invoice_number"`
	PartyName       string         `json:"party_name"`
	PartyContact    string         `json:"party_contact,omitempty"`
	Address         string         `json:"address,omitempty"`
	Items           []itemResponse `json:"items"`
	TotalAmount     float64        `json:"total_amount"`
	PaidAmount      float64        `json:"paid_amount"`
	RemainingAmount float64        `json:"remaining_amount"`
	Profit          float64        `json:"profit"`
	Pending         bool           `json:"pending"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func toResponse(tx ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:              tx.ID,
		Kind:            tx.Kind,
		InvoiceNumber:   tx.InvoiceNumber,
		PartyName:       tx.PartyName,
		PartyContact:    tx.PartyContact,
		Address:         tx.Address,
		Items:           make([]itemResponse, 0, len(tx.Items)),
		TotalAmount:     tx.TotalAmount,
		PaidAmount:      tx.PaidAmount,
		RemainingAmount: tx.RemainingAmount,
		Profit:          tx.Profit,
		Pending:         tx.Pending(),
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}

	for _, it := range tx.Items {
		resp.Items = append(resp.Items, itemResponse{
			Description: it.Description,
			QuantityKg:  it.QuantityKg,
			UnitRate:    it.UnitRate,
			CostRate:    it.CostRate,
			LineTotal:   it.LineTotal,
			LineProfit:  it.LineProfit,
		})
	}

	return resp
}

func toResponseList(txs []ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
