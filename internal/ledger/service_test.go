package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/report"
)

func newTestService(t *testing.T) (*ledger.Service, *ledger.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := ledger.NewMockRepository(ctrl)

	return ledger.NewService(repo, ledger.NewSequencer("", "")), repo
}

func sellParams() ledger.CreateParams {
	return ledger.CreateParams{
		Kind:         ledger.KindSell,
		PartyName:    "Iqbal Traders",
		PartyContact: "0300-1234567",
		Items: []ledger.ItemParams{
			{Description: "Copper wire", QuantityKg: 10, UnitRate: 100, CostRate: 80},
		},
		PaidAmount: 400,
	}
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService(t)

	repo.EXPECT().
		ListInvoiceNumbers(gomock.Any(), ledger.KindSell, 50).
		Return([]string{"SSK-0002", "SSK-0001"}, nil)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			tx.ID = uuid.New()
			tx.CreatedAt = time.Now()
			tx.UpdatedAt = tx.CreatedAt
			return nil
		})

	tx, err := svc.Create(context.Background(), sellParams())
	require.NoError(t, err)

	assert.Equal(t, "SSK-0003", tx.InvoiceNumber)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, 1000.0, tx.TotalAmount)
	assert.Equal(t, 200.0, tx.Profit)
	assert.Equal(t, 600.0, tx.RemainingAmount)
}

func TestService_Create_RetriesOnInvoiceConflict(t *testing.T) {
	svc, repo := newTestService(t)

	// First allocation loses the race; the retry re-reads and wins.
	repo.EXPECT().
		ListInvoiceNumbers(gomock.Any(), ledger.KindSell, 50).
		Return([]string{"SSK-0004"}, nil)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(ledger.ErrInvoiceConflict)

	repo.EXPECT().
		ListInvoiceNumbers(gomock.Any(), ledger.KindSell, 50).
		Return([]string{"SSK-0005", "SSK-0004"}, nil)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil)

	tx, err := svc.Create(context.Background(), sellParams())
	require.NoError(t, err)
	assert.Equal(t, "SSK-0006", tx.InvoiceNumber)
}

func TestService_Create_ConflictRetriesExhausted(t *testing.T) {
	svc, repo := newTestService(t)

	repo.EXPECT().
		ListInvoiceNumbers(gomock.Any(), ledger.KindSell, 50).
		Return([]string{"SSK-0004"}, nil).
		Times(3)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(ledger.ErrInvoiceConflict).
		Times(3)

	_, err := svc.Create(context.Background(), sellParams())
	assert.ErrorIs(t, err, ledger.ErrInvoiceConflict)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ledger.CreateParams)
		wantErr error
	}{
		{
			name:    "missing party name",
			mutate:  func(p *ledger.CreateParams) { p.PartyName = "   " },
			wantErr: ledger.ErrMissingParty,
		},
		{
			name:    "no items",
			mutate:  func(p *ledger.CreateParams) { p.Items = nil },
			wantErr: ledger.ErrNoItems,
		},
		{
			name: "only blank filler rows",
			mutate: func(p *ledger.CreateParams) {
				p.Items = []ledger.ItemParams{{Description: "  "}, {}}
			},
			wantErr: ledger.ErrNoItems,
		},
		{
			name: "zero total",
			mutate: func(p *ledger.CreateParams) {
				p.Items = []ledger.ItemParams{{Description: "Copper", QuantityKg: 0, UnitRate: 100}}
			},
			wantErr: ledger.ErrNoItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			params := sellParams()
			tt.mutate(&params)

			_, err := svc.Create(context.Background(), params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_RecordPayment(t *testing.T) {
	svc, repo := newTestService(t)

	id := uuid.New()
	current := ledger.Transaction{
		ID: id, Kind: ledger.KindPurchase,
		TotalAmount: 1000, PaidAmount: 0, RemainingAmount: 1000,
	}
	settled := current
	settled.PaidAmount = 800
	settled.RemainingAmount = 200

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(current, nil)
	repo.EXPECT().ApplyPayment(gomock.Any(), id, 800.0).Return(settled, nil)

	tx, err := svc.RecordPayment(context.Background(), id, 800)
	require.NoError(t, err)
	assert.Equal(t, 200.0, tx.RemainingAmount)
}

func TestService_RecordPayment_RejectedBeforeStore(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr error
	}{
		{"invalid amount", 0, ledger.ErrInvalidAmount},
		{"exceeds balance", 250, ledger.ErrExceedsBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)

			id := uuid.New()
			repo.EXPECT().GetTransaction(gomock.Any(), id).Return(ledger.Transaction{
				ID: id, TotalAmount: 1000, PaidAmount: 800, RemainingAmount: 200,
			}, nil)
			// No ApplyPayment expectation: the store must not be touched.

			_, err := svc.RecordPayment(context.Background(), id, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_RecordPayment_NotFound(t *testing.T) {
	svc, repo := newTestService(t)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(ledger.Transaction{}, ledger.ErrNotFound)

	_, err := svc.RecordPayment(context.Background(), id, 100)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_Edit(t *testing.T) {
	svc, repo := newTestService(t)

	id := uuid.New()
	current := ledger.Normalize(ledger.RawRecord{
		"id":        id.String(),
		"type":      "sell",
		"buyerName": "Old Buyer",
		"invoiceNo": "SSK-0001",
		"items":     []any{map[string]any{"description": "Copper", "quantityKg": 5, "unitRate": 100, "costRate": 70}},
	})

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(current, nil)
	repo.EXPECT().
		UpdateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx ledger.Transaction) error {
			assert.Equal(t, "New Buyer", tx.PartyName)
			assert.Equal(t, "SSK-0001", tx.InvoiceNumber)
			assert.Equal(t, 660.0, tx.TotalAmount)
			return nil
		})

	edited, err := svc.Edit(context.Background(), id, ledger.EditParams{
		PartyName: "New Buyer",
		Items:     []ledger.Item{{Description: "Copper", QuantityKg: 6, UnitRate: 110, CostRate: 70}},
	})
	require.NoError(t, err)
	assert.Equal(t, 240.0, edited.Profit)
}

func TestService_Edit_ValidationStillApplies(t *testing.T) {
	svc, repo := newTestService(t)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(ledger.Transaction{ID: id, Kind: ledger.KindSell}, nil)

	_, err := svc.Edit(context.Background(), id, ledger.EditParams{PartyName: ""})
	assert.ErrorIs(t, err, ledger.ErrMissingParty)
}

func TestService_ListPending(t *testing.T) {
	svc, repo := newTestService(t)

	older := ledger.Transaction{InvoiceNumber: "PSK-0001", RemainingAmount: 100, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := ledger.Transaction{InvoiceNumber: "SSK-0001", RemainingAmount: 50, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}

	repo.EXPECT().ListPending(gomock.Any()).Return([]ledger.Transaction{older, newer}, nil)

	got, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SSK-0001", got[0].InvoiceNumber)
}

func TestService_SummaryAndMetrics(t *testing.T) {
	svc, repo := newTestService(t)

	now := time.Now()
	txs := []ledger.Transaction{
		{Kind: ledger.KindSell, TotalAmount: 1500, Profit: 300, CreatedAt: now},
		{Kind: ledger.KindPurchase, TotalAmount: 700, RemainingAmount: 200, CreatedAt: now},
	}

	repo.EXPECT().ListTransactions(gomock.Any(), ledger.ListFilter{}).Return(txs, nil).Times(2)

	summary, err := svc.Summary(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 800.0, summary.NetProfit)

	metrics, err := svc.Metrics(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 300.0, metrics.DailyProfit)
}

func TestService_ListError(t *testing.T) {
	svc, repo := newTestService(t)

	repo.EXPECT().ListTransactions(gomock.Any(), ledger.ListFilter{}).Return(nil, errors.New("db down"))

	_, err := svc.List(context.Background(), ledger.ListFilter{})
	assert.Error(t, err)
}

func TestService_Import(t *testing.T) {
	svc, repo := newTestService(t)

	raws := []ledger.RawRecord{
		{
			"type":      "sell",
			"invoiceNo": "SSK-0001",
			"partyName": "Akbar Traders",
			"items": []any{
				map[string]any{"itemDescription": "Copper Wire", "quantity": 100.0, "ratePerKg": 1150.0, "purchaseRate": 950.0},
			},
			"paidAmount": 50000.0,
		},
		{
			// Duplicate of a previous import run.
			"type":      "sell",
			"invoiceNo": "SSK-0001",
			"partyName": "Akbar Traders",
			"items": []any{
				map[string]any{"itemDescription": "Copper Wire", "quantity": 100.0, "ratePerKg": 1150.0},
			},
		},
		{
			// No party name, reported instead of failing the run.
			"type":  "purchase",
			"items": []any{map[string]any{"itemDescription": "Iron", "quantity": 10.0, "ratePerKg": 90.0}},
		},
		{
			// No invoice number, goes through normal allocation.
			"type":      "purchase",
			"partyName": "Hamza Scrap Depot",
			"items":     []any{map[string]any{"itemDescription": "Iron Sheets", "quantity": 800.0, "ratePerKg": 92.0}},
		},
	}

	gomock.InOrder(
		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
				assert.Equal(t, "SSK-0001", tx.InvoiceNumber)
				return nil
			}),
		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			Return(ledger.ErrInvoiceConflict),
		repo.EXPECT().
			ListInvoiceNumbers(gomock.Any(), ledger.KindPurchase, 50).
			Return([]string{"PSK-0006"}, nil),
		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
				assert.Equal(t, "PSK-0007", tx.InvoiceNumber)
				return nil
			}),
	)

	result, err := svc.Import(context.Background(), raws)
	require.NoError(t, err)

	require.Len(t, result.Imported, 2)
	assert.Equal(t, "SSK-0001", result.Imported[0].InvoiceNumber)
	assert.Equal(t, 115000.0, result.Imported[0].TotalAmount)
	assert.Equal(t, 65000.0, result.Imported[0].RemainingAmount)
	assert.Equal(t, "PSK-0007", result.Imported[1].InvoiceNumber)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "SSK-0001", result.Skipped[0].InvoiceNumber)
	assert.Equal(t, "invoice number already imported", result.Skipped[0].Reason)
	assert.Equal(t, "", result.Skipped[1].InvoiceNumber)
}

func TestService_Import_KeepsLegacyDates(t *testing.T) {
	svc, repo := newTestService(t)

	legacyDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	raws := []ledger.RawRecord{{
		"type":      "sell",
		"invoiceNo": "SSK-0001",
		"partyName": "Akbar Traders",
		"date":      "2024-03-01",
		"items": []any{
			map[string]any{"itemDescription": "Copper Wire", "quantity": 100.0, "ratePerKg": 1150.0},
		},
	}}

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			// The draft must reach the store with its historical date so
			// the insert keeps it instead of stamping the import time.
			require.Equal(t, legacyDate, tx.CreatedAt)
			tx.ID = uuid.New()
			tx.UpdatedAt = time.Now()
			return nil
		})

	result, err := svc.Import(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, legacyDate, result.Imported[0].CreatedAt)

	// Historical records must land in their own reporting month.
	monthly := report.Build(report.NewMonth(2024, time.March, time.UTC), result.Imported)
	require.Len(t, monthly.Rows, 1)
	assert.Equal(t, "SSK-0001", monthly.Rows[0].InvoiceNumber)
}
