package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// CreateTransaction persists a new transaction, assigning its id and
	// timestamps. Returns ErrInvoiceConflict when the invoice number is
	// already taken within its kind.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (Transaction, error)
	// UpdateTransaction replaces all mutable fields and refreshes the
	// update timestamp.
	UpdateTransaction(ctx context.Context, tx Transaction) error
	// ApplyPayment adds delta to the paid amount and recomputes the
	// remaining balance in a single atomic store operation. Returns
	// ErrExceedsBalance when delta is larger than the remaining balance
	// at commit time.
	ApplyPayment(ctx context.Context, id uuid.UUID, delta float64) (Transaction, error)

	ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error)
	ListPending(ctx context.Context) ([]Transaction, error)
	// ListInvoiceNumbers returns up to limit invoice numbers of the
	// kind's prefix namespace, highest first.
	ListInvoiceNumbers(ctx context.Context, kind Kind, limit int) ([]string, error)
}

type ListFilter struct {
	Kind      *Kind
	StartDate *time.Time
	EndDate   *time.Time
}

const (
	// invoiceScanLimit bounds the snapshot read before allocating the
	// next invoice number.
	invoiceScanLimit = 50

	// allocRetries bounds re-allocation after an invoice number
	// conflict before the failure is surfaced to the operator.
	allocRetries = 3
)

type Service struct {
	repo Repository
	seq  Sequencer
}

func NewService(repo Repository, seq Sequencer) *Service {
	return &Service{repo: repo, seq: seq}
}

type ItemParams struct {
	Description string
	QuantityKg  float64
	UnitRate    float64
	CostRate    float64
}

type CreateParams struct {
	Kind         Kind
	PartyName    string
	PartyContact string
	Address      string
	Items        []ItemParams
	PaidAmount   float64
}

// Create finalizes a draft into a persisted transaction: normalize,
// validate, allocate the next invoice number and insert. Allocation is
// speculative; the store's uniqueness constraint is the serialization
// point, and a conflict triggers a bounded re-read-and-retry.
func (s *Service) Create(ctx context.Context, params CreateParams) (Transaction, error) {
	draft := Normalize(RawRecord{
		"kind":         string(params.Kind),
		"partyName":    params.PartyName,
		"partyContact": params.PartyContact,
		"address":      params.Address,
		"items":        paramsToItems(params.Items),
		"paidAmount":   params.PaidAmount,
	})

	draft.Items = meaningfulItems(draft.Items)

	if err := validateDraft(draft); err != nil {
		return Transaction{}, err
	}

	if err := s.allocateAndCreate(ctx, &draft); err != nil {
		return Transaction{}, err
	}

	return draft, nil
}

// allocateAndCreate runs the allocate-insert-retry loop for a validated
// draft. Each attempt re-reads the invoice snapshot before computing
// the next number.
func (s *Service) allocateAndCreate(ctx context.Context, draft *Transaction) error {
	for range allocRetries {
		numbers, err := s.repo.ListInvoiceNumbers(ctx, draft.Kind, invoiceScanLimit)
		if err != nil {
			return fmt.Errorf("listing invoice numbers: %w", err)
		}

		draft.InvoiceNumber = s.seq.Next(draft.Kind, numbers)

		err = s.repo.CreateTransaction(ctx, draft)
		if errors.Is(err, ErrInvoiceConflict) {
			continue
		}

		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}

		return nil
	}

	return fmt.Errorf("allocating %s invoice number after %d attempts: %w",
		draft.Kind, allocRetries, ErrInvoiceConflict)
}

type ImportResult struct {
	Imported []Transaction
	Skipped  []ImportSkip
}

// ImportSkip records one legacy row group the import left out.
type ImportSkip struct {
	InvoiceNumber string
	PartyName     string
	Reason        string
}

// Import persists raw legacy records. Records keep their legacy invoice
// numbers when they have one; a conflict on such a number means the
// invoice was imported before and the record is skipped rather than
// renumbered. Records without a number go through normal allocation.
// Invalid records (no party, no priced items) are reported in Skipped,
// never failed on: legacy books are full of half-filled rows.
func (s *Service) Import(ctx context.Context, raws []RawRecord) (*ImportResult, error) {
	result := &ImportResult{}

	for _, raw := range raws {
		tx := Normalize(raw)
		tx.Items = meaningfulItems(tx.Items)

		if err := validateDraft(tx); err != nil {
			result.Skipped = append(result.Skipped, ImportSkip{
				InvoiceNumber: tx.InvoiceNumber,
				PartyName:     tx.PartyName,
				Reason:        err.Error(),
			})

			continue
		}

		if tx.InvoiceNumber == "" {
			if err := s.allocateAndCreate(ctx, &tx); err != nil {
				return nil, err
			}

			result.Imported = append(result.Imported, tx)

			continue
		}

		err := s.repo.CreateTransaction(ctx, &tx)
		if errors.Is(err, ErrInvoiceConflict) {
			result.Skipped = append(result.Skipped, ImportSkip{
				InvoiceNumber: tx.InvoiceNumber,
				PartyName:     tx.PartyName,
				Reason:        "invoice number already imported",
			})

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("creating transaction: %w", err)
		}

		result.Imported = append(result.Imported, tx)
	}

	return result, nil
}

// RecordPayment applies a partial or full payment against a
// transaction's balance. Validation runs on a fresh read; the actual
// delta is committed through the store's atomic increment, so two
// payments racing on the same transaction both land or one of them
// fails the balance guard, never a lost update.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount float64) (Transaction, error) {
	current, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return Transaction{}, fmt.Errorf("getting transaction: %w", err)
	}

	if _, err := ApplyPayment(current, amount); err != nil {
		return Transaction{}, err
	}

	updated, err := s.repo.ApplyPayment(ctx, id, amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("applying payment: %w", err)
	}

	return updated, nil
}

// Edit replaces party details, items and paid amount wholesale and
// re-derives all totals. Used by the record-correction flow.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, edit EditParams) (Transaction, error) {
	current, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return Transaction{}, fmt.Errorf("getting transaction: %w", err)
	}

	updated := ApplyFullEdit(current, edit)
	updated.Items = meaningfulItems(updated.Items)

	if err := validateDraft(updated); err != nil {
		return Transaction{}, err
	}

	if err := s.repo.UpdateTransaction(ctx, updated); err != nil {
		return Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}

	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListPending returns the transactions with an unpaid balance, newest
// first, fetched through the store's dedicated pending query.
func (s *Service) ListPending(ctx context.Context) ([]Transaction, error) {
	txs, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return FilterPending(txs), nil
}

func (s *Service) Summary(ctx context.Context, filter ListFilter) (Summary, error) {
	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(txs), nil
}

func (s *Service) Metrics(ctx context.Context, at time.Time) (PeriodMetrics, error) {
	txs, err := s.repo.ListTransactions(ctx, ListFilter{})
	if err != nil {
		return PeriodMetrics{}, err
	}

	return MetricsForPeriod(txs, at), nil
}

func paramsToItems(params []ItemParams) []Item {
	items := make([]Item, len(params))
	for i, p := range params {
		items[i] = Item{
			Description: p.Description,
			QuantityKg:  p.QuantityKg,
			UnitRate:    p.UnitRate,
			CostRate:    p.CostRate,
		}
	}

	return items
}

// meaningfulItems drops the blank filler rows entry forms produce: no
// description and nothing weighed or priced.
func meaningfulItems(items []Item) []Item {
	kept := make([]Item, 0, len(items))

	for _, it := range items {
		if it.Description == "" && it.QuantityKg == 0 && it.UnitRate == 0 {
			continue
		}

		kept = append(kept, it)
	}

	return kept
}

// validateDraft enforces the finalization rules: a named counterparty
// and at least one priced item.
func validateDraft(tx Transaction) error {
	if strings.TrimSpace(tx.PartyName) == "" {
		return ErrMissingParty
	}

	if len(tx.Items) == 0 || tx.TotalAmount <= 0 {
		return ErrNoItems
	}

	return nil
}
