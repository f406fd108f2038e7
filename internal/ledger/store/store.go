// Package store persists ledger transactions in Postgres. Rows are
// document-shaped: scalar columns for the fields the queries need, line
// items as jsonb. Everything read back is rebuilt as a RawRecord and
// pushed through ledger.Normalize, so documents written by older
// versions of the books (legacy field names inside items) stay
// readable.
//
// Expected schema:
//
//	CREATE TABLE transactions (
//	    id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    kind             text NOT NULL,
//	    invoice_no       text NOT NULL,
//	    party_name       text NOT NULL DEFAULT '',
//	    party_contact    text NOT NULL DEFAULT '',
//	    address          text NOT NULL DEFAULT '',
//	    items            jsonb NOT NULL DEFAULT '[]',
//	    total_amount     double precision NOT NULL DEFAULT 0,
//	    paid_amount      double precision NOT NULL DEFAULT 0,
//	    remaining_amount double precision NOT NULL DEFAULT 0,
//	    profit           double precision NOT NULL DEFAULT 0,
//	    created_at       timestamptz NOT NULL DEFAULT NOW(),
//	    updated_at       timestamptz NOT NULL DEFAULT NOW(),
//	    UNIQUE (kind, invoice_no)
//	);
//
// The unique index on (kind, invoice_no) is the serialization point for
// invoice numbering; the service retries allocation on conflict.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hskhan/scrapledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, kind, invoice_no, party_name, party_contact, address, items,
	total_amount, paid_amount, remaining_amount, profit, created_at, updated_at
`

// scanTransaction reads one row and rebuilds it through the Normalizer.
// Expected column order matches selectColumns.
func scanTransaction(s scanner) (ledger.Transaction, error) {
	var (
		raw       = ledger.RawRecord{}
		id        uuid.UUID
		itemsJSON []byte
	)

	var (
		kind, invoiceNo, partyName, partyContact, address string
		total, paid, remaining, profit                    float64
		createdAt, updatedAt                              sql.NullTime
	)

	if err := s.Scan(
		&id, &kind, &invoiceNo, &partyName, &partyContact, &address, &itemsJSON,
		&total, &paid, &remaining, &profit, &createdAt, &updatedAt,
	); err != nil {
		return ledger.Transaction{}, err
	}

	var items []any
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &items); err != nil {
			return ledger.Transaction{}, fmt.Errorf("decoding items: %w", err)
		}
	}

	raw["id"] = id.String()
	raw["kind"] = kind
	raw["invoiceNumber"] = invoiceNo
	raw["partyName"] = partyName
	raw["partyContact"] = partyContact
	raw["address"] = address
	raw["items"] = items
	raw["totalAmount"] = total
	raw["paidAmount"] = paid
	raw["remainingAmount"] = remaining
	raw["profit"] = profit

	if createdAt.Valid {
		raw["createdAt"] = createdAt.Time
	}

	if updatedAt.Valid {
		raw["updatedAt"] = updatedAt.Time
	}

	return ledger.Normalize(raw), nil
}

// storeItem is the canonical on-disk item shape.
type storeItem struct {
	Description string  `json:"description"`
	QuantityKg  float64 `json:"quantityKg"`
	UnitRate    float64 `json:"unitRate"`
	CostRate    float64 `json:"costRate,omitempty"`
	LineTotal   float64 `json:"lineTotal"`
	LineProfit  float64 `json:"lineProfit,omitempty"`
}

func marshalItems(items []ledger.Item) ([]byte, error) {
	docs := make([]storeItem, len(items))
	for i, it := range items {
		docs[i] = storeItem(it)
	}

	return json.Marshal(docs)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	items, err := marshalItems(tx.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	// Imported legacy records carry their historical creation time;
	// fresh entries leave it zero and get NOW().
	createdAt := sql.NullTime{Time: tx.CreatedAt, Valid: !tx.CreatedAt.IsZero()}

	query := `
		INSERT INTO transactions
			(kind, invoice_no, party_name, party_contact, address, items,
			 total_amount, paid_amount, remaining_amount, profit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		tx.Kind,
		tx.InvoiceNumber,
		tx.PartyName,
		tx.PartyContact,
		tx.Address,
		items,
		tx.TotalAmount,
		tx.PaidAmount,
		tx.RemainingAmount,
		tx.Profit,
		createdAt,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrInvoiceConflict
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Transaction{}, ledger.ErrNotFound
		}

		return ledger.Transaction{}, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx ledger.Transaction) error {
	items, err := marshalItems(tx.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	query := `
		UPDATE transactions
		SET party_name = $1, party_contact = $2, address = $3, items = $4,
		    total_amount = $5, paid_amount = $6, remaining_amount = $7, profit = $8,
		    updated_at = NOW()
		WHERE id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.PartyName,
		tx.PartyContact,
		tx.Address,
		items,
		tx.TotalAmount,
		tx.PaidAmount,
		tx.RemainingAmount,
		tx.Profit,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// ApplyPayment adds delta to the paid amount in a single guarded UPDATE
// so two concurrent payments can never read-modify-write each other's
// state away. The balance guard rejects deltas larger than the
// remaining amount at commit time.
func (s *Store) ApplyPayment(ctx context.Context, id uuid.UUID, delta float64) (ledger.Transaction, error) {
	query := `
		UPDATE transactions
		SET paid_amount = paid_amount + $2,
		    remaining_amount = GREATEST(total_amount - (paid_amount + $2), 0),
		    updated_at = NOW()
		WHERE id = $1 AND remaining_amount >= $2
		RETURNING ` + selectColumns

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, delta))
	if err == nil {
		return tx, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, fmt.Errorf("applying payment: %w", err)
	}

	// Guard refused: distinguish a missing row from an over-balance
	// delta for the caller's error message.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return ledger.Transaction{}, fmt.Errorf("applying payment: %w", err)
	}

	if !exists {
		return ledger.Transaction{}, ledger.ErrNotFound
	}

	return ledger.Transaction{}, ledger.ErrExceedsBalance
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	return s.queryTransactions(ctx, query, args...)
}

// ListPending fetches the unpaid subset straight from storage instead
// of filtering a full read in memory.
func (s *Store) ListPending(ctx context.Context) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions
		WHERE remaining_amount > 0
		ORDER BY created_at DESC`

	return s.queryTransactions(ctx, query)
}

func (s *Store) ListInvoiceNumbers(ctx context.Context, kind ledger.Kind, limit int) ([]string, error) {
	// Longer numbers rank first so five-digit sequences ("SSK-10000")
	// sort above "SSK-9999" instead of below it as plain text would.
	query := `
		SELECT invoice_no FROM transactions
		WHERE kind = $1
		ORDER BY length(invoice_no) DESC, invoice_no DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("listing invoice numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string

	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning invoice number: %w", err)
		}

		numbers = append(numbers, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice numbers: %w", err)
	}

	return numbers, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}
