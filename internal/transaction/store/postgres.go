package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eaglebank/internal/transaction/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/platform/tx"
)

const transactionColumns = "id, account_number, type, amount, balance_after, currency, reference, created_at"

// Postgres persists ledger entries in the transactions table. Inserts only;
// the table carries no update path.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Save(ctx context.Context, transaction *models.Transaction) error {
	exec := tx.ExecutorFrom(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO transactions (id, account_number, type, amount, balance_after, currency, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transaction.ID.String(),
		transaction.AccountNumber.String(),
		string(transaction.Type),
		transaction.Amount.Amount().StringFixed(2),
		transaction.BalanceAfter.Amount().StringFixed(2),
		transaction.Amount.Currency(),
		transaction.Reference.String(),
		transaction.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.TransactionID) (*models.Transaction, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	row := exec.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1",
		id.String(),
	)
	entry, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find transaction by id: %w", err)
	}
	return entry, nil
}

func (s *Postgres) FindByAccountNumber(ctx context.Context, number domain.AccountNumber) ([]*models.Transaction, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE account_number = $1 ORDER BY created_at, id",
		number.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("find transactions by account: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		entry, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		id, accountNumber, txType       string
		amountStr, balanceStr, currency string
		reference                       string
		createdAt                       time.Time
	)
	if err := row.Scan(&id, &accountNumber, &txType, &amountStr, &balanceStr, &currency, &reference, &createdAt); err != nil {
		return nil, err
	}

	amount, err := domain.MoneyFromString(amountStr, currency)
	if err != nil {
		return nil, fmt.Errorf("stored amount: %w", err)
	}
	balanceAfter, err := domain.MoneyFromString(balanceStr, currency)
	if err != nil {
		return nil, fmt.Errorf("stored balance: %w", err)
	}

	return models.Reconstitute(
		domain.TransactionID(id),
		domain.AccountNumber(accountNumber),
		models.TransactionType(txType),
		amount,
		balanceAfter,
		domain.TransactionReference(reference),
		createdAt,
	)
}
