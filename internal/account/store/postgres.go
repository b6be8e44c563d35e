package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eaglebank/internal/account/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/platform/tx"
)

// Postgres persists Account aggregates. Pure I/O: domain rules live in the
// aggregate and services. Queries join an ambient transaction from the
// context when one is present.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const pqUniqueViolation = "23505"

const accountColumns = `account_number, sort_code, owner_id, name, type, status, balance, currency, created_at, updated_at, version`

// Save inserts new aggregates (version 0) and updates existing ones with an
// optimistic version check. The stored version must equal the incoming
// version; the write bumps it, mirrored onto the caller's copy.
func (s *Postgres) Save(ctx context.Context, account *models.Account) error {
	exec := tx.ExecutorFrom(ctx, s.db)

	if account.Version == 0 {
		query := `
			INSERT INTO accounts (` + accountColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
		`
		_, err := exec.ExecContext(ctx, query,
			account.AccountNumber.String(),
			account.SortCode.String(),
			account.OwnerID.String(),
			account.Name,
			string(account.Type),
			string(account.Status),
			account.Balance.Amount().StringFixed(2),
			account.Balance.Currency(),
			account.CreatedAt,
			account.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("insert account: %w", err)
		}
		account.Version = 1
		return nil
	}

	query := `
		UPDATE accounts
		SET name = $3, status = $4, balance = $5, currency = $6, updated_at = $7, version = version + 1
		WHERE account_number = $1 AND version = $2
	`
	result, err := exec.ExecContext(ctx, query,
		account.AccountNumber.String(),
		account.Version,
		account.Name,
		string(account.Status),
		account.Balance.Amount().StringFixed(2),
		account.Balance.Currency(),
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows affected: %w", err)
	}
	if rows == 0 {
		exists, err := s.ExistsByAccountNumber(ctx, account.AccountNumber)
		if err != nil {
			return err
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	account.Version++
	return nil
}

func (s *Postgres) FindByAccountNumber(ctx context.Context, number domain.AccountNumber) (*models.Account, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	account, err := scanAccount(exec.QueryRowContext(ctx, query, number.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *Postgres) FindByOwnerID(ctx context.Context, ownerID domain.UserID) ([]*models.Account, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at`
	rows, err := exec.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (s *Postgres) ExistsByAccountNumber(ctx context.Context, number domain.AccountNumber) (bool, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, number.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) CountByOwnerID(ctx context.Context, ownerID domain.UserID) (int64, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	var count int64
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE owner_id = $1`, ownerID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (s *Postgres) DeleteByAccountNumber(ctx context.Context, number domain.AccountNumber) error {
	exec := tx.ExecutorFrom(ctx, s.db)
	result, err := exec.ExecContext(ctx,
		`DELETE FROM accounts WHERE account_number = $1`, number.String())
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		number, sortCode, ownerID, name, accType, status, balance, currency string
		createdAt, updatedAt                                                sql.NullTime
		version                                                             int64
	)
	if err := row.Scan(&number, &sortCode, &ownerID, &name, &accType, &status,
		&balance, &currency, &createdAt, &updatedAt, &version); err != nil {
		return nil, err
	}
	money, err := domain.MoneyFromString(balance, currency)
	if err != nil {
		return nil, err
	}
	return models.Reconstitute(
		domain.AccountNumber(number),
		domain.SortCode(sortCode),
		domain.UserID(ownerID),
		name,
		models.AccountType(accType),
		models.AccountStatus(status),
		money,
		createdAt.Time,
		updatedAt.Time,
		version,
	)
}
