package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eaglebank/internal/user/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/platform/tx"
)

const userColumns = "id, name, email, phone_number, address_line1, address_line2, address_line3, town, county, postcode, password_hash, created_at, updated_at"

// Postgres persists users in the users table. Email carries a unique index.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Save(ctx context.Context, user *models.User) error {
	exec := tx.ExecutorFrom(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO users (id, name, email, phone_number, address_line1, address_line2, address_line3, town, county, postcode, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			address_line3 = EXCLUDED.address_line3,
			town = EXCLUDED.town,
			county = EXCLUDED.county,
			postcode = EXCLUDED.postcode,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at`,
		user.ID.String(),
		user.Name,
		user.Email.String(),
		user.PhoneNumber.String(),
		user.Address.Line1,
		user.Address.Line2,
		user.Address.Line3,
		user.Address.Town,
		user.Address.County,
		user.Address.Postcode,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	row := exec.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id.String(),
	)
	return s.scanOne(row, "find user by id")
}

func (s *Postgres) FindByEmail(ctx context.Context, email models.Email) (*models.User, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	row := exec.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		email.String(),
	)
	return s.scanOne(row, "find user by email")
}

func (s *Postgres) ExistsByID(ctx context.Context, id domain.UserID) (bool, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	var exists bool
	err := exec.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)",
		id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ExistsByEmail(ctx context.Context, email models.Email) (bool, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	var exists bool
	err := exec.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)",
		email.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) DeleteByID(ctx context.Context, id domain.UserID) error {
	exec := tx.ExecutorFrom(ctx, s.db)

	res, err := exec.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) scanOne(row *sql.Row, op string) (*models.User, error) {
	var (
		id, name, email, phone                      string
		line1, line2, line3, town, county, postcode string
		passwordHash                                string
		createdAt, updatedAt                        time.Time
	)
	err := row.Scan(&id, &name, &email, &phone, &line1, &line2, &line3, &town, &county, &postcode, &passwordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	address, err := models.NewAddress(line1, line2, line3, town, county, postcode)
	if err != nil {
		return nil, fmt.Errorf("%s: stored address: %w", op, err)
	}
	return models.Reconstitute(
		domain.UserID(id),
		name,
		models.Email(email),
		models.PhoneNumber(phone),
		address,
		passwordHash,
		createdAt,
		updatedAt,
	)
}
