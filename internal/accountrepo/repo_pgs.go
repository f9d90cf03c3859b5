// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/pkg/dbpkg"
	"github.com/koinsave/ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (email, hashed_password, full_name, balance)
VALUES
    ($1, $2, $3, $4)
RETURNING id, email, hashed_password, full_name, balance, is_active, version, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Email,
		arg.HashedPassword,
		arg.FullName,
		arg.Balance,
	)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.HashedPassword,
		&a.FullName,
		&a.Balance,
		&a.IsActive,
		&a.Version,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "accounts_email_key" {
				return a, domain.ErrEmailAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, email, hashed_password, full_name, balance, is_active, version, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.HashedPassword,
		&a.FullName,
		&a.Balance,
		&a.IsActive,
		&a.Version,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByEmailQuery = `
SELECT
	id, email, hashed_password, full_name, balance, is_active, version, created_at
FROM accounts
WHERE email = $1
`

// GetByEmail returns the account with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByEmailQuery, email)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.HashedPassword,
		&a.FullName,
		&a.Balance,
		&a.IsActive,
		&a.Version,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const deactivateQuery = `
UPDATE accounts
SET is_active = false, version = version + 1
WHERE id = $1
RETURNING id
`

// Deactivate marks the account inactive. Accounts are never deleted.
func (r *RepoPGS) Deactivate(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, deactivateQuery, id)

	var deactivatedID int64

	err := row.Scan(&deactivatedID)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return domain.ErrAccountNotFound
		}

		return errorspkg.ErrInternal
	}

	return nil
}
