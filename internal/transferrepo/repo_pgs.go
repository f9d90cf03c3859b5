// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/pkg/errorspkg"
)

// pqLockNotAvailable is the Postgres error code raised when lock_timeout elapses.
const pqLockNotAvailable = "55P03"

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns transfer RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		conn: db,
	}
}

// A lock-wait must not block indefinitely; exceeding this bound fails the
// transfer with domain.ErrTransferContention.
const lockTimeoutQuery = `SET LOCAL lock_timeout = '3s'`

const lockAccountQuery = `
SELECT id, full_name, balance
FROM accounts
WHERE id = $1
FOR UPDATE
`

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, version = version + 1
WHERE id = $2
RETURNING balance
`

const createQuery = `
INSERT INTO
    transfers (sender_id, receiver_id, amount, description, status)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, sender_id, receiver_id, amount, description, status, created_at
`

type lockedAccount struct {
	id       int64
	fullName string
	balance  string
}

// TransferTx moves funds between two accounts.
//
// It locks both account rows, re-checks the sender balance under the lock,
// mutates both balances and records the completed transfer within a single
// database transaction. Accounts are always locked in ascending id order,
// regardless of which one is the sender, so two opposite-direction transfers
// between the same pair cannot deadlock.
func (r *RepoPGS) TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if _, err = tx.ExecContext(ctx, lockTimeoutQuery); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	firstID, secondID := arg.SenderID, arg.ReceiverID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := lockAccount(ctx, tx, firstID)
	if err != nil {
		return result, lockError(l, err, firstID == arg.SenderID)
	}

	second, err := lockAccount(ctx, tx, secondID)
	if err != nil {
		return result, lockError(l, err, secondID == arg.SenderID)
	}

	sender, receiver := first, second
	if sender.id != arg.SenderID {
		sender, receiver = second, first
	}

	// The sender balance may have changed since any earlier read; the check
	// is only trustworthy under the exclusive lock.
	senderBalance, err := decimal.NewFromString(sender.balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	if senderBalance.LessThan(amount) {
		return result, domain.ErrInsufficientBalance
	}

	if err = addBalance(ctx, tx, "-"+arg.Amount, sender.id); err != nil {
		return result, balanceError(l, err)
	}

	if err = addBalance(ctx, tx, arg.Amount, receiver.id); err != nil {
		return result, balanceError(l, err)
	}

	row := tx.QueryRowContext(ctx, createQuery,
		arg.SenderID,
		arg.ReceiverID,
		arg.Amount,
		arg.Description,
		domain.StatusCompleted,
	)

	err = row.Scan(
		&result.ID,
		&result.SenderID,
		&result.ReceiverID,
		&result.Amount,
		&result.Description,
		&result.Status,
		&result.CreatedAt,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	result.SenderName = sender.fullName
	result.ReceiverName = receiver.fullName

	return result, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, id int64) (lockedAccount, error) {
	var a lockedAccount

	row := tx.QueryRowContext(ctx, lockAccountQuery, id)

	err := row.Scan(&a.id, &a.fullName, &a.balance)

	return a, err
}

func lockError(l *zerolog.Logger, err error, isSender bool) error {
	l.Error().Err(err).Send()

	if err == sql.ErrNoRows {
		if isSender {
			return domain.ErrSenderNotFound
		}

		return domain.ErrReceiverNotFound
	}

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqLockNotAvailable {
		return domain.ErrTransferContention
	}

	return errorspkg.ErrInternal
}

func addBalance(ctx context.Context, tx *sql.Tx, amount string, id int64) error {
	var balance string

	row := tx.QueryRowContext(ctx, addBalanceQuery, amount, id)

	return row.Scan(&balance)
}

func balanceError(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "accounts_balance_check" {
		return domain.ErrInsufficientBalance
	}

	return errorspkg.ErrInternal
}

const listForAccountQuery = `
SELECT
	t.id, t.sender_id, t.receiver_id, t.amount, t.description, t.status, t.created_at,
	s.full_name, r.full_name
FROM transfers t
JOIN accounts s ON s.id = t.sender_id
JOIN accounts r ON r.id = t.receiver_id
WHERE
    t.sender_id = $1 OR t.receiver_id = $1
ORDER BY t.created_at DESC
`

// ListForAccount returns the transfers the account participated in,
// most recent first.
func (r *RepoPGS) ListForAccount(ctx context.Context, accountID int64) ([]domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.conn.QueryContext(ctx, listForAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.TransferResult{}

	for rows.Next() {
		var t domain.TransferResult
		if err := rows.Scan(
			&t.ID,
			&t.SenderID,
			&t.ReceiverID,
			&t.Amount,
			&t.Description,
			&t.Status,
			&t.CreatedAt,
			&t.SenderName,
			&t.ReceiverName,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const getQuery = `
SELECT
	id, sender_id, receiver_id, amount, description, status, created_at
FROM transfers
WHERE id = $1
`

// Get returns the transfer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.conn.QueryRowContext(ctx, getQuery, id)

	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.SenderID,
		&t.ReceiverID,
		&t.Amount,
		&t.Description,
		&t.Status,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransferNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}
