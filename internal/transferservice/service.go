// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/koinsave/ledger/internal/domain"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error)
	ListForAccount(ctx context.Context, accountID int64) ([]domain.TransferResult, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo Repo
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo) *Service {
	return &Service{
		repo: tr,
	}
}

// validRequest rejects transfers that can be refused without touching storage.
func validRequest(ctx context.Context, arg domain.CreateTransferParams) error {
	l := zerolog.Ctx(ctx)

	if arg.SenderID == arg.ReceiverID {
		return domain.ErrSelfTransfer
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrNonPositiveAmount
	}

	return nil
}

// Transfer checks transfer preconditions and then executes the transfer
// transaction. The sufficient-balance check belongs to the transaction itself
// since the balance may change between any earlier read and the lock.
func (s *Service) Transfer(ctx context.Context, senderID int64, arg domain.CreateTransferParams) (domain.TransferResult, error) {
	arg.SenderID = senderID

	if err := validRequest(ctx, arg); err != nil {
		return domain.TransferResult{}, err
	}

	result, err := s.repo.TransferTx(ctx, arg)
	if err != nil {
		return domain.TransferResult{}, err
	}

	return result, nil
}

// List returns the transfers the account participated in, most recent first.
func (s *Service) List(ctx context.Context, accountID int64) ([]domain.TransferResult, error) {
	transfers, err := s.repo.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return transfers, nil
}
