// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/pkg/errorspkg"
	"github.com/koinsave/ledger/pkg/passpkg"
	"github.com/koinsave/ledger/pkg/tokenpkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Deactivate(ctx context.Context, id int64) error
}

// Service facilitates account service layer logic.
type Service struct {
	repo          Repo
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// New returns account service struct to manage account business logic.
func New(ar Repo, tm tokenpkg.Maker, tokenDuration time.Duration) *Service {
	return &Service{
		repo:          ar,
		tokenMaker:    tm,
		tokenDuration: tokenDuration,
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and issues its first access token.
func (s *Service) Register(ctx context.Context, email, password, fullName, initialBalance string) (domain.AuthGrant, error) {
	l := zerolog.Ctx(ctx)

	var grant domain.AuthGrant

	balance := "0"

	if initialBalance != "" {
		parsed, err := decimal.NewFromString(initialBalance)
		if err != nil || parsed.IsNegative() {
			return grant, domain.ErrInvalidAmount
		}

		balance = parsed.String()
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return grant, errorspkg.ErrInternal
	}

	arg := domain.CreateAccountParams{
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		FullName:       strings.TrimSpace(fullName),
		Balance:        balance,
	}

	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return grant, err
	}

	return s.issueGrant(ctx, account)
}

// Login verifies the credentials and issues a fresh access token.
//
// An unknown email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthGrant, error) {
	l := zerolog.Ctx(ctx)

	var grant domain.AuthGrant

	account, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return grant, domain.ErrInvalidCredentials
		}

		return grant, err
	}

	if err := passpkg.Check(password, account.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return grant, domain.ErrInvalidCredentials
	}

	if !account.IsActive {
		return grant, domain.ErrAccountInactive
	}

	return s.issueGrant(ctx, account)
}

// GetBalance returns the balance view for the given account.
func (s *Service) GetBalance(ctx context.Context, accountID int64) (domain.BalanceSummary, error) {
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return domain.BalanceSummary{}, err
	}

	summary := domain.BalanceSummary{
		Balance:  account.Balance,
		Email:    account.Email,
		FullName: account.FullName,
	}

	return summary, nil
}

// Deactivate marks the account inactive.
func (s *Service) Deactivate(ctx context.Context, accountID int64) error {
	return s.repo.Deactivate(ctx, accountID)
}

func (s *Service) issueGrant(ctx context.Context, account domain.Account) (domain.AuthGrant, error) {
	l := zerolog.Ctx(ctx)

	token, _, err := s.tokenMaker.CreateToken(account.Email, account.ID, s.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.AuthGrant{}, errorspkg.ErrInternal
	}

	grant := domain.AuthGrant{
		AccessToken: token,
		Email:       account.Email,
		FullName:    account.FullName,
		Balance:     account.Balance,
		AccountID:   account.ID,
	}

	return grant, nil
}
