// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/koinsave/ledger/internal/accountrepo"
	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/pkg/dbpkg"
	"github.com/koinsave/ledger/pkg/passpkg"
	"github.com/koinsave/ledger/pkg/randompkg"
)

// SeedAccount creates a random account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(32)) returned error: %v", err)
	}

	arg := domain.CreateAccountParams{
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Name(),
		Balance:        balance,
	}

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}
