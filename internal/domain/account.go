// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailAlreadyExists indicates that an account with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive indicates that the account has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")
)

// Account holds an account holder's credentials and balance.
type Account struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name"`
	Balance        string    `json:"balance"` // never negative
	IsActive       bool      `json:"is_active"`
	Version        int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
	FullName       string `json:"full_name"`
	Balance        string `json:"balance"`
}

// AuthGrant is the result of a successful registration or login.
type AuthGrant struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Balance     string `json:"balance"`
	AccountID   int64  `json:"account_id"`
}

// BalanceSummary is the balance view of a single account.
type BalanceSummary struct {
	Balance  string `json:"balance"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
