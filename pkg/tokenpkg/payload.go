// Package tokenpkg provides signed, time-bound identity tokens.
package tokenpkg

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates that the token failed parsing or signature verification.
	ErrInvalidToken = errors.New("token is invalid")
	// ErrExpiredToken indicates that the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Payload contains the payload data of the token.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	AccountID int64     `json:"account_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

// NewPayload creates a token payload for the given account valid for duration.
func NewPayload(email string, accountID int64, duration time.Duration) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:        tokenID,
		Email:     email,
		AccountID: accountID,
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(duration),
	}

	return payload, nil
}

// Valid checks if the token payload has expired.
func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}

	return nil
}

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a signed token for the given subject and account ID.
	CreateToken(email string, accountID int64, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid and returns its payload.
	VerifyToken(token string) (*Payload, error)
}
