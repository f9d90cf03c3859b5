package domain

import (
	"errors"
	"time"
)

var (
	// ErrSelfTransfer indicates a transfer where sender and receiver are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
	// ErrInvalidAmount indicates an amount that does not parse as a decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates a zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientBalance indicates that the sender does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSenderNotFound indicates that the sender account is not found.
	ErrSenderNotFound = errors.New("sender not found")
	// ErrReceiverNotFound indicates that the receiver account is not found.
	ErrReceiverNotFound = errors.New("receiver not found")
	// ErrTransferContention indicates that the transfer could not acquire its
	// account locks within the configured bound. The operation is safe to retry.
	ErrTransferContention = errors.New("transfer aborted due to contention")
	// ErrTransferNotFound indicates that the transfer is not found.
	ErrTransferNotFound = errors.New("transfer not found")
)

// Status is the lifecycle state of a transfer record.
type Status string

// Transfer statuses. The engine only ever persists StatusCompleted; failures
// surface as errors instead of FAILED rows.
const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
)

// Transfer holds a single committed movement of funds between two accounts.
type Transfer struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	ReceiverID  int64     `json:"receiver_id"`
	Amount      string    `json:"amount"` // must be positive
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	SenderID    int64  `json:"sender_id"`
	ReceiverID  int64  `json:"receiver_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// TransferResult joins a transfer record with both parties' display names.
type TransferResult struct {
	Transfer
	SenderName   string `json:"sender_name"`
	ReceiverName string `json:"receiver_name"`
}
