package transferservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/pkg/errorspkg"
	"github.com/koinsave/ledger/pkg/randompkg"
)

func TestTransfer(t *testing.T) {
	const (
		senderID   = int64(1)
		receiverID = int64(2)
	)

	testAmount := "100"

	testResult := domain.TransferResult{
		Transfer: domain.Transfer{
			ID:          1,
			SenderID:    senderID,
			ReceiverID:  receiverID,
			Amount:      testAmount,
			Description: "rent",
			Status:      domain.StatusCompleted,
			CreatedAt:   time.Now().Truncate(time.Second).UTC(),
		},
		SenderName:   randompkg.Name(),
		ReceiverName: randompkg.Name(),
	}

	type input struct {
		senderID int64
		arg      domain.CreateTransferParams
	}

	testCases := []struct {
		name          string
		input         input
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.TransferResult, err error)
	}{
		{
			name: "Self transfer",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  senderID,
					Amount:      testAmount,
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSelfTransfer.Error())
			},
		},
		{
			name: "Invalid amount",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      "!@#$",
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Zero amount",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      "0",
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrNonPositiveAmount.Error())
			},
		},
		{
			name: "Negative amount",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      "-100",
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrNonPositiveAmount.Error())
			},
		},
		{
			name: "Insufficient balance",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      "10000",
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				arg := domain.CreateTransferParams{
					SenderID:    senderID,
					ReceiverID:  receiverID,
					Amount:      "10000",
					Description: "rent",
				}
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInsufficientBalance.Error())
			},
		},
		{
			name: "Contention",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      testAmount,
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrTransferContention)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrTransferContention.Error())
			},
		},
		{
			name: "Internal error",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      testAmount,
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "OK",
			input: input{
				senderID: senderID,
				arg: domain.CreateTransferParams{
					ReceiverID:  receiverID,
					Amount:      testAmount,
					Description: "rent",
				},
			},
			buildStubs: func(repo *MockRepo) {
				arg := domain.CreateTransferParams{
					SenderID:    senderID,
					ReceiverID:  receiverID,
					Amount:      testAmount,
					Description: "rent",
				}
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(testResult, nil)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.NoError(t, err)
				require.Equal(t, testResult, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transferRepo := NewMockRepo(ctrl)
			transferService := New(transferRepo)

			tc.buildStubs(transferRepo)

			tc.checkResponse(transferService.Transfer(
				context.Background(),
				tc.input.senderID,
				tc.input.arg))
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	const accountID = int64(1)

	want := []domain.TransferResult{
		{
			Transfer: domain.Transfer{
				ID:         2,
				SenderID:   accountID,
				ReceiverID: 5,
				Amount:     "50",
				Status:     domain.StatusCompleted,
			},
		},
		{
			Transfer: domain.Transfer{
				ID:         1,
				SenderID:   3,
				ReceiverID: accountID,
				Amount:     "10",
				Status:     domain.StatusCompleted,
			},
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transferRepo := NewMockRepo(ctrl)
	transferRepo.EXPECT().ListForAccount(gomock.Any(), gomock.Eq(accountID)).
		Times(1).
		Return(want, nil)

	transferService := New(transferRepo)

	got, err := transferService.List(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
