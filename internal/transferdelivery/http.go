// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/internal/middleware"
	"github.com/koinsave/ledger/pkg/errorspkg"
	"github.com/koinsave/ledger/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, senderID int64, arg domain.CreateTransferParams) (domain.TransferResult, error)
	List(ctx context.Context, accountID int64) ([]domain.TransferResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type createRequest struct {
	ReceiverID  int64  `json:"receiver_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type data struct {
	Transfer domain.TransferResult `json:"transfer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to create a transfer between two accounts.
//
// The sender is always the authenticated caller, never part of the payload.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload, ok := middleware.AuthPayload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthRequired))
		return
	}

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.CreateTransferParams{
		ReceiverID:  req.ReceiverID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	result, err := h.service.Transfer(ctx, authPayload.AccountID, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrSelfTransfer,
			domain.ErrInvalidAmount,
			domain.ErrNonPositiveAmount,
			domain.ErrInsufficientBalance,
			domain.ErrSenderNotFound,
			domain.ErrReceiverNotFound:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		case domain.ErrTransferContention:
			gctx.JSON(http.StatusInternalServerError, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{result},
	}

	gctx.JSON(http.StatusCreated, res)
}

type dataTransfers struct {
	Transfers []domain.TransferResult `json:"transfers"`
}

type responseTransfers struct {
	Data dataTransfers `json:"data,omitempty"`
}

// List handles http request to list the caller's transfer history.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload, ok := middleware.AuthPayload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthRequired))
		return
	}

	transfers, err := h.service.List(ctx, authPayload.AccountID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := responseTransfers{
		Data: dataTransfers{transfers},
	}

	gctx.JSON(http.StatusOK, res)
}
