// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Register(ctx context.Context, email, password, fullName, initialBalance string) (domain.AuthGrant, error)
	Login(ctx context.Context, email, password string) (domain.AuthGrant, error)
	GetBalance(ctx context.Context, accountID int64) (domain.BalanceSummary, error)
	Deactivate(ctx context.Context, accountID int64) error
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{
		service: as,
	}
}

type registerRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	FullName       string `json:"full_name" binding:"required"`
	InitialBalance string `json:"initial_balance"`
}

type data struct {
	Auth domain.AuthGrant `json:"auth"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Register handles http request to create an account.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
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

	grant, err := h.service.Register(ctx, req.Email, req.Password, req.FullName, req.InitialBalance)
	if err != nil {
		switch err {
		case domain.ErrEmailAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{grant},
	}

	gctx.JSON(http.StatusOK, res)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles http request to authenticate an account holder.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
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

	grant, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		case domain.ErrAccountInactive:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{grant},
	}

	gctx.JSON(http.StatusOK, res)
}

type dataBalance struct {
	Balance domain.BalanceSummary `json:"balance"`
}

type responseBalance struct {
	Data dataBalance `json:"data,omitempty"`
}

// GetBalance handles http request to get the caller's balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload, ok := middleware.AuthPayload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthRequired))
		return
	}

	summary, err := h.service.GetBalance(ctx, authPayload.AccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseBalance{
		Data: dataBalance{summary},
	}

	gctx.JSON(http.StatusOK, res)
}

// Deactivate handles http request to deactivate the caller's account.
func (h *Handler) Deactivate(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload, ok := middleware.AuthPayload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthRequired))
		return
	}

	if err := h.service.Deactivate(ctx, authPayload.AccountID); err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}
