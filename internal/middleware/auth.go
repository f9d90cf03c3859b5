// Package middleware provides the gates every request passes before handlers.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koinsave/ledger/pkg/tokenpkg"
)

const (
	// AuthHeaderKey is the header carrying the bearer credential.
	AuthHeaderKey = "Authorization"
	// AuthTypeBearer is the only supported authorization type.
	AuthTypeBearer = "bearer"
	// AuthPayloadKey is the context key the verified token payload is stored under.
	AuthPayloadKey = "authorization_payload"
)

// ErrAuthRequired indicates that the endpoint needs an authenticated caller.
var ErrAuthRequired = errors.New("authentication required")

// Authenticate extracts a bearer token from the request and, if it verifies,
// attaches its payload to the request context.
//
// It never aborts the request: an absent, malformed or invalid credential
// leaves the request anonymous and authorization is decided per endpoint.
func Authenticate(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		l := zerolog.Ctx(gctx.Request.Context())

		token, ok := bearerToken(gctx.GetHeader(AuthHeaderKey))
		if !ok {
			gctx.Next()
			return
		}

		payload, err := tokenMaker.VerifyToken(token)
		if err != nil {
			l.Info().Err(err).Msg("request proceeds as anonymous")
			gctx.Next()

			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// AuthPayload returns the verified token payload attached to the request, if any.
func AuthPayload(gctx *gin.Context) (*tokenpkg.Payload, bool) {
	val, ok := gctx.Get(AuthPayloadKey)
	if !ok {
		return nil, false
	}

	payload, ok := val.(*tokenpkg.Payload)

	return payload, ok
}

func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], AuthTypeBearer) {
		return "", false
	}

	return fields[1], true
}

// AddAuthorization sets a freshly issued bearer credential on the request.
// It is shared by tests across packages.
func AddAuthorization(
	r *http.Request,
	tokenMaker tokenpkg.Maker,
	authorizationType string,
	email string,
	accountID int64,
	duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(email, accountID, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authorizationType, token))

	return nil
}
