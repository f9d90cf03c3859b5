// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koinsave/ledger/internal/accountdelivery"
	"github.com/koinsave/ledger/internal/accountrepo"
	"github.com/koinsave/ledger/internal/accountservice"
	"github.com/koinsave/ledger/internal/middleware"
	"github.com/koinsave/ledger/internal/transferdelivery"
	"github.com/koinsave/ledger/internal/transferrepo"
	"github.com/koinsave/ledger/internal/transferservice"
	"github.com/koinsave/ledger/pkg/configpkg"
	"github.com/koinsave/ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)

	tokenMaker, err := newTokenMaker(config)
	if err != nil {
		return nil, err
	}

	accountService := accountservice.New(accountRepo, tokenMaker, config.AccessTokenDuration)
	transferService := transferservice.New(transferRepo)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	// Admission control runs before authentication and any business logic.
	if config.RateLimitEnabled {
		limiter := middleware.NewLimiter(config.RateLimitRequests, config.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.Use(middleware.Authenticate(tokenMaker))

	engine.POST("/auth/register", accountHandler.Register)
	engine.POST("/auth/login", accountHandler.Login)

	engine.POST("/transfers", transferHandler.Create)
	engine.GET("/transfers", transferHandler.List)
	engine.GET("/balance", accountHandler.GetBalance)
	engine.POST("/accounts/deactivate", accountHandler.Deactivate)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

func newTokenMaker(config configpkg.Config) (tokenpkg.Maker, error) {
	switch config.TokenAlgorithm {
	case "paseto":
		return tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	case "jwt", "":
		return tokenpkg.NewJWTMaker(config.TokenSymmetricKey)
	}

	return nil, fmt.Errorf("unsupported token algorithm %q", config.TokenAlgorithm)
}
