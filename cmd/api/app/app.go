package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/exachain/ibc-transfer/cmd/api/app/handlers"
	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/iov-one/weave/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type App struct {
	Server *echo.Echo
	Store  *store.Store
	Logger *zap.Logger
	ctx    context.Context
}

// Initialize builds the HTTP server. allowedOrigins is a comma separated list
// of CORS origins, empty allows any.
func (a *App) Initialize(ctx context.Context, store *store.Store, allowedOrigins string) {
	a.ctx = ctx
	a.Store = store
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	g := e.Group("/api")

	transfersHandler := handlers.TransfersHandler{Store: store}
	transferApi := g.Group("/transfers")
	transferApi.GET("/latest", transfersHandler.GetLatestTransfer)
	transferApi.GET("/last/:number", transfersHandler.GetLastNTransfers)
	transferApi.GET("/hash/:hash", transfersHandler.GetTransfer)
	transferApi.POST("/query", transfersHandler.QueryTransfersByParams)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins(allowedOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10, // 1 KB
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if _, ok := err.(*echo.HTTPError); !ok {
			err = &echo.HTTPError{
				Code:     httpCode(err),
				Message:  err.Error(),
				Internal: err,
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	a.Server = e
}

func httpCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case store.ErrLimit.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func origins(allowed string) []string {
	var res []string
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			res = append(res, o)
		}
	}
	if len(res) == 0 {
		return []string{"*"}
	}
	return res
}

func (a *App) Run(ctx context.Context, port string) {
	go func() {
		if err := a.Server.Start(":" + port); err != nil && err != http.ErrServerClosed {
			a.Logger.Error("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	a.Logger.Info("shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Fatal("shutdown", zap.Error(err))
	}
}
