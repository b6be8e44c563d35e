// Package httptransport assembles the public HTTP surface: middleware chain,
// per-area handlers, health and metrics endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "eaglebank/internal/account/handler"
	"eaglebank/internal/platform/metrics"
	"eaglebank/internal/platform/middleware"
	transactionhandler "eaglebank/internal/transaction/handler"
	userhandler "eaglebank/internal/user/handler"
)

// Deps carries everything the router needs. Handlers own their services; the
// router owns the middleware order.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    middleware.TokenValidator
	Users        *userhandler.Handler
	Accounts     *accounthandler.Handler
	Transactions *transactionhandler.Handler
}

// NewRouter wires all endpoints. Auth applies to everything except signup,
// login, health and metrics.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	routePattern := func(req *http.Request) string {
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			return rctx.RoutePattern()
		}
		return ""
	}

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger, deps.Metrics, routePattern))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		deps.Users.RegisterPublic(public)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Users.Register(protected)
		deps.Accounts.Register(protected)
		deps.Transactions.Register(protected)
	})

	return r
}
