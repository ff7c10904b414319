package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Orka-kun/Users-API/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Users *service.UsersService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		usersSvc:     opts.Users,
		loginLimiter: newLoginLimiter(5*time.Minute, 10),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", api.handleRegister)
	mux.HandleFunc("POST /login", api.handleLogin)
	mux.HandleFunc("GET /users", api.requireAuth(api.handleUsersList))
	mux.HandleFunc("POST /block", api.requireAuth(api.handleUsersBlock))
	mux.HandleFunc("POST /unblock", api.requireAuth(api.handleUsersUnblock))
	mux.HandleFunc("POST /delete", api.requireAuth(api.handleUsersDelete))

	mux.HandleFunc("GET /healthz", api.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = Metrics()(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	usersSvc *service.UsersService

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
