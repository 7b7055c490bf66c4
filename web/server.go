// Package web serves the shop assistant chat page and its JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/orchestrator"
)

// ChatService is the slice of the orchestrator the handlers need.
type ChatService interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (orchestratorx.TurnResult, error)
	Reset(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID string) (orchestratorx.TurnResult, error)
	Forget(ctx context.Context, sessionID string) error
}

var _ ChatService = (*orchestratorx.Orchestrator)(nil)

func NewRouter(cfg Config, svc ChatService) (http.Handler, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog)
	router.Use(middleware.Recoverer)

	router.NotFound(notFound)
	router.MethodNotAllowed(notAllowed)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})

	router.Get("/", Index(cfg, pages, svc))
	router.With(turnTimeout(cfg.TurnTimeout)).Post("/submit", Submit(cfg, pages, svc))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.With(turnTimeout(cfg.TurnTimeout)).Post("/chat", Chat(svc))
		v1.Get("/cart", GetCart(svc))
		v1.Delete("/session", DeleteSession(svc))
	})

	return router, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func Serve(ctx context.Context, cfg Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Addr).Msg("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down web server")
	return srv.Shutdown(shutdownCtx)
}
