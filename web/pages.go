package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/orchestrator"
	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

const pageTitle = "E-Commerce Assistant"

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.New("web").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse web templates: %w", err)
	}
	return t, nil
}

type cardView struct {
	Key       string
	Quantity  int
	Color     template.CSS
	TextColor template.CSS
}

type pageView struct {
	Title      string
	Transcript []statex.ChatTurn
	Cart       []cardView
}

func cardsFor(items []cartx.Item) []cardView {
	out := make([]cardView, 0, len(items))
	for _, it := range items {
		out = append(out, cardView{
			Key:       it.Key,
			Quantity:  it.Quantity,
			Color:     template.CSS(cssColor(it.Color)),
			TextColor: template.CSS(cartx.TextColor(it.Color)),
		})
	}
	return out
}

// cssColor only lets #rrggbb style values through to the style attribute.
func cssColor(c string) string {
	if len(c) < 2 || len(c) > 9 || c[0] != '#' {
		return "#cccccc"
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "#cccccc"
		}
	}
	return c
}

func viewFor(res orchestratorx.TurnResult) pageView {
	return pageView{Title: pageTitle, Transcript: res.Transcript, Cart: cardsFor(res.Cart)}
}

// sessionID returns the cookie session, minting a new one when absent.
func sessionID(cfg Config, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cfg.cookieName()); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.cookieName(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func renderTemplate(w http.ResponseWriter, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// Index starts a fresh conversation on every load.
func Index(cfg Config, pages *template.Template, svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(cfg, w, r)
		if err := svc.Reset(r.Context(), id); err != nil {
			log.Error().Err(err).
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("session_id", id).
				Msg("reset session")
			http.Error(w, "Reset failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		renderTemplate(w, pages, "index", pageView{Title: pageTitle})
	}
}

// Submit runs one turn for the form field prompt. Failures render inline
// with status 200 so htmx still swaps them in.
func Submit(cfg Config, pages *template.Template, svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(cfg, w, r)
		logger := log.With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("session_id", id).
			Logger()

		if err := r.ParseForm(); err != nil {
			logger.Warn().Err(err).Msg("parse form")
			renderTemplate(w, pages, "error", err.Error())
			return
		}

		res, err := svc.HandleMessage(r.Context(), id, r.PostFormValue("prompt"))
		if err != nil {
			logger.Error().Err(err).Msg("submit turn")
			renderTemplate(w, pages, "error", err.Error())
			return
		}
		renderTemplate(w, pages, "turn", viewFor(res))
	}
}
