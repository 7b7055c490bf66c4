package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/orchestrator"
	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

var validate = validator.New()

type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	Message   string `json:"message" validate:"required"`
}

func (c *ChatRequest) Bind(_ *http.Request) error {
	c.SessionID = strings.TrimSpace(c.SessionID)
	return validate.Struct(c)
}

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(data any) Response { return Response{Success: true, Data: data} }

func fail(msg string) Response { return Response{Success: false, Message: msg} }

type ChatResponse struct {
	SessionID string            `json:"session_id"`
	Message   string            `json:"message"`
	Action    cartx.ActionKind  `json:"action"`
	Cart      []cartx.Item      `json:"cart"`
	History   []statex.ChatTurn `json:"transcript,omitempty"`
}

type CartResponse struct {
	SessionID     string       `json:"session_id"`
	Items         []cartx.Item `json:"items"`
	TotalQuantity int          `json:"total_quantity"`
}

func Chat(svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

		var req ChatRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn().Err(err).Msg("invalid chat request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, fail("Invalid request: "+err.Error()))
			return
		}

		res, err := svc.HandleMessage(r.Context(), req.SessionID, req.Message)
		if err != nil {
			logger.Error().Err(err).Str("session_id", req.SessionID).Msg("chat turn")
			render.Status(r, statusFor(err))
			render.JSON(w, r, fail(err.Error()))
			return
		}

		render.JSON(w, r, ok(ChatResponse{
			SessionID: res.SessionID,
			Message:   res.Message,
			Action:    res.Kind,
			Cart:      nonNil(res.Cart),
			History:   res.Transcript,
		}))
	}
}

func GetCart(svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("session_id"))
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, fail("Missing session_id parameter"))
			return
		}

		res, err := svc.Snapshot(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("cart snapshot")
			render.Status(r, statusFor(err))
			render.JSON(w, r, fail(err.Error()))
			return
		}

		total := 0
		for _, it := range res.Cart {
			total += it.Quantity
		}
		render.JSON(w, r, ok(CartResponse{SessionID: id, Items: nonNil(res.Cart), TotalQuantity: total}))
	}
}

func DeleteSession(svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("session_id"))
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, fail("Missing session_id parameter"))
			return
		}
		if err := svc.Forget(r.Context(), id); err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("forget session")
			render.Status(r, statusFor(err))
			render.JSON(w, r, fail(err.Error()))
			return
		}
		render.JSON(w, r, ok("Session deleted"))
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, fail("Requested resource not found"))
}

func notAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, fail("Method not allowed"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestratorx.ErrInvalidMessage), errors.Is(err, orchestratorx.ErrInvalidSession),
		errors.Is(err, statex.ErrInvalidSession):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func nonNil(items []cartx.Item) []cartx.Item {
	if items == nil {
		return []cartx.Item{}
	}
	return items
}
