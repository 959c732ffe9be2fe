package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/campuslink/channel-delivery-service/internal/domain/registry"
	"github.com/campuslink/channel-delivery-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RESTHandler is the stateless fallback surface for clients without an open
// websocket. All routes under /api require a bearer credential.
type RESTHandler struct {
	logger   *slog.Logger
	auth     service.Auther
	channels service.ChannelManager
	history  service.Historian
	chat     service.Messenger
	sessions service.Sessioner
	hub      registry.Hubber
}

func NewRESTHandler(
	logger *slog.Logger,
	auth service.Auther,
	channels service.ChannelManager,
	history service.Historian,
	chat service.Messenger,
	sessions service.Sessioner,
	hub registry.Hubber,
) *RESTHandler {
	return &RESTHandler{
		logger:   logger,
		auth:     auth,
		channels: channels,
		history:  history,
		chat:     chat,
		sessions: sessions,
		hub:      hub,
	}
}

func (h *RESTHandler) RegisterRoutes(mux *chi.Mux) {
	mux.Get("/healthz", h.Health)

	mux.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(h.auth))

		r.Get("/stats", h.Stats)

		r.Route("/channels", func(r chi.Router) {
			r.Get("/", h.ListChannels)
			r.Post("/", h.CreateChannel)

			r.Route("/{channelID}", func(r chi.Router) {
				r.Put("/", h.UpdateChannel)
				r.Delete("/", h.DeleteChannel)
				r.Get("/members", h.ListMembers)
				r.Post("/members", h.AddMember)
				r.Delete("/members/{userID}", h.RemoveMember)
				r.Get("/members/online", h.OnlineMembers)
				r.Get("/messages", h.GetHistory)
				r.Post("/messages", h.PostMessage)
				r.Delete("/messages/{messageID}", h.DeleteMessage)
			})
		})
	})
}

func (h *RESTHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RESTHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.hub.Stats())
}

type createChannelRequest struct {
	Name string `json:"name" validate:"required,max=128"`
	Kind string `json:"kind" validate:"omitempty,oneof=public private direct"`
}

func (h *RESTHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	req := new(createChannelRequest)
	if !decodeBody(w, r, req) {
		return
	}

	ch, err := h.channels.CreateChannel(r.Context(), identity.UserID, req.Name, model.ChannelKind(req.Kind))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ch)
}

func (h *RESTHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	list, err := h.history.ListChannels(r.Context(), identity.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Both fields are required: the store applies them unconditionally.
type updateChannelRequest struct {
	Name string `json:"name" validate:"required,max=128"`
	Kind string `json:"kind" validate:"required,oneof=public private direct"`
}

func (h *RESTHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	req := new(updateChannelRequest)
	if !decodeBody(w, r, req) {
		return
	}

	ch := &model.Channel{
		ID:   channelID,
		Name: req.Name,
		Kind: model.ChannelKind(req.Kind),
	}
	if err := h.channels.UpdateChannel(r.Context(), identity.UserID, ch); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (h *RESTHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	if err := h.channels.DeleteChannel(r.Context(), identity.UserID, channelID); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	members, err := h.channels.ListMembers(r.Context(), identity.UserID, channelID)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

type addMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member"`
}

func (h *RESTHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	req := new(addMemberRequest)
	if !decodeBody(w, r, req) {
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	if err := h.channels.AddMember(r.Context(), identity.UserID, channelID, userID, model.Role(req.Role)); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.channels.RemoveMember(r.Context(), identity.UserID, channelID, userID); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OnlineMembers returns the channel members holding a live presence handle.
// Best-effort: a degraded cache yields an empty list.
func (h *RESTHandler) OnlineMembers(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	online, err := h.sessions.Online(r.Context(), channelID, identity.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"online": online})
}

func (h *RESTHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.chat.Delete(r.Context(), identity.UserID, channelID, messageID); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHistory serves recent messages, cache-first with a durable fallback.
// page and limit only shape the fallback query.
func (h *RESTHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.history.GetHistory(r.Context(), channelID, identity.UserID, page, limit)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

// The content cap mirrors model.MaxContentLen.
type postMessageRequest struct {
	Content string `json:"content" validate:"required,max=2048"`
}

// PostMessage persists through the same ingestion path as the websocket but
// never triggers live fan-out.
func (h *RESTHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	channelID, ok := pathChannelID(w, r)
	if !ok {
		return
	}

	req := new(postMessageRequest)
	if !decodeBody(w, r, req) {
		return
	}

	msg, err := h.chat.Create(r.Context(), channelID, identity.UserID, req.Content)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func pathChannelID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "channelID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid channel id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// fail maps service errors onto HTTP status codes.
func (h *RESTHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrChannelRequired),
		errors.Is(err, service.ErrAuthorRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("REST_REQUEST_FAILED", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
