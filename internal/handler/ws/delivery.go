package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/campuslink/channel-delivery-service/internal/domain/registry"
	wsmarshaller "github.com/campuslink/channel-delivery-service/internal/handler/marshaller/ws"
	"github.com/campuslink/channel-delivery-service/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 8 << 10
	sendTimeout    = time.Second

	gatewayVersion = "1.0"
)

type WSHandler struct {
	logger   *slog.Logger
	auth     service.Auther
	sessions service.Sessioner
	chat     service.Messenger
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, auth service.Auther, sessions service.Sessioner, chat service.Messenger) *WSHandler {
	return &WSHandler{
		logger:   logger,
		auth:     auth,
		sessions: sessions,
		chat:     chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. AUTHENTICATE BEFORE UPGRADE
	// A bad credential is refused as plain HTTP; no socket is ever opened.
	identity, err := h.auth.Verify(r.Context(), bearerToken(r))
	if err != nil {
		h.logger.Warn("WS_AUTH_REJECTED", "err", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// 2. UPGRADE TO WEBSOCKET
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WS_UPGRADE_FAILED", "err", err)
		return
	}
	defer ws.Close()

	// 3. OPEN THE SESSION
	conn, err := h.sessions.Connect(r.Context(), identity)
	if err != nil {
		h.logger.Error("WS_CONNECT_FAILED", "user_id", identity.UserID, "err", err)
		return
	}

	// joined is owned by this goroutine alone; the read loop is the only
	// writer, so no locking is needed.
	joined := make(map[uuid.UUID]struct{})

	defer func() {
		// The request context is already dying here, so teardown runs on its
		// own context.
		h.sessions.Disconnect(context.Background(), conn, lo.Keys(joined))
		h.logger.Info("WS_CLOSED", "user_id", identity.UserID, "conn_id", conn.GetID())
	}()

	h.logger.Info("WS_OPENED", "user_id", identity.UserID, "conn_id", conn.GetID())

	// 4. HANDSHAKE CONFIRMATION
	conn.Send(event.NewConnectedEvent(identity.UserID, conn.GetID().String(), gatewayVersion), sendTimeout)

	// 5. PUMPS
	go h.writePump(ws, conn)
	h.readLoop(r.Context(), ws, conn, joined)
}

// bearerToken extracts the credential from the Authorization header, falling
// back to the token query parameter for browser clients that cannot set
// headers on a websocket handshake.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// writePump drains the session mailbox onto the wire and keeps the
// connection alive with pings. It exits when the mailbox closes or a write
// fails.
func (h *WSHandler) writePump(ws *websocket.Conn, conn registry.Connector) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	recv := conn.Recv()

	for {
		select {
		case ev, ok := <-recv:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := wsmarshaller.MarshallDeliveryEvent(ev)
			if err != nil {
				h.logger.Error("WS_MARSHAL_FAILED", "event_id", ev.GetID(), "err", err)
				continue
			}

			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warn("WS_WRITE_FAILED", "conn_id", conn.GetID(), "err", err)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(ctx context.Context, ws *websocket.Conn, conn registry.Connector, joined map[uuid.UUID]struct{}) {
	ws.SetReadLimit(maxInboundSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("WS_READ_ABORTED", "conn_id", conn.GetID(), "err", err)
			}
			return
		}

		h.dispatch(ctx, raw, conn, joined)
	}
}

// dispatch routes one inbound frame. All failures are reported back on this
// connection only; the loop itself never dies on bad input.
func (h *WSHandler) dispatch(ctx context.Context, raw []byte, conn registry.Connector, joined map[uuid.UUID]struct{}) {
	in, err := parseInbound(raw)
	if err != nil {
		conn.Send(event.NewMessageError(uuid.Nil, conn.GetUserID(), "malformed frame"), sendTimeout)
		return
	}

	switch in.Event {
	case EventJoin:
		channelID, err := in.channel()
		if err != nil {
			conn.Send(event.NewMessageError(uuid.Nil, conn.GetUserID(), "invalid channel reference"), sendTimeout)
			return
		}
		if err := h.sessions.Join(ctx, channelID, conn); err != nil {
			conn.Send(event.NewMessageError(channelID, conn.GetUserID(), reasonFor(err)), sendTimeout)
			return
		}
		joined[channelID] = struct{}{}

	case EventLeave:
		channelID, err := in.channel()
		if err != nil {
			return
		}
		if err := h.sessions.Leave(ctx, channelID, conn); err != nil {
			h.logger.Warn("WS_LEAVE_FAILED", "channel_id", channelID, "err", err)
		}
		delete(joined, channelID)

	case EventSend:
		channelID, content, err := in.sendBody()
		if err != nil {
			conn.Send(event.NewMessageError(channelID, conn.GetUserID(), "invalid message payload"), sendTimeout)
			return
		}

		// Persistence must survive the peer dropping mid-call; a message
		// already handed over is saved and fanned out regardless.
		msg, err := h.chat.Send(context.WithoutCancel(ctx), channelID, conn.GetUserID(), content)
		if err != nil {
			conn.Send(event.NewMessageError(channelID, conn.GetUserID(), reasonFor(err)), sendTimeout)
			return
		}

		// Sender acknowledgment goes straight to this connection. The author
		// also receives the regular fan-out copy as a channel subscriber.
		conn.Send(event.NewMessageAck(msg), sendTimeout)

	case EventTypingStart, EventTypingStop:
		channelID, err := in.channel()
		if err != nil {
			return
		}
		// Indicators only make sense inside channels this session follows.
		if _, ok := joined[channelID]; !ok {
			return
		}
		h.sessions.Typing(channelID, conn, in.Event == EventTypingStart)

	default:
		conn.Send(event.NewMessageError(uuid.Nil, conn.GetUserID(), "unknown event: "+in.Event), sendTimeout)
	}
}

// reasonFor maps service errors to stable client-facing strings. Anything
// unrecognized is masked to avoid leaking internals.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, service.ErrNotMember):
		return service.ErrNotMember.Error()
	case errors.Is(err, service.ErrEmptyContent):
		return service.ErrEmptyContent.Error()
	case errors.Is(err, service.ErrContentTooLong):
		return service.ErrContentTooLong.Error()
	case errors.Is(err, service.ErrChannelRequired):
		return service.ErrChannelRequired.Error()
	default:
		return "internal error"
	}
}
