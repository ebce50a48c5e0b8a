// File: internal/chat/handlers.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/ratelimit"
	"github.com/bookmyseva/backend/internal/services/chatsvc"
)

// Handler owns the websocket endpoints and the event dispatch loop.
type Handler struct {
	hub         *Hub
	svc         *chatsvc.ChatService
	typingDelay time.Duration
	upgrader    websocket.Upgrader
	log         logging.Logger
}

func NewHandler(hub *Hub, svc *chatsvc.ChatService, typingDelay time.Duration, log logging.Logger) *Handler {
	return &Handler{
		hub:         hub,
		svc:         svc,
		typingDelay: typingDelay,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The widget is embedded on arbitrary storefront pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWidget upgrades a visitor connection on /ws/chat.
func (h *Handler) HandleWidget(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// HandleAdmin upgrades an admin console connection on /ws/admin. The
// route is JWT-gated by middleware before it reaches here.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(64 * 1024)

	client := NewClient(conn, isAdmin, ratelimit.ClientIP(r), r.UserAgent(), h.log)
	h.hub.Add(client)
	defer func() {
		h.hub.Remove(client.ConnID)
		client.Close()
	}()

	h.readLoop(r.Context(), client)
}

func (h *Handler) readLoop(ctx context.Context, client *Client) {
	for {
		frame, err := client.ReadFrame()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("client closed connection", "connId", client.ConnID)
			} else {
				h.log.Warn("read error", "connId", client.ConnID, "error", err)
			}
			return
		}
		h.dispatch(ctx, client, frame)
	}
}

// dispatch routes one inbound frame. Handler errors are logged and
// reported back to the originating connection as an error event.
func (h *Handler) dispatch(ctx context.Context, client *Client, frame Frame) {
	var err error
	switch frame.Event {
	case EventJoinSession:
		err = h.handleJoin(ctx, client, frame.Data)
	case EventSendMessage:
		err = h.handleSendMessage(ctx, client, frame.Data)
	case EventEndChat:
		err = h.handleEndChat(ctx, client, frame.Data)
	case EventAdminJoinSession:
		err = h.adminOnly(client, func() error { return h.handleAdminJoin(ctx, client, frame.Data) })
	case EventAdminReply:
		err = h.adminOnly(client, func() error { return h.handleAdminReply(ctx, client, frame.Data) })
	case EventDeleteMessage:
		err = h.adminOnly(client, func() error { return h.handleDeleteMessage(ctx, frame.Data) })
	case EventDeleteSession:
		err = h.adminOnly(client, func() error { return h.handleDeleteSession(ctx, frame.Data) })
	default:
		err = errors.New("unknown event")
	}

	if err != nil {
		h.log.Error("chat event failed", "event", frame.Event, "connId", client.ConnID, "error", err)
		client.EmitError(frame.Event, err.Error())
	}
}

var errAdminOnly = errors.New("admin connection required")

func (h *Handler) adminOnly(client *Client, fn func() error) error {
	if !client.IsAdmin {
		return errAdminOnly
	}
	return fn()
}

func (h *Handler) handleJoin(ctx context.Context, client *Client, data json.RawMessage) error {
	var p JoinSessionPayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}

	details := GuestDetails{}
	if p.GuestDetails != nil {
		details = *p.GuestDetails
	}
	client.CacheGuestDetails(details)

	ident, err := chatsvc.ResolveIdentity(p.UserID, p.GuestID, client.ConnID)
	if err != nil {
		return err
	}

	sess, history, err := h.svc.Join(ctx, ident, client.ConnID, chatsvc.GuestDetails(details))
	if err != nil {
		return err
	}

	if sess == nil {
		// No session yet. Park the connection in a provisional guest room
		// so admin replies land once a session appears under this guest.
		if p.GuestID != "" {
			h.hub.JoinRoom(client, p.GuestID)
		}
		return client.Emit(EventSessionJoined, SessionJoinedPayload{SessionID: nil, Messages: []any{}})
	}

	h.hub.JoinRoom(client, ident.RoomName())
	h.hub.JoinRoom(client, sess.ID)

	msgs := make([]any, 0, len(history))
	for i := range history {
		msgs = append(msgs, history[i])
	}
	return client.Emit(EventSessionJoined, SessionJoinedPayload{SessionID: &sess.ID, Messages: msgs})
}

func (h *Handler) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) error {
	var p SendMessagePayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	if p.Message == "" {
		return errors.New("message text is required")
	}

	ident, err := chatsvc.ResolveIdentity(p.UserID, p.GuestID, client.ConnID)
	if err != nil {
		return err
	}

	details := client.GuestDetails()
	meta := chatsvc.ConnMeta{IP: client.OriginIP, UserAgent: client.UserAgent}
	sess, msg, _, err := h.svc.SaveUserMessage(ctx, ident, client.ConnID, p.Message, chatsvc.GuestDetails(details), meta)
	if err != nil {
		return err
	}

	h.hub.JoinRoom(client, ident.RoomName())
	h.hub.JoinRoom(client, sess.ID)

	if err := client.Emit(EventMessage, msg); err != nil {
		return err
	}
	h.hub.EmitToAdmins(EventAdminNewMessage, AdminNewMessagePayload{
		SessionID: sess.ID,
		Message:   msg,
		Session:   sess,
	})

	// Bot reply goes to the originating connection only, after a short
	// artificial typing delay. Fire and forget.
	go h.botReply(client, sess.ID, p.Message)
	return nil
}

func (h *Handler) botReply(client *Client, sessionID, text string) {
	time.Sleep(h.typingDelay)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reply, err := h.svc.RespondToMessage(ctx, sessionID, text)
	if err != nil {
		h.log.Error("bot reply failed", "session", sessionID, "error", err)
		return
	}
	if err := client.Emit(EventMessage, reply.Message); err != nil {
		h.log.Warn("bot reply emit failed", "session", sessionID, "connId", client.ConnID, "error", err)
	}
}

func (h *Handler) handleEndChat(ctx context.Context, client *Client, data json.RawMessage) error {
	var p EndChatPayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	if p.GuestID == "" {
		return errors.New("guestId is required")
	}

	sess, err := h.svc.EndChat(ctx, p.GuestID)
	if err != nil {
		if errors.Is(err, chatsvc.ErrSessionNotFound) {
			return client.Emit(EventChatEnded, ChatEndedPayload{Success: false})
		}
		return err
	}

	if err := client.Emit(EventChatEnded, ChatEndedPayload{Success: true}); err != nil {
		return err
	}
	h.hub.EmitToAdmins(EventUserEndedChat, UserEndedChatPayload{
		SessionID: sess.ID,
		GuestDetails: GuestDetails{
			Name:  sess.GuestName,
			Phone: sess.GuestPhone,
			Email: sess.GuestEmail,
		},
	})
	return nil
}

func (h *Handler) handleAdminJoin(ctx context.Context, client *Client, data json.RawMessage) error {
	var p AdminJoinSessionPayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	if p.SessionID == "" {
		return errors.New("sessionId is required")
	}
	h.hub.JoinRoom(client, p.SessionID)

	// Opening the conversation counts as reading it.
	if err := h.svc.MarkSessionRead(ctx, p.SessionID); err != nil {
		h.log.Warn("failed to mark session read", "session", p.SessionID, "error", err)
	}
	return nil
}

func (h *Handler) handleAdminReply(ctx context.Context, client *Client, data json.RawMessage) error {
	var p AdminReplyPayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	if p.SessionID == "" || p.Message == "" {
		return errors.New("sessionId and message are required")
	}

	msg, err := h.svc.SaveAdminMessage(ctx, p.SessionID, p.Message)
	if err != nil {
		return err
	}

	h.hub.EmitToRoom(p.SessionID, EventMessage, msg)
	return client.Emit(EventAdminMessageSent, msg)
}

func (h *Handler) handleDeleteMessage(ctx context.Context, data json.RawMessage) error {
	var p DeleteMessagePayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	if err := h.svc.DeleteMessage(ctx, p.MessageID, p.SessionID); err != nil {
		return err
	}
	h.hub.EmitToRoom(p.SessionID, EventMessageDeleted, MessageDeletedPayload{
		MessageID: p.MessageID,
		SessionID: p.SessionID,
	})
	return nil
}

func (h *Handler) handleDeleteSession(ctx context.Context, data json.RawMessage) error {
	var p DeleteSessionPayload
	if err := unmarshal(data, &p); err != nil {
		return err
	}
	sess, err := h.svc.DeleteSession(ctx, p.SessionID)
	if err != nil {
		return err
	}
	h.hub.EmitToAdmins(EventSessionDeleted, SessionDeletedPayload{
		SessionID: sess.ID,
		UserName:  sess.GuestName,
	})
	return nil
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing event payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.New("malformed event payload")
	}
	return nil
}
