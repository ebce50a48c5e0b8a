// File: internal/chat/events.go
package chat

import "encoding/json"

// Inbound event names.
const (
	EventJoinSession      = "join_session"
	EventSendMessage      = "send_message"
	EventEndChat          = "end_chat"
	EventAdminJoinSession = "admin_join_session"
	EventAdminReply       = "admin_reply"
	EventDeleteMessage    = "delete_message"
	EventDeleteSession    = "delete_session"
)

// Outbound event names.
const (
	EventSessionJoined    = "session_joined"
	EventMessage          = "message"
	EventAdminNewMessage  = "admin_new_message"
	EventChatEnded        = "chat_ended"
	EventUserEndedChat    = "user_ended_chat"
	EventMessageDeleted   = "message_deleted"
	EventSessionDeleted   = "session_deleted"
	EventAdminMessageSent = "admin_message_sent"
	EventError            = "error"
)

// Frame is the wire envelope for both directions: a named event plus an
// arbitrary JSON payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewFrame marshals payload into a frame for event.
func NewFrame(event string, payload any) (Frame, error) {
	if payload == nil {
		return Frame{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: event, Data: data}, nil
}

// JoinSessionPayload is the widget's join request. All fields are
// optional; identity resolution prefers userId, then guestId, then the
// connection id.
type JoinSessionPayload struct {
	UserID       string        `json:"userId,omitempty"`
	GuestID      string        `json:"guestId,omitempty"`
	GuestDetails *GuestDetails `json:"guestDetails,omitempty"`
}

// GuestDetails are the optional contact fields collected by the widget.
type GuestDetails struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type SendMessagePayload struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
	GuestID string `json:"guestId,omitempty"`
}

type EndChatPayload struct {
	GuestID string `json:"guestId"`
}

type AdminJoinSessionPayload struct {
	SessionID string `json:"sessionId"`
}

type AdminReplyPayload struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type DeleteMessagePayload struct {
	MessageID string `json:"messageId"`
	SessionID string `json:"sessionId"`
}

type DeleteSessionPayload struct {
	SessionID string `json:"sessionId"`
}

// SessionJoinedPayload answers join_session. SessionID is null when the
// identity has no session yet.
type SessionJoinedPayload struct {
	SessionID *string `json:"sessionId"`
	Messages  []any   `json:"messages"`
}

type AdminNewMessagePayload struct {
	SessionID string `json:"sessionId"`
	Message   any    `json:"message"`
	Session   any    `json:"session"`
}

type ChatEndedPayload struct {
	Success bool `json:"success"`
}

type UserEndedChatPayload struct {
	SessionID    string       `json:"sessionId"`
	GuestDetails GuestDetails `json:"guestDetails"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"messageId"`
	SessionID string `json:"sessionId"`
}

type SessionDeletedPayload struct {
	SessionID string `json:"sessionId"`
	UserName  string `json:"userName"`
}

type ErrorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
