// File: internal/chat/handlers_test.go
package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/middleware"
	"github.com/bookmyseva/backend/internal/repository/intent"
	"github.com/bookmyseva/backend/internal/repository/message"
	"github.com/bookmyseva/backend/internal/repository/session"
	"github.com/bookmyseva/backend/internal/services/chatsvc"
)

const testTypingDelay = 10 * time.Millisecond

func testStack(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ChatSession{},
		&domain.ChatMessage{},
		&domain.BotIntent{},
	))

	svc, err := chatsvc.NewChatService(
		session.NewSessionRepository(db),
		message.NewMessageRepository(db),
		intent.NewIntentRepository(db),
		"fallback reply",
		logging.NopLogger{},
	)
	require.NoError(t, err)

	hub := NewHub(logging.NopLogger{})
	handler := NewHandler(hub, svc, testTypingDelay, logging.NopLogger{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", handler.HandleWidget)
	mux.HandleFunc("/ws/admin", handler.HandleAdmin)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, db
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	f, err := NewFrame(event, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(f))
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, &f))
	return f
}

func decode[T any](t *testing.T, f Frame) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(f.Data, &v))
	return v
}

func TestJoinWithoutSession(t *testing.T) {
	ts, _ := testStack(t)
	conn := dial(t, ts, "/ws/chat")

	send(t, conn, EventJoinSession, JoinSessionPayload{GuestID: "guest-1"})

	f := readFrame(t, conn)
	require.Equal(t, EventSessionJoined, f.Event)
	joined := decode[SessionJoinedPayload](t, f)
	assert.Nil(t, joined.SessionID)
	assert.Empty(t, joined.Messages)
}

func TestSendMessageEchoesAndBotReplies(t *testing.T) {
	ts, db := testStack(t)
	conn := dial(t, ts, "/ws/chat")

	send(t, conn, EventSendMessage, SendMessagePayload{GuestID: "guest-2", Message: "hello"})

	echo := readFrame(t, conn)
	require.Equal(t, EventMessage, echo.Event)
	userMsg := decode[domain.ChatMessage](t, echo)
	assert.Equal(t, domain.SenderUser, userMsg.Sender)
	assert.Equal(t, "hello", userMsg.Body)

	// Bot reply arrives after the typing delay, fallback when no intents.
	botFrame := readFrame(t, conn)
	require.Equal(t, EventMessage, botFrame.Event)
	botMsg := decode[domain.ChatMessage](t, botFrame)
	assert.Equal(t, domain.SenderBot, botMsg.Sender)
	assert.Equal(t, "fallback reply", botMsg.Body)

	var count int64
	require.NoError(t, db.Model(&domain.ChatSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSendMessageMatchedIntent(t *testing.T) {
	ts, db := testStack(t)
	require.NoError(t, db.Create(&domain.BotIntent{
		Label:    "timing",
		Keywords: []string{"timing", "hours", "open"},
		Response: "The temple is open 6am to 9pm.",
		Active:   true,
	}).Error)

	conn := dial(t, ts, "/ws/chat")
	send(t, conn, EventSendMessage, SendMessagePayload{GuestID: "guest-3", Message: "what are the temple timings and hours"})

	readFrame(t, conn) // user echo
	botFrame := readFrame(t, conn)
	botMsg := decode[domain.ChatMessage](t, botFrame)
	assert.Equal(t, "The temple is open 6am to 9pm.", botMsg.Body)
	assert.Equal(t, "timing", botMsg.IntentLabel)
}

func TestJoinAfterSendReturnsHistory(t *testing.T) {
	ts, _ := testStack(t)
	conn := dial(t, ts, "/ws/chat")

	send(t, conn, EventSendMessage, SendMessagePayload{GuestID: "guest-4", Message: "first"})
	readFrame(t, conn) // echo
	readFrame(t, conn) // bot

	// A fresh connection resuming the same guest id gets the history.
	conn2 := dial(t, ts, "/ws/chat")
	send(t, conn2, EventJoinSession, JoinSessionPayload{GuestID: "guest-4"})

	f := readFrame(t, conn2)
	require.Equal(t, EventSessionJoined, f.Event)
	joined := decode[SessionJoinedPayload](t, f)
	require.NotNil(t, joined.SessionID)
	assert.Len(t, joined.Messages, 2)
}

func TestAdminSeesNewMessagesAndCanReply(t *testing.T) {
	ts, _ := testStack(t)
	admin := dial(t, ts, "/ws/admin")
	widget := dial(t, ts, "/ws/chat")

	send(t, widget, EventSendMessage, SendMessagePayload{GuestID: "guest-5", Message: "need help"})
	readFrame(t, widget) // echo
	readFrame(t, widget) // bot

	notif := readFrame(t, admin)
	require.Equal(t, EventAdminNewMessage, notif.Event)
	payload := decode[AdminNewMessagePayload](t, notif)
	require.NotEmpty(t, payload.SessionID)

	send(t, admin, EventAdminJoinSession, AdminJoinSessionPayload{SessionID: payload.SessionID})
	send(t, admin, EventAdminReply, AdminReplyPayload{SessionID: payload.SessionID, Message: "how can we help?"})

	// Widget sits in the session room and receives the admin message.
	adminMsgFrame := readFrame(t, widget)
	require.Equal(t, EventMessage, adminMsgFrame.Event)
	adminMsg := decode[domain.ChatMessage](t, adminMsgFrame)
	assert.Equal(t, domain.SenderAdmin, adminMsg.Sender)
	assert.Equal(t, "how can we help?", adminMsg.Body)

	// Admin gets the room copy and its own ack.
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		f := readFrame(t, admin)
		seen[f.Event] = true
	}
	assert.True(t, seen[EventAdminMessageSent])
}

func TestAdminEventsRejectedForWidgets(t *testing.T) {
	ts, _ := testStack(t)
	widget := dial(t, ts, "/ws/chat")

	send(t, widget, EventAdminReply, AdminReplyPayload{SessionID: "anything", Message: "hi"})

	f := readFrame(t, widget)
	require.Equal(t, EventError, f.Event)
	perr := decode[ErrorPayload](t, f)
	assert.Equal(t, EventAdminReply, perr.Event)
}

func TestEndChatAckAndAdminBroadcast(t *testing.T) {
	ts, _ := testStack(t)
	admin := dial(t, ts, "/ws/admin")
	widget := dial(t, ts, "/ws/chat")

	send(t, widget, EventSendMessage, SendMessagePayload{GuestID: "guest-6", Message: "hi"})
	readFrame(t, widget) // echo
	readFrame(t, widget) // bot
	readFrame(t, admin)  // admin_new_message

	send(t, widget, EventEndChat, EndChatPayload{GuestID: "guest-6"})

	ack := readFrame(t, widget)
	require.Equal(t, EventChatEnded, ack.Event)
	assert.True(t, decode[ChatEndedPayload](t, ack).Success)

	broadcast := readFrame(t, admin)
	require.Equal(t, EventUserEndedChat, broadcast.Event)
	assert.NotEmpty(t, decode[UserEndedChatPayload](t, broadcast).SessionID)
}

func TestEndChatUnknownGuestAcksFailure(t *testing.T) {
	ts, _ := testStack(t)
	widget := dial(t, ts, "/ws/chat")

	send(t, widget, EventEndChat, EndChatPayload{GuestID: "nobody"})

	ack := readFrame(t, widget)
	require.Equal(t, EventChatEnded, ack.Event)
	assert.False(t, decode[ChatEndedPayload](t, ack).Success)
}

func TestUpgradeBehindRootMiddleware(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ChatSession{},
		&domain.ChatMessage{},
		&domain.BotIntent{},
	))

	svc, err := chatsvc.NewChatService(
		session.NewSessionRepository(db),
		message.NewMessageRepository(db),
		intent.NewIntentRepository(db),
		"fallback reply",
		logging.NopLogger{},
	)
	require.NoError(t, err)

	handler := NewHandler(NewHub(logging.NopLogger{}), svc, testTypingDelay, logging.NopLogger{})

	// Same root chain the server installs, which must not break hijacking.
	r := mux.NewRouter()
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware(logging.NopLogger{}))
	r.HandleFunc("/ws/chat", handler.HandleWidget).Methods("GET")

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	conn := dial(t, ts, "/ws/chat")
	send(t, conn, EventJoinSession, JoinSessionPayload{GuestID: "guest-mw"})

	f := readFrame(t, conn)
	require.Equal(t, EventSessionJoined, f.Event)
}

func TestUnknownEventEmitsError(t *testing.T) {
	ts, _ := testStack(t)
	widget := dial(t, ts, "/ws/chat")

	send(t, widget, "no_such_event", map[string]string{"x": "y"})

	f := readFrame(t, widget)
	require.Equal(t, EventError, f.Event)
}
