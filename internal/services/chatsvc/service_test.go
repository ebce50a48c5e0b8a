// File: internal/services/chatsvc/service_test.go
package chatsvc

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/repository/intent"
	"github.com/bookmyseva/backend/internal/repository/message"
	"github.com/bookmyseva/backend/internal/repository/session"
)

const testFallback = "I'm not sure about that. Would you like to talk to one of our team members?"

func testService(t *testing.T) (*ChatService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ChatSession{},
		&domain.ChatMessage{},
		&domain.BotIntent{},
	))

	svc, err := NewChatService(
		session.NewSessionRepository(db),
		message.NewMessageRepository(db),
		intent.NewIntentRepository(db),
		testFallback,
		logging.NopLogger{},
	)
	require.NoError(t, err)
	return svc, db
}

func guestIdentity(t *testing.T, guestID string) Identity {
	t.Helper()
	ident, err := ResolveIdentity("", guestID, "conn-1")
	require.NoError(t, err)
	return ident
}

func TestResolveIdentityPriority(t *testing.T) {
	ident, err := ResolveIdentity("user-9", "guest-3", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityUser, ident.Kind)
	assert.Equal(t, "user-9", ident.Value)

	ident, err = ResolveIdentity("", "guest-3", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityGuest, ident.Kind)

	ident, err = ResolveIdentity("", "", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityConnection, ident.Kind)

	_, err = ResolveIdentity("", "", "")
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestJoinWithoutSessionCreatesNothing(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	sess, history, err := svc.Join(ctx, guestIdentity(t, "guest-a"), "conn-1", GuestDetails{Name: "Asha"})
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, history)

	var count int64
	require.NoError(t, db.Model(&domain.ChatSession{}).Count(&count).Error)
	assert.Zero(t, count, "join must never create a session row")
}

func TestSaveUserMessageCreatesSessionOnce(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()
	ident := guestIdentity(t, "guest-b")
	meta := ConnMeta{IP: "10.0.0.1", UserAgent: "widget/1.0"}

	sess1, msg1, created, err := svc.SaveUserMessage(ctx, ident, "conn-1", "hello", GuestDetails{Name: "Ravi"}, meta)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.SenderUser, msg1.Sender)
	assert.Equal(t, "10.0.0.1", sess1.OriginIP)
	assert.Equal(t, "Ravi", sess1.GuestName)

	sess2, _, created, err := svc.SaveUserMessage(ctx, ident, "conn-2", "second", GuestDetails{Phone: "9876543210"}, meta)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sess1.ID, sess2.ID)
	assert.Equal(t, "Ravi", sess2.GuestName, "existing details survive")
	assert.Equal(t, "9876543210", sess2.GuestPhone, "new details merge in")

	var count int64
	require.NoError(t, db.Model(&domain.ChatSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one identity, one session")
}

func TestJoinReturnsOrderedHistory(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	ident := guestIdentity(t, "guest-c")
	meta := ConnMeta{}

	_, _, _, err := svc.SaveUserMessage(ctx, ident, "conn-1", "first", GuestDetails{}, meta)
	require.NoError(t, err)
	_, _, _, err = svc.SaveUserMessage(ctx, ident, "conn-1", "second", GuestDetails{}, meta)
	require.NoError(t, err)

	sess, history, err := svc.Join(ctx, ident, "conn-2", GuestDetails{})
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Body)
	assert.Equal(t, "second", history[1].Body)
	assert.False(t, history[1].CreatedAt.Before(history[0].CreatedAt))
	assert.Equal(t, "conn-2", sess.ConnectionID, "join rebinds the live connection")
}

func TestRespondToMessageFallback(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-d"), "conn-1", "xyzzy", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	reply, err := svc.RespondToMessage(ctx, sess.ID, "xyzzy")
	require.NoError(t, err)
	assert.False(t, reply.Matched)
	assert.Equal(t, testFallback, reply.Message.Body)
	assert.Equal(t, domain.SenderBot, reply.Message.Sender)
	assert.Empty(t, reply.Message.IntentLabel)
}

func TestRespondToMessageMatchesIntent(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.BotIntent{
		Label:        "booking",
		Keywords:     []string{"book", "seva", "slot"},
		Response:     "You can book a seva from the services page.",
		QuickReplies: []string{"Show sevas"},
		Active:       true,
		Priority:     5,
	}).Error)

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-e"), "conn-1", "how do I book a seva slot", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	reply, err := svc.RespondToMessage(ctx, sess.ID, "how do I book a seva slot")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
	assert.Equal(t, "You can book a seva from the services page.", reply.Message.Body)
	assert.Equal(t, "booking", reply.Message.IntentLabel)
	assert.Equal(t, []string{"Show sevas"}, reply.Message.QuickReplies)

	var stored domain.BotIntent
	require.NoError(t, db.First(&stored, "label = ?", "booking").Error)
	assert.EqualValues(t, 1, stored.MatchCount)
	assert.NotNil(t, stored.LastMatched)
}

func TestEndChatMarksInactive(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-f"), "conn-1", "hi", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	ended, err := svc.EndChat(ctx, "guest-f")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, ended.ID)
	assert.False(t, ended.Active)
	assert.True(t, ended.EndedByUser)

	// History stays readable after ending.
	history, err := svc.History(ctx, sess.ID, false)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEndChatUnknownGuest(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.EndChat(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionIsSoft(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	ident := guestIdentity(t, "guest-g")

	sess, _, _, err := svc.SaveUserMessage(ctx, ident, "conn-1", "hello", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	deleted, err := svc.DeleteSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	// Default listing hides it; include_deleted restores it.
	sessions, total, err := svc.ListSessions(ctx, false, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sessions)

	sessions, total, err = svc.ListSessions(ctx, true, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sessions, 1)

	// Messages remain retrievable by direct session id.
	history, err := svc.History(ctx, sess.ID, false)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDeleteSessionFallsBackToConnectionID(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-h"), "conn-77", "hello", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	deleted, err := svc.DeleteSession(ctx, "conn-77")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, deleted.ID)
}

func TestPurgeSessionCascades(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-i"), "conn-1", "hello", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)
	_, err = svc.SaveAdminMessage(ctx, sess.ID, "how can we help?")
	require.NoError(t, err)

	require.NoError(t, svc.PurgeSession(ctx, sess.ID))

	var sessions, messages int64
	require.NoError(t, db.Model(&domain.ChatSession{}).Count(&sessions).Error)
	require.NoError(t, db.Model(&domain.ChatMessage{}).Count(&messages).Error)
	assert.Zero(t, sessions)
	assert.Zero(t, messages)

	_, err = svc.History(ctx, sess.ID, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpireIdleSessions(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	sess, _, _, err := svc.SaveUserMessage(ctx, guestIdentity(t, "guest-j"), "conn-1", "hello", GuestDetails{}, ConnMeta{})
	require.NoError(t, err)

	stale := time.Now().Add(-2 * domain.SessionInactivityWindow)
	require.NoError(t, db.Model(&domain.ChatSession{}).
		Where("id = ?", sess.ID).
		Update("last_activity_at", stale).Error)

	expired, err := svc.ExpireIdleSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	var reloaded domain.ChatSession
	require.NoError(t, db.First(&reloaded, "id = ?", sess.ID).Error)
	assert.False(t, reloaded.Active)
}
