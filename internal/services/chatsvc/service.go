// File: internal/services/chatsvc/service.go
package chatsvc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/repository/intent"
	"github.com/bookmyseva/backend/internal/repository/message"
	"github.com/bookmyseva/backend/internal/repository/session"
	intentmatch "github.com/bookmyseva/backend/internal/services/intent"
)

var (
	ErrSessionNotFound = session.ErrSessionNotFound
	ErrMessageNotFound = message.ErrMessageNotFound
)

// GuestDetails are the optional contact fields a widget supplies.
type GuestDetails struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ConnMeta captures where a connection came from, stamped onto lazily
// created sessions.
type ConnMeta struct {
	IP        string
	UserAgent string
}

// BotReply is the outcome of running the matcher over an inbound message.
type BotReply struct {
	Message *domain.ChatMessage
	Matched bool
}

// ChatService owns the chat session/message lifecycle. Sessions are
// created lazily on the first inbound message, never on join.
type ChatService struct {
	sessions session.SessionRepository
	messages message.MessageRepository
	intents  intent.IntentRepository
	fallback string
	logger   logging.Logger
}

func NewChatService(
	sessions session.SessionRepository,
	messages message.MessageRepository,
	intents intent.IntentRepository,
	fallbackReply string,
	logger logging.Logger,
) (*ChatService, error) {
	if sessions == nil || messages == nil || intents == nil {
		return nil, errors.New("chat service requires session, message and intent repositories")
	}
	if fallbackReply == "" {
		return nil, errors.New("chat service requires a fallback reply")
	}
	return &ChatService{
		sessions: sessions,
		messages: messages,
		intents:  intents,
		fallback: fallbackReply,
		logger:   logger,
	}, nil
}

// Resolve finds the non-deleted session for an identity, or nil when the
// identity has no session yet.
func (s *ChatService) Resolve(ctx context.Context, ident Identity) (*domain.ChatSession, error) {
	sess, err := s.sessions.FindByIdentity(ctx, ident.Value)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

// Join binds a live connection to an existing session: updates the
// connection id, marks it active, merges guest details and returns the
// ordered history. Returns (nil, nil, nil) when no session exists; join
// never creates one.
func (s *ChatService) Join(ctx context.Context, ident Identity, connectionID string, details GuestDetails) (*domain.ChatSession, []domain.ChatMessage, error) {
	sess, err := s.Resolve(ctx, ident)
	if err != nil || sess == nil {
		return nil, nil, err
	}

	sess.ConnectionID = connectionID
	sess.Active = true
	sess.LastActivityAt = time.Now()
	sess.MergeGuestDetails(details.Name, details.Phone, details.Email)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, nil, err
	}

	history, err := s.messages.FindBySessionID(ctx, sess.ID, false)
	if err != nil {
		return nil, nil, err
	}
	return sess, history, nil
}

// SaveUserMessage persists an inbound user message, creating the session
// first if the identity has none. The returned bool reports whether a
// session row was created.
func (s *ChatService) SaveUserMessage(ctx context.Context, ident Identity, connectionID, text string, details GuestDetails, meta ConnMeta) (*domain.ChatSession, *domain.ChatMessage, bool, error) {
	now := time.Now()
	candidate := &domain.ChatSession{
		ID:             uuid.New().String(),
		Identity:       ident.Value,
		IdentityKind:   ident.Kind,
		GuestName:      details.Name,
		GuestPhone:     details.Phone,
		GuestEmail:     details.Email,
		ConnectionID:   connectionID,
		Active:         true,
		LastActivityAt: now,
		OriginIP:       meta.IP,
		UserAgent:      meta.UserAgent,
	}

	sess, created, err := s.sessions.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, nil, false, err
	}
	if !created {
		sess.ConnectionID = connectionID
		sess.Active = true
		sess.LastActivityAt = now
		sess.MergeGuestDetails(details.Name, details.Phone, details.Email)
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, nil, false, err
		}
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		Sender:    domain.SenderUser,
		Body:      text,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, nil, false, err
	}

	return sess, msg, created, nil
}

// RespondToMessage runs the intent matcher over the inbound text and
// persists the bot reply: the matched intent's configured response, or
// the fixed fallback inviting human escalation. Intents are reloaded on
// every call; match bookkeeping is best-effort.
func (s *ChatService) RespondToMessage(ctx context.Context, sessionID, text string) (*BotReply, error) {
	intents, err := s.intents.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	body := s.fallback
	label := ""
	var quickReplies []string
	matched := false

	if res := intentmatch.Match(intents, text); res != nil {
		body = res.Intent.Response
		label = res.Intent.Label
		quickReplies = res.Intent.QuickReplies
		matched = true
		if err := s.intents.RecordMatch(ctx, res.Intent.ID, time.Now()); err != nil {
			s.logger.Warn("failed to record intent match", "intent", res.Intent.Label, "error", err)
		}
	}

	msg := &domain.ChatMessage{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Sender:       domain.SenderBot,
		Body:         body,
		IntentLabel:  label,
		QuickReplies: quickReplies,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.sessions.TouchActivity(ctx, sessionID, time.Now()); err != nil {
		s.logger.Warn("failed to touch session after bot reply", "session", sessionID, "error", err)
	}

	return &BotReply{Message: msg, Matched: matched}, nil
}

// SaveAdminMessage persists an admin-authored reply into a session.
func (s *ChatService) SaveAdminMessage(ctx context.Context, sessionID, text string) (*domain.ChatMessage, error) {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Sender:    domain.SenderAdmin,
		Body:      text,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.sessions.TouchActivity(ctx, sessionID, time.Now()); err != nil {
		s.logger.Warn("failed to touch session after admin reply", "session", sessionID, "error", err)
	}
	return msg, nil
}

// EndChat marks a guest's session inactive with the ended-by-user flag.
// The session and its messages stay in place.
func (s *ChatService) EndChat(ctx context.Context, guestID string) (*domain.ChatSession, error) {
	sess, err := s.sessions.FindByIdentity(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.End(ctx, sess.ID, time.Now()); err != nil {
		return nil, err
	}
	sess.Active = false
	sess.EndedByUser = true
	return sess, nil
}

// History returns a session's messages ascending by creation time. It
// works for soft-deleted sessions too: hiding a session does not hide
// its messages from direct reads.
func (s *ChatService) History(ctx context.Context, sessionID string, includeDeleted bool) ([]domain.ChatMessage, error) {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messages.FindBySessionID(ctx, sessionID, includeDeleted)
}

// MarkSessionRead flags every user message in the session as read.
// Called when an admin opens the conversation.
func (s *ChatService) MarkSessionRead(ctx context.Context, sessionID string) error {
	return s.messages.MarkRead(ctx, sessionID, domain.SenderUser)
}

// MessageCount counts all messages in a session, soft-deleted included.
func (s *ChatService) MessageCount(ctx context.Context, sessionID string) (int64, error) {
	return s.messages.CountBySessionID(ctx, sessionID)
}

// DeleteMessage soft-deletes one message.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, sessionID string) error {
	return s.messages.SoftDelete(ctx, messageID, sessionID)
}

// DeleteSession soft-deletes a session by id, falling back to the
// last-known connection id for older admin consoles. Messages are not
// cascaded.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		sess, err = s.sessions.FindByConnectionID(ctx, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SoftDelete(ctx, sess.ID); err != nil {
		return nil, err
	}
	sess.IsDeleted = true
	sess.Active = false
	return sess, nil
}

// PurgeSession hard-deletes a session and all its messages. Only the
// explicit admin purge endpoint reaches this.
func (s *ChatService) PurgeSession(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return err
	}
	removed, err := s.messages.HardDeleteBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.HardDelete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session purged", "session", sessionID, "messages_removed", removed)
	return nil
}

// ListSessions pages through sessions for the admin console.
func (s *ChatService) ListSessions(ctx context.Context, includeDeleted bool, limit, offset int) ([]domain.ChatSession, int64, error) {
	return s.sessions.List(ctx, includeDeleted, limit, offset)
}

// ExpireIdleSessions marks sessions idle past the inactivity window
// inactive and returns how many were expired.
func (s *ChatService) ExpireIdleSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-domain.SessionInactivityWindow)
	return s.sessions.ExpireIdle(ctx, cutoff)
}

// StartExpirySweeper runs ExpireIdleSessions on a ticker until ctx ends.
func (s *ChatService) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				expired, err := s.ExpireIdleSessions(ctx)
				if err != nil {
					s.logger.Error("expiry sweep failed", "error", err)
					continue
				}
				if expired > 0 {
					s.logger.Info("expired idle chat sessions", "count", expired)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
