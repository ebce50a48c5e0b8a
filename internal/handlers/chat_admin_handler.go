// File: internal/handlers/chat_admin_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/repository/intent"
	"github.com/bookmyseva/backend/internal/repository/quickaction"
	"github.com/bookmyseva/backend/internal/services/chatsvc"
)

// ChatAdminHandler is the REST bridge into the chat stores for the admin
// console: session listing, history, deletion and the bot configuration.
type ChatAdminHandler struct {
	Chat         *chatsvc.ChatService
	Intents      intent.IntentRepository
	QuickActions quickaction.QuickActionRepository
}

func NewChatAdminHandler(chat *chatsvc.ChatService, intents intent.IntentRepository, quickActions quickaction.QuickActionRepository) *ChatAdminHandler {
	return &ChatAdminHandler{Chat: chat, Intents: intents, QuickActions: quickActions}
}

// ListSessions handles GET /admin/chat/sessions?include_deleted=1.
func (h *ChatAdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	includeDeleted := queryBool(r, "include_deleted")

	sessions, total, err := h.Chat.ListSessions(r.Context(), includeDeleted, limit, offset)
	if err != nil {
		log.Printf("[ChatAdminHandler] ListSessions failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list sessions")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: sessions, Total: total})
}

// SessionMessages handles GET /admin/chat/sessions/{id}/messages. The
// history of a soft-deleted session stays readable here.
func (h *ChatAdminHandler) SessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	messages, err := h.Chat.History(r.Context(), sessionID, queryBool(r, "include_deleted"))
	if err != nil {
		if errors.Is(err, chatsvc.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[ChatAdminHandler] SessionMessages failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load messages")
		return
	}

	// Total counts soft-deleted messages too, so the console can show
	// that hidden messages exist.
	total, err := h.Chat.MessageCount(r.Context(), sessionID)
	if err != nil {
		log.Printf("[ChatAdminHandler] MessageCount failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: messages, Total: total})
}

// DeleteSession handles DELETE /admin/chat/sessions/{id}: the soft
// delete. Messages stay retrievable.
func (h *ChatAdminHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, err := h.Chat.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, chatsvc.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[ChatAdminHandler] DeleteSession failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PurgeSession handles DELETE /admin/chat/sessions/{id}/purge: the hard
// cascade that removes the session row and every message.
func (h *ChatAdminHandler) PurgeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.Chat.PurgeSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, chatsvc.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[ChatAdminHandler] PurgeSession failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not purge session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

// ListIntents handles GET /admin/chat/intents.
func (h *ChatAdminHandler) ListIntents(w http.ResponseWriter, r *http.Request) {
	intents, err := h.Intents.List(r.Context())
	if err != nil {
		log.Printf("[ChatAdminHandler] ListIntents failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list intents")
		return
	}
	respondJSON(w, http.StatusOK, intents)
}

type intentRequest struct {
	Label        string   `json:"label"`
	Keywords     []string `json:"keywords"`
	Response     string   `json:"response"`
	QuickReplies []string `json:"quick_replies"`
	Active       bool     `json:"active"`
	Priority     int      `json:"priority"`
}

// CreateIntent handles POST /admin/chat/intents.
func (h *ChatAdminHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bi := &domain.BotIntent{
		Label:        req.Label,
		Keywords:     req.Keywords,
		Response:     req.Response,
		QuickReplies: req.QuickReplies,
		Active:       req.Active,
		Priority:     req.Priority,
	}
	created, err := h.Intents.Create(r.Context(), bi)
	if err != nil {
		log.Printf("[ChatAdminHandler] CreateIntent failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateIntent handles PUT /admin/chat/intents/{id}.
func (h *ChatAdminHandler) UpdateIntent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid intent id")
		return
	}

	bi, err := h.Intents.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "intent not found")
		return
	}

	var req intentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bi.Label = req.Label
	bi.Keywords = req.Keywords
	bi.Response = req.Response
	bi.QuickReplies = req.QuickReplies
	bi.Active = req.Active
	bi.Priority = req.Priority

	if err := h.Intents.Update(r.Context(), bi); err != nil {
		log.Printf("[ChatAdminHandler] UpdateIntent failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, bi)
}

// DeleteIntent handles DELETE /admin/chat/intents/{id}.
func (h *ChatAdminHandler) DeleteIntent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid intent id")
		return
	}

	if err := h.Intents.Delete(r.Context(), id); err != nil {
		if errors.Is(err, intent.ErrIntentNotFound) {
			respondError(w, http.StatusNotFound, "intent not found")
			return
		}
		log.Printf("[ChatAdminHandler] DeleteIntent failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete intent")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PublicQuickActions handles GET /chat/quick-actions, the widget's
// button list. Active only, display order.
func (h *ChatAdminHandler) PublicQuickActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.QuickActions.List(r.Context(), true)
	if err != nil {
		log.Printf("[ChatAdminHandler] PublicQuickActions failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list quick actions")
		return
	}
	respondJSON(w, http.StatusOK, actions)
}

// ListQuickActions handles GET /admin/chat/quick-actions.
func (h *ChatAdminHandler) ListQuickActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.QuickActions.List(r.Context(), false)
	if err != nil {
		log.Printf("[ChatAdminHandler] ListQuickActions failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list quick actions")
		return
	}
	respondJSON(w, http.StatusOK, actions)
}

type quickActionRequest struct {
	Label        string `json:"label"`
	Payload      string `json:"payload"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// CreateQuickAction handles POST /admin/chat/quick-actions.
func (h *ChatAdminHandler) CreateQuickAction(w http.ResponseWriter, r *http.Request) {
	var req quickActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qa := &domain.QuickAction{
		Label:        req.Label,
		Payload:      req.Payload,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active,
	}
	created, err := h.QuickActions.Create(r.Context(), qa)
	if err != nil {
		log.Printf("[ChatAdminHandler] CreateQuickAction failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateQuickAction handles PUT /admin/chat/quick-actions/{id}.
func (h *ChatAdminHandler) UpdateQuickAction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quick action id")
		return
	}

	qa, err := h.QuickActions.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "quick action not found")
		return
	}

	var req quickActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qa.Label = req.Label
	qa.Payload = req.Payload
	qa.Icon = req.Icon
	qa.DisplayOrder = req.DisplayOrder
	qa.Active = req.Active

	if err := h.QuickActions.Update(r.Context(), qa); err != nil {
		log.Printf("[ChatAdminHandler] UpdateQuickAction failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, qa)
}

// DeleteQuickAction handles DELETE /admin/chat/quick-actions/{id}.
func (h *ChatAdminHandler) DeleteQuickAction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quick action id")
		return
	}

	if err := h.QuickActions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, quickaction.ErrQuickActionNotFound) {
			respondError(w, http.StatusNotFound, "quick action not found")
			return
		}
		log.Printf("[ChatAdminHandler] DeleteQuickAction failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete quick action")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
