// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("chat message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := msg.IsValid(); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		// Bodies are never logged.
		log.Printf("[MessageRepository] Database error creating message for session %s: %v", msg.SessionID, err)
		return nil, errors.New("database error creating chat message")
	}
	return msg, nil
}

func (r *gormMessageRepository) FindBySessionID(ctx context.Context, sessionID string, includeDeleted bool) ([]domain.ChatMessage, error) {
	if sessionID == "" {
		return nil, errors.New("invalid session ID")
	}

	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var messages []domain.ChatMessage
	err := query.Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error fetching messages for session %s: %v", sessionID, err)
		return nil, errors.New("database error fetching chat messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) SoftDelete(ctx context.Context, messageID, sessionID string) error {
	if messageID == "" || sessionID == "" {
		return errors.New("invalid message ID or session ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("id = ? AND session_id = ?", messageID, sessionID).
		Update("is_deleted", true)
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error soft-deleting message %s: %v", messageID, result.Error)
		return errors.New("database error deleting chat message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) MarkRead(ctx context.Context, sessionID, sender string) error {
	if sessionID == "" {
		return errors.New("invalid session ID")
	}

	err := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("session_id = ? AND sender = ? AND read = ?", sessionID, sender, false).
		Update("read", true).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error marking messages read for session %s: %v", sessionID, err)
		return errors.New("database error marking chat messages read")
	}
	return nil
}

func (r *gormMessageRepository) CountBySessionID(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, errors.New("invalid session ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for session %s: %v", sessionID, err)
		return 0, errors.New("database error counting chat messages")
	}
	return count, nil
}

func (r *gormMessageRepository) HardDeleteBySessionID(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, errors.New("invalid session ID")
	}

	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&domain.ChatMessage{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error purging messages for session %s: %v", sessionID, result.Error)
		return 0, errors.New("database error purging chat messages")
	}
	log.Printf("[MessageRepository] Purged %d messages for session %s", result.RowsAffected, sessionID)
	return result.RowsAffected, nil
}
