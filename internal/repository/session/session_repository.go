// File: internal/repository/session/session_repository.go
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("chat session not found")

type gormSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

// GetOrCreate resolves the duplicate-session race: the identity column is
// unique, the lookup+insert runs in one transaction, and a conflicting
// concurrent insert falls back to the winner's row.
func (r *gormSessionRepository) GetOrCreate(ctx context.Context, candidate *domain.ChatSession) (*domain.ChatSession, bool, error) {
	if err := candidate.IsValid(); err != nil {
		log.Printf("[SessionRepository] Validation failed: %v", err)
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	created := false
	var out domain.ChatSession

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("identity = ?", candidate.Identity).First(&out).Error
		if err == nil {
			if out.IsDeleted {
				// Revive rather than violate the unique identity.
				out.IsDeleted = false
				out.Active = true
				out.LastActivityAt = time.Now()
				return tx.Save(&out).Error
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if insertErr := tx.Create(candidate).Error; insertErr != nil {
			// A racing insert may have claimed the identity first.
			if findErr := tx.Where("identity = ?", candidate.Identity).First(&out).Error; findErr == nil {
				return nil
			}
			return insertErr
		}
		created = true
		out = *candidate
		return nil
	})
	if err != nil {
		log.Printf("[SessionRepository] Database error in GetOrCreate for identity kind %s: %v", candidate.IdentityKind, err)
		return nil, false, errors.New("database error creating chat session")
	}

	return &out, created, nil
}

func (r *gormSessionRepository) FindByIdentity(ctx context.Context, identity string) (*domain.ChatSession, error) {
	if identity == "" {
		return nil, errors.New("invalid session identity")
	}
	var s domain.ChatSession
	err := r.db.WithContext(ctx).
		Where("identity = ? AND is_deleted = ?", identity, false).
		First(&s).Error
	return r.handleFindError(err, &s, "FindByIdentity")
}

func (r *gormSessionRepository) FindByConnectionID(ctx context.Context, connectionID string) (*domain.ChatSession, error) {
	if connectionID == "" {
		return nil, errors.New("invalid connection ID")
	}
	var s domain.ChatSession
	err := r.db.WithContext(ctx).
		Where("connection_id = ? AND is_deleted = ?", connectionID, false).
		First(&s).Error
	return r.handleFindError(err, &s, "FindByConnectionID")
}

func (r *gormSessionRepository) FindByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	if id == "" {
		return nil, errors.New("invalid session ID")
	}
	var s domain.ChatSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return r.handleFindError(err, &s, "FindByID")
}

func (r *gormSessionRepository) Save(ctx context.Context, session *domain.ChatSession) error {
	if session.ID == "" {
		return errors.New("invalid session ID")
	}
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		log.Printf("[SessionRepository] Database error saving session %s: %v", session.ID, err)
		return errors.New("database error saving chat session")
	}
	return nil
}

func (r *gormSessionRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	if id == "" {
		return errors.New("invalid session ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_activity_at": at, "active": true})
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error touching session %s: %v", id, result.Error)
		return errors.New("database error updating session activity")
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *gormSessionRepository) End(ctx context.Context, id string, at time.Time) error {
	if id == "" {
		return errors.New("invalid session ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":        false,
			"ended_by_user": true,
			"ended_at":      at,
		})
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error ending session %s: %v", id, result.Error)
		return errors.New("database error ending chat session")
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *gormSessionRepository) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid session ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "active": false})
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error soft-deleting session %s: %v", id, result.Error)
		return errors.New("database error deleting chat session")
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	log.Printf("[SessionRepository] Session soft-deleted: %s", id)
	return nil
}

func (r *gormSessionRepository) HardDelete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid session ID")
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ChatSession{})
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error purging session %s: %v", id, result.Error)
		return errors.New("database error purging chat session")
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	log.Printf("[SessionRepository] Session purged: %s", id)
	return nil
}

func (r *gormSessionRepository) List(ctx context.Context, includeDeleted bool, limit, offset int) ([]domain.ChatSession, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.ChatSession{})
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[SessionRepository] Database error counting sessions: %v", err)
		return nil, 0, errors.New("database error counting chat sessions")
	}

	var sessions []domain.ChatSession
	err := query.
		Order("last_activity_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		log.Printf("[SessionRepository] Database error listing sessions: %v", err)
		return nil, 0, errors.New("database error listing chat sessions")
	}

	return sessions, total, nil
}

func (r *gormSessionRepository) ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("active = ? AND last_activity_at < ?", true, cutoff).
		Update("active", false)
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error expiring idle sessions: %v", result.Error)
		return 0, errors.New("database error expiring idle sessions")
	}
	return result.RowsAffected, nil
}

func (r *gormSessionRepository) handleFindError(err error, s *domain.ChatSession, operation string) (*domain.ChatSession, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		log.Printf("[SessionRepository] Database error in %s: %v", operation, err)
		return nil, errors.New("database error finding chat session")
	}
	return s, nil
}
