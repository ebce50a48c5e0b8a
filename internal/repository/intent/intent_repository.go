// File: internal/repository/intent/intent_repository.go
package intent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrIntentNotFound = errors.New("bot intent not found")

// IntentRepository owns the admin-configured keyword intents. The matcher
// reloads active intents on every call; intents change infrequently so no
// cache sits in front of this.
type IntentRepository interface {
	Create(ctx context.Context, intent *domain.BotIntent) (*domain.BotIntent, error)
	Update(ctx context.Context, intent *domain.BotIntent) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.BotIntent, error)
	List(ctx context.Context) ([]domain.BotIntent, error)

	// ListActive returns active intents ordered by priority descending,
	// the order the matcher iterates them in.
	ListActive(ctx context.Context) ([]domain.BotIntent, error)

	// RecordMatch bumps the match counter and stamps last-matched.
	RecordMatch(ctx context.Context, id uint, at time.Time) error
}

type gormIntentRepository struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) IntentRepository {
	return &gormIntentRepository{db: db}
}

func (r *gormIntentRepository) Create(ctx context.Context, intent *domain.BotIntent) (*domain.BotIntent, error) {
	if err := intent.IsValid(); err != nil {
		log.Printf("[IntentRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(intent).Error; err != nil {
		log.Printf("[IntentRepository] Database error creating intent %q: %v", intent.Label, err)
		return nil, errors.New("database error creating bot intent")
	}
	return intent, nil
}

func (r *gormIntentRepository) Update(ctx context.Context, intent *domain.BotIntent) error {
	if intent.ID == 0 {
		return errors.New("invalid intent ID")
	}
	if err := intent.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(intent).Error; err != nil {
		log.Printf("[IntentRepository] Database error updating intent %d: %v", intent.ID, err)
		return errors.New("database error updating bot intent")
	}
	return nil
}

func (r *gormIntentRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid intent ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.BotIntent{}, id)
	if result.Error != nil {
		log.Printf("[IntentRepository] Database error deleting intent %d: %v", id, result.Error)
		return errors.New("database error deleting bot intent")
	}
	if result.RowsAffected == 0 {
		return ErrIntentNotFound
	}
	return nil
}

func (r *gormIntentRepository) FindByID(ctx context.Context, id uint) (*domain.BotIntent, error) {
	if id == 0 {
		return nil, errors.New("invalid intent ID")
	}
	var intent domain.BotIntent
	err := r.db.WithContext(ctx).First(&intent, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		log.Printf("[IntentRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding bot intent")
	}
	return &intent, nil
}

func (r *gormIntentRepository) List(ctx context.Context) ([]domain.BotIntent, error) {
	var intents []domain.BotIntent
	err := r.db.WithContext(ctx).Order("priority DESC, id ASC").Find(&intents).Error
	if err != nil {
		log.Printf("[IntentRepository] Database error listing intents: %v", err)
		return nil, errors.New("database error listing bot intents")
	}
	return intents, nil
}

func (r *gormIntentRepository) ListActive(ctx context.Context) ([]domain.BotIntent, error) {
	var intents []domain.BotIntent
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority DESC, id ASC").
		Find(&intents).Error
	if err != nil {
		log.Printf("[IntentRepository] Database error listing active intents: %v", err)
		return nil, errors.New("database error listing bot intents")
	}
	return intents, nil
}

func (r *gormIntentRepository) RecordMatch(ctx context.Context, id uint, at time.Time) error {
	if id == 0 {
		return errors.New("invalid intent ID")
	}
	err := r.db.WithContext(ctx).
		Model(&domain.BotIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"match_count":  gorm.Expr("match_count + 1"),
			"last_matched": at,
		}).Error
	if err != nil {
		log.Printf("[IntentRepository] Database error recording match for intent %d: %v", id, err)
		return errors.New("database error recording intent match")
	}
	return nil
}
