// File: internal/repository/quickaction/quickaction_repository.go
package quickaction

import (
	"context"
	"errors"
	"log"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrQuickActionNotFound = errors.New("quick action not found")

type QuickActionRepository interface {
	Create(ctx context.Context, qa *domain.QuickAction) (*domain.QuickAction, error)
	Update(ctx context.Context, qa *domain.QuickAction) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.QuickAction, error)
	// List returns quick actions in display order. With activeOnly set it
	// returns only the buttons the widget should render.
	List(ctx context.Context, activeOnly bool) ([]domain.QuickAction, error)
}

type gormQuickActionRepository struct {
	db *gorm.DB
}

func NewQuickActionRepository(db *gorm.DB) QuickActionRepository {
	return &gormQuickActionRepository{db: db}
}

func (r *gormQuickActionRepository) Create(ctx context.Context, qa *domain.QuickAction) (*domain.QuickAction, error) {
	if qa.Label == "" || qa.Payload == "" {
		return nil, errors.New("quick action label and payload are required")
	}
	if err := r.db.WithContext(ctx).Create(qa).Error; err != nil {
		log.Printf("[QuickActionRepository] Database error creating quick action: %v", err)
		return nil, errors.New("database error creating quick action")
	}
	return qa, nil
}

func (r *gormQuickActionRepository) Update(ctx context.Context, qa *domain.QuickAction) error {
	if qa.ID == 0 {
		return errors.New("invalid quick action ID")
	}
	if err := r.db.WithContext(ctx).Save(qa).Error; err != nil {
		log.Printf("[QuickActionRepository] Database error updating quick action %d: %v", qa.ID, err)
		return errors.New("database error updating quick action")
	}
	return nil
}

func (r *gormQuickActionRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid quick action ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.QuickAction{}, id)
	if result.Error != nil {
		log.Printf("[QuickActionRepository] Database error deleting quick action %d: %v", id, result.Error)
		return errors.New("database error deleting quick action")
	}
	if result.RowsAffected == 0 {
		return ErrQuickActionNotFound
	}
	return nil
}

func (r *gormQuickActionRepository) FindByID(ctx context.Context, id uint) (*domain.QuickAction, error) {
	if id == 0 {
		return nil, errors.New("invalid quick action ID")
	}
	var qa domain.QuickAction
	err := r.db.WithContext(ctx).First(&qa, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuickActionNotFound
		}
		log.Printf("[QuickActionRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding quick action")
	}
	return &qa, nil
}

func (r *gormQuickActionRepository) List(ctx context.Context, activeOnly bool) ([]domain.QuickAction, error) {
	query := r.db.WithContext(ctx).Model(&domain.QuickAction{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var actions []domain.QuickAction
	if err := query.Order("display_order ASC, id ASC").Find(&actions).Error; err != nil {
		log.Printf("[QuickActionRepository] Database error listing quick actions: %v", err)
		return nil, errors.New("database error listing quick actions")
	}
	return actions, nil
}
