// File: internal/repository/content/enquiry_repository.go
package content

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var (
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrRiderNotFound   = errors.New("rider not found")
)

type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindByID(ctx context.Context, id uint) (*domain.Enquiry, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Enquiry, int64, error)
}

type RiderRepository interface {
	Create(ctx context.Context, rider *domain.Rider) (*domain.Rider, error)
	Update(ctx context.Context, rider *domain.Rider) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Rider, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Rider, error)
}

type gormEnquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &gormEnquiryRepository{db: db}
}

func (r *gormEnquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	if err := enquiry.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(enquiry).Error; err != nil {
		log.Printf("[EnquiryRepository] Database error creating enquiry: %v", err)
		return nil, errors.New("database error creating enquiry")
	}
	return enquiry, nil
}

func (r *gormEnquiryRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if id == 0 {
		return errors.New("invalid enquiry ID")
	}
	switch status {
	case domain.EnquiryOpen, domain.EnquiryResolved, domain.EnquiryClosed:
	default:
		return errors.New("invalid enquiry status")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Enquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		log.Printf("[EnquiryRepository] Database error updating enquiry %d: %v", id, result.Error)
		return errors.New("database error updating enquiry")
	}
	if result.RowsAffected == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}

func (r *gormEnquiryRepository) FindByID(ctx context.Context, id uint) (*domain.Enquiry, error) {
	if id == 0 {
		return nil, errors.New("invalid enquiry ID")
	}
	var enquiry domain.Enquiry
	err := r.db.WithContext(ctx).First(&enquiry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnquiryNotFound
		}
		log.Printf("[EnquiryRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding enquiry")
	}
	return &enquiry, nil
}

func (r *gormEnquiryRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Enquiry, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.Enquiry{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[EnquiryRepository] Database error counting enquiries: %v", err)
		return nil, 0, errors.New("database error counting enquiries")
	}

	var enquiries []domain.Enquiry
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&enquiries).Error
	if err != nil {
		log.Printf("[EnquiryRepository] Database error listing enquiries: %v", err)
		return nil, 0, errors.New("database error listing enquiries")
	}
	return enquiries, total, nil
}

type gormRiderRepository struct {
	db *gorm.DB
}

func NewRiderRepository(db *gorm.DB) RiderRepository {
	return &gormRiderRepository{db: db}
}

func (r *gormRiderRepository) Create(ctx context.Context, rider *domain.Rider) (*domain.Rider, error) {
	if err := rider.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(rider).Error; err != nil {
		log.Printf("[RiderRepository] Database error creating rider: %v", err)
		return nil, errors.New("database error creating rider")
	}
	return rider, nil
}

func (r *gormRiderRepository) Update(ctx context.Context, rider *domain.Rider) error {
	if rider.ID == 0 {
		return errors.New("invalid rider ID")
	}
	if err := rider.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(rider).Error; err != nil {
		log.Printf("[RiderRepository] Database error updating rider %d: %v", rider.ID, err)
		return errors.New("database error updating rider")
	}
	return nil
}

func (r *gormRiderRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid rider ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Rider{}, id)
	if result.Error != nil {
		log.Printf("[RiderRepository] Database error deleting rider %d: %v", id, result.Error)
		return errors.New("database error deleting rider")
	}
	if result.RowsAffected == 0 {
		return ErrRiderNotFound
	}
	return nil
}

func (r *gormRiderRepository) FindByID(ctx context.Context, id uint) (*domain.Rider, error) {
	if id == 0 {
		return nil, errors.New("invalid rider ID")
	}
	var rider domain.Rider
	err := r.db.WithContext(ctx).First(&rider, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiderNotFound
		}
		log.Printf("[RiderRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding rider")
	}
	return &rider, nil
}

func (r *gormRiderRepository) List(ctx context.Context, activeOnly bool) ([]domain.Rider, error) {
	query := r.db.WithContext(ctx).Model(&domain.Rider{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var riders []domain.Rider
	if err := query.Order("name ASC").Find(&riders).Error; err != nil {
		log.Printf("[RiderRepository] Database error listing riders: %v", err)
		return nil, errors.New("database error listing riders")
	}
	return riders, nil
}
