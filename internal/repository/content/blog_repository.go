// File: internal/repository/content/blog_repository.go
package content

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	// List returns blogs newest first. publishedOnly hides drafts.
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, int64, error)
}

type gormBlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &gormBlogRepository{db: db}
}

func (r *gormBlogRepository) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	if err := blog.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		log.Printf("[BlogRepository] Database error creating blog %q: %v", blog.Slug, err)
		return nil, errors.New("database error creating blog")
	}
	return blog, nil
}

func (r *gormBlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	if blog.ID == 0 {
		return errors.New("invalid blog ID")
	}
	if err := blog.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		log.Printf("[BlogRepository] Database error updating blog %d: %v", blog.ID, err)
		return errors.New("database error updating blog")
	}
	return nil
}

func (r *gormBlogRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid blog ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Blog{}, id)
	if result.Error != nil {
		log.Printf("[BlogRepository] Database error deleting blog %d: %v", id, result.Error)
		return errors.New("database error deleting blog")
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *gormBlogRepository) FindByID(ctx context.Context, id uint) (*domain.Blog, error) {
	if id == 0 {
		return nil, errors.New("invalid blog ID")
	}
	var blog domain.Blog
	return r.handleFindError(r.db.WithContext(ctx).First(&blog, id).Error, &blog, "FindByID")
}

func (r *gormBlogRepository) FindBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	if slug == "" {
		return nil, errors.New("invalid blog slug")
	}
	var blog domain.Blog
	return r.handleFindError(r.db.WithContext(ctx).Where("slug = ?", slug).First(&blog).Error, &blog, "FindBySlug")
}

func (r *gormBlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.Blog{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[BlogRepository] Database error counting blogs: %v", err)
		return nil, 0, errors.New("database error counting blogs")
	}

	var blogs []domain.Blog
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&blogs).Error
	if err != nil {
		log.Printf("[BlogRepository] Database error listing blogs: %v", err)
		return nil, 0, errors.New("database error listing blogs")
	}
	return blogs, total, nil
}

func (r *gormBlogRepository) handleFindError(err error, blog *domain.Blog, operation string) (*domain.Blog, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		log.Printf("[BlogRepository] Database error in %s: %v", operation, err)
		return nil, errors.New("database error finding blog")
	}
	return blog, nil
}
