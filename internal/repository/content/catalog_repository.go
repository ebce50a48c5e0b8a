// File: internal/repository/content/catalog_repository.go
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
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, categoryID *uint, activeOnly bool, limit, offset int) ([]domain.Product, int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		log.Printf("[ProductRepository] Database error creating product %q: %v", product.Slug, err)
		return nil, errors.New("database error creating product")
	}
	return product, nil
}

func (r *gormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if product.ID == 0 {
		return errors.New("invalid product ID")
	}
	if err := product.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		log.Printf("[ProductRepository] Database error updating product %d: %v", product.ID, err)
		return errors.New("database error updating product")
	}
	return nil
}

func (r *gormProductRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid product ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		log.Printf("[ProductRepository] Database error deleting product %d: %v", id, result.Error)
		return errors.New("database error deleting product")
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *gormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product ID")
	}
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		log.Printf("[ProductRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding product")
	}
	return &product, nil
}

func (r *gormProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("invalid product slug")
	}
	var product domain.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		log.Printf("[ProductRepository] Database error in FindBySlug: %v", err)
		return nil, errors.New("database error finding product")
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context, categoryID *uint, activeOnly bool, limit, offset int) ([]domain.Product, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[ProductRepository] Database error counting products: %v", err)
		return nil, 0, errors.New("database error counting products")
	}

	var products []domain.Product
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		log.Printf("[ProductRepository] Database error listing products: %v", err)
		return nil, 0, errors.New("database error listing products")
	}
	return products, total, nil
}

type gormCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := category.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		log.Printf("[CategoryRepository] Database error creating category %q: %v", category.Slug, err)
		return nil, errors.New("database error creating category")
	}
	return category, nil
}

func (r *gormCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if category.ID == 0 {
		return errors.New("invalid category ID")
	}
	if err := category.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		log.Printf("[CategoryRepository] Database error updating category %d: %v", category.ID, err)
		return errors.New("database error updating category")
	}
	return nil
}

func (r *gormCategoryRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid category ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		log.Printf("[CategoryRepository] Database error deleting category %d: %v", id, result.Error)
		return errors.New("database error deleting category")
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	if id == 0 {
		return nil, errors.New("invalid category ID")
	}
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		log.Printf("[CategoryRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error finding category")
	}
	return &category, nil
}

func (r *gormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if slug == "" {
		return nil, errors.New("invalid category slug")
	}
	var category domain.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		log.Printf("[CategoryRepository] Database error in FindBySlug: %v", err)
		return nil, errors.New("database error finding category")
	}
	return &category, nil
}

func (r *gormCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		log.Printf("[CategoryRepository] Database error listing categories: %v", err)
		return nil, errors.New("database error listing categories")
	}
	return categories, nil
}
