// File: internal/repository/content/spiritual_repository.go
package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var (
	ErrVerseNotFound      = errors.New("gita verse not found")
	ErrMantraNotFound     = errors.New("mantra not found")
	ErrPanchangamNotFound = errors.New("panchangam entry not found")
)

// SpiritualRepository serves the read-heavy devotional content: Gita
// verses, mantras and the Panchangam almanac.
type SpiritualRepository interface {
	CreateVerse(ctx context.Context, verse *domain.GitaVerse) (*domain.GitaVerse, error)
	FindVerse(ctx context.Context, chapter, verse int) (*domain.GitaVerse, error)
	ListChapter(ctx context.Context, chapter int) ([]domain.GitaVerse, error)

	CreateMantra(ctx context.Context, mantra *domain.Mantra) (*domain.Mantra, error)
	FindMantraByID(ctx context.Context, id uint) (*domain.Mantra, error)
	ListMantras(ctx context.Context, deity string) ([]domain.Mantra, error)

	UpsertPanchangam(ctx context.Context, entry *domain.PanchangamEntry) (*domain.PanchangamEntry, error)
	FindPanchangamByDate(ctx context.Context, date time.Time) (*domain.PanchangamEntry, error)
}

type gormSpiritualRepository struct {
	db *gorm.DB
}

func NewSpiritualRepository(db *gorm.DB) SpiritualRepository {
	return &gormSpiritualRepository{db: db}
}

func (r *gormSpiritualRepository) CreateVerse(ctx context.Context, verse *domain.GitaVerse) (*domain.GitaVerse, error) {
	if err := verse.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(verse).Error; err != nil {
		log.Printf("[SpiritualRepository] Database error creating verse %d.%d: %v", verse.Chapter, verse.Verse, err)
		return nil, errors.New("database error creating gita verse")
	}
	return verse, nil
}

func (r *gormSpiritualRepository) FindVerse(ctx context.Context, chapter, verse int) (*domain.GitaVerse, error) {
	if chapter < 1 || verse < 1 {
		return nil, errors.New("invalid chapter or verse")
	}
	var v domain.GitaVerse
	err := r.db.WithContext(ctx).Where("chapter = ? AND verse = ?", chapter, verse).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerseNotFound
		}
		log.Printf("[SpiritualRepository] Database error in FindVerse: %v", err)
		return nil, errors.New("database error finding gita verse")
	}
	return &v, nil
}

func (r *gormSpiritualRepository) ListChapter(ctx context.Context, chapter int) ([]domain.GitaVerse, error) {
	if chapter < 1 || chapter > 18 {
		return nil, errors.New("chapter must be between 1 and 18")
	}
	var verses []domain.GitaVerse
	err := r.db.WithContext(ctx).Where("chapter = ?", chapter).Order("verse ASC").Find(&verses).Error
	if err != nil {
		log.Printf("[SpiritualRepository] Database error listing chapter %d: %v", chapter, err)
		return nil, errors.New("database error listing gita verses")
	}
	return verses, nil
}

func (r *gormSpiritualRepository) CreateMantra(ctx context.Context, mantra *domain.Mantra) (*domain.Mantra, error) {
	if err := mantra.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(mantra).Error; err != nil {
		log.Printf("[SpiritualRepository] Database error creating mantra %q: %v", mantra.Name, err)
		return nil, errors.New("database error creating mantra")
	}
	return mantra, nil
}

func (r *gormSpiritualRepository) FindMantraByID(ctx context.Context, id uint) (*domain.Mantra, error) {
	if id == 0 {
		return nil, errors.New("invalid mantra ID")
	}
	var mantra domain.Mantra
	err := r.db.WithContext(ctx).First(&mantra, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMantraNotFound
		}
		log.Printf("[SpiritualRepository] Database error in FindMantraByID: %v", err)
		return nil, errors.New("database error finding mantra")
	}
	return &mantra, nil
}

func (r *gormSpiritualRepository) ListMantras(ctx context.Context, deity string) ([]domain.Mantra, error) {
	query := r.db.WithContext(ctx).Model(&domain.Mantra{})
	if deity != "" {
		query = query.Where("deity = ?", deity)
	}
	var mantras []domain.Mantra
	if err := query.Order("name ASC").Find(&mantras).Error; err != nil {
		log.Printf("[SpiritualRepository] Database error listing mantras: %v", err)
		return nil, errors.New("database error listing mantras")
	}
	return mantras, nil
}

func (r *gormSpiritualRepository) UpsertPanchangam(ctx context.Context, entry *domain.PanchangamEntry) (*domain.PanchangamEntry, error) {
	if err := entry.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	entry.Date = truncateToDay(entry.Date)

	var existing domain.PanchangamEntry
	err := r.db.WithContext(ctx).Where("date = ?", entry.Date).First(&existing).Error
	if err == nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if saveErr := r.db.WithContext(ctx).Save(entry).Error; saveErr != nil {
			log.Printf("[SpiritualRepository] Database error updating panchangam: %v", saveErr)
			return nil, errors.New("database error updating panchangam entry")
		}
		return entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[SpiritualRepository] Database error in UpsertPanchangam: %v", err)
		return nil, errors.New("database error upserting panchangam entry")
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("[SpiritualRepository] Database error creating panchangam: %v", err)
		return nil, errors.New("database error creating panchangam entry")
	}
	return entry, nil
}

func (r *gormSpiritualRepository) FindPanchangamByDate(ctx context.Context, date time.Time) (*domain.PanchangamEntry, error) {
	var entry domain.PanchangamEntry
	err := r.db.WithContext(ctx).Where("date = ?", truncateToDay(date)).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPanchangamNotFound
		}
		log.Printf("[SpiritualRepository] Database error in FindPanchangamByDate: %v", err)
		return nil, errors.New("database error finding panchangam entry")
	}
	return &entry, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
