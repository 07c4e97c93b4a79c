package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	reviewDomain "github.com/openfleet/service-rental/internal/domain/review"
	"gorm.io/gorm"
)

// ReviewModel is the GORM model for the reviews table. Reviews carry no
// foreign key to cars.
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserName  string    `gorm:"not null;size:100"`
	Comment   string    `gorm:"not null;size:500"`
	Date      time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID retrieves a review by its identifier.
func (r *GormReviewRepository) FindByID(ctx context.Context, id uint) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return toDomainReview(&model), nil
}

// ListAll retrieves all reviews with pagination, newest first.
func (r *GormReviewRepository) ListAll(ctx context.Context, page, limit int) ([]*reviewDomain.Review, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&ReviewModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := db.Order("date DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// Save persists a new review and assigns its identifier.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := toReviewModel(rv)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	*rv = *reviewDomain.Reconstruct(
		model.ID, rv.UserName(), rv.Comment(), rv.Date(), rv.CreatedAt(), rv.UpdatedAt(),
	)
	return nil
}

// Update persists changes to an existing review.
func (r *GormReviewRepository) Update(ctx context.Context, rv *reviewDomain.Review) error {
	model := toReviewModel(rv)
	result := dbFrom(ctx, r.db).
		Model(&ReviewModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"user_name":  model.UserName,
			"comment":    model.Comment,
			"date":       model.Date,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", strconv.FormatUint(uint64(model.ID), 10))
	}
	return nil
}

// Delete removes a review.
func (r *GormReviewRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}

func toReviewModel(rv *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rv.ID(),
		UserName:  rv.UserName(),
		Comment:   rv.Comment(),
		Date:      rv.Date(),
		CreatedAt: rv.CreatedAt(),
		UpdatedAt: rv.UpdatedAt(),
	}
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(m.ID, m.UserName, m.Comment, m.Date, m.CreatedAt, m.UpdatedAt)
}
