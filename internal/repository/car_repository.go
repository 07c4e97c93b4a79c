package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	carDomain "github.com/openfleet/service-rental/internal/domain/car"
	"github.com/openfleet/service-rental/internal/domain/status"
	"gorm.io/gorm"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID               uint      `gorm:"primaryKey"`
	Brand            string    `gorm:"not null;size:100"`
	Model            string    `gorm:"not null;size:100"`
	Year             int       `gorm:"not null"`
	PricePerDayCents int64     `gorm:"not null"`
	StatusID         int       `gorm:"not null;index"`
	Version          int64     `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of car.Repository.
type GormCarRepository struct {
	db      *gorm.DB
	catalog *status.Catalog
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB, catalog *status.Catalog) *GormCarRepository {
	return &GormCarRepository{db: db, catalog: catalog}
}

// FindByID retrieves a car by its identifier.
func (r *GormCarRepository) FindByID(ctx context.Context, id uint) (*carDomain.Car, error) {
	var model CarModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return r.toDomain(&model)
}

// ListAll retrieves all cars with pagination.
func (r *GormCarRepository) ListAll(ctx context.Context, page, limit int) ([]*carDomain.Car, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&CarModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	var models []CarModel
	offset := (page - 1) * limit
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		c, err := r.toDomain(&m)
		if err != nil {
			return nil, 0, err
		}
		cars[i] = c
	}
	return cars, total, nil
}

// Save persists a new car and assigns its identifier.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) error {
	model := r.toModel(c)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save car: %w", err)
	}
	*c = *carDomain.Reconstruct(
		model.ID, c.Brand(), c.Model(), c.Year(), c.PricePerDayCents(),
		c.Status(), c.Version(), c.CreatedAt(), c.UpdatedAt(),
	)
	return nil
}

// Update persists changes to an existing car with optimistic locking.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	model := r.toModel(c)

	// The caller bumped the version via IncrementVersion, so the row must
	// still hold the previous one.
	expectedVersion := c.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&CarModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"brand":               model.Brand,
			"model":               model.Model,
			"year":                model.Year,
			"price_per_day_cents": model.PricePerDayCents,
			"status_id":           model.StatusID,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("car was modified by another transaction")
	}
	return nil
}

// Delete removes a car.
func (r *GormCarRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&CarModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}

func (r *GormCarRepository) toModel(c *carDomain.Car) *CarModel {
	return &CarModel{
		ID:               c.ID(),
		Brand:            c.Brand(),
		Model:            c.Model(),
		Year:             c.Year(),
		PricePerDayCents: c.PricePerDayCents(),
		StatusID:         r.catalog.CarCode(c.Status()),
		Version:          c.Version(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func (r *GormCarRepository) toDomain(m *CarModel) (*carDomain.Car, error) {
	st, ok := r.catalog.CarStatusByCode(m.StatusID)
	if !ok {
		return nil, fmt.Errorf("car %d references unknown status code %d", m.ID, m.StatusID)
	}
	return carDomain.Reconstruct(
		m.ID, m.Brand, m.Model, m.Year, m.PricePerDayCents,
		st, m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}
