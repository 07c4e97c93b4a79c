package repository

import (
	"context"
	"fmt"

	"github.com/openfleet/service-rental/internal/domain/status"
	"gorm.io/gorm"
)

// CarStatusTypeModel is the GORM model for the car_status_types lookup table.
type CarStatusTypeModel struct {
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null;size:50"`
	DisplayName string `gorm:"not null;size:100"`
}

// TableName returns the table name for the GORM model.
func (CarStatusTypeModel) TableName() string {
	return "car_status_types"
}

// BookingStatusTypeModel is the GORM model for the booking_status_types
// lookup table.
type BookingStatusTypeModel struct {
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null;size:50"`
	DisplayName string `gorm:"not null;size:100"`
}

// TableName returns the table name for the GORM model.
func (BookingStatusTypeModel) TableName() string {
	return "booking_status_types"
}

// GormStatusRepository loads the status lookup tables.
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository.
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// CarStatusTypes returns every row of the car status lookup table.
func (r *GormStatusRepository) CarStatusTypes(ctx context.Context) ([]status.Type, error) {
	var models []CarStatusTypeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load car status types: %w", err)
	}

	types := make([]status.Type, len(models))
	for i, m := range models {
		types[i] = status.Type{Code: m.ID, Name: m.Name, DisplayName: m.DisplayName}
	}
	return types, nil
}

// BookingStatusTypes returns every row of the booking status lookup table.
func (r *GormStatusRepository) BookingStatusTypes(ctx context.Context) ([]status.Type, error) {
	var models []BookingStatusTypeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load booking status types: %w", err)
	}

	types := make([]status.Type, len(models))
	for i, m := range models {
		types[i] = status.Type{Code: m.ID, Name: m.Name, DisplayName: m.DisplayName}
	}
	return types, nil
}

// SeedStatusTypes inserts the default lookup rows if the tables are empty.
// Used by dev auto-migration; SQL migrations seed production.
func SeedStatusTypes(db *gorm.DB) error {
	var carCount int64
	if err := db.Model(&CarStatusTypeModel{}).Count(&carCount).Error; err != nil {
		return fmt.Errorf("failed to count car status types: %w", err)
	}
	if carCount == 0 {
		for _, t := range status.CarStatusSeed {
			row := CarStatusTypeModel{ID: t.Code, Name: t.Name, DisplayName: t.DisplayName}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed car status type %q: %w", t.Name, err)
			}
		}
	}

	var bookingCount int64
	if err := db.Model(&BookingStatusTypeModel{}).Count(&bookingCount).Error; err != nil {
		return fmt.Errorf("failed to count booking status types: %w", err)
	}
	if bookingCount == 0 {
		for _, t := range status.BookingStatusSeed {
			row := BookingStatusTypeModel{ID: t.Code, Name: t.Name, DisplayName: t.DisplayName}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed booking status type %q: %w", t.Name, err)
			}
		}
	}

	return nil
}
