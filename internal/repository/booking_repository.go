package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	bookingDomain "github.com/openfleet/service-rental/internal/domain/booking"
	"github.com/openfleet/service-rental/internal/domain/status"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uint      `gorm:"primaryKey"`
	CarID     uint      `gorm:"not null;index"`
	UserName  string    `gorm:"not null;size:100"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	StatusID  int       `gorm:"not null;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db      *gorm.DB
	catalog *status.Catalog
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB, catalog *status.Catalog) *GormBookingRepository {
	return &GormBookingRepository{db: db, catalog: catalog}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uint) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return r.toDomain(&model)
}

// FindByCarID retrieves every booking referencing the given car.
func (r *GormBookingRepository) FindByCarID(ctx context.Context, carID uint) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFrom(ctx, r.db).
		Where("car_id = ?", carID).
		Order("start_date").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings for car: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := r.toDomain(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// ListAll retrieves all bookings with pagination.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := r.toDomain(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = b
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status machine name.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		StatusID int
		Count    int64
	}
	var results []statusCount
	if err := dbFrom(ctx, r.db).Model(&BookingModel{}).
		Select("status_id, count(*) as count").
		Group("status_id").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		st, ok := r.catalog.BookingStatusByCode(sc.StatusID)
		if !ok {
			return nil, fmt.Errorf("bookings reference unknown status code %d", sc.StatusID)
		}
		counts[st.String()] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking and assigns its identifier.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := r.toModel(b)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	*b = *bookingDomain.Reconstruct(
		model.ID, b.CarID(), b.UserName(), b.StartDate(), b.EndDate(),
		b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := r.toModel(b)

	expectedVersion := b.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"car_id":     model.CarID,
			"user_name":  model.UserName,
			"start_date": model.StartDate,
			"end_date":   model.EndDate,
			"status_id":  model.StatusID,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete removes a booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookingModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}

func (r *GormBookingRepository) toModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		CarID:     b.CarID(),
		UserName:  b.UserName(),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
		StatusID:  r.catalog.BookingCode(b.Status()),
		Version:   b.Version(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func (r *GormBookingRepository) toDomain(m *BookingModel) (*bookingDomain.Booking, error) {
	st, ok := r.catalog.BookingStatusByCode(m.StatusID)
	if !ok {
		return nil, fmt.Errorf("booking %d references unknown status code %d", m.ID, m.StatusID)
	}
	return bookingDomain.Reconstruct(
		m.ID, m.CarID, m.UserName, m.StartDate, m.EndDate,
		st, m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}
