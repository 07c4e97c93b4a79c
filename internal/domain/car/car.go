package car

import (
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	"github.com/openfleet/service-rental/internal/domain/status"
)

const (
	minYear = 1950

	// MaxPricePerDayCents bounds the daily price an admin can set.
	MaxPricePerDayCents = 10000 * 100
)

// Car is the aggregate root for the fleet domain.
type Car struct {
	id               uint
	brand            string
	model            string
	year             int
	pricePerDayCents int64
	status           status.CarStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewCar creates a new Car. A car can never be created in the rented state;
// rented is only ever derived from its bookings.
func NewCar(brand, model string, year int, pricePerDayCents int64, st status.CarStatus) (*Car, error) {
	if brand == "" {
		return nil, domain.NewValidationError(domain.ReasonValidation, "brand is required")
	}
	if model == "" {
		return nil, domain.NewValidationError(domain.ReasonValidation, "model is required")
	}
	if year < minYear || year > time.Now().Year()+1 {
		return nil, domain.NewValidationError(domain.ReasonValidation, "year %d is out of range", year)
	}
	if pricePerDayCents <= 0 || pricePerDayCents > MaxPricePerDayCents {
		return nil, domain.NewValidationError(domain.ReasonValidation, "price per day must be between 1 and %d cents", MaxPricePerDayCents)
	}
	if !st.IsValid() {
		return nil, domain.NewValidationError(domain.ReasonInvalidStatus, "invalid car status: %s", st)
	}
	if st == status.CarRented {
		return nil, domain.NewValidationError(domain.ReasonInvalidStatus, "a car cannot be created as rented")
	}

	now := time.Now().UTC()
	return &Car{
		brand:            brand,
		model:            model,
		year:             year,
		pricePerDayCents: pricePerDayCents,
		status:           st,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Car from persistence data (no validation).
func Reconstruct(
	id uint,
	brand, model string,
	year int,
	pricePerDayCents int64,
	st status.CarStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:               id,
		brand:            brand,
		model:            model,
		year:             year,
		pricePerDayCents: pricePerDayCents,
		status:           st,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the car's identifier.
func (c *Car) ID() uint { return c.id }

// Brand returns the manufacturer name.
func (c *Car) Brand() string { return c.brand }

// Model returns the model name.
func (c *Car) Model() string { return c.model }

// Year returns the model year.
func (c *Car) Year() int { return c.year }

// PricePerDayCents returns the daily rental price in cents.
func (c *Car) PricePerDayCents() int64 { return c.pricePerDayCents }

// Status returns the current car status.
func (c *Car) Status() status.CarStatus { return c.status }

// Version returns the entity version for optimistic locking.
func (c *Car) Version() int64 { return c.version }

// CreatedAt returns the creation timestamp.
func (c *Car) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// Label returns "Brand Model" for rejection details and log fields.
func (c *Car) Label() string { return c.brand + " " + c.model }

// ApplyAdminUpdate applies an administrative edit. The rented status can
// never be assigned manually: it is owned by the reconciler. Available and
// under_repair are the only statuses an admin may set directly.
func (c *Car) ApplyAdminUpdate(brand, model string, year int, pricePerDayCents int64, st status.CarStatus) error {
	if brand == "" {
		return domain.NewValidationError(domain.ReasonValidation, "brand is required")
	}
	if model == "" {
		return domain.NewValidationError(domain.ReasonValidation, "model is required")
	}
	if year < minYear || year > time.Now().Year()+1 {
		return domain.NewValidationError(domain.ReasonValidation, "year %d is out of range", year)
	}
	if pricePerDayCents <= 0 || pricePerDayCents > MaxPricePerDayCents {
		return domain.NewValidationError(domain.ReasonValidation, "price per day must be between 1 and %d cents", MaxPricePerDayCents)
	}
	if st == status.CarRented {
		return domain.NewValidationError(domain.ReasonInvalidStatus, "car status cannot be set to rented manually")
	}
	if !st.IsValid() {
		return domain.NewValidationError(domain.ReasonInvalidStatus, "invalid car status: %s", st)
	}

	c.brand = brand
	c.model = model
	c.year = year
	c.pricePerDayCents = pricePerDayCents
	c.status = st
	c.updatedAt = time.Now().UTC()
	return nil
}

// SetStatus applies a reconciler decision or maintenance override.
func (c *Car) SetStatus(st status.CarStatus) {
	c.status = st
	c.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (c *Car) IncrementVersion() {
	c.version++
	c.updatedAt = time.Now().UTC()
}
