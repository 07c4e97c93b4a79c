package booking

import (
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	"github.com/openfleet/service-rental/internal/domain/status"
)

// Booking is the aggregate root for the rental booking domain. A booking
// occupies its car over the half-open interval [startDate, endDate).
type Booking struct {
	id        uint
	carID     uint
	userName  string
	startDate time.Time
	endDate   time.Time
	status    status.BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking. Date ordering is the aggregate's own
// invariant; cross-entity checks (car existence, overlaps) belong to the
// Validator.
func NewBooking(carID uint, userName string, startDate, endDate time.Time, st status.BookingStatus) (*Booking, error) {
	if carID == 0 {
		return nil, domain.NewValidationError(domain.ReasonCarNotFound, "car is required")
	}
	if userName == "" {
		return nil, domain.NewValidationError(domain.ReasonValidation, "user name is required")
	}
	if !startDate.Before(endDate) {
		return nil, domain.NewValidationError(domain.ReasonInvalidDateRange, "start date must be before end date")
	}
	if !st.IsValid() {
		return nil, domain.NewValidationError(domain.ReasonInvalidStatus, "invalid booking status: %s", st)
	}

	now := time.Now().UTC()
	return &Booking{
		carID:     carID,
		userName:  userName,
		startDate: startDate,
		endDate:   endDate,
		status:    st,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, carID uint,
	userName string,
	startDate, endDate time.Time,
	st status.BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		carID:     carID,
		userName:  userName,
		startDate: startDate,
		endDate:   endDate,
		status:    st,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the booking's identifier.
func (b *Booking) ID() uint { return b.id }

// CarID returns the identifier of the booked car.
func (b *Booking) CarID() uint { return b.carID }

// UserName returns the renter's name.
func (b *Booking) UserName() string { return b.userName }

// StartDate returns the inclusive start of the booking interval.
func (b *Booking) StartDate() time.Time { return b.startDate }

// EndDate returns the exclusive end of the booking interval.
func (b *Booking) EndDate() time.Time { return b.endDate }

// Status returns the current booking status.
func (b *Booking) Status() status.BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// ApplyUpdate rewrites the mutable fields after the Validator accepted the
// candidate. A zero carID keeps the current car.
func (b *Booking) ApplyUpdate(carID uint, userName string, startDate, endDate time.Time, st status.BookingStatus) error {
	if userName == "" {
		return domain.NewValidationError(domain.ReasonValidation, "user name is required")
	}
	if !startDate.Before(endDate) {
		return domain.NewValidationError(domain.ReasonInvalidDateRange, "start date must be before end date")
	}
	if !st.IsValid() {
		return domain.NewValidationError(domain.ReasonInvalidStatus, "invalid booking status: %s", st)
	}

	if carID != 0 {
		b.carID = carID
	}
	b.userName = userName
	b.startDate = startDate
	b.endDate = endDate
	b.status = st
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
