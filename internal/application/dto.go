package application

import (
	"fmt"
	"strings"
	"time"

	bookingDomain "github.com/openfleet/service-rental/internal/domain/booking"
	carDomain "github.com/openfleet/service-rental/internal/domain/car"
	reviewDomain "github.com/openfleet/service-rental/internal/domain/review"
	"github.com/openfleet/service-rental/internal/domain/status"
)

// Date is a calendar date marshalled as "YYYY-MM-DD". Bookings occupy whole
// days, so the wire format carries no time-of-day component; internally the
// date is anchored at UTC midnight.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// BookingRequest carries the fields for creating or updating a booking.
// StatusID zero means "unset": creation may then default it by date, update
// keeps the current status.
type BookingRequest struct {
	CarID     uint   `json:"car_id" binding:"required"`
	UserName  string `json:"user_name" binding:"required"`
	StartDate Date   `json:"start_date" binding:"required"`
	EndDate   Date   `json:"end_date" binding:"required"`
	StatusID  int    `json:"status_id"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        uint      `json:"id"`
	CarID     uint      `json:"car_id"`
	UserName  string    `json:"user_name"`
	StartDate Date      `json:"start_date"`
	EndDate   Date      `json:"end_date"`
	StatusID  int       `json:"status_id"`
	Status    string    `json:"status"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarRequest carries the fields for creating or updating a car.
type CarRequest struct {
	Brand            string `json:"brand" binding:"required"`
	Model            string `json:"model" binding:"required"`
	Year             int    `json:"year" binding:"required"`
	PricePerDayCents int64  `json:"price_per_day_cents" binding:"required"`
	StatusID         int    `json:"status_id" binding:"required"`
}

// CarDTO is the response representation of a car.
type CarDTO struct {
	ID               uint        `json:"id"`
	Brand            string      `json:"brand"`
	Model            string      `json:"model"`
	Year             int         `json:"year"`
	PricePerDayCents int64       `json:"price_per_day_cents"`
	Status           status.Type `json:"status"`
	Version          int64       `json:"version"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ReviewRequest carries the fields for creating or updating a review.
type ReviewRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Comment  string `json:"comment" binding:"required,max=500"`
}

// ReviewDTO is the response representation of a review. The date is assigned
// by the server at write time.
type ReviewDTO struct {
	ID       uint      `json:"id"`
	UserName string    `json:"user_name"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

func toBookingDTO(b *bookingDomain.Booking, catalog *status.Catalog) BookingDTO {
	return BookingDTO{
		ID:        b.ID(),
		CarID:     b.CarID(),
		UserName:  b.UserName(),
		StartDate: Date{b.StartDate()},
		EndDate:   Date{b.EndDate()},
		StatusID:  catalog.BookingCode(b.Status()),
		Status:    b.Status().String(),
		Version:   b.Version(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toCarDTO(c *carDomain.Car, catalog *status.Catalog) CarDTO {
	return CarDTO{
		ID:               c.ID(),
		Brand:            c.Brand(),
		Model:            c.Model(),
		Year:             c.Year(),
		PricePerDayCents: c.PricePerDayCents(),
		Status: status.Type{
			Code:        catalog.CarCode(c.Status()),
			Name:        c.Status().String(),
			DisplayName: catalog.CarDisplayName(c.Status()),
		},
		Version:   c.Version(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toReviewDTO(r *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:       r.ID(),
		UserName: r.UserName(),
		Comment:  r.Comment(),
		Date:     r.Date(),
	}
}
