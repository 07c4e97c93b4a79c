package booking

import (
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	"github.com/openfleet/service-rental/internal/domain/car"
	"github.com/openfleet/service-rental/internal/domain/status"
)

// Candidate is a proposed booking about to be created or updated, with status
// still expressed as the lookup-table code the client sent.
type Candidate struct {
	CarID      uint
	UserName   string
	StartDate  time.Time
	EndDate    time.Time
	StatusCode int

	// ExcludeBookingID is set on update so the booking's own unchanged date
	// range does not collide with itself.
	ExcludeBookingID uint
}

// Decision is the Validator's verdict on a Candidate.
type Decision struct {
	OK     bool
	Status status.BookingStatus
	Reason domain.Reason
	Detail string
}

// Err converts a rejecting decision into a validation error for the caller.
func (d Decision) Err() error {
	if d.OK {
		return nil
	}
	return domain.NewValidationError(d.Reason, "%s", d.Detail)
}

// Validator decides whether a proposed booking may be committed. It is a pure
// decision function over supplied snapshots: no lookups, no side effects.
type Validator struct {
	catalog *status.Catalog
}

// NewValidator creates a Validator bound to the status catalog.
func NewValidator(catalog *status.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate runs the checks in order; the first failure wins. The car argument
// is nil when the referenced car does not exist, and existing holds every
// booking currently referencing that car.
//
// Availability policy: a car rented because of other bookings can still take
// a new active booking with a disjoint date range. Only the under_repair
// manual override makes a car unbookable, so conflicting active bookings are
// always reported as overlapping rather than as an unavailable car.
func (v *Validator) Validate(c Candidate, carSnap *car.Car, existing []*Booking) Decision {
	if !c.StartDate.Before(c.EndDate) {
		return reject(domain.ReasonInvalidDateRange,
			"start date "+c.StartDate.Format(time.DateOnly)+" must be before end date "+c.EndDate.Format(time.DateOnly))
	}

	if carSnap == nil {
		return reject(domain.ReasonCarNotFound, "car not found")
	}

	st, ok := v.catalog.BookingStatusByCode(c.StatusCode)
	if !ok {
		return reject(domain.ReasonInvalidStatus, "unknown booking status code")
	}

	if st.Occupies() {
		if carSnap.Status() == status.CarUnderRepair {
			return reject(domain.ReasonCarUnavailable,
				"car "+carSnap.Label()+" is under repair and cannot be booked")
		}

		for _, other := range existing {
			if other.ID() == c.ExcludeBookingID {
				continue
			}
			if !other.Status().Occupies() {
				continue
			}
			if Overlaps(c.StartDate, c.EndDate, other.StartDate(), other.EndDate()) {
				return reject(domain.ReasonOverlappingBooking,
					"car "+carSnap.Label()+" is already actively booked from "+
						other.StartDate().Format(time.DateOnly)+" to "+other.EndDate().Format(time.DateOnly))
			}
		}
	}

	return Decision{OK: true, Status: st}
}

func reject(reason domain.Reason, detail string) Decision {
	return Decision{Reason: reason, Detail: detail}
}
