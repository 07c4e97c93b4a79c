package booking

import "github.com/openfleet/service-rental/internal/domain/status"

// ReconcileCarStatus computes the correct status for a car from the statuses
// of all bookings referencing it. The under_repair manual override wins
// unconditionally and is never downgraded here; otherwise the car is rented
// exactly while at least one active booking exists.
//
// The function is idempotent: feeding its own output back with unchanged
// bookings reports no further change.
func ReconcileCarStatus(current status.CarStatus, bookings []status.BookingStatus) (status.CarStatus, bool) {
	if current == status.CarUnderRepair {
		return current, false
	}

	target := status.CarAvailable
	for _, st := range bookings {
		if st.Occupies() {
			target = status.CarRented
			break
		}
	}

	return target, target != current
}

// StatusesOf extracts the status list the reconciler consumes from a set of
// booking aggregates.
func StatusesOf(bookings []*Booking) []status.BookingStatus {
	out := make([]status.BookingStatus, len(bookings))
	for i, b := range bookings {
		out[i] = b.Status()
	}
	return out
}
