package booking

import "context"

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id uint) (*Booking, error)

	// FindByCarID retrieves every booking referencing the given car. The
	// Validator and Reconciler both operate on this snapshot.
	FindByCarID(ctx context.Context, carID uint) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status machine name.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking and assigns its identifier.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// Delete removes a booking.
	Delete(ctx context.Context, id uint) error
}
