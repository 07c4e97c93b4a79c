package car

import "context"

// Repository defines the persistence contract for car aggregates.
type Repository interface {
	// FindByID retrieves a car by its identifier.
	FindByID(ctx context.Context, id uint) (*Car, error)

	// ListAll retrieves all cars with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Car, int64, error)

	// Save persists a new car and assigns its identifier.
	Save(ctx context.Context, c *Car) error

	// Update persists changes to an existing car with optimistic locking.
	Update(ctx context.Context, c *Car) error

	// Delete removes a car. The store's restrict-on-delete constraint is the
	// last line of defense; the service checks the deletion policy first.
	Delete(ctx context.Context, id uint) error
}
