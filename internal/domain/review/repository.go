package review

import "context"

// Repository defines the persistence contract for reviews.
type Repository interface {
	// FindByID retrieves a review by its identifier.
	FindByID(ctx context.Context, id uint) (*Review, error)

	// ListAll retrieves all reviews with pagination, newest first.
	ListAll(ctx context.Context, page, limit int) ([]*Review, int64, error)

	// Save persists a new review and assigns its identifier.
	Save(ctx context.Context, r *Review) error

	// Update persists changes to an existing review.
	Update(ctx context.Context, r *Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uint) error
}
