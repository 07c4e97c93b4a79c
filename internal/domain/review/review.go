package review

import (
	"time"

	"github.com/openfleet/service-rental/internal/domain"
)

// MaxCommentLength bounds the review comment size.
const MaxCommentLength = 500

// Review is a standalone customer review. Reviews deliberately carry no
// reference to a car; the timestamp is assigned server-side at write time.
type Review struct {
	id       uint
	userName string
	comment  string
	date     time.Time

	createdAt time.Time
	updatedAt time.Time
}

// NewReview creates a new Review stamped with the current server time.
func NewReview(userName, comment string) (*Review, error) {
	if userName == "" {
		return nil, domain.NewValidationError(domain.ReasonValidation, "user name is required")
	}
	if comment == "" {
		return nil, domain.NewValidationError(domain.ReasonValidation, "comment is required")
	}
	if len(comment) > MaxCommentLength {
		return nil, domain.NewValidationError(domain.ReasonValidation, "comment exceeds %d characters", MaxCommentLength)
	}

	now := time.Now().UTC()
	return &Review{
		userName:  userName,
		comment:   comment,
		date:      now,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id uint, userName, comment string, date, createdAt, updatedAt time.Time) *Review {
	return &Review{
		id:        id,
		userName:  userName,
		comment:   comment,
		date:      date,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the review's identifier.
func (r *Review) ID() uint { return r.id }

// UserName returns the author name.
func (r *Review) UserName() string { return r.userName }

// Comment returns the review text.
func (r *Review) Comment() string { return r.comment }

// Date returns the server-assigned review timestamp.
func (r *Review) Date() time.Time { return r.date }

// CreatedAt returns the creation timestamp.
func (r *Review) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }

// ApplyUpdate replaces the author and comment, restamping the review date.
func (r *Review) ApplyUpdate(userName, comment string) error {
	if userName == "" {
		return domain.NewValidationError(domain.ReasonValidation, "user name is required")
	}
	if comment == "" {
		return domain.NewValidationError(domain.ReasonValidation, "comment is required")
	}
	if len(comment) > MaxCommentLength {
		return domain.NewValidationError(domain.ReasonValidation, "comment exceeds %d characters", MaxCommentLength)
	}

	now := time.Now().UTC()
	r.userName = userName
	r.comment = comment
	r.date = now
	r.updatedAt = now
	return nil
}
