package application

import (
	"context"

	"github.com/openfleet/service-rental/internal/domain"
	reviewDomain "github.com/openfleet/service-rental/internal/domain/review"
	"go.uber.org/zap"
)

// ReviewService implements customer review use cases.
type ReviewService struct {
	repo   reviewDomain.Repository
	logger *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo reviewDomain.Repository, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, logger: logger}
}

// CreateReview stores a new review stamped with the server time.
func (s *ReviewService) CreateReview(ctx context.Context, req ReviewRequest) (*ReviewDTO, error) {
	rv, err := reviewDomain.NewReview(req.UserName, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rv); err != nil {
		s.logger.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	s.logger.Info("review created", zap.Uint("review_id", rv.ID()))
	result := toReviewDTO(rv)
	return &result, nil
}

// GetReview retrieves a single review by ID.
func (s *ReviewService) GetReview(ctx context.Context, id uint) (*ReviewDTO, error) {
	rv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toReviewDTO(rv)
	return &result, nil
}

// ListReviews retrieves paginated reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateReview replaces a review's author and comment, restamping its date.
func (s *ReviewService) UpdateReview(ctx context.Context, id uint, req ReviewRequest) (*ReviewDTO, error) {
	rv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := rv.ApplyUpdate(req.UserName, req.Comment); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	result := toReviewDTO(rv)
	return &result, nil
}

// DeleteReview removes a review.
func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", zap.Uint("review_id", id))
	return nil
}
