package review

import (
	"context"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	// Create inserts a review; a second review from the same patient for
	// the same doctor fails with ErrAlreadyReviewed.
	Create(ctx context.Context, r *Review) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Review, int, error)
	AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
