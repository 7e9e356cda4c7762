package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	reviews ReviewRepository
}

func NewService(reviews ReviewRepository) *Service {
	return &Service{reviews: reviews}
}

func (s *Service) CreateReview(ctx context.Context, patientID uuid.UUID, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	r := &Review{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Rating:    req.Rating,
	}
	if req.Comment != "" {
		r.Comment = &req.Comment
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) DoctorReviews(ctx context.Context, doctorID uuid.UUID, limit, offset int) (*DoctorReviews, error) {
	reviews, total, err := s.reviews.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return &DoctorReviews{Reviews: reviews, Total: total, AverageRating: avg}, nil
}

func (s *Service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return s.reviews.Delete(ctx, id)
}
