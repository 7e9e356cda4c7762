package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReviewed = errors.New("doctor already reviewed by this patient")
)

// Review maps to the review table. One row per (doctor, patient) pair.
type Review struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name,omitempty"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Rating   int       `json:"rating" validate:"required,min=1,max=5"`
	Comment  string    `json:"comment"`
}

// DoctorReviews is the doctor detail payload: the page plus the overall
// average across all reviews.
type DoctorReviews struct {
	Reviews       []*Review `json:"reviews"`
	Total         int       `json:"total"`
	AverageRating float64   `json:"average_rating"`
}
