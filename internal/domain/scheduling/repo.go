package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	// Replace swaps a doctor's full set of windows in one transaction.
	Replace(ctx context.Context, doctorID uuid.UUID, windows []*AvailabilityWindow) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*AvailabilityWindow, error)
}

type AppointmentRepository interface {
	// Create inserts a scheduled appointment. A second non-cancelled
	// appointment for the same (doctor, start_time) fails with ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// Reschedule overwrites the start time, subject to the same uniqueness
	// rule as Create.
	Reschedule(ctx context.Context, id uuid.UUID, startTime time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error)
	// ReservedTimes returns the start times of all non-cancelled
	// appointments for the doctor in [from, to).
	ReservedTimes(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error)
}
