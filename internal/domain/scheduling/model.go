package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Completed and cancelled are terminal, except that
// the staff check-in toggle may move a completed appointment back to
// scheduled.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Slots are a fixed half hour; the booking horizon is a rolling 20 days
// starting today.
const (
	SlotInterval = 30 * time.Minute
	HorizonDays  = 20
)

var (
	ErrSlotTaken         = errors.New("slot already booked")
	ErrNotFound          = errors.New("not found")
	ErrPatientRequired   = errors.New("patient identity required to book")
	ErrOutsideWindow     = errors.New("requested time is outside the doctor's availability")
	ErrInvalidTransition = errors.New("appointment status does not allow this transition")
)

// AvailabilityWindow is a recurring weekly interval during which a doctor
// accepts appointments. Times are clock strings ("09:00") reapplied every
// week; no date is persisted.
type AvailabilityWindow struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"` // 0 = Sunday
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Appointment maps to the appointment table. DoctorName and PatientName are
// joined from the profile tables on read.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	Status      string    `db:"status" json:"status"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	DoctorName  string    `db:"doctor_name" json:"doctor_name,omitempty"`
	PatientName string    `db:"patient_name" json:"patient_name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Slot is a single bookable interval offered to the booking site.
type Slot struct {
	Time  time.Time `json:"time"`
	Label string    `json:"label"` // "09:30"
}

// DaySlots groups the selectable slots of one calendar day. A day with an
// empty Slots list is rendered as disabled.
type DaySlots struct {
	Date    string `json:"date"` // "2026-09-07"
	Weekday string `json:"weekday"`
	Slots   []Slot `json:"slots"`
}

// WindowInput is one window in a PUT availability payload.
type WindowInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// SetAvailabilityRequest replaces a doctor's full weekly schedule.
type SetAvailabilityRequest struct {
	Windows []WindowInput `json:"windows" validate:"required,dive"`
}

// BookAppointmentRequest is the booking payload. PatientID is only honored
// for staff and admin callers; patients always book for themselves.
type BookAppointmentRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id" validate:"required"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	StartTime time.Time  `json:"start_time" validate:"required"`
	Notes     string     `json:"notes"`
}

// RescheduleRequest is the staff date overwrite payload.
type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
}

// AppointmentFilter narrows appointment lists.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    string
	Date      string // "2026-09-07", matches the appointment's calendar day
}
