package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProfileResolver maps authenticated users to their domain profiles. The
// identity service satisfies it.
type ProfileResolver interface {
	PatientIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	DoctorIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Notifier is told about bookings and cancellations so the counterpart
// portals can surface them. Failures are the notifier's problem; booking
// never fails because a notification could not be written.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a *Appointment)
	AppointmentCancelled(ctx context.Context, a *Appointment)
}

// NopNotifier is used where no notification fan-out is wired, e.g. tests.
type NopNotifier struct{}

func (NopNotifier) AppointmentBooked(context.Context, *Appointment) {}

func (NopNotifier) AppointmentCancelled(context.Context, *Appointment) {}

type Service struct {
	availability AvailabilityRepository
	appointments AppointmentRepository
	profiles     ProfileResolver
	notifier     Notifier
	now          func() time.Time
}

func NewService(availability AvailabilityRepository, appointments AppointmentRepository, profiles ProfileResolver, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		availability: availability,
		appointments: appointments,
		profiles:     profiles,
		notifier:     notifier,
		now:          time.Now,
	}
}

// -- Availability --

// SetAvailability replaces the doctor's weekly schedule. One window per
// weekday; start must precede end and both must parse as HH:MM.
func (s *Service) SetAvailability(ctx context.Context, doctorID uuid.UUID, inputs []WindowInput) ([]*AvailabilityWindow, error) {
	seen := make(map[int]bool, len(inputs))
	windows := make([]*AvailabilityWindow, 0, len(inputs))
	for _, in := range inputs {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return nil, fmt.Errorf("day_of_week must be 0-6, got %d", in.DayOfWeek)
		}
		if seen[in.DayOfWeek] {
			return nil, fmt.Errorf("duplicate window for %s", time.Weekday(in.DayOfWeek))
		}
		seen[in.DayOfWeek] = true

		start, err := parseClock(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(in.EndTime)
		if err != nil {
			return nil, err
		}
		if start >= end {
			return nil, fmt.Errorf("window %s: start %s must precede end %s", time.Weekday(in.DayOfWeek), in.StartTime, in.EndTime)
		}
		windows = append(windows, &AvailabilityWindow{
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}

	if err := s.availability.Replace(ctx, doctorID, windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *Service) GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]*AvailabilityWindow, error) {
	return s.availability.ListByDoctor(ctx, doctorID)
}

// Slots builds the bookable calendar for the doctor over the rolling
// horizon, with already-reserved times removed.
func (s *Service) Slots(ctx context.Context, doctorID uuid.UUID) ([]DaySlots, error) {
	windows, err := s.availability.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, HorizonDays)
	reserved, err := s.appointments.ReservedTimes(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	return GenerateSlots(windows, reserved, now)
}

// -- Booking --

// Book creates a scheduled appointment for the caller. The uniqueness of
// (doctor, start_time) among non-cancelled appointments is enforced by the
// store, so two racing bookings cannot both succeed.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *BookAppointmentRequest) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, ErrPatientRequired
	}

	now := s.now()
	start := req.StartTime.In(now.Location())
	if !start.After(now) {
		return nil, fmt.Errorf("cannot book a past time")
	}
	horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, HorizonDays)
	if !start.Before(horizon) {
		return nil, fmt.Errorf("cannot book more than %d days ahead", HorizonDays)
	}

	windows, err := s.availability.ListByDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !windowCovers(windows, start) {
		return nil, ErrOutsideWindow
	}

	a := &Appointment{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		StartTime: start,
		Status:    StatusScheduled,
	}
	if req.Notes != "" {
		a.Notes = &req.Notes
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	// Re-read to pick up the joined doctor and patient names; the insert
	// only carries the ids and the notification body needs the names.
	if full, err := s.appointments.GetByID(ctx, a.ID); err == nil {
		a = full
	}

	s.notifier.AppointmentBooked(ctx, a)
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, f, limit, offset)
}

// -- Lifecycle transitions --

// Cancel moves a scheduled appointment to cancelled. The slot becomes
// selectable again on the next reserved-set fetch.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	a.Status = StatusCancelled

	s.notifier.AppointmentCancelled(ctx, a)
	return a, nil
}

// Complete moves a scheduled appointment to completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return nil, err
	}
	a.Status = StatusCompleted
	return a, nil
}

// CheckIn is the staff console toggle: scheduled becomes completed and
// completed reverts to scheduled. Cancelled appointments stay cancelled.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var next string
	switch a.Status {
	case StatusScheduled:
		next = StatusCompleted
	case StatusCompleted:
		next = StatusScheduled
	default:
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	a.Status = next
	return a, nil
}

// Reschedule overwrites the date of a scheduled appointment. The new time
// must be one the generator would offer, and the uniqueness rule is
// re-checked at the store.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, startTime time.Time) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	start := startTime.In(now.Location())
	if !start.After(now) {
		return nil, fmt.Errorf("cannot reschedule to a past time")
	}
	windows, err := s.availability.ListByDoctor(ctx, a.DoctorID)
	if err != nil {
		return nil, err
	}
	if !windowCovers(windows, start) {
		return nil, ErrOutsideWindow
	}

	if err := s.appointments.Reschedule(ctx, id, start); err != nil {
		return nil, err
	}
	a.StartTime = start
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

// -- Profile resolution helpers for the handler --

func (s *Service) PatientIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.profiles.PatientIDByUser(ctx, userID)
}

func (s *Service) DoctorIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.profiles.DoctorIDByUser(ctx, userID)
}
