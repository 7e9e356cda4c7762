package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinicore/internal/domain/scheduling"
)

// RecipientResolver maps profile ids back to login ids so booking events
// can be delivered to the right feed. The identity service satisfies it.
type RecipientResolver interface {
	UserIDByDoctor(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error)
	UserIDByPatient(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	notifications NotificationRepository
	recipients    RecipientResolver
}

func NewService(notifications NotificationRepository, recipients RecipientResolver) *Service {
	return &Service{notifications: notifications, recipients: recipients}
}

func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, body string) (*Notification, error) {
	n := &Notification{UserID: userID, Title: title, Body: body}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead flips the read flag. Callers only ever mark their own rows, so
// ownership is checked here rather than in the repository.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (*Notification, error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotFound
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// -- scheduling.Notifier --

// AppointmentBooked tells the doctor about a new booking. Delivery failures
// are logged and swallowed; the booking itself already committed.
func (s *Service) AppointmentBooked(ctx context.Context, a *scheduling.Appointment) {
	userID, err := s.recipients.UserIDByDoctor(ctx, a.DoctorID)
	if err != nil {
		log.Warn().Err(err).Str("doctor_id", a.DoctorID.String()).Msg("booking notification: resolve doctor")
		return
	}
	body := fmt.Sprintf("%s booked %s", a.PatientName, a.StartTime.Format("Mon Jan 2 15:04"))
	if _, err := s.Notify(ctx, userID, "New appointment", body); err != nil {
		log.Warn().Err(err).Msg("booking notification: write")
	}
}

// AppointmentCancelled tells the patient their appointment was cancelled.
func (s *Service) AppointmentCancelled(ctx context.Context, a *scheduling.Appointment) {
	userID, err := s.recipients.UserIDByPatient(ctx, a.PatientID)
	if err != nil {
		log.Warn().Err(err).Str("patient_id", a.PatientID.String()).Msg("cancel notification: resolve patient")
		return
	}
	body := fmt.Sprintf("Your appointment on %s was cancelled", a.StartTime.Format("Mon Jan 2 15:04"))
	if _, err := s.Notify(ctx, userID, "Appointment cancelled", body); err != nil {
		log.Warn().Err(err).Msg("cancel notification: write")
	}
}
