package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Payment statuses. pending -> paid -> refunded; no other transitions.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("payment status does not allow this transition")
)

// Payment maps to the payment table, one row per charged appointment.
type Payment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Method        *string   `db:"method" json:"method,omitempty"` // "cash", "card", ...
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePaymentRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	Method        string    `json:"method"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid refunded"`
}
