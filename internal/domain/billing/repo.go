package billing

import (
	"context"

	"github.com/google/uuid"
)

type PaymentFilter struct {
	AppointmentID *uuid.UUID
	Status        string
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error)
}
