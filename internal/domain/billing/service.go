package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	payments PaymentRepository
}

func NewService(payments PaymentRepository) *Service {
	return &Service{payments: payments}
}

func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	p := &Payment{
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Status:        StatusPending,
	}
	if req.Method != "" {
		p.Method = &req.Method
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// UpdateStatus advances a payment along pending -> paid -> refunded.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := map[string]string{
		StatusPending: StatusPaid,
		StatusPaid:    StatusRefunded,
	}
	if allowed[p.Status] != status {
		return nil, ErrInvalidTransition
	}

	if err := s.payments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	p.Status = status
	return p, nil
}

func (s *Service) ListPayments(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error) {
	return s.payments.List(ctx, f, limit, offset)
}
