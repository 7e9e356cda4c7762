package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockPaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *Payment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := m.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockPaymentRepo) List(_ context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error) {
	var result []*Payment
	for _, p := range m.payments {
		if f.AppointmentID != nil && p.AppointmentID != *f.AppointmentID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func TestCreatePayment(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	p, err := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		AppointmentID: uuid.New(),
		Amount:        120,
		Method:        "card",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusPending {
		t.Errorf("expected pending, got %s", p.Status)
	}
}

func TestCreatePayment_NonPositiveAmount(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	_, err := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		AppointmentID: uuid.New(),
		Amount:        0,
	})
	if err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestUpdateStatus_PendingToPaid(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	p, _ := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		AppointmentID: uuid.New(), Amount: 120,
	})

	got, err := svc.UpdateStatus(context.Background(), p.ID, StatusPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("expected paid, got %s", got.Status)
	}
}

func TestUpdateStatus_PendingToRefundedRejected(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	p, _ := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		AppointmentID: uuid.New(), Amount: 120,
	})

	_, err := svc.UpdateStatus(context.Background(), p.ID, StatusRefunded)
	if err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_PaidToRefunded(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	p, _ := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		AppointmentID: uuid.New(), Amount: 120,
	})
	svc.UpdateStatus(context.Background(), p.ID, StatusPaid)

	got, err := svc.UpdateStatus(context.Background(), p.ID, StatusRefunded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusRefunded {
		t.Errorf("expected refunded, got %s", got.Status)
	}
}

func TestListPayments_ByAppointment(t *testing.T) {
	svc := NewService(newMockPaymentRepo())
	apptID := uuid.New()
	svc.CreatePayment(context.Background(), &CreatePaymentRequest{AppointmentID: apptID, Amount: 120})
	svc.CreatePayment(context.Background(), &CreatePaymentRequest{AppointmentID: uuid.New(), Amount: 80})

	items, total, err := svc.ListPayments(context.Background(), PaymentFilter{AppointmentID: &apptID}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 payment, got %d", total)
	}
}
