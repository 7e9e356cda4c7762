package dashboard

import "context"

type DashboardRepository interface {
	Counts(ctx context.Context) (*Counts, error)
	RecentAppointments(ctx context.Context, limit int) ([]*RecentAppointment, error)
}
