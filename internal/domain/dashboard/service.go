package dashboard

import "context"

// DefaultRecentLimit caps the latest-bookings table.
const DefaultRecentLimit = 10

type Service struct {
	repo DashboardRepository
}

func NewService(repo DashboardRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	return s.repo.Counts(ctx)
}

func (s *Service) RecentAppointments(ctx context.Context, limit int) ([]*RecentAppointment, error) {
	if limit <= 0 || limit > 50 {
		limit = DefaultRecentLimit
	}
	recent, err := s.repo.RecentAppointments(ctx, limit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*RecentAppointment{}
	}
	return recent, nil
}
