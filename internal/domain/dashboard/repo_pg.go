package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type dashboardRepoPG struct{ pool *pgxpool.Pool }

func NewDashboardRepoPG(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepoPG{pool: pool}
}

func (r *dashboardRepoPG) Counts(ctx context.Context) (*Counts, error) {
	c := &Counts{ByStatus: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM doctor),
			(SELECT COUNT(*) FROM patient),
			(SELECT COUNT(*) FROM staff),
			(SELECT COUNT(*) FROM appointment)`).
		Scan(&c.Doctors, &c.Patients, &c.Staff, &c.Appointments)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM appointment GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		c.ByStatus[status] = count
	}
	return c, rows.Err()
}

func (r *dashboardRepoPG) RecentAppointments(ctx context.Context, limit int) ([]*RecentAppointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, du.full_name, pu.full_name, a.start_time, a.status, a.created_at
		FROM appointment a
		JOIN doctor d ON d.id = a.doctor_id
		JOIN app_user du ON du.id = d.user_id
		JOIN patient p ON p.id = a.patient_id
		JOIN app_user pu ON pu.id = p.user_id
		ORDER BY a.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recent []*RecentAppointment
	for rows.Next() {
		var ra RecentAppointment
		if err := rows.Scan(&ra.ID, &ra.DoctorName, &ra.PatientName, &ra.StartTime, &ra.Status, &ra.CreatedAt); err != nil {
			return nil, err
		}
		recent = append(recent, &ra)
	}
	return recent, rows.Err()
}
