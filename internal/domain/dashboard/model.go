package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Counts backs the admin dashboard's statistic cards.
type Counts struct {
	Doctors      int            `json:"doctors"`
	Patients     int            `json:"patients"`
	Staff        int            `json:"staff"`
	Appointments int            `json:"appointments"`
	ByStatus     map[string]int `json:"appointments_by_status"`
}

// RecentAppointment is one row of the dashboard's latest-bookings table.
type RecentAppointment struct {
	ID          uuid.UUID `json:"id"`
	DoctorName  string    `json:"doctor_name"`
	PatientName string    `json:"patient_name"`
	StartTime   time.Time `json:"start_time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
