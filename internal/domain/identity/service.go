package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Service struct {
	users    UserRepository
	doctors  DoctorRepository
	patients PatientRepository
	staff    StaffRepository
	tokens   *auth.TokenIssuer
}

func NewService(users UserRepository, doctors DoctorRepository, patients PatientRepository, staff StaffRepository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, doctors: doctors, patients: patients, staff: staff, tokens: tokens}
}

// Signup registers a patient account. The password confirmation check runs
// before any repository call so a mismatch never touches the database.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         RolePatient,
		FullName:     req.FullName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	p := &Patient{UserID: u.ID, FullName: u.FullName}
	if req.Phone != "" {
		p.Phone = &req.Phone
	}
	if req.Gender != "" {
		p.Gender = &req.Gender
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient profile: %w", err)
	}

	return u, nil
}

// CreateUser provisions a doctor or staff account with its profile row.
// Admin accounts are created the same way with no profile.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if !validRoles[req.Role] {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	switch req.Role {
	case RoleDoctor:
		d := &Doctor{UserID: u.ID, FullName: u.FullName, Specialty: req.Specialty, Fees: req.Fees}
		if req.Degree != "" {
			d.Degree = &req.Degree
		}
		if req.Bio != "" {
			d.Bio = &req.Bio
		}
		if err := s.doctors.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("create doctor profile: %w", err)
		}
	case RoleStaff:
		st := &Staff{UserID: u.ID, FullName: u.FullName}
		if req.Designation != "" {
			st.Designation = &req.Designation
		}
		if err := s.staff.Create(ctx, st); err != nil {
			return nil, fmt.Errorf("create staff profile: %w", err)
		}
	case RolePatient:
		p := &Patient{UserID: u.ID, FullName: u.FullName}
		if err := s.patients.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create patient profile: %w", err)
		}
	}

	return u, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role, u.FullName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResponse{
		Token:    token,
		UserID:   u.ID,
		Role:     u.Role,
		FullName: u.FullName,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// -- Doctor --

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByUserID(ctx, userID)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Fees < 0 {
		return fmt.Errorf("fees must not be negative")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	// Removing the login as well keeps the account from orphaning.
	return s.users.Delete(ctx, d.UserID)
}

func (s *Service) ListDoctors(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, specialty, limit, offset)
}

// -- Patient --

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByUser(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return s.patients.GetByUserID(ctx, userID)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, p.UserID)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, limit, offset)
}

// -- Staff --

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) UpdateStaff(ctx context.Context, st *Staff) error {
	return s.staff.Update(ctx, st)
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	st, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, st.UserID)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.staff.List(ctx, limit, offset)
}

// -- Profile resolution --
// Other domains key appointments and reviews on profile ids, not login ids.

func (s *Service) PatientIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *Service) DoctorIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return d.ID, nil
}

func (s *Service) UserIDByDoctor(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return uuid.Nil, err
	}
	return d.UserID, nil
}

func (s *Service) UserIDByPatient(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.UserID, nil
}
