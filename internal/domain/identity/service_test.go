package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/auth"
)

// -- Mock Repositories --

type mockUserRepo struct {
	users   map[uuid.UUID]*User
	creates int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	m.creates++
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(m.doctors, id)
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if specialty == "" || d.Specialty == specialty {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Patient, error) {
	for _, p := range m.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockStaffRepo struct {
	staff map[uuid.UUID]*Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[uuid.UUID]*Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, s *Staff) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.staff[s.ID] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockStaffRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Staff, error) {
	for _, s := range m.staff {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStaffRepo) Update(_ context.Context, s *Staff) error {
	if _, ok := m.staff[s.ID]; !ok {
		return ErrNotFound
	}
	m.staff[s.ID] = s
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.staff[id]; !ok {
		return ErrNotFound
	}
	delete(m.staff, id)
	return nil
}

func (m *mockStaffRepo) List(_ context.Context, limit, offset int) ([]*Staff, int, error) {
	var result []*Staff
	for _, s := range m.staff {
		result = append(result, s)
	}
	return result, len(result), nil
}

// -- Tests --

func newTestService() (*Service, *mockUserRepo) {
	users := newMockUserRepo()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewService(users, newMockDoctorRepo(), newMockPatientRepo(), newMockStaffRepo(), issuer)
	return svc, users
}

func TestSignup(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Signup(context.Background(), &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Jane Doe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != RolePatient {
		t.Errorf("expected role patient, got %s", u.Role)
	}
	if u.PasswordHash == "supersecret" {
		t.Error("password stored in clear")
	}
}

func TestSignup_CreatesPatientProfile(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Signup(context.Background(), &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Jane Doe",
		Phone:           "0123456789",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := svc.GetPatientByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("expected patient profile: %v", err)
	}
	if p.Phone == nil || *p.Phone != "0123456789" {
		t.Error("phone not carried to patient profile")
	}
}

func TestSignup_PasswordMismatchRejectedBeforeRepoCall(t *testing.T) {
	svc, users := newTestService()
	_, err := svc.Signup(context.Background(), &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "something-else",
		FullName:        "Jane Doe",
	})
	if err != ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if users.creates != 0 {
		t.Errorf("expected no repository call on mismatch, got %d", users.creates)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	req := &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Jane Doe",
	}
	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Signup(context.Background(), req)
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Signup(context.Background(), &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Jane Doe",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.Role != RolePatient {
		t.Errorf("expected role patient, got %s", resp.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	svc.Signup(context.Background(), &SignupRequest{
		Email:           "jane@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Jane Doe",
	})
	_, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "wrong"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateUser_Doctor(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:     "doc@example.com",
		Password:  "supersecret",
		Role:      RoleDoctor,
		FullName:  "Dr. Smith",
		Specialty: "Cardiology",
		Fees:      120,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := svc.GetDoctorByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("expected doctor profile: %v", err)
	}
	if d.Specialty != "Cardiology" {
		t.Errorf("expected specialty Cardiology, got %s", d.Specialty)
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:    "x@example.com",
		Password: "supersecret",
		Role:     "superuser",
		FullName: "X",
	})
	if err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestDeleteDoctor_RemovesAccount(t *testing.T) {
	svc, users := newTestService()
	u, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:     "doc@example.com",
		Password:  "supersecret",
		Role:      RoleDoctor,
		FullName:  "Dr. Smith",
		Specialty: "Cardiology",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := svc.GetDoctorByUser(context.Background(), u.ID)
	if err := svc.DeleteDoctor(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := users.GetByID(context.Background(), u.ID); err == nil {
		t.Error("expected login account to be removed with the profile")
	}
}

func TestListDoctors_FilterBySpecialty(t *testing.T) {
	svc, _ := newTestService()
	svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "a@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. A", Specialty: "Cardiology",
	})
	svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "b@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. B", Specialty: "Dermatology",
	})

	items, total, err := svc.ListDoctors(context.Background(), "Cardiology", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 doctor, got %d", total)
	}
	if items[0].Specialty != "Cardiology" {
		t.Errorf("unexpected specialty %s", items[0].Specialty)
	}
}
