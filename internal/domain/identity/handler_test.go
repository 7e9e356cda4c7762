package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/validation"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	e.Validator = validation.New()
	return h, e
}

func TestHandler_Signup(t *testing.T) {
	h, e := newTestHandler()
	body := `{"email":"jane@example.com","password":"supersecret","confirm_password":"supersecret","full_name":"Jane Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Signup(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "supersecret") {
		t.Error("response leaks the password")
	}
}

func TestHandler_Signup_Mismatch(t *testing.T) {
	h, e := newTestHandler()
	body := `{"email":"jane@example.com","password":"supersecret","confirm_password":"other-thing","full_name":"Jane Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Signup_DuplicateEmail(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Signup(context.Background(), &SignupRequest{
		Email: "jane@example.com", Password: "supersecret",
		ConfirmPassword: "supersecret", FullName: "Jane Doe",
	})

	body := `{"email":"jane@example.com","password":"supersecret","confirm_password":"supersecret","full_name":"Jane Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_Signup_MissingEmail(t *testing.T) {
	h, e := newTestHandler()
	body := `{"password":"supersecret","confirm_password":"supersecret","full_name":"Jane Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Signup(c)
	if err == nil {
		t.Error("expected validation error for missing email")
	}
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Signup(context.Background(), &SignupRequest{
		Email: "jane@example.com", Password: "supersecret",
		ConfirmPassword: "supersecret", FullName: "Jane Doe",
	})

	body := `{"email":"jane@example.com","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h, e := newTestHandler()
	body := `{"email":"nobody@example.com","password":"whatever"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_GetDoctor(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "doc@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. Smith", Specialty: "Cardiology",
	})
	d, _ := h.svc.GetDoctorByUser(context.Background(), u.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	err := h.GetDoctor(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetDoctor_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetDoctor(c)
	if err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestHandler_ListDoctors(t *testing.T) {
	h, e := newTestHandler()
	h.svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "doc@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. Smith", Specialty: "Cardiology",
	})

	req := httptest.NewRequest(http.MethodGet, "/?specialty=Cardiology", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListDoctors(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cardiology") {
		t.Error("expected the doctor in the response")
	}
}

func TestHandler_UpdateDoctor_OwnProfileOnly(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "doc@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. Smith", Specialty: "Cardiology",
	})
	d, _ := h.svc.GetDoctorByUser(context.Background(), u.ID)

	body := `{"specialty":"Dermatology","fees":150}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	// A different doctor's identity on the request context.
	req = req.WithContext(auth.WithUser(req.Context(), uuid.New(), RoleDoctor))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	err := h.UpdateDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_UpdateDoctor_AsStaff(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "doc@example.com", Password: "supersecret", Role: RoleDoctor,
		FullName: "Dr. Smith", Specialty: "Cardiology",
	})
	d, _ := h.svc.GetDoctorByUser(context.Background(), u.ID)

	body := `{"full_name":"Dr. Smith","specialty":"Dermatology","fees":150}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithUser(req.Context(), uuid.New(), RoleStaff))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	err := h.UpdateDoctor(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, _ := h.svc.GetDoctor(context.Background(), d.ID)
	if updated.Specialty != "Dermatology" {
		t.Errorf("expected updated specialty, got %s", updated.Specialty)
	}
}

func TestHandler_GetPatient_OtherPatientForbidden(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.Signup(context.Background(), &SignupRequest{
		Email: "jane@example.com", Password: "supersecret",
		ConfirmPassword: "supersecret", FullName: "Jane Doe",
	})
	p, _ := h.svc.GetPatientByUser(context.Background(), u.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUser(req.Context(), uuid.New(), RolePatient))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	err := h.GetPatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_DeleteStaff(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.CreateUser(context.Background(), &CreateUserRequest{
		Email: "front@example.com", Password: "supersecret", Role: RoleStaff,
		FullName: "Front Desk", Designation: "Receptionist",
	})
	st, _ := h.svc.staff.GetByUserID(context.Background(), u.ID)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(st.ID.String())

	err := h.DeleteStaff(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
