package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/cinelog/internal/auth"
	"github.com/hitoshi/cinelog/internal/model"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	var gotInput auth.RegisterInput
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, in auth.RegisterInput) error {
			gotInput = in
			return nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{
		"id": "cinephile",
		"password": "secret",
		"name": "山田太郎",
		"birth": "1990-05-10",
		"gender": "male",
		"email": "taro@example.com",
		"phone_number": "010-1234-5678"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if gotInput.ID != "cinephile" {
		t.Errorf("ID = %q", gotInput.ID)
	}
	if gotInput.Birth == nil || gotInput.Birth.Year() != 1990 {
		t.Errorf("Birth = %v, want 1990-05-10", gotInput.Birth)
	}

	resp := decodeBody(t, rec)
	if resp["message"] == "" {
		t.Error("message should be present")
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidBirthFormat(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	body := `{"id": "a", "password": "b", "name": "c", "phone_number": "d", "birth": "1990/05/10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthHandler_Register_DuplicateReturns409(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, in auth.RegisterInput) error {
			return model.NewDuplicateMemberError()
		},
	}
	h := NewAuthHandler(svc)

	body := `{"id": "cinephile", "password": "secret", "name": "山田", "phone_number": "010"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["error"] == "" {
		t.Error("error message should be present")
	}
}

func TestAuthHandler_Register_MissingFieldsReturns400(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, in auth.RegisterInput) error {
			return model.NewMissingFieldsError()
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, id, password string) (string, error) {
			if id != "cinephile" || password != "secret" {
				t.Errorf("unexpected credentials: %q / %q", id, password)
			}
			return "issued-token", nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"id": "cinephile", "password": "secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["token"] != "issued-token" {
		t.Errorf("token = %v, want issued-token", resp["token"])
	}
}

func TestAuthHandler_Login_InvalidCredentialsReturns401(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, id, password string) (string, error) {
			return "", model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc)

	body := `{"id": "cinephile", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
