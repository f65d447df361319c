package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getFn          func(ctx context.Context, id string) (*domain.User, error)
	updateFn       func(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authenticateFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *userServiceStub) UpdateUser(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, input)
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			if input.Email != "jo@example.com" {
				t.Fatalf("expected email from request, got %s", input.Email)
			}
			return &domain.User{ID: "user-1", Email: input.Email, Name: input.Name, Role: domain.RoleUser}, nil
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{Email: "jo@example.com", Name: "Jo", Password: "Sup3rSecret"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Role != "user" {
		t.Fatalf("expected registered user in response, got %+v", resp)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{Email: "jo@example.com", Password: "Sup3rSecret"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	jwtManager := newTestJWTManager()
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: input.Email, Role: domain.RoleUser, Active: true}, nil
		},
	}, jwtManager)

	body, _ := json.Marshal(dto.LoginRequest{Email: "jo@example.com", Password: "Sup3rSecret"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("expected verifiable token, got %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected token subject user-1, got %s", claims.UserID)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.LoginRequest{Email: "jo@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Message != "" {
		t.Fatalf("expected no detail on auth failures, got %q", resp.Message)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "user-1" {
				t.Fatalf("expected lookup of token subject, got %s", id)
			}
			return &domain.User{ID: id, Email: "jo@example.com", Name: "Jo", Role: domain.RoleUser}, nil
		},
	}, newTestJWTManager())

	req := withUser(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_NoUser(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{}, newTestJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
