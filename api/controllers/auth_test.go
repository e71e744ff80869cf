package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/jkimanzi/dukahub-backend/internal/auth"
	pkgauth "github.com/jkimanzi/dukahub-backend/pkg/auth"
	"github.com/jkimanzi/dukahub-backend/pkg/auth/session"
	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubAuthService struct {
	login *authsvc.LoginResponse
	user  *models.User
	err   error

	gotLogin    authsvc.LoginRequest
	gotAccessID string
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.gotLogin = req
	return s.login, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.gotAccessID = accessID
	return s.err
}

func (s *stubAuthService) CreateUser(ctx context.Context, input authsvc.CreateUserInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAuthService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "controller-test-secret",
		Issuer:            "dukahub-test",
		ExpirationMinutes: 15,
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{login: &authsvc.LoginResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		AccessID:     session.NewAccessID(),
	}}
	handler := AuthLogin(svc, nil)

	body := `{"email":"admin@dukahub.co.ke","password":"hunter2secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotLogin.Email != "admin@dukahub.co.ke" {
		t.Fatalf("unexpected email: %s", svc.gotLogin.Email)
	}

	var envelope struct {
		Data authsvc.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected access token: %s", envelope.Data.AccessToken)
	}
}

func TestAuthLoginRejectsBadBody(t *testing.T) {
	t.Parallel()

	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"admin@dukahub.co.ke","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutAcceptsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := &stubAuthService{}
	handler := AuthLogout(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotAccessID != accessID {
		t.Fatalf("logout used wrong access id: %s", svc.gotAccessID)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	t.Parallel()

	handler := AuthLogout(&stubAuthService{}, testJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminCreateUserRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	handler := AdminCreateUser(&stubAuthService{}, nil)

	body := `{
		"email": "new@dukahub.co.ke",
		"password": "longenough",
		"first_name": "Akinyi",
		"last_name": "Odhiambo",
		"role": "superuser"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminCreateUserSuccess(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "new@dukahub.co.ke", Role: enums.UserRoleAgent}
	handler := AdminCreateUser(&stubAuthService{user: user}, nil)

	body := `{
		"email": "new@dukahub.co.ke",
		"password": "longenough",
		"first_name": "Akinyi",
		"last_name": "Odhiambo",
		"role": "agent"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}
