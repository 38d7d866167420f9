package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foguel/delivery-backend/api/middleware"
	authsvc "github.com/foguel/delivery-backend/internal/auth"
	"github.com/foguel/delivery-backend/pkg/enums"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
)

type stubAuth struct {
	authsvc.Service
	admin   authsvc.AdminLoginRequest
	login   authsvc.CollaboratorLoginRequest
	revoked string
	err     error
}

func (s *stubAuth) AdminLogin(_ context.Context, req authsvc.AdminLoginRequest) (*authsvc.LoginResponse, error) {
	s.admin = req
	if s.err != nil {
		return nil, s.err
	}
	return &authsvc.LoginResponse{Message: "Login successful", Token: "tok", User: authsvc.UserDTO{Username: req.Username, Role: enums.RoleAdmin, IsAdmin: true}}, nil
}

func (s *stubAuth) Login(_ context.Context, req authsvc.CollaboratorLoginRequest) (*authsvc.LoginResponse, error) {
	s.login = req
	if s.err != nil {
		return nil, s.err
	}
	return &authsvc.LoginResponse{Message: "Login successful", Token: "tok"}, nil
}

func (s *stubAuth) ListUsers(context.Context) ([]authsvc.UserSummary, error) {
	return []authsvc.UserSummary{{Nome: "Ana"}}, nil
}

func (s *stubAuth) Logout(_ context.Context, tokenID string) error {
	s.revoked = tokenID
	return nil
}

func TestAdminLogin(t *testing.T) {
	svc := &stubAuth{}

	rec := serve(AdminLogin(svc, testLogger()), newRequest(http.MethodPost, "/login/login-admin", `{"username":"admin","password":"pw"}`, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body authsvc.LoginResponse
	decodeData(t, rec, &body)
	require.Equal(t, "tok", body.Token)
	require.True(t, body.User.IsAdmin)
}

func TestAdminLoginRejected(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	rec := serve(AdminLogin(svc, testLogger()), newRequest(http.MethodPost, "/login/login-admin", `{"username":"admin","password":"nope"}`, nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(AdminLogin(svc, testLogger()), newRequest(http.MethodPost, "/login/login-admin", `{"username":"admin"}`, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollaboratorLoginValidatesID(t *testing.T) {
	svc := &stubAuth{}

	rec := serve(CollaboratorLogin(svc, testLogger()), newRequest(http.MethodPost, "/login/login", `{"colaborador_id":"abc","access_code":"1234"}`, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(CollaboratorLogin(svc, testLogger()), newRequest(http.MethodPost, "/login/login", `{"colaborador_id":"5f0c7a7e-7c55-4d7c-9c55-0d3f3c1d2a11","access_code":"1234"}`, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1234", svc.login.AccessCode)
}

func TestListLoginUsers(t *testing.T) {
	rec := serve(ListLoginUsers(&stubAuth{}, testLogger()), newRequest(http.MethodGet, "/login/list-users", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var users []authsvc.UserSummary
	decodeData(t, rec, &users)
	require.Len(t, users, 1)
}

func TestLogoutRevokesTokenID(t *testing.T) {
	svc := &stubAuth{}
	req := newRequest(http.MethodPost, "/login/logout", "", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), "admin", enums.RoleAdmin, "jti-42"))

	rec := serve(Logout(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "jti-42", svc.revoked)

	rec = serve(Logout(svc, testLogger()), newRequest(http.MethodPost, "/login/logout", "", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
