package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/foguel/delivery-backend/pkg/auth"
	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	loginSuccessMessage       = "Login successful"
)

// Service defines the behavior needed by the login controller.
type Service interface {
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error)
	Login(ctx context.Context, req CollaboratorLoginRequest) (*LoginResponse, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	Logout(ctx context.Context, tokenID string) error
}

type collaboratorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error)
	ListAll(ctx context.Context) ([]models.Collaborator, error)
}

type sessionManager interface {
	Open(ctx context.Context, tokenID, subject string, expiresAt time.Time) error
	Revoke(ctx context.Context, tokenID string) error
}

type accessCodeMatcher interface {
	Matches(encoded, provided string) bool
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Collaborators  collaboratorRepository
	SessionManager sessionManager
	Cipher         accessCodeMatcher
	JWTConfig      config.JWTConfig
	Admin          config.AdminConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	collaborators collaboratorRepository
	session       sessionManager
	cipher        accessCodeMatcher
	jwtCfg        config.JWTConfig
	admin         config.AdminConfig
	logg          *logger.Logger
	now           func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Collaborators == nil {
		return nil, fmt.Errorf("collaborator repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Cipher == nil {
		return nil, fmt.Errorf("access code cipher is required")
	}
	if strings.TrimSpace(params.Admin.Username) == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		collaborators: params.Collaborators,
		session:       params.SessionManager,
		cipher:        params.Cipher,
		jwtCfg:        params.JWTConfig,
		admin:         params.Admin,
		logg:          params.Logger,
		now:           now,
	}, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	valid, err := s.verifyAdmin(username, req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !valid {
		s.warn(ctx, "admin", "admin login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := s.issue(ctx, pkgAuth.AccessTokenPayload{
		Subject: s.admin.Username,
		Role:    enums.RoleAdmin,
		Name:    s.admin.Username,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Message: loginSuccessMessage,
		Token:   token,
		User: UserDTO{
			Username: s.admin.Username,
			Role:     enums.RoleAdmin,
			IsAdmin:  true,
		},
	}, nil
}

func (s *service) Login(ctx context.Context, req CollaboratorLoginRequest) (*LoginResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ColaboradorID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid collaborator id")
	}
	collaborator, err := s.collaborators.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "collaborator")
	}
	if !s.cipher.Matches(collaborator.EncryptedAccessCode, strings.TrimSpace(req.AccessCode)) {
		s.warn(ctx, id.String(), "collaborator login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := s.issue(ctx, pkgAuth.AccessTokenPayload{
		Subject: collaborator.ID.String(),
		Role:    enums.RoleCollaborator,
		Name:    collaborator.Nome,
		CPF:     collaborator.CPF,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Message: loginSuccessMessage,
		Token:   token,
		User: UserDTO{
			ID:   &collaborator.ID,
			Nome: collaborator.Nome,
			CPF:  collaborator.CPF,
			Role: enums.RoleCollaborator,
		},
	}, nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	rows, err := s.collaborators.ListAll(ctx)
	if err != nil {
		return nil, db.MapError(err, "collaborator")
	}
	out := make([]UserSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, UserSummary{ID: row.ID, Nome: row.Nome, CPF: row.CPF})
	}
	return out, nil
}

func (s *service) Logout(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, tokenID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// issue mints the JWT and binds its jti to a server-side session.
func (s *service) issue(ctx context.Context, payload pkgAuth.AccessTokenPayload) (string, error) {
	payload.JTI = uuid.NewString()
	token, claims, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Open(ctx, claims.ID, payload.Subject, claims.ExpiresAt.Time); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}
	return token, nil
}

// verifyAdmin compares against the configured administrator. An argon2id hash
// takes precedence over the plain password.
func (s *service) verifyAdmin(username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	var passOK bool
	if hash := strings.TrimSpace(s.admin.PasswordHash); hash != "" {
		ok, err := security.VerifyPassword(password, hash)
		if err != nil {
			return false, err
		}
		passOK = ok
	} else {
		passOK = s.admin.Password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}
	return userOK && passOK, nil
}

func (s *service) warn(ctx context.Context, subject, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "subject", subject), msg)
}
