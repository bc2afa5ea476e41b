package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// AuthService handles registration, login and account administration.
type AuthService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenIssuer
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Session is an account together with a freshly issued token.
type Session struct {
	User  models.User
	Token string
}

type registration struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Register creates a non-admin account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := s.validate.Struct(registration{Name: name, Email: email, Password: password}); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %q: %w", email, apperror.ErrDuplicateEmail)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email %q: %w", email, apperror.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to register user: %w: %w", apperror.ErrStoreFailure, err)
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return s.session(user)
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if !auth.MatchPassword(password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.session(user)
}

// Authenticate resolves a bearer token to its account. Invalid and expired
// tokens both yield ErrUnauthenticated; a valid token whose account is gone
// yields ErrAccountMissing.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthenticated, err)
	}
	user, err := s.users.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperror.ErrAccountMissing)
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// ListUsers returns every account without password hashes.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if users == nil {
		users = []models.User{}
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// DeleteUser removes an account. Deleting an unknown account succeeds.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	log.WithField("user_id", id).Info("User deleted")
	return nil
}

// EnsureAdmin makes sure an administrator with the given email exists. A
// missing account is created; an existing non-admin account is promoted and
// keeps its password. Calling it again is a no-op.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin {
			sanitized := existing.Sanitized()
			return &sanitized, nil
		}
		return s.Promote(ctx, email)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}

	if err := s.validate.Struct(registration{Name: name, Email: email, Password: password}); err != nil {
		return nil, validationError(err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{Name: name, Email: email, Password: hashed, IsAdmin: true}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email %q: %w", email, apperror.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to create admin: %w: %w", apperror.ErrStoreFailure, err)
	}
	log.WithField("email", email).Info("Admin account created")
	sanitized := admin.Sanitized()
	return &sanitized, nil
}

// Promote grants administrator rights to the account with the given email.
func (s *AuthService) Promote(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("email %q: %w", email, apperror.ErrAccountMissing)
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if err := s.users.SetAdmin(ctx, user.ID, true); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("email %q: %w", email, apperror.ErrAccountMissing)
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	user.IsAdmin = true
	log.WithField("user_id", user.ID).Info("User promoted to admin")
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user.Sanitized(), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
