package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"terracepass/internal/models"
	"terracepass/internal/repository"
	"terracepass/internal/security"
	"terracepass/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// AuthService is the authorization predicate for admin operations: it mints
// session tokens at login and answers "is this caller an admin" for every
// gated request.
type AuthService struct {
	admins *repository.AdminRepository
	signer *security.SessionSigner
}

// NewAuthService creates a new auth service
func NewAuthService(admins *repository.AdminRepository, signer *security.SessionSigner) *AuthService {
	return &AuthService{admins: admins, signer: signer}
}

// Login authenticates an admin and mints a session token
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	admin, err := s.admins.GetByUsername(username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil || !security.CheckPassword(password, admin.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.mintSession(admin.Username)
}

// OAuthLogin authenticates an admin through a linked OAuth identity. Accounts
// are never auto-created: the identity must already be linked, or an admin
// account must exist under the verified email.
func (s *AuthService) OAuthLogin(provider, subject, email string) (string, time.Time, error) {
	admin, err := s.admins.GetByOAuth(provider, subject)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to look up oauth admin: %w", err)
	}

	if admin == nil {
		existing, err := s.admins.GetByUsername(email)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to look up admin: %w", err)
		}
		if existing == nil {
			return "", time.Time{}, ErrUnauthorized
		}
		if err := s.admins.LinkOAuth(existing.ID, provider, subject); err != nil {
			return "", time.Time{}, fmt.Errorf("failed to link oauth identity: %w", err)
		}
		admin = existing
	}

	return s.mintSession(admin.Username)
}

// ValidateSession verifies a session token and returns the admin it belongs
// to. A token for a deleted account is rejected.
func (s *AuthService) ValidateSession(tokenString string) (*models.Admin, error) {
	username, err := s.signer.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	admin, err := s.admins.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return nil, ErrUnauthorized
	}
	return admin, nil
}

// EnsureBootstrapAdmin seeds the first admin account from configuration when
// the admins table is empty. Subsequent starts are a no-op.
func (s *AuthService) EnsureBootstrapAdmin(username, password string) error {
	count, err := s.admins.Count()
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		log.Println("No admin accounts exist and ADMIN_PASSWORD is not set; admin API is unreachable")
		return nil
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("bootstrap admin password rejected: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	if _, err := s.admins.Create(username, hash); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Printf("Bootstrap admin account created: %s", username)
	return nil
}

func (s *AuthService) mintSession(username string) (string, time.Time, error) {
	tokenString, expiresAt, err := s.signer.Mint(username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to mint session: %w", err)
	}
	return tokenString, expiresAt, nil
}
