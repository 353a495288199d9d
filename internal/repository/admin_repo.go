package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"terracepass/internal/database"
	"terracepass/internal/models"
)

type AdminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new administrator account
func (r *AdminRepository) Create(username, passwordHash string) (*models.Admin, error) {
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(
		`INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &models.Admin{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// GetByUsername retrieves an admin by username; nil if no such account
func (r *AdminRepository) GetByUsername(username string) (*models.Admin, error) {
	query := `SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at
		FROM admins WHERE username = ?`

	var admin models.Admin
	err := r.db.QueryRow(query, username).Scan(&admin.ID, &admin.Username,
		&admin.PasswordHash, &admin.OAuthProvider, &admin.OAuthSubject, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByOAuth retrieves an admin linked to an OAuth identity; nil if none
func (r *AdminRepository) GetByOAuth(provider, subject string) (*models.Admin, error) {
	query := `SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at
		FROM admins WHERE oauth_provider = ? AND oauth_subject = ?`

	var admin models.Admin
	err := r.db.QueryRow(query, provider, subject).Scan(&admin.ID, &admin.Username,
		&admin.PasswordHash, &admin.OAuthProvider, &admin.OAuthSubject, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// LinkOAuth attaches an OAuth identity to an existing admin account
func (r *AdminRepository) LinkOAuth(adminID int64, provider, subject string) error {
	_, err := r.db.Exec(`UPDATE admins SET oauth_provider = ?, oauth_subject = ? WHERE id = ?`,
		provider, subject, adminID)
	return err
}

// Count returns the number of administrator accounts
func (r *AdminRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}
