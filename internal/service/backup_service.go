package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"terracepass/internal/database"
)

// BackupData is the complete durable record set: admin accounts, access
// requests and passes, exported as one JSON document.
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Admins     []AdminBackup   `json:"admins"`
	Requests   []RequestBackup `json:"requests"`
	Passes     []PassBackup    `json:"passes"`
}

// AdminBackup represents an admin record for backup
type AdminBackup struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"password_hash"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
}

// RequestBackup represents an access request record for backup
type RequestBackup struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Instagram  string     `json:"instagram"`
	Approved   bool       `json:"approved"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at"`
}

// PassBackup represents a pass record for backup
type PassBackup struct {
	ID        int64      `json:"id"`
	Token     string     `json:"token"`
	RequestID string     `json:"request_id"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportAdmins(backup); err != nil {
		return fmt.Errorf("failed to export admins: %w", err)
	}
	if err := s.exportRequests(backup); err != nil {
		return fmt.Errorf("failed to export requests: %w", err)
	}
	if err := s.exportPasses(backup); err != nil {
		return fmt.Errorf("failed to export passes: %w", err)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Printf("Export complete: %d admins, %d requests, %d passes -> %s",
		len(backup.Admins), len(backup.Requests), len(backup.Passes), outputPath)
	return nil
}

// Import restores a backup file into the database. With clear set, existing
// records are removed first; otherwise rows are inserted alongside existing
// data and conflicts fail the import.
func (s *BackupService) Import(inputPath string, clear bool) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if clear {
		for _, table := range []string{"passes", "access_requests", "admins"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	for _, admin := range backup.Admins {
		_, err := tx.Exec(
			`INSERT INTO admins (username, password_hash, oauth_provider, oauth_subject, created_at) VALUES (?, ?, ?, ?, ?)`,
			admin.Username, admin.PasswordHash, admin.OAuthProvider, admin.OAuthSubject, admin.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import admin %s: %w", admin.Username, err)
		}
	}

	for _, request := range backup.Requests {
		_, err := tx.Exec(
			`INSERT INTO access_requests (id, first_name, last_name, email, instagram, approved, created_at, approved_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			request.ID, request.FirstName, request.LastName, request.Email,
			request.Instagram, request.Approved, request.CreatedAt, nullableTime(request.ApprovedAt))
		if err != nil {
			return fmt.Errorf("failed to import request %s: %w", request.ID, err)
		}
	}

	for _, pass := range backup.Passes {
		_, err := tx.Exec(
			`INSERT INTO passes (token, request_id, used, used_at, created_at) VALUES (?, ?, ?, ?, ?)`,
			pass.Token, pass.RequestID, pass.Used, nullableTime(pass.UsedAt), pass.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import pass %s: %w", pass.Token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Import complete: %d admins, %d requests, %d passes",
		len(backup.Admins), len(backup.Requests), len(backup.Passes))
	return nil
}

func (s *BackupService) exportAdmins(backup *BackupData) error {
	rows, err := s.db.Query(
		`SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at FROM admins ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var admin AdminBackup
		if err := rows.Scan(&admin.ID, &admin.Username, &admin.PasswordHash,
			&admin.OAuthProvider, &admin.OAuthSubject, &admin.CreatedAt); err != nil {
			return err
		}
		backup.Admins = append(backup.Admins, admin)
	}
	return rows.Err()
}

func (s *BackupService) exportRequests(backup *BackupData) error {
	rows, err := s.db.Query(
		`SELECT id, first_name, last_name, email, instagram, approved, created_at, approved_at
			FROM access_requests ORDER BY created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var request RequestBackup
		var approvedAt sql.NullTime
		if err := rows.Scan(&request.ID, &request.FirstName, &request.LastName,
			&request.Email, &request.Instagram, &request.Approved, &request.CreatedAt, &approvedAt); err != nil {
			return err
		}
		if approvedAt.Valid {
			t := approvedAt.Time
			request.ApprovedAt = &t
		}
		backup.Requests = append(backup.Requests, request)
	}
	return rows.Err()
}

func (s *BackupService) exportPasses(backup *BackupData) error {
	rows, err := s.db.Query(
		`SELECT id, token, request_id, used, used_at, created_at FROM passes ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pass PassBackup
		var usedAt sql.NullTime
		if err := rows.Scan(&pass.ID, &pass.Token, &pass.RequestID, &pass.Used, &usedAt, &pass.CreatedAt); err != nil {
			return err
		}
		if usedAt.Valid {
			t := usedAt.Time
			pass.UsedAt = &t
		}
		backup.Passes = append(backup.Passes, pass)
	}
	return rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
