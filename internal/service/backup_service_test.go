package service

import (
	"context"
	"path/filepath"
	"testing"

	"terracepass/internal/repository"
)

func TestBackupRoundTrip(t *testing.T) {
	sourceDB := newTestDB(t)
	invites := newInviteService(t, sourceDB)
	admins := repository.NewAdminRepository(sourceDB)

	if _, err := admins.Create("door-admin", "hash"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	request, err := invites.Submit("Ana", "Lopez", "ana@example.com", "@ana")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	result, err := invites.Approve(context.Background(), request.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if _, err := invites.Submit("Ben", "Kim", "ben@example.com", "@ben"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	if err := NewBackupService(sourceDB).Export(backupPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Restore into a fresh database
	targetDB := newTestDB(t)
	if err := NewBackupService(targetDB).Import(backupPath, false); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	restored := NewInviteService(repository.NewRequestRepository(targetDB), nil, nil, nil)
	requests, err := restored.List()
	if err != nil {
		t.Fatalf("List() on restored database error = %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("Restored %d requests, want 2", len(requests))
	}

	passes := repository.NewPassRepository(targetDB)
	pass, err := passes.GetByToken(result.Pass.Token)
	if err != nil {
		t.Fatalf("GetByToken() on restored database error = %v", err)
	}
	if pass.RequestID != request.ID {
		t.Errorf("Restored pass request_id = %q, want %q", pass.RequestID, request.ID)
	}

	adminCount, err := repository.NewAdminRepository(targetDB).Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if adminCount != 1 {
		t.Errorf("Restored %d admins, want 1", adminCount)
	}
}

func TestBackupImportClear(t *testing.T) {
	db := newTestDB(t)
	invites := newInviteService(t, db)

	if _, err := invites.Submit("Ana", "Lopez", "ana@example.com", "@ana"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	backup := NewBackupService(db)
	if err := backup.Export(backupPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Add another request after the export, then restore with clear
	if _, err := invites.Submit("Ben", "Kim", "ben@example.com", "@ben"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := backup.Import(backupPath, true); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	requests, err := invites.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("Restored %d requests after clear, want 1", len(requests))
	}
	if requests[0].FirstName != "Ana" {
		t.Errorf("Restored request = %q, want Ana", requests[0].FirstName)
	}
}

func TestBackupImportMissingFile(t *testing.T) {
	db := newTestDB(t)

	if err := NewBackupService(db).Import(filepath.Join(t.TempDir(), "missing.json"), false); err == nil {
		t.Error("Import() of missing file succeeded, want error")
	}
}
