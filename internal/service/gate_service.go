package service

import (
	"errors"
	"fmt"
	"time"

	"terracepass/internal/models"
	"terracepass/internal/repository"
)

// GateStatus tags the outcome of a gate-side check or redeem
type GateStatus string

const (
	// StatusValid: the pass exists and has not been used
	StatusValid GateStatus = "valid"
	// StatusConfirmed: this redeem consumed the pass
	StatusConfirmed GateStatus = "confirmed"
	// StatusUsed: the pass was already consumed
	StatusUsed GateStatus = "used"
	// StatusNotFound: unknown token, or the owning request was deleted
	StatusNotFound GateStatus = "not_found"
)

// GateResult is what the scanner sees. A used pass still carries the owning
// request so the gate operator can see who already entered and when.
type GateResult struct {
	Status  GateStatus            `json:"status"`
	Request *models.AccessRequest `json:"request,omitempty"`
	UsedAt  *time.Time            `json:"usedAt,omitempty"`
}

// GateService answers the two gate-side questions: is this pass good, and
// consume it now.
type GateService struct {
	passes *repository.PassRepository
}

// NewGateService creates a new gate service
func NewGateService(passes *repository.PassRepository) *GateService {
	return &GateService{passes: passes}
}

// Check is a pure read of a pass's current state. It never mutates, no matter
// how many times it is called.
func (s *GateService) Check(tokenString string) (*GateResult, error) {
	pass, request, err := s.passes.GetWithRequest(tokenString)
	if errors.Is(err, repository.ErrNotFound) {
		return &GateResult{Status: StatusNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check pass: %w", err)
	}

	if pass.IsUsed() {
		return &GateResult{Status: StatusUsed, Request: request, UsedAt: pass.UsedAt}, nil
	}
	return &GateResult{Status: StatusValid, Request: request}, nil
}

// Redeem consumes a pass. Of N simultaneous redeems for the same token
// exactly one comes back confirmed; the rest observe used with the original
// usedAt timestamp.
func (s *GateService) Redeem(tokenString string) (*GateResult, error) {
	pass, request, confirmed, err := s.passes.Redeem(tokenString)
	if errors.Is(err, repository.ErrNotFound) {
		return &GateResult{Status: StatusNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to redeem pass: %w", err)
	}

	if confirmed {
		return &GateResult{Status: StatusConfirmed, Request: request, UsedAt: pass.UsedAt}, nil
	}
	return &GateResult{Status: StatusUsed, Request: request, UsedAt: pass.UsedAt}, nil
}
