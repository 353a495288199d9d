package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"terracepass/internal/models"
	"terracepass/internal/qr"
	"terracepass/internal/repository"
	"terracepass/internal/token"
	"terracepass/internal/validation"
)

// ErrNotFound is returned when an operation targets a request that does not exist
var ErrNotFound = errors.New("not found")

// InviteService owns the request lifecycle: submission, edits, deletion and
// the approve-and-mint transition.
type InviteService struct {
	requests *repository.RequestRepository
	tokens   token.Generator
	email    *EmailService
	qrCodes  *qr.Renderer
}

// NewInviteService creates a new invite service
func NewInviteService(requests *repository.RequestRepository, tokens token.Generator, email *EmailService, qrCodes *qr.Renderer) *InviteService {
	return &InviteService{
		requests: requests,
		tokens:   tokens,
		email:    email,
		qrCodes:  qrCodes,
	}
}

// ApprovalResult is the outcome of an approve call. AlreadyApproved marks a
// repeated approval, which hands back the existing pass instead of minting a
// second one. EmailSent reports delivery; a failed delivery never reverses
// the approval itself.
type ApprovalResult struct {
	Request         *models.AccessRequest `json:"request"`
	Pass            *models.Pass          `json:"pass"`
	AlreadyApproved bool                  `json:"alreadyApproved"`
	EmailSent       bool                  `json:"emailSent"`
}

// Submit validates and records a new pending access request. Repeat
// submissions with the same email are accepted as distinct requests.
func (s *InviteService) Submit(firstName, lastName, email, instagram string) (*models.AccessRequest, error) {
	if err := validation.ValidateRequired("firstName", firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("lastName", lastName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("instagram", instagram); err != nil {
		return nil, err
	}

	request, err := s.requests.Create(firstName, lastName, email, instagram)
	if err != nil {
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}

	log.Printf("Access request submitted: %s (%s)", request.FullName(), request.ID)
	return request, nil
}

// List returns all access requests, newest first
func (s *InviteService) List() ([]models.AccessRequest, error) {
	requests, err := s.requests.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// Edit applies a partial update to a request. Supplied fields are validated;
// unsupplied fields are untouched.
func (s *InviteService) Edit(id string, update *models.RequestUpdate) (*models.AccessRequest, error) {
	if update.Empty() {
		return nil, validation.ValidationError{Field: "update", Message: "no valid fields to update"}
	}
	if update.FirstName != nil {
		if err := validation.ValidateRequired("firstName", *update.FirstName); err != nil {
			return nil, err
		}
	}
	if update.LastName != nil {
		if err := validation.ValidateRequired("lastName", *update.LastName); err != nil {
			return nil, err
		}
	}
	if update.Email != nil {
		if err := validation.ValidateEmail(*update.Email); err != nil {
			return nil, err
		}
	}
	if update.Instagram != nil {
		if err := validation.ValidateRequired("instagram", *update.Instagram); err != nil {
			return nil, err
		}
	}

	request, err := s.requests.Update(id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to edit request: %w", err)
	}
	return request, nil
}

// Delete removes a request; returns false if it does not exist. Passes minted
// for the request are left orphaned and the gate treats them as invalid.
func (s *InviteService) Delete(id string) (bool, error) {
	deleted, err := s.requests.Delete(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete request: %w", err)
	}
	return deleted, nil
}

// Approve flips a pending request to approved, mints its single-use pass and
// emails the invitation. Approval and minting are one atomic unit in the
// store; the email goes out only after both are durable, and a delivery
// failure is reported without rolling anything back.
func (s *InviteService) Approve(ctx context.Context, id string) (*ApprovalResult, error) {
	tokenString, err := s.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pass token: %w", err)
	}

	request, pass, minted, err := s.requests.Approve(id, tokenString)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	result := &ApprovalResult{
		Request:         request,
		Pass:            pass,
		AlreadyApproved: !minted,
	}

	if !minted {
		log.Printf("Request %s already approved, returning existing pass", id)
		return result, nil
	}

	log.Printf("Request %s approved, pass minted", id)

	if s.email != nil && s.email.IsEnabled() {
		err := s.email.SendInvitationEmail(ctx, request.Email, request.FullName(),
			s.qrCodes.GateURL(pass.Token), s.qrCodes.ImageURL(pass.Token))
		if err != nil {
			log.Printf("Invitation email to %s failed: %v", request.Email, err)
		} else {
			result.EmailSent = true
		}
	}

	return result, nil
}
