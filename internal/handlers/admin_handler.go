package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"terracepass/internal/models"
	"terracepass/internal/service"
	"terracepass/internal/validation"
)

// AdminHandler serves the authenticated review surface: listing, editing,
// deleting and approving access requests.
type AdminHandler struct {
	invites *service.InviteService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(invites *service.InviteService) *AdminHandler {
	return &AdminHandler{invites: invites}
}

// ListRequests returns all access requests, newest first
func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.invites.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	if requests == nil {
		requests = []models.AccessRequest{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// EditRequest applies a partial update to a request
func (h *AdminHandler) EditRequest(w http.ResponseWriter, r *http.Request) {
	var update models.RequestUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON, nil)
		return
	}

	request, err := h.invites.Edit(r.PathValue("id"), &update)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondError(w, http.StatusBadRequest, validationErr.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(w, http.StatusNotFound, ErrNotFoundMsg, nil)
		default:
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"request": request})
}

// DeleteRequest removes a request. Any pass already minted for it is left
// behind as an orphan, which the gate rejects.
func (h *AdminHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.invites.Delete(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, ErrNotFoundMsg, nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ApproveRequest approves a request, mints its pass and sends the invitation.
// Approving an already approved request returns the existing pass.
func (h *AdminHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	result, err := h.invites.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrNotFoundMsg, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
