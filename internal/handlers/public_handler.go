package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"terracepass/internal/qr"
	"terracepass/internal/service"
	"terracepass/internal/validation"
)

// PublicHandler serves the unauthenticated surface: guest submissions and the
// gate-side pass endpoints. The pass token itself is the credential for the
// gate endpoints.
type PublicHandler struct {
	invites *service.InviteService
	gate    *service.GateService
	qrCodes *qr.Renderer
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(invites *service.InviteService, gate *service.GateService, qrCodes *qr.Renderer) *PublicHandler {
	return &PublicHandler{
		invites: invites,
		gate:    gate,
		qrCodes: qrCodes,
	}
}

type submitRequestBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Instagram string `json:"instagram"`
}

// SubmitRequest handles a guest's access request submission
func (h *PublicHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON, nil)
		return
	}

	request, err := h.invites.Submit(body.FirstName, body.LastName, body.Email, body.Instagram)
	if err != nil {
		var validationErr validation.ValidationError
		if errors.As(err, &validationErr) {
			respondError(w, http.StatusBadRequest, validationErr.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"request": request})
}

// CheckPass reports a pass's current status without changing it
func (h *PublicHandler) CheckPass(w http.ResponseWriter, r *http.Request) {
	result, err := h.gate.Check(r.PathValue("token"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	if result.Status == service.StatusNotFound {
		respondJSON(w, http.StatusNotFound, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// RedeemPass consumes a pass; exactly one of any number of simultaneous
// redeems is confirmed
func (h *PublicHandler) RedeemPass(w http.ResponseWriter, r *http.Request) {
	result, err := h.gate.Redeem(r.PathValue("token"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	if result.Status == service.StatusNotFound {
		respondJSON(w, http.StatusNotFound, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Gate serves /q/{token}: the QR PNG when the path ends in .png, otherwise a
// read-only status check. Scanning the QR lands here, and a read keeps email
// link prefetchers from consuming passes; the gate device redeems explicitly.
func (h *PublicHandler) Gate(w http.ResponseWriter, r *http.Request) {
	tokenString := r.PathValue("token")
	if strings.HasSuffix(tokenString, ".png") {
		h.servePassImage(w, r, strings.TrimSuffix(tokenString, ".png"))
		return
	}
	h.CheckPass(w, r)
}

// servePassImage renders the QR PNG referenced by the invitation email
func (h *PublicHandler) servePassImage(w http.ResponseWriter, r *http.Request, tokenString string) {
	if tokenString == "" {
		respondError(w, http.StatusNotFound, ErrNotFoundMsg, nil)
		return
	}

	png, err := h.qrCodes.PNG(tokenString)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Health is a liveness endpoint
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
