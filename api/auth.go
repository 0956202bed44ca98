package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func CreateAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) HandleCaptcha(w http.ResponseWriter, r *http.Request) {
	captcha, err := h.authService.IssueCaptcha(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, captcha)
}

type captchaFailureResponse struct {
	Error   string                  `json:"error"`
	Captcha *models.CaptchaResponse `json:"captcha,omitempty"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if errors.Is(err, services.ErrCaptchaMismatch) {
		// The failed challenge is already consumed; hand the client a
		// fresh one so it can retry in a single round trip.
		fresh, cerr := h.authService.IssueCaptcha(r.Context())
		if cerr != nil {
			writeError(w, cerr)
			return
		}
		writeJSON(w, http.StatusBadRequest, captchaFailureResponse{
			Error:   err.Error(),
			Captcha: fresh,
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
