package controllers

import (
	"encoding/json"
	"net/http"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// AuthController handles registration, login, and profile management
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles account creation
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	user, token, err := ac.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authPayload{User: user, Token: token})
}

// Login handles credential verification and token issuance
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	user, token, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authPayload{User: user, Token: token})
}

// Profile returns the caller's account
func (ac *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	user, err := ac.authService.GetProfile(principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's username and/or email
func (ac *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	user, err := ac.authService.UpdateProfile(principal.UserID, req.Username, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ChangePassword replaces the caller's password after verifying the
// current one
func (ac *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	if err := ac.authService.ChangePassword(principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password changed")
}
