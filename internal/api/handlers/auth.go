package handlers

import (
	"errors"
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/auth"
	"storefront-delivery-service/internal/platform/obs"
)

type AuthHandler struct {
	Issuer *auth.Issuer
	Admin  *auth.AdminAccount
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Admin.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrAdminDisabled) {
			writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		obs.FromContext(r.Context()).WithField("username", req.Username).Warn("admin login rejected")
		writeError(w, r, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	tok, err := h.Issuer.IssueAdmin(h.Admin.Username())
	if err != nil {
		writeServiceError(w, r, "issue admin token", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TokenResponse{
		Token: tok,
		User:  dto.UserResponse{Role: auth.RoleAdmin, Username: h.Admin.Username()},
	})
}

func (h *AuthHandler) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tok, err := h.Issuer.IssueCustomer(req.Email, req.Name)
	if errors.Is(err, auth.ErrInvalidEmail) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, "issue customer token", err)
		return
	}

	claims, err := h.Issuer.Parse(tok)
	if err != nil {
		writeServiceError(w, r, "issue customer token", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TokenResponse{
		Token: tok,
		User:  dto.UserResponse{Role: auth.RoleCustomer, Email: claims.Email, Name: claims.Name},
	})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Admin.ChangePassword(req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "current password is incorrect")
	case err != nil:
		writeServiceError(w, r, "change password", err)
	default:
		writeJSON(w, r, http.StatusOK, dto.MessageResponse{Message: "password updated"})
	}
}
