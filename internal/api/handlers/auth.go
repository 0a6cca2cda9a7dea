package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/thisisamish/cashcard-api/internal/api/httpx"
	"github.com/thisisamish/cashcard-api/internal/api/validate"
	"github.com/thisisamish/cashcard-api/internal/auth"
	"github.com/thisisamish/cashcard-api/internal/models"
	"github.com/thisisamish/cashcard-api/internal/services"
)

type AuthHandler struct {
	users *services.UserService
	tm    *auth.TokenManager
}

func NewAuthHandler(users *services.UserService, tm *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tm: tm}
}

// bcrypt refuses passwords longer than 72 bytes. The validator's max tag
// counts runes, not bytes, so Register checks the byte length itself.
const maxPasswordBytes = 72

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type credentialsReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds until the access token expires
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if len(req.Password) > maxPasswordBytes {
		writeValidationError(w, validate.Errs{{Field: "password", Msg: "must be at most 72 bytes"}})
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			httpx.WriteError(w, http.StatusConflict, "conflict", "username or email already taken", nil)
			return
		}
		slog.Error("register failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
			return
		}
		slog.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
		return
	}
	h.writeTokenPair(w, u.Username, u.Role)
}

// Refresh trades a refresh token for a new pair. The user is looked up
// again so a role change since the token was minted takes effect here
// rather than at the old token's expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, isRefresh, err := h.tm.ParseAny(req.RefreshToken)
	if err != nil || !isRefresh {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	u, err := h.users.Get(r.Context(), claims.Subject)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	h.writeTokenPair(w, u.Username, u.Role)
}

func (h *AuthHandler) writeTokenPair(w http.ResponseWriter, username, role string) {
	access, refresh, exp, err := h.tm.GeneratePair(username, role)
	if err != nil {
		slog.Error("token generation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(exp).Round(time.Second).Seconds()),
	})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed json body", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}
