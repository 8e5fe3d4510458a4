package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/saulo-duarte/natije-api/internal/config"
)

type Handler struct {
	blacklist Blacklist
}

func NewHandler(blacklist Blacklist) *Handler {
	return &Handler{blacklist: blacklist}
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout blacklists the presented refresh token and clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req logoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = r.URL.Query().Get("refresh_token")
	}
	if req.RefreshToken == "" {
		config.JSON(w, http.StatusBadRequest, map[string][]string{"refresh_token": {"This field is required."}})
		return
	}

	claims, err := ValidateRefreshJWT(req.RefreshToken)
	if err != nil {
		log.WithError(err).Warn("Logout with invalid refresh token")
		config.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "token is invalid or expired"})
		return
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.blacklist.Revoke(r.Context(), claims.ID, expiresAt); err != nil {
		log.WithError(err).Error("Failed to blacklist refresh token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	log.WithField("jti", claims.ID).Info("User logged out")
	config.JSON(w, http.StatusOK, map[string]string{"status": "logout successful"})
}
