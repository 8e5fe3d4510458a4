package user

import (
	"net/http"

	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
)

type Handler struct {
	service UserService
}

func NewHandler(s UserService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	pair, err := h.service.Register(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, pair)
}

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	pair, err := h.service.Login(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, pair)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var dto VerifyDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	if err := h.service.Verify(r.Context(), dto); err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{})
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var dto GoogleLoginDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	pair, err := h.service.GoogleLogin(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, pair)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Me(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, u)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto UpdateProfileDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProfile(r.Context()); err != nil {
		apperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
