package accesscode

import (
	"net/http"

	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
)

type Handler struct {
	service AccessCodeService
}

func NewHandler(s AccessCodeService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var dto RedeemDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	resp, err := h.service.Redeem(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
