package aiquiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/quiz"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) DraftQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		apperr.Write(w, r, quiz.ErrQuizNotFound)
		return
	}

	var req DraftRequest
	if !config.Decode(w, r, &req) {
		return
	}

	resp, err := h.service.DraftQuestions(r.Context(), quizID, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}
