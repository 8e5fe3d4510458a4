package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func idParam(r *http.Request, key string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func quizAndQuestion(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	questionID, err := idParam(r, "questionID", ErrQuestionNotFound)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return quizID, questionID, nil
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var dto CreateQuizDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	q, err := h.service.CreateQuiz(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto UpdateQuizDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	q, err := h.service.UpdateQuiz(r.Context(), quizID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.service.DeleteQuiz(r.Context(), quizID); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	overview, err := h.service.Overview(r.Context(), quizID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, overview)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto CreateQuestionDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	q, err := h.service.CreateQuestion(r.Context(), quizID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, questionID, err := quizAndQuestion(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	q, err := h.service.GetQuestion(r.Context(), quizID, questionID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, questionID, err := quizAndQuestion(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto UpdateQuestionDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	q, err := h.service.UpdateQuestion(r.Context(), quizID, questionID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, questionID, err := quizAndQuestion(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.service.DeleteQuestion(r.Context(), quizID, questionID); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	quizID, questionID, err := quizAndQuestion(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto CreateVariantDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	v, err := h.service.CreateVariant(r.Context(), quizID, questionID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, v)
}

func (h *Handler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := idParam(r, "variantID", ErrVariantNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto UpdateVariantDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	v, err := h.service.UpdateVariant(r.Context(), variantID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, v)
}

func (h *Handler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := idParam(r, "variantID", ErrVariantNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.service.DeleteVariant(r.Context(), variantID); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, questionID, err := quizAndQuestion(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto AnswerDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), quizID, questionID, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Status == AnswerRecorded {
		status = http.StatusCreated
	}
	config.JSON(w, status, resp)
}

func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	quizID, err := idParam(r, "id", ErrQuizNotFound)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	resp, err := h.service.Score(r.Context(), quizID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
