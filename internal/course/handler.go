package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
)

type Handler struct {
	service CourseService
}

func NewHandler(s CourseService) *Handler {
	return &Handler{service: s}
}

func idParam(r *http.Request, key string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func lessonPath(r *http.Request) (LessonPath, error) {
	id, err := idParam(r, "lessonID", ErrLessonNotFound)
	if err != nil {
		return LessonPath{}, err
	}
	return LessonPath{
		Course:   chi.URLParam(r, "name"),
		Theme:    chi.URLParam(r, "theme"),
		LessonID: id,
	}, nil
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, courses)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var dto CreateCourseDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	c, err := h.service.CreateCourse(r.Context(), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var dto UpdateCourseDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	c, err := h.service.UpdateCourse(r.Context(), chi.URLParam(r, "name"), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCourse(r.Context(), chi.URLParam(r, "name")); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.service.ListThemes(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, themes)
}

func (h *Handler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var dto CreateThemeDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	t, err := h.service.CreateTheme(r.Context(), chi.URLParam(r, "name"), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTheme(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "theme"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var dto UpdateThemeDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	t, err := h.service.UpdateTheme(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "theme"), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTheme(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "theme")); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var dto CreateLessonDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	l, err := h.service.CreateLesson(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "theme"), dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, l)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lp, err := lessonPath(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	l, err := h.service.GetLesson(r.Context(), lp)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lp, err := lessonPath(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto UpdateLessonDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	l, err := h.service.UpdateLesson(r.Context(), lp, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	lp, err := lessonPath(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.service.DeleteLesson(r.Context(), lp); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	lp, err := lessonPath(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto CreateMaterialDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	m, err := h.service.CreateMaterial(r.Context(), lp, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, m)
}

func materialParams(r *http.Request) (LessonPath, uuid.UUID, error) {
	lp, err := lessonPath(r)
	if err != nil {
		return LessonPath{}, uuid.Nil, err
	}
	id, err := idParam(r, "materialID", ErrMaterialNotFound)
	if err != nil {
		return LessonPath{}, uuid.Nil, err
	}
	return lp, id, nil
}

func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	lp, id, err := materialParams(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	m, err := h.service.GetMaterial(r.Context(), lp, id)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	lp, id, err := materialParams(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var dto UpdateMaterialDTO
	if !config.Decode(w, r, &dto) {
		return
	}

	m, err := h.service.UpdateMaterial(r.Context(), lp, id, dto)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	lp, id, err := materialParams(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.service.DeleteMaterial(r.Context(), lp, id); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
