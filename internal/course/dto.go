package course

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/natije-api/internal/utils"
)

type CreateCourseDTO struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Image       string   `json:"image" binding:"omitempty,max=512"`
}

type UpdateCourseDTO struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Image       *string  `json:"image" binding:"omitempty,max=512"`
}

type CourseResponse struct {
	ID              uuid.UUID `json:"id"`
	Image           string    `json:"image"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Duration        string    `json:"duration"`
	NumberOfLessons int64     `json:"number_of_lessons"`
	CreatedAt       time.Time `json:"created_at"`
	IsOwner         bool      `json:"is_owner"`
}

type CreateThemeDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

type UpdateThemeDTO struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type LessonSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	LessonNumber int       `json:"lesson_number"`
	Duration     string    `json:"duration"`
	IsPrime      bool      `json:"is_prime"`
}

type ThemeResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	DatePublished time.Time       `json:"date_published"`
	CourseID      uuid.UUID       `json:"course"`
	Duration      string          `json:"duration"`
	Lessons       []LessonSummary `json:"lessons"`
}

type CourseThemesResponse struct {
	Course       string          `json:"course"`
	CourseThemes []ThemeResponse `json:"course_themes"`
}

type CreateLessonDTO struct {
	Title        string `json:"title" binding:"required,max=255"`
	LessonNumber *int   `json:"lesson_number" binding:"omitempty,gte=0"`
	VideoLink    string `json:"video_link" binding:"required,url,max=512"`
	IsPrime      *bool  `json:"is_prime"`
}

type UpdateLessonDTO struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=255"`
	LessonNumber *int    `json:"lesson_number" binding:"omitempty,gte=0"`
	VideoLink    *string `json:"video_link" binding:"omitempty,url,max=512"`
	IsPrime      *bool   `json:"is_prime"`
}

type LessonResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	LessonNumber  int       `json:"lesson_number"`
	VideoLink     string    `json:"video_link"`
	Duration      string    `json:"duration"`
	IsPrime       bool      `json:"is_prime"`
	CourseThemeID uuid.UUID `json:"course_theme"`
}

type LessonDetailResponse struct {
	Lesson    LessonResponse     `json:"lesson"`
	Materials []MaterialResponse `json:"materials"`
}

type CreateMaterialDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	File        string `json:"material" binding:"omitempty,max=512"`
}

type UpdateMaterialDTO struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	File        *string `json:"material" binding:"omitempty,max=512"`
}

type MaterialResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	File        string    `json:"material"`
	LessonID    uuid.UUID `json:"lesson"`
}

func toLessonSummary(l *Lesson) LessonSummary {
	return LessonSummary{
		ID:           l.ID,
		Title:        l.Title,
		LessonNumber: l.LessonNumber,
		Duration:     util.FormatClock(l.Duration),
		IsPrime:      l.IsPrime,
	}
}

func toLessonResponse(l *Lesson) LessonResponse {
	return LessonResponse{
		ID:            l.ID,
		Title:         l.Title,
		LessonNumber:  l.LessonNumber,
		VideoLink:     l.VideoLink,
		Duration:      util.FormatClock(l.Duration),
		IsPrime:       l.IsPrime,
		CourseThemeID: l.CourseThemeID,
	}
}

func toMaterialResponse(m *LessonMaterial) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		File:        m.File,
		LessonID:    m.LessonID,
	}
}

// toThemeResponse renders a theme with its lessons; lessons must already be
// ordered by number.
func toThemeResponse(t *CourseTheme, lessons []Lesson) ThemeResponse {
	resp := ThemeResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DatePublished: t.PublishedAt,
		CourseID:      t.CourseID,
		Lessons:       make([]LessonSummary, 0, len(lessons)),
	}
	var total time.Duration
	for i := range lessons {
		total += lessons[i].Duration
		resp.Lessons = append(resp.Lessons, toLessonSummary(&lessons[i]))
	}
	resp.Duration = util.FormatHHMM(total)
	return resp
}
