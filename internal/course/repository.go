package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound   = fmt.Errorf("course %w", apperr.ErrNotFound)
	ErrThemeNotFound    = fmt.Errorf("course theme %w", apperr.ErrNotFound)
	ErrLessonNotFound   = fmt.Errorf("lesson %w", apperr.ErrNotFound)
	ErrMaterialNotFound = fmt.Errorf("lesson material %w", apperr.ErrNotFound)
)

// Stats aggregates the lessons under a course.
type Stats struct {
	Lessons  int64
	Duration time.Duration
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, c *Course) error
	ListCourses(ctx context.Context) ([]Course, error)
	GetCourseByID(ctx context.Context, id uuid.UUID) (*Course, error)
	GetCourseByName(ctx context.Context, name string) (*Course, error)
	UpdateCourse(ctx context.Context, c *Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	CourseStats(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]Stats, error)

	HasBought(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	RecordPurchase(ctx context.Context, userID, courseID uuid.UUID) error

	CreateTheme(ctx context.Context, t *CourseTheme) error
	ListThemes(ctx context.Context, courseID uuid.UUID) ([]CourseTheme, error)
	GetTheme(ctx context.Context, courseID uuid.UUID, title string) (*CourseTheme, error)
	UpdateTheme(ctx context.Context, t *CourseTheme) error
	DeleteTheme(ctx context.Context, id uuid.UUID) error

	NextLessonNumber(ctx context.Context) (int, error)
	LessonNumberTaken(ctx context.Context, number int, exceptID uuid.UUID) (bool, error)
	ListLessons(ctx context.Context, themeIDs []uuid.UUID) ([]Lesson, error)
	CreateLesson(ctx context.Context, l *Lesson) error
	GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error)
	UpdateLesson(ctx context.Context, l *Lesson) error
	DeleteLesson(ctx context.Context, id uuid.UUID) error

	CreateMaterial(ctx context.Context, m *LessonMaterial) error
	ListMaterials(ctx context.Context, lessonID uuid.UUID) ([]LessonMaterial, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*LessonMaterial, error)
	UpdateMaterial(ctx context.Context, m *LessonMaterial) error
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, sentinel error) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sentinel
	}
	return nil
}

func (r *courseRepository) CreateCourse(ctx context.Context, c *Course) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Invalid("name", "course with this name already exists.")
	}
	return err
}

func (r *courseRepository) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) GetCourseByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	var c Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return &c, nil
}

func (r *courseRepository) GetCourseByName(ctx context.Context, name string) (*Course, error) {
	var c Course
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return &c, nil
}

func (r *courseRepository) UpdateCourse(ctx context.Context, c *Course) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Invalid("name", "course with this name already exists.")
	}
	return err
}

func (r *courseRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &Course{}, id, ErrCourseNotFound)
}

func (r *courseRepository) CourseStats(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]Stats, error) {
	stats := make(map[uuid.UUID]Stats, len(courseIDs))
	if len(courseIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		CourseID uuid.UUID
		Lessons  int64
		Duration int64
	}
	err := r.db.WithContext(ctx).
		Table("lessons").
		Select("course_themes.course_id AS course_id, COUNT(lessons.id) AS lessons, CAST(COALESCE(SUM(lessons.duration), 0) AS BIGINT) AS duration").
		Joins("JOIN course_themes ON course_themes.id = lessons.course_theme_id").
		Where("course_themes.course_id IN ?", courseIDs).
		Group("course_themes.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.CourseID] = Stats{Lessons: row.Lessons, Duration: time.Duration(row.Duration)}
	}
	return stats, nil
}

func (r *courseRepository) HasBought(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BoughtCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) RecordPurchase(ctx context.Context, userID, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&BoughtCourse{UserID: userID, CourseID: courseID}).Error
}

func (r *courseRepository) CreateTheme(ctx context.Context, t *CourseTheme) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Invalid("title", "course theme with this title already exists.")
	}
	return err
}

func (r *courseRepository) ListThemes(ctx context.Context, courseID uuid.UUID) ([]CourseTheme, error) {
	var themes []CourseTheme
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("published_at ASC").
		Find(&themes).Error
	return themes, err
}

func (r *courseRepository) GetTheme(ctx context.Context, courseID uuid.UUID, title string) (*CourseTheme, error) {
	var t CourseTheme
	err := r.db.WithContext(ctx).
		Preload("Course").
		First(&t, "course_id = ? AND title = ?", courseID, title).Error
	if err != nil {
		return nil, notFound(err, ErrThemeNotFound)
	}
	return &t, nil
}

func (r *courseRepository) UpdateTheme(ctx context.Context, t *CourseTheme) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Invalid("title", "course theme with this title already exists.")
	}
	return err
}

func (r *courseRepository) DeleteTheme(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &CourseTheme{}, id, ErrThemeNotFound)
}

// NextLessonNumber returns one past the highest lesson number in use.
// Lesson numbers are unique across all themes.
func (r *courseRepository) NextLessonNumber(ctx context.Context) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&Lesson{}).
		Select("COALESCE(MAX(lesson_number), 0) + 1").
		Scan(&next).Error
	return next, err
}

func (r *courseRepository) LessonNumberTaken(ctx context.Context, number int, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Lesson{}).
		Where("lesson_number = ? AND id <> ?", number, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) ListLessons(ctx context.Context, themeIDs []uuid.UUID) ([]Lesson, error) {
	var lessons []Lesson
	if len(themeIDs) == 0 {
		return lessons, nil
	}
	err := r.db.WithContext(ctx).
		Where("course_theme_id IN ?", themeIDs).
		Order("lesson_number ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *courseRepository) CreateLesson(ctx context.Context, l *Lesson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *courseRepository) GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	var l Lesson
	if err := r.db.WithContext(ctx).Preload("CourseTheme.Course").First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrLessonNotFound)
	}
	return &l, nil
}

func (r *courseRepository) UpdateLesson(ctx context.Context, l *Lesson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *courseRepository) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &Lesson{}, id, ErrLessonNotFound)
}

func (r *courseRepository) CreateMaterial(ctx context.Context, m *LessonMaterial) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *courseRepository) ListMaterials(ctx context.Context, lessonID uuid.UUID) ([]LessonMaterial, error) {
	var materials []LessonMaterial
	err := r.db.WithContext(ctx).Where("lesson_id = ?", lessonID).Order("title ASC").Find(&materials).Error
	return materials, err
}

func (r *courseRepository) GetMaterial(ctx context.Context, id uuid.UUID) (*LessonMaterial, error) {
	var m LessonMaterial
	if err := r.db.WithContext(ctx).Preload("Lesson.CourseTheme.Course").First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrMaterialNotFound)
	}
	return &m, nil
}

func (r *courseRepository) UpdateMaterial(ctx context.Context, m *LessonMaterial) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *courseRepository) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &LessonMaterial{}, id, ErrMaterialNotFound)
}
