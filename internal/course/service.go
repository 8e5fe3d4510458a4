package course

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	util "github.com/saulo-duarte/natije-api/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const lessonNumberConflict = "a lesson with this number already exists"

type CourseService interface {
	ListCourses(ctx context.Context) ([]CourseResponse, error)
	CreateCourse(ctx context.Context, dto CreateCourseDTO) (*CourseResponse, error)
	GetCourse(ctx context.Context, name string) (*CourseResponse, error)
	UpdateCourse(ctx context.Context, name string, dto UpdateCourseDTO) (*CourseResponse, error)
	DeleteCourse(ctx context.Context, name string) error

	ListThemes(ctx context.Context, courseName string) (*CourseThemesResponse, error)
	CreateTheme(ctx context.Context, courseName string, dto CreateThemeDTO) (*ThemeResponse, error)
	GetTheme(ctx context.Context, courseName, title string) (*ThemeResponse, error)
	UpdateTheme(ctx context.Context, courseName, title string, dto UpdateThemeDTO) (*ThemeResponse, error)
	DeleteTheme(ctx context.Context, courseName, title string) error

	CreateLesson(ctx context.Context, courseName, title string, dto CreateLessonDTO) (*LessonResponse, error)
	GetLesson(ctx context.Context, lp LessonPath) (*LessonDetailResponse, error)
	UpdateLesson(ctx context.Context, lp LessonPath, dto UpdateLessonDTO) (*LessonResponse, error)
	DeleteLesson(ctx context.Context, lp LessonPath) error

	CreateMaterial(ctx context.Context, lp LessonPath, dto CreateMaterialDTO) (*MaterialResponse, error)
	GetMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID) (*MaterialResponse, error)
	UpdateMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID, dto UpdateMaterialDTO) (*MaterialResponse, error)
	DeleteMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID) error
}

// LessonPath addresses a lesson the way the routes nest it.
type LessonPath struct {
	Course   string
	Theme    string
	LessonID uuid.UUID
}

type courseService struct {
	repo   CourseRepository
	actors access.ActorSource
	policy *access.Policy
	videos VideoResolver
}

func NewService(repo CourseRepository, actors access.ActorSource, videos VideoResolver, now access.Clock) CourseService {
	return &courseService{
		repo:   repo,
		actors: actors,
		policy: access.NewPolicy(repo, now),
		videos: videos,
	}
}

func (s *courseService) toCourseResponse(c *Course, st Stats, actor *access.Actor) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Image:           c.Image,
		Name:            c.Name,
		Description:     c.Description,
		Price:           c.Price,
		Duration:        util.FormatHHMM(st.Duration),
		NumberOfLessons: st.Lessons,
		CreatedAt:       c.CreatedAt,
		IsOwner:         s.policy.IsOwner(actor, c),
	}
}

func (s *courseService) courseResponse(ctx context.Context, c *Course, actor *access.Actor) (*CourseResponse, error) {
	stats, err := s.repo.CourseStats(ctx, []uuid.UUID{c.ID})
	if err != nil {
		return nil, err
	}
	resp := s.toCourseResponse(c, stats[c.ID], actor)
	return &resp, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]CourseResponse, error) {
	actor, err := access.Resolve(ctx, s.actors)
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	stats, err := s.repo.CourseStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, s.toCourseResponse(&courses[i], stats[courses[i].ID], actor))
	}
	return out, nil
}

func (s *courseService) CreateCourse(ctx context.Context, dto CreateCourseDTO) (*CourseResponse, error) {
	log := config.WithContext(ctx)

	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireTeacher(actor); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if err := s.checkCourseName(ctx, dto.Name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &Course{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       *dto.Price,
		Image:       dto.Image,
		UserID:      actor.UserID,
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}

	log.WithField("course_id", c.ID).Info("Course created")
	resp := s.toCourseResponse(c, Stats{}, actor)
	return &resp, nil
}

func (s *courseService) checkCourseName(ctx context.Context, name string, exceptID uuid.UUID) error {
	existing, err := s.repo.GetCourseByName(ctx, name)
	switch {
	case errors.Is(err, ErrCourseNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperr.Invalid("name", "course with this name already exists.")
	}
	return nil
}

func (s *courseService) GetCourse(ctx context.Context, name string) (*CourseResponse, error) {
	actor, err := access.Resolve(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCourseByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.courseResponse(ctx, c, actor)
}

func (s *courseService) ownedCourse(ctx context.Context, name string) (*Course, *access.Actor, error) {
	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.repo.GetCourseByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if err := s.policy.CanMutate(actor, c); err != nil {
		return nil, nil, err
	}
	return c, actor, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, name string, dto UpdateCourseDTO) (*CourseResponse, error) {
	c, actor, err := s.ownedCourse(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != c.Name {
		if err := s.checkCourseName(ctx, *dto.Name, c.ID); err != nil {
			return nil, err
		}
		c.Name = *dto.Name
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.Price != nil {
		c.Price = *dto.Price
	}
	if dto.Image != nil {
		c.Image = *dto.Image
	}
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	return s.courseResponse(ctx, c, actor)
}

func (s *courseService) DeleteCourse(ctx context.Context, name string) error {
	c, _, err := s.ownedCourse(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(ctx, c.ID); err != nil {
		return err
	}

	config.WithContext(ctx).WithField("course_id", c.ID).Info("Course deleted")
	return nil
}

func (s *courseService) themeResponse(ctx context.Context, t *CourseTheme) (*ThemeResponse, error) {
	lessons, err := s.repo.ListLessons(ctx, []uuid.UUID{t.ID})
	if err != nil {
		return nil, err
	}
	resp := toThemeResponse(t, lessons)
	return &resp, nil
}

func (s *courseService) ListThemes(ctx context.Context, courseName string) (*CourseThemesResponse, error) {
	c, err := s.repo.GetCourseByName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	themes, err := s.repo.ListThemes(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(themes))
	for i := range themes {
		ids[i] = themes[i].ID
	}
	lessons, err := s.repo.ListLessons(ctx, ids)
	if err != nil {
		return nil, err
	}
	byTheme := make(map[uuid.UUID][]Lesson, len(themes))
	for _, l := range lessons {
		byTheme[l.CourseThemeID] = append(byTheme[l.CourseThemeID], l)
	}

	resp := &CourseThemesResponse{Course: c.Name, CourseThemes: make([]ThemeResponse, 0, len(themes))}
	for i := range themes {
		resp.CourseThemes = append(resp.CourseThemes, toThemeResponse(&themes[i], byTheme[themes[i].ID]))
	}
	return resp, nil
}

func (s *courseService) CreateTheme(ctx context.Context, courseName string, dto CreateThemeDTO) (*ThemeResponse, error) {
	c, _, err := s.ownedCourse(ctx, courseName)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	t := &CourseTheme{Title: dto.Title, Description: dto.Description, CourseID: c.ID}
	if err := s.repo.CreateTheme(ctx, t); err != nil {
		return nil, err
	}

	resp := toThemeResponse(t, nil)
	return &resp, nil
}

func (s *courseService) theme(ctx context.Context, courseName, title string) (*CourseTheme, error) {
	c, err := s.repo.GetCourseByName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTheme(ctx, c.ID, title)
}

func (s *courseService) ownedTheme(ctx context.Context, courseName, title string) (*CourseTheme, error) {
	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	t, err := s.theme(ctx, courseName, title)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanMutate(actor, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *courseService) GetTheme(ctx context.Context, courseName, title string) (*ThemeResponse, error) {
	t, err := s.theme(ctx, courseName, title)
	if err != nil {
		return nil, err
	}
	return s.themeResponse(ctx, t)
}

func (s *courseService) UpdateTheme(ctx context.Context, courseName, title string, dto UpdateThemeDTO) (*ThemeResponse, error) {
	t, err := s.ownedTheme(ctx, courseName, title)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if err := s.repo.UpdateTheme(ctx, t); err != nil {
		return nil, err
	}
	return s.themeResponse(ctx, t)
}

func (s *courseService) DeleteTheme(ctx context.Context, courseName, title string) error {
	t, err := s.ownedTheme(ctx, courseName, title)
	if err != nil {
		return err
	}
	return s.repo.DeleteTheme(ctx, t.ID)
}

func (s *courseService) resolveDuration(ctx context.Context, link string) (time.Duration, error) {
	if s.videos == nil {
		return 0, apperr.Invalid("video_link", "video lookup is not configured")
	}
	d, err := s.videos.Resolve(ctx, link)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("video_link", link).Warn("Failed to resolve video duration")
		return 0, apperr.Invalid("video_link", err.Error())
	}
	return d, nil
}

func (s *courseService) checkLessonNumber(ctx context.Context, number int, exceptID uuid.UUID) error {
	taken, err := s.repo.LessonNumberTaken(ctx, number, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(lessonNumberConflict)
	}
	return nil
}

func lessonWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(lessonNumberConflict)
	}
	return err
}

func (s *courseService) CreateLesson(ctx context.Context, courseName, title string, dto CreateLessonDTO) (*LessonResponse, error) {
	log := config.WithContext(ctx)

	t, err := s.ownedTheme(ctx, courseName, title)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	var number int
	if dto.LessonNumber != nil {
		number = *dto.LessonNumber
	} else {
		next, err := s.repo.NextLessonNumber(ctx)
		if err != nil {
			return nil, err
		}
		number = next
	}
	if err := s.checkLessonNumber(ctx, number, uuid.Nil); err != nil {
		return nil, err
	}

	duration, err := s.resolveDuration(ctx, dto.VideoLink)
	if err != nil {
		return nil, err
	}

	l := &Lesson{
		Title:         dto.Title,
		LessonNumber:  number,
		VideoLink:     dto.VideoLink,
		Duration:      duration,
		IsPrime:       dto.IsPrime == nil || *dto.IsPrime,
		CourseThemeID: t.ID,
	}
	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, lessonWriteErr(err)
	}

	log.WithFields(logrus.Fields{"lesson_id": l.ID, "lesson_number": l.LessonNumber}).Info("Lesson created")
	resp := toLessonResponse(l)
	return &resp, nil
}

// lesson loads a lesson and checks it sits under the given course and theme.
func (s *courseService) lesson(ctx context.Context, lp LessonPath) (*Lesson, error) {
	l, err := s.repo.GetLesson(ctx, lp.LessonID)
	if err != nil {
		return nil, err
	}
	if l.CourseTheme == nil || l.CourseTheme.Title != lp.Theme ||
		l.CourseTheme.Course == nil || l.CourseTheme.Course.Name != lp.Course {
		return nil, ErrLessonNotFound
	}
	return l, nil
}

func (s *courseService) ownedLesson(ctx context.Context, lp LessonPath) (*Lesson, error) {
	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	l, err := s.lesson(ctx, lp)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanMutate(actor, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *courseService) GetLesson(ctx context.Context, lp LessonPath) (*LessonDetailResponse, error) {
	actor, err := access.Resolve(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	l, err := s.lesson(ctx, lp)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanViewLesson(ctx, actor, l); err != nil {
		return nil, err
	}

	materials, err := s.repo.ListMaterials(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	resp := &LessonDetailResponse{Lesson: toLessonResponse(l), Materials: make([]MaterialResponse, 0, len(materials))}
	for i := range materials {
		resp.Materials = append(resp.Materials, toMaterialResponse(&materials[i]))
	}
	return resp, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, lp LessonPath, dto UpdateLessonDTO) (*LessonResponse, error) {
	l, err := s.ownedLesson(ctx, lp)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if dto.LessonNumber != nil && *dto.LessonNumber != l.LessonNumber {
		if err := s.checkLessonNumber(ctx, *dto.LessonNumber, l.ID); err != nil {
			return nil, err
		}
		l.LessonNumber = *dto.LessonNumber
	}
	if dto.VideoLink != nil {
		duration, err := s.resolveDuration(ctx, *dto.VideoLink)
		if err != nil {
			return nil, err
		}
		l.VideoLink = *dto.VideoLink
		l.Duration = duration
	}
	if dto.Title != nil {
		l.Title = *dto.Title
	}
	if dto.IsPrime != nil {
		l.IsPrime = *dto.IsPrime
	}

	if err := s.repo.UpdateLesson(ctx, l); err != nil {
		return nil, lessonWriteErr(err)
	}
	resp := toLessonResponse(l)
	return &resp, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, lp LessonPath) error {
	l, err := s.ownedLesson(ctx, lp)
	if err != nil {
		return err
	}
	return s.repo.DeleteLesson(ctx, l.ID)
}

func (s *courseService) CreateMaterial(ctx context.Context, lp LessonPath, dto CreateMaterialDTO) (*MaterialResponse, error) {
	l, err := s.ownedLesson(ctx, lp)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	m := &LessonMaterial{Title: dto.Title, Description: dto.Description, File: dto.File, LessonID: l.ID}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}
	resp := toMaterialResponse(m)
	return &resp, nil
}

func (s *courseService) ownedMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID) (*LessonMaterial, error) {
	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	if _, err := s.lesson(ctx, lp); err != nil {
		return nil, err
	}
	m, err := s.repo.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m.LessonID != lp.LessonID {
		return nil, ErrMaterialNotFound
	}
	if err := s.policy.CanMutate(actor, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *courseService) GetMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID) (*MaterialResponse, error) {
	m, err := s.ownedMaterial(ctx, lp, materialID)
	if err != nil {
		return nil, err
	}
	resp := toMaterialResponse(m)
	return &resp, nil
}

func (s *courseService) UpdateMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID, dto UpdateMaterialDTO) (*MaterialResponse, error) {
	m, err := s.ownedMaterial(ctx, lp, materialID)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		m.Title = *dto.Title
	}
	if dto.Description != nil {
		m.Description = *dto.Description
	}
	if dto.File != nil {
		m.File = *dto.File
	}
	if err := s.repo.UpdateMaterial(ctx, m); err != nil {
		return nil, err
	}
	resp := toMaterialResponse(m)
	return &resp, nil
}

func (s *courseService) DeleteMaterial(ctx context.Context, lp LessonPath, materialID uuid.UUID) error {
	m, err := s.ownedMaterial(ctx, lp, materialID)
	if err != nil {
		return err
	}
	return s.repo.DeleteMaterial(ctx, m.ID)
}
