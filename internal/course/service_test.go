package course_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"github.com/saulo-duarte/natije-api/internal/course"
	"github.com/saulo-duarte/natije-api/internal/testutil"
	"github.com/saulo-duarte/natije-api/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errVideoMissing = errors.New("video unavailable")

type fakeVideos map[string]time.Duration

func (f fakeVideos) Resolve(_ context.Context, link string) (time.Duration, error) {
	d, ok := f[link]
	if !ok {
		return 0, errVideoMissing
	}
	return d, nil
}

const (
	introLink    = "https://youtu.be/intro"
	practiceLink = "https://youtu.be/practice"
	brokenLink   = "https://youtu.be/broken"
)

type fixture struct {
	svc   course.CourseService
	repo  course.CourseRepository
	users user.UserRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, append(user.Models(), course.Models()...)...)

	users := user.NewRepository(db)
	require.NoError(t, users.EnsureRoles(context.Background()))

	repo := course.NewRepository(db)
	videos := fakeVideos{
		introLink:    90*time.Minute + 20*time.Second,
		practiceLink: 45*time.Minute + 50*time.Second,
	}
	return &fixture{
		svc:   course.NewService(repo, users, videos, time.Now),
		repo:  repo,
		users: users,
	}
}

func (f *fixture) newUser(t *testing.T, email, role string) (*user.User, context.Context) {
	t.Helper()
	ctx := context.Background()

	r, err := f.users.GetRoleByName(ctx, role)
	require.NoError(t, err)
	u := &user.User{Email: email, FirstName: "F", LastName: "L", RoleID: r.ID}
	require.NoError(t, f.users.Create(ctx, u))

	return u, auth.WithClaims(ctx, &auth.Claims{UserID: u.ID.String(), Role: role, Type: auth.AccessToken})
}

func price(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func (f *fixture) algebra(t *testing.T, owner context.Context) *course.LessonResponse {
	t.Helper()
	_, err := f.svc.CreateCourse(owner, course.CreateCourseDTO{
		Name: "Algebra I", Description: "Linear equations", Price: price(49.9),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateTheme(owner, "Algebra I", course.CreateThemeDTO{Title: "Basics"})
	require.NoError(t, err)
	l, err := f.svc.CreateLesson(owner, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Intro", VideoLink: introLink,
	})
	require.NoError(t, err)
	return l
}

func TestCreateCourseRequiresTeacher(t *testing.T) {
	f := setup(t)
	_, student := f.newUser(t, "student@example.com", access.RoleStudent)
	dto := course.CreateCourseDTO{Name: "Physics", Description: "Motion", Price: price(10)}

	_, err := f.svc.CreateCourse(context.Background(), dto)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.svc.CreateCourse(student, dto)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCreateCourseValidation(t *testing.T) {
	f := setup(t)
	_, teacher := f.newUser(t, "teacher@example.com", access.RoleTeacher)

	t.Run("NegativePrice", func(t *testing.T) {
		_, err := f.svc.CreateCourse(teacher, course.CreateCourseDTO{
			Name: "Physics", Description: "Motion", Price: price(-1),
		})
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "price")
	})

	t.Run("DuplicateName", func(t *testing.T) {
		dto := course.CreateCourseDTO{Name: "Chemistry", Description: "Atoms", Price: price(0)}
		_, err := f.svc.CreateCourse(teacher, dto)
		require.NoError(t, err)

		_, err = f.svc.CreateCourse(teacher, dto)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	})
}

func TestLessonNumbering(t *testing.T) {
	f := setup(t)
	_, teacher := f.newUser(t, "teacher@example.com", access.RoleTeacher)
	first := f.algebra(t, teacher)
	assert.Equal(t, 1, first.LessonNumber)
	assert.True(t, first.IsPrime)

	second, err := f.svc.CreateLesson(teacher, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Practice", VideoLink: practiceLink, IsPrime: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.LessonNumber)
	assert.False(t, second.IsPrime)

	t.Run("DuplicateNumber", func(t *testing.T) {
		_, err := f.svc.CreateLesson(teacher, "Algebra I", "Basics", course.CreateLessonDTO{
			Title: "Again", VideoLink: practiceLink, LessonNumber: intPtr(1),
		})
		require.ErrorIs(t, err, apperr.ErrConflict)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"a lesson with this number already exists"}, verr.Fields["message"])
	})

	t.Run("NegativeNumber", func(t *testing.T) {
		_, err := f.svc.CreateLesson(teacher, "Algebra I", "Basics", course.CreateLessonDTO{
			Title: "Negative", VideoLink: practiceLink, LessonNumber: intPtr(-3),
		})
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "lesson_number")
	})

	t.Run("UpdateToTakenNumber", func(t *testing.T) {
		lp := course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: second.ID}
		_, err := f.svc.UpdateLesson(teacher, lp, course.UpdateLessonDTO{LessonNumber: intPtr(1)})
		assert.ErrorIs(t, err, apperr.ErrConflict)

		got, err := f.svc.UpdateLesson(teacher, lp, course.UpdateLessonDTO{LessonNumber: intPtr(7)})
		require.NoError(t, err)
		assert.Equal(t, 7, got.LessonNumber)
	})
}

func TestDefaultLessonNumberAcrossThemes(t *testing.T) {
	f := setup(t)
	_, teacher := f.newUser(t, "teacher@example.com", access.RoleTeacher)
	f.algebra(t, teacher)

	_, err := f.svc.CreateLesson(teacher, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Practice", VideoLink: practiceLink, LessonNumber: intPtr(5),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateTheme(teacher, "Algebra I", course.CreateThemeDTO{Title: "Quadratics"})
	require.NoError(t, err)

	l, err := f.svc.CreateLesson(teacher, "Algebra I", "Quadratics", course.CreateLessonDTO{
		Title: "Roots", VideoLink: introLink,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, l.LessonNumber)
}

func TestVideoFailureRejectsLesson(t *testing.T) {
	f := setup(t)
	_, teacher := f.newUser(t, "teacher@example.com", access.RoleTeacher)
	f.algebra(t, teacher)

	_, err := f.svc.CreateLesson(teacher, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Broken", VideoLink: brokenLink,
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{errVideoMissing.Error()}, verr.Fields["video_link"])

	themes, err := f.svc.ListThemes(context.Background(), "Algebra I")
	require.NoError(t, err)
	require.Len(t, themes.CourseThemes, 1)
	assert.Len(t, themes.CourseThemes[0].Lessons, 1)
}

func TestPrimeLessonNeedsPurchase(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	buyer, student := f.newUser(t, "b@example.com", access.RoleStudent)
	intro := f.algebra(t, owner)
	lp := course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: intro.ID}

	_, err := f.svc.GetLesson(student, lp)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.GetLesson(context.Background(), lp)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := f.svc.GetLesson(owner, lp)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Lesson.Title)

	c, err := f.repo.GetCourseByName(context.Background(), "Algebra I")
	require.NoError(t, err)
	require.NoError(t, f.repo.RecordPurchase(context.Background(), buyer.ID, c.ID))
	require.NoError(t, f.repo.RecordPurchase(context.Background(), buyer.ID, c.ID))

	got, err = f.svc.GetLesson(student, lp)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Lesson.Title)
	assert.Empty(t, got.Materials)
}

func TestFreeLessonIsPublic(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	f.algebra(t, owner)

	free, err := f.svc.CreateLesson(owner, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Preview", VideoLink: practiceLink, IsPrime: boolPtr(false),
	})
	require.NoError(t, err)

	got, err := f.svc.GetLesson(context.Background(), course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: free.ID})
	require.NoError(t, err)
	assert.Equal(t, "00:45:50", got.Lesson.Duration)
}

func TestLessonMustMatchPath(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	intro := f.algebra(t, owner)

	_, err := f.svc.GetLesson(owner, course.LessonPath{Course: "Algebra I", Theme: "Advanced", LessonID: intro.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.GetLesson(owner, course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: uuid.New()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOnlyOwnerMutates(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	_, other := f.newUser(t, "c@example.com", access.RoleTeacher)
	intro := f.algebra(t, owner)
	lp := course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: intro.ID}

	desc := "changed"
	_, err := f.svc.UpdateCourse(other, "Algebra I", course.UpdateCourseDTO{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.CreateTheme(other, "Algebra I", course.CreateThemeDTO{Title: "Hijack"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	assert.ErrorIs(t, f.svc.DeleteLesson(other, lp), apperr.ErrForbidden)

	_, err = f.svc.CreateMaterial(other, lp, course.CreateMaterialDTO{Title: "Notes"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := f.svc.UpdateCourse(owner, "Algebra I", course.UpdateCourseDTO{Description: &desc, Price: price(0)})
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)
	assert.True(t, got.IsOwner)
}

func TestDurationAggregation(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	f.algebra(t, owner)
	_, err := f.svc.CreateLesson(owner, "Algebra I", "Basics", course.CreateLessonDTO{
		Title: "Practice", VideoLink: practiceLink,
	})
	require.NoError(t, err)

	courses, err := f.svc.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(2), courses[0].NumberOfLessons)
	assert.Equal(t, "02:16", courses[0].Duration)
	assert.False(t, courses[0].IsOwner)

	mine, err := f.svc.ListCourses(owner)
	require.NoError(t, err)
	assert.True(t, mine[0].IsOwner)

	themes, err := f.svc.ListThemes(context.Background(), "Algebra I")
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", themes.Course)
	require.Len(t, themes.CourseThemes, 1)
	theme := themes.CourseThemes[0]
	assert.Equal(t, "02:16", theme.Duration)
	require.Len(t, theme.Lessons, 2)
	assert.Equal(t, "01:30:20", theme.Lessons[0].Duration)
	assert.Equal(t, 2, theme.Lessons[1].LessonNumber)
}

func TestMaterialsLifecycle(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	intro := f.algebra(t, owner)
	lp := course.LessonPath{Course: "Algebra I", Theme: "Basics", LessonID: intro.ID}

	m, err := f.svc.CreateMaterial(owner, lp, course.CreateMaterialDTO{Title: "Slides", File: "materials/slides.pdf"})
	require.NoError(t, err)

	title := "Slides v2"
	updated, err := f.svc.UpdateMaterial(owner, lp, m.ID, course.UpdateMaterialDTO{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Slides v2", updated.Title)

	detail, err := f.svc.GetLesson(owner, lp)
	require.NoError(t, err)
	require.Len(t, detail.Materials, 1)
	assert.Equal(t, "materials/slides.pdf", detail.Materials[0].File)

	require.NoError(t, f.svc.DeleteMaterial(owner, lp, m.ID))
	_, err = f.svc.GetMaterial(owner, lp, m.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCourseCascades(t *testing.T) {
	f := setup(t)
	_, owner := f.newUser(t, "a@example.com", access.RoleTeacher)
	intro := f.algebra(t, owner)

	require.NoError(t, f.svc.DeleteCourse(owner, "Algebra I"))

	_, err := f.repo.GetLesson(context.Background(), intro.ID)
	assert.ErrorIs(t, err, course.ErrLessonNotFound)

	_, err = f.svc.GetCourse(context.Background(), "Algebra I")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
