package container

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/accesscode"
	"github.com/saulo-duarte/natije-api/internal/aiquiz"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/course"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/saulo-duarte/natije-api/internal/router"
	"github.com/saulo-duarte/natije-api/internal/telegram"
	"github.com/saulo-duarte/natije-api/internal/user"
	"gorm.io/gorm"
)

// Deps are the external services a Container is wired with. Nil members
// disable the feature that needs them.
type Deps struct {
	Blacklist auth.Blacklist
	Google    user.GoogleAuth
	Videos    course.VideoResolver
	Drafter   aiquiz.Provider
	Now       access.Clock
}

type Container struct {
	DB                  *gorm.DB
	UserContainer       *user.UserContainer
	CourseContainer     *course.CourseContainer
	QuizContainer       *quiz.QuizContainer
	AccessCodeContainer *accesscode.AccessCodeContainer
	AIQuizContainer     *aiquiz.AIQuizContainer
	LogoutHandler       *auth.Handler
}

// Models lists every table in migration order.
func Models() []any {
	models := append([]any{}, user.Models()...)
	models = append(models, &auth.RevokedToken{})
	models = append(models, course.Models()...)
	models = append(models, quiz.Models()...)
	models = append(models, accesscode.Models()...)
	return append(models, telegram.Models()...)
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return user.NewRepository(db).EnsureRoles(ctx)
}

// New reads the environment, connects to the database and wires every
// feature. It exits the process when a required setting is missing.
func New() *Container {
	config.Init()
	auth.Init()
	ctx := context.Background()
	log := config.Logger

	if err := config.Connect(ctx, os.Getenv("DATABASE_DSN")); err != nil {
		log.WithError(err).Fatal("Failed to connect to DB")
	}
	if config.EnvBool("AUTO_MIGRATE", true) {
		if err := Migrate(ctx, config.DB); err != nil {
			log.WithError(err).Fatal("Failed to migrate DB")
		}
	}

	blacklist, err := auth.NewBlacklist(config.DB, os.Getenv("REDIS_URL"))
	if err != nil {
		log.WithError(err).Fatal("Failed to configure token blacklist")
	}

	deps := Deps{Blacklist: blacklist, Now: time.Now}

	deps.Google = user.NewGoogleAuth(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)
	if deps.Google != nil {
		config.InitCrypto()
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		videos, err := course.NewYouTubeResolver(ctx, key)
		if err != nil {
			log.WithError(err).Fatal("Failed to create YouTube client")
		}
		deps.Videos = videos
	} else {
		log.Warn("YOUTUBE_API_KEY not set, lessons cannot be created")
	}

	drafter, err := aiquiz.NewGeminiProvider(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.WithError(err).Fatal("Failed to create Gemini client")
	}
	deps.Drafter = drafter

	return Build(config.DB, deps)
}

// Build wires the feature containers on top of an open database.
func Build(db *gorm.DB, deps Deps) *Container {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Blacklist == nil {
		deps.Blacklist = auth.NewGormBlacklist(db)
	}

	userContainer := user.NewUserContainer(db, deps.Blacklist, deps.Google, deps.Now)
	actors := userContainer.Repository
	courseContainer := course.NewCourseContainer(db, actors, deps.Videos, deps.Now)
	quizContainer := quiz.NewQuizContainer(db, actors, deps.Now)
	accessCodeContainer := accesscode.NewAccessCodeContainer(db, courseContainer.Repository, actors, deps.Now)
	aiQuizContainer := aiquiz.NewAIQuizContainer(db, deps.Drafter, actors, deps.Now)

	return &Container{
		DB:                  db,
		UserContainer:       userContainer,
		CourseContainer:     courseContainer,
		QuizContainer:       quizContainer,
		AccessCodeContainer: accessCodeContainer,
		AIQuizContainer:     aiQuizContainer,
		LogoutHandler:       auth.NewHandler(deps.Blacklist),
	}
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		LogoutHandler:     c.LogoutHandler,
		AccessCodeHandler: c.AccessCodeContainer.Handler,
		CourseHandler:     c.CourseContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		AIQuizHandler:     c.AIQuizContainer.Handler,
	})
}
