package accesscode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/course"
	"github.com/saulo-duarte/natije-api/internal/user"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const generateAttempts = 5

var (
	ErrInvalidCode   = apperr.Invalid("code", "Invalid code.")
	ErrCodeUsed      = apperr.Invalid("code", "This code has already been used.")
	ErrInvalidDays   = apperr.Invalid("days", "Must be a positive number of days.")
	ErrCodeExhausted = errors.New("could not allocate a unique access code")
)

var codesRedeemed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "access_codes_redeemed_total",
	Help: "Redeemed access codes by kind.",
}, []string{"kind"})

// CourseLookup resolves the course a course code unlocks.
type CourseLookup interface {
	GetCourseByName(ctx context.Context, name string) (*course.Course, error)
}

type AccessCodeService interface {
	GenerateCourseCode(ctx context.Context, courseName string) (*AccessCode, error)
	GenerateTestCode(ctx context.Context, days int) (*AccessCode, error)
	Redeem(ctx context.Context, dto RedeemDTO) (*RedeemResponse, error)
}

type accessCodeService struct {
	db      *gorm.DB
	repo    AccessCodeRepository
	courses CourseLookup
	actors  access.ActorSource
	now     access.Clock
}

func NewService(db *gorm.DB, repo AccessCodeRepository, courses CourseLookup, actors access.ActorSource, now access.Clock) AccessCodeService {
	if now == nil {
		now = time.Now
	}
	return &accessCodeService{db: db, repo: repo, courses: courses, actors: actors, now: now}
}

func (s *accessCodeService) GenerateCourseCode(ctx context.Context, courseName string) (*AccessCode, error) {
	c, err := s.courses.GetCourseByName(ctx, strings.TrimSpace(courseName))
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(coursePayload{CourseID: c.ID})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, KindCourse, payload)
}

func (s *accessCodeService) GenerateTestCode(ctx context.Context, days int) (*AccessCode, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	token, err := signTestToken(days, s.now())
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(testPayload{Day: days, Token: token})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, KindTest, payload)
}

func (s *accessCodeService) generate(ctx context.Context, kind Kind, payload []byte) (*AccessCode, error) {
	log := config.WithContext(ctx)
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown access code kind %q", kind)
	}

	for attempt := 0; attempt < generateAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return nil, err
		}
		c := &AccessCode{Code: code, Kind: kind, Payload: datatypes.JSON(payload)}
		err = s.repo.Create(ctx, c)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			log.WithError(err).Error("Failed to store access code")
			return nil, err
		}
		log.WithFields(logrus.Fields{"code_id": c.ID, "kind": kind}).Info("Access code generated")
		return c, nil
	}
	return nil, ErrCodeExhausted
}

// Redeem consumes a code for the current user. Course codes record a purchase;
// test codes extend the trial window.
func (s *accessCodeService) Redeem(ctx context.Context, dto RedeemDTO) (*RedeemResponse, error) {
	log := config.WithContext(ctx)

	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	dto.Code = strings.ToUpper(strings.TrimSpace(dto.Code))
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	now := s.now()
	var resp *RedeemResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		c, err := repo.GetByCode(ctx, dto.Code)
		if errors.Is(err, ErrCodeNotFound) {
			return ErrInvalidCode
		}
		if err != nil {
			return err
		}

		claimed, err := repo.MarkRedeemed(ctx, c.ID, actor.UserID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrCodeUsed
		}

		resp, err = apply(ctx, tx, c, actor.UserID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	codesRedeemed.WithLabelValues(string(resp.Kind)).Inc()
	log.WithFields(logrus.Fields{"user_id": actor.UserID, "kind": resp.Kind}).Info("Access code redeemed")
	return resp, nil
}

func apply(ctx context.Context, tx *gorm.DB, c *AccessCode, userID uuid.UUID, now time.Time) (*RedeemResponse, error) {
	switch c.Kind {
	case KindCourse:
		var p coursePayload
		if err := json.Unmarshal(c.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode course code payload: %w", err)
		}
		if err := course.NewRepository(tx).RecordPurchase(ctx, userID, p.CourseID); err != nil {
			return nil, err
		}
		return &RedeemResponse{Kind: KindCourse, CourseID: &p.CourseID}, nil

	case KindTest:
		var p testPayload
		if err := json.Unmarshal(c.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode test code payload: %w", err)
		}
		days, err := TestTokenDays(p.Token)
		if err != nil {
			return nil, ErrInvalidCode
		}
		limit, err := user.NewRepository(tx).ExtendTrial(ctx, userID, time.Duration(days)*24*time.Hour, now)
		if err != nil {
			return nil, err
		}
		return &RedeemResponse{Kind: KindTest, TrialLimit: &limit}, nil
	}
	return nil, ErrInvalidCode
}
