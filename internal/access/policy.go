// Package access decides who may view or change catalog and quiz content.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type Clock func() time.Time

// Actor is the requester as seen by the policy.
type Actor struct {
	UserID     uuid.UUID
	Role       string
	Superuser  bool
	TrialLimit time.Time
}

// Ownable is implemented by every entity whose mutations are reserved to the
// creator of the course it belongs to.
type Ownable interface {
	OwnerID() uuid.UUID
}

// PrimeContent is lesson-like content sold as part of a course.
type PrimeContent interface {
	Ownable
	IsPrimeContent() bool
	GatingCourseID() uuid.UUID
}

// TrialContent is quiz-like content open during the trial window.
type TrialContent interface {
	IsTrialContent() bool
}

type PurchaseLookup interface {
	HasBought(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type ActorSource interface {
	Actor(ctx context.Context, userID uuid.UUID) (*Actor, error)
}

type Policy struct {
	purchases PurchaseLookup
	now       Clock
}

func NewPolicy(purchases PurchaseLookup, now Clock) *Policy {
	if now == nil {
		now = time.Now
	}
	return &Policy{purchases: purchases, now: now}
}

func (p *Policy) Now() time.Time {
	return p.now()
}

func (p *Policy) CanMutate(actor *Actor, obj Ownable) error {
	if actor == nil {
		return apperr.ErrUnauthorized
	}
	if obj.OwnerID() != actor.UserID {
		return fmt.Errorf("%w: only the course owner may change it", apperr.ErrForbidden)
	}
	return nil
}

func (p *Policy) IsOwner(actor *Actor, obj Ownable) bool {
	return actor != nil && obj.OwnerID() == actor.UserID
}

func (p *Policy) CanViewLesson(ctx context.Context, actor *Actor, content PrimeContent) error {
	if !content.IsPrimeContent() {
		return nil
	}
	if actor == nil {
		return fmt.Errorf("%w: this lesson requires a purchase", apperr.ErrForbidden)
	}
	if p.IsOwner(actor, content) {
		return nil
	}
	bought, err := p.purchases.HasBought(ctx, actor.UserID, content.GatingCourseID())
	if err != nil {
		return err
	}
	if !bought {
		return fmt.Errorf("%w: this lesson requires a purchase", apperr.ErrForbidden)
	}
	return nil
}

// HasQuizAccess reports whether actor may read a quiz: trial quizzes are open,
// the rest need a running trial window or superuser rights.
func (p *Policy) HasQuizAccess(actor *Actor, quiz TrialContent) bool {
	if quiz.IsTrialContent() {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.Superuser {
		return true
	}
	return actor.TrialLimit.After(p.now())
}

func (p *Policy) CanViewQuiz(actor *Actor, quiz TrialContent) error {
	if p.HasQuizAccess(actor, quiz) {
		return nil
	}
	if actor == nil {
		return apperr.ErrUnauthorized
	}
	return fmt.Errorf("%w: the trial period is over", apperr.ErrForbidden)
}

func (p *Policy) RequireSuperuser(actor *Actor) error {
	if actor == nil {
		return apperr.ErrUnauthorized
	}
	if !actor.Superuser {
		return apperr.ErrForbidden
	}
	return nil
}

func (p *Policy) RequireTeacher(actor *Actor) error {
	if actor == nil {
		return apperr.ErrUnauthorized
	}
	if actor.Role != RoleTeacher {
		return fmt.Errorf("%w: you don't have permission to access this page", apperr.ErrForbidden)
	}
	return nil
}

// Resolve loads the actor behind the request claims. Anonymous requests
// resolve to nil without error.
func Resolve(ctx context.Context, src ActorSource) (*Actor, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	return src.Actor(ctx, userID)
}

// Require is Resolve for operations that need a logged-in user.
func Require(ctx context.Context, src ActorSource) (*Actor, error) {
	actor, err := Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperr.ErrUnauthorized
	}
	return actor, nil
}
