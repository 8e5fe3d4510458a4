package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	util "github.com/saulo-duarte/natije-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrRoleNotFound = fmt.Errorf("role %w", apperr.ErrNotFound)
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	EnsureRoles(ctx context.Context) error
	GetRoleByName(ctx context.Context, name string) (*Role, error)

	GetOrCreateProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	ExtendTrial(ctx context.Context, userID uuid.UUID, by time.Duration, now time.Time) (time.Time, error)

	Actor(ctx context.Context, userID uuid.UUID) (*access.Actor, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Invalid("email", "A user with that email already exists.")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").First(&u, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ? AND id <> ?", normalizeEmail(email), exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&Profile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *userRepository) EnsureRoles(ctx context.Context) error {
	for _, name := range []string{access.RoleTeacher, access.RoleStudent} {
		role := Role{Name: name}
		if err := r.db.WithContext(ctx).Where(Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Where(Profile{UserID: userID}).
		Attrs(Profile{TrialLimit: now}).
		Omit(clause.Associations).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *userRepository) ExtendTrial(ctx context.Context, userID uuid.UUID, by time.Duration, now time.Time) (time.Time, error) {
	var limit time.Time
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		p, err := txRepo.GetOrCreateProfile(ctx, userID, now)
		if err != nil {
			return err
		}
		p.TrialLimit = util.MaxTime(now, p.TrialLimit).Add(by)
		limit = p.TrialLimit
		return txRepo.UpdateProfile(ctx, p)
	})
	return limit, err
}

// Actor implements access.ActorSource.
func (r *userRepository) Actor(ctx context.Context, userID uuid.UUID) (*access.Actor, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}

	actor := &access.Actor{UserID: u.ID, Role: u.Role.Name, Superuser: u.IsSuperuser}

	var p Profile
	err = r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	switch {
	case err == nil:
		actor.TrialLimit = p.TrialLimit
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return actor, nil
}
