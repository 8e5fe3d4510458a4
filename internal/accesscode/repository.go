package accesscode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrCodeNotFound = fmt.Errorf("access code %w", apperr.ErrNotFound)
	ErrCodeTaken    = errors.New("access code already exists")
)

type AccessCodeRepository interface {
	Create(ctx context.Context, c *AccessCode) error
	GetByCode(ctx context.Context, code string) (*AccessCode, error)
	MarkRedeemed(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error)
}

type accessCodeRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepository{db: db}
}

func (r *accessCodeRepository) Create(ctx context.Context, c *AccessCode) error {
	var taken int64
	if err := r.db.WithContext(ctx).Model(&AccessCode{}).Where("code = ?", c.Code).Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return ErrCodeTaken
	}

	err := r.db.WithContext(ctx).Omit("Redeemer").Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodeTaken
	}
	return err
}

func (r *accessCodeRepository) GetByCode(ctx context.Context, code string) (*AccessCode, error) {
	var c AccessCode
	err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkRedeemed claims the code for userID. It reports false when the code was
// already used.
func (r *accessCodeRepository) MarkRedeemed(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&AccessCode{}).
		Where("id = ? AND redeemed_at IS NULL", id).
		Updates(map[string]any{"redeemed_by": userID, "redeemed_at": at.UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
