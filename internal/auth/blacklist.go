package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blacklist records refresh tokens that were logged out before expiry.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RevokedToken struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

type gormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) Blacklist {
	return &gormBlacklist{db: db}
}

func (b *gormBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	db := b.db.WithContext(ctx)
	if err := db.Where("expires_at < ?", time.Now()).Delete(&RevokedToken{}).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RevokedToken{ID: jti, ExpiresAt: expiresAt}).Error
}

func (b *gormBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&RevokedToken{}).Where("id = ?", jti).Count(&count).Error
	return count > 0, err
}

type redisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) Blacklist {
	return &redisBlacklist{client: client}
}

func revokedKey(jti string) string { return "revoked_token:" + jti }

func (b *redisBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.client.Get(ctx, revokedKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NewBlacklist prefers redis when a URL is configured.
func NewBlacklist(db *gorm.DB, redisURL string) (Blacklist, error) {
	if redisURL == "" {
		return NewGormBlacklist(db), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisBlacklist(redis.NewClient(opts)), nil
}
