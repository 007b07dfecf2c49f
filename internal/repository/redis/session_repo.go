package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Thread_of_Hope/internal/pkg"

	"github.com/redis/go-redis/v9"
)

var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	SessionPrefix   = "admin:session"
	UserTokenPrefix = "login:user:token"
)

// SessionRepository 管理员 cookie 会话和每个用户当前有效的 access token
type SessionRepository struct {
	Client *redis.Client
}

func (r *SessionRepository) CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return r.set(ctx, fmt.Sprintf("%s:%s", SessionPrefix, sessionID), userID, ttl)
}

// GetSession 返回会话对应的用户 id，不存在或已过期时返回 pkg.ErrNotFound
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (string, error) {
	return r.get(ctx, fmt.Sprintf("%s:%s", SessionPrefix, sessionID))
}

func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.del(ctx, fmt.Sprintf("%s:%s", SessionPrefix, sessionID))
}

func (r *SessionRepository) SetUserToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.set(ctx, fmt.Sprintf("%s:%s", UserTokenPrefix, userID), token, ttl)
}

func (r *SessionRepository) GetUserToken(ctx context.Context, userID string) (string, error) {
	return r.get(ctx, fmt.Sprintf("%s:%s", UserTokenPrefix, userID))
}

func (r *SessionRepository) DeleteUserToken(ctx context.Context, userID string) error {
	return r.del(ctx, fmt.Sprintf("%s:%s", UserTokenPrefix, userID))
}

func (r *SessionRepository) set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) get(ctx context.Context, key string) (string, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", pkg.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, nil
}

func (r *SessionRepository) del(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
