package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserIDKey = "user_id"
	contextActorKey  = "actor"
)

// IdentitySource 两种凭证最终都落到用户表，角色以库里为准
type IdentitySource interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
	ResolveSession(ctx context.Context, sessionID string) (*model.User, error)
}

// Actor 当前请求的身份，User 为 nil 即匿名
type Actor struct {
	User *model.User
}

func (a Actor) Identified() bool { return a.User != nil }

func (a Actor) IsAdmin() bool { return a.User.IsAdmin() }

func (a Actor) Role() string {
	if a.User == nil {
		return ""
	}
	return a.User.Role
}

type Authenticator struct {
	source     IdentitySource
	cookieName string
	log        logrus.FieldLogger
}

func NewAuthenticator(source IdentitySource, cookieName string, log logrus.FieldLogger) *Authenticator {
	return &Authenticator{source: source, cookieName: cookieName, log: log}
}

func (a *Authenticator) CookieName() string { return a.cookieName }

// CurrentActor 先取 IdentifyActor 已解析的结果，没有再现场解析
func (a *Authenticator) CurrentActor(c *gin.Context) Actor {
	if v, ok := c.Get(contextActorKey); ok {
		if actor, ok := v.(Actor); ok {
			return actor
		}
	}
	actor := a.resolve(c)
	a.store(c, actor)
	return actor
}

// resolve 依次尝试 Bearer token 和会话 cookie，都失败即匿名
func (a *Authenticator) resolve(c *gin.Context) Actor {
	ctx := c.Request.Context()
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		user, err := a.source.ResolveToken(ctx, token)
		if err == nil {
			return Actor{User: user}
		}
		a.logFailure(c, "bearer", err)
	}
	if sid, err := c.Cookie(a.cookieName); err == nil && sid != "" {
		user, err := a.source.ResolveSession(ctx, sid)
		if err == nil {
			return Actor{User: user}
		}
		a.logFailure(c, "session", err)
	}
	return Actor{}
}

// logFailure 凭证无效属于正常情况，只有存储异常才告警
func (a *Authenticator) logFailure(c *gin.Context, strategy string, err error) {
	if errors.Is(err, pkg.ErrNotFound) || errors.Is(err, pkg.ErrTokenInvalid) ||
		errors.Is(err, pkg.ErrTokenExpired) || errors.Is(err, pkg.ErrTokenParseFailure) {
		return
	}
	a.log.WithError(err).WithFields(logrus.Fields{
		"strategy": strategy,
		"path":     c.Request.URL.Path,
	}).Warn("identity lookup failed")
}

func (a *Authenticator) store(c *gin.Context, actor Actor) {
	c.Set(contextActorKey, actor)
	if actor.User != nil {
		c.Set(ContextUserIDKey, actor.User.ID)
	}
}

// IdentifyActor 全局中间件，匿名请求照常放行
func (a *Authenticator) IdentifyActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.store(c, a.resolve(c))
		c.Next()
	}
}

// RequireAdmin 所有后台路由统一经过这里，在 handler 之前返回 401
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.CurrentActor(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// ActorFrom handler 里读取当前身份，未经过 IdentifyActor 时视为匿名
func ActorFrom(c *gin.Context) Actor {
	if v, ok := c.Get(contextActorKey); ok {
		if actor, ok := v.(Actor); ok {
			return actor
		}
	}
	return Actor{}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
