package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var errBadCredentials = &pkg.AppError{Status: http.StatusUnauthorized, Msg: "Email atau password salah"}

type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	tokens     *pkg.TokenIssuer
	sessionTTL time.Duration
}

func NewAuthService(users UserRepository, sessions SessionRepository, tokens *pkg.TokenIssuer, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, sessionTTL: sessionTTL}
}

type LoginResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn"`
	SessionID string      `json:"-"`
}

// Login 只允许管理员登录，同时签发 access token 和 cookie 会话
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkg.BadRequest("Email dan password wajib diisi")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, pkg.Internal("Login failed", err)
	}
	if !user.IsAdmin() || user.Password == "" {
		return nil, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, pkg.Internal("Login failed", err)
	}
	// 将 token 写入 redis，同一用户只保留最新的一个
	if err := s.sessions.SetUserToken(ctx, user.ID, token, s.tokens.TTL()); err != nil {
		return nil, pkg.Internal("Login failed", err)
	}
	sid, err := newSessionID()
	if err != nil {
		return nil, pkg.Internal("Login failed", err)
	}
	if err := s.sessions.CreateSession(ctx, sid, user.ID, s.sessionTTL); err != nil {
		return nil, pkg.Internal("Login failed", err)
	}
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		SessionID: sid,
	}, nil
}

// Logout 删除 cookie 会话和已登记的 token，两者都可以为空
func (s *AuthService) Logout(ctx context.Context, sessionID, userID string) error {
	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			return pkg.Internal("Logout failed", err)
		}
	}
	if userID != "" {
		if err := s.sessions.DeleteUserToken(ctx, userID); err != nil {
			return pkg.Internal("Logout failed", err)
		}
	}
	return nil
}

// Register 注册普通用户，不能通过这里得到管理员
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, pkg.BadRequest("Email and password are required")
	}
	if !validEmail(email) {
		return nil, pkg.BadRequest("Invalid email format")
	}
	if len(in.Password) < minPasswordLen {
		return nil, pkg.BadRequest("Password must be at least 6 characters")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkg.BadRequest("User already exists")
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.Internal("Registration failed", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkg.Internal("Registration failed", err)
	}
	user := &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(in.Name),
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrDuplicate) {
			return nil, pkg.BadRequest("User already exists")
		}
		return nil, pkg.Internal("Registration failed", err)
	}
	return user, nil
}

// ResolveToken 校验 JWT 并确认它仍是该用户登记的 token，角色以库里为准
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	registered, err := s.sessions.GetUserToken(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if registered != token {
		return nil, pkg.ErrTokenInvalid
	}
	return s.users.FindByID(ctx, claims.UserID)
}

// ResolveSession cookie 里的不透明会话 id -> 用户
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	userID, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// EnsureAdmin 创建或提升管理员账号，已存在时重置密码
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, false, errors.New("invalid admin email")
	}
	if len(password) < minPasswordLen {
		return nil, false, errors.New("admin password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		user = &model.User{
			ID:       uuid.NewString(),
			Email:    email,
			Password: string(hash),
			Name:     name,
			Role:     model.RoleAdmin,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, false, err
		}
		return user, true, nil
	case err != nil:
		return nil, false, err
	}
	user.Password = string(hash)
	user.Role = model.RoleAdmin
	if name != "" {
		user.Name = name
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
