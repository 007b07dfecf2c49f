package handler

import (
	"net/http"
	"time"

	"Thread_of_Hope/internal/middleware"
	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CookieConfig 管理员会话 cookie
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type AuthHandler struct {
	base
	auth   *service.AuthService
	cookie CookieConfig
}

func NewAuthHandler(auth *service.AuthService, cookie CookieConfig, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{base: base{log: log}, auth: auth, cookie: cookie}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 成功后同时写 httpOnly 会话 cookie 并返回 access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if !h.bind(c, &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "Login failed")
		return
	}
	h.setCookie(c, res.SessionID, int(h.cookie.MaxAge.Seconds()))
	okData(c, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sid, _ := c.Cookie(h.cookie.Name)
	var userID string
	if actor := middleware.ActorFrom(c); actor.Identified() {
		userID = actor.User.ID
	}
	if err := h.auth.Logout(c.Request.Context(), sid, userID); err != nil {
		h.fail(c, err, "Logout failed")
		return
	}
	h.setCookie(c, "", -1)
	ok(c)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !h.bind(c, &req) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"createdAt": user.CreatedAt,
		},
	})
}

// Me 当前身份，匿名返回 401
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.Identified() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	single(c, actor.User)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
