package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(token)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockSource) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	args := m.Called(sessionID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

var (
	adminUser = &model.User{ID: "u-admin", Role: model.RoleAdmin}
	plainUser = &model.User{ID: "u-plain", Role: model.RoleUser}
)

func newEngine(src IdentitySource) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator(src, "admin_session", logging.Discard())
	reached := 0
	r := gin.New()
	r.Use(auth.IdentifyActor())
	r.GET("/admin", auth.RequireAdmin(), func(c *gin.Context) {
		reached++
		c.JSON(http.StatusOK, gin.H{"role": ActorFrom(c).Role(), "uid": c.GetString(ContextUserIDKey)})
	})
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"identified": auth.CurrentActor(c).Identified()})
	})
	return r, &reached
}

func TestRequireAdminBearer(t *testing.T) {
	src := &mockSource{}
	src.On("ResolveToken", "good").Return(adminUser, nil)
	r, reached := newEngine(src)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin","uid":"u-admin"}`, w.Body.String())
	assert.Equal(t, 1, *reached)
	src.AssertExpectations(t)
}

func TestRequireAdminSessionCookie(t *testing.T) {
	src := &mockSource{}
	src.On("ResolveSession", "sid-1").Return(adminUser, nil)
	r, reached := newEngine(src)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: "sid-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *reached)
	src.AssertNotCalled(t, "ResolveToken", mock.Anything)
}

func TestRequireAdminFallsBackToCookie(t *testing.T) {
	src := &mockSource{}
	src.On("ResolveToken", "stale").Return(nil, pkg.ErrTokenExpired)
	src.On("ResolveSession", "sid-1").Return(adminUser, nil)
	r, _ := newEngine(src)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer stale")
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: "sid-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	src.AssertExpectations(t)
}

func TestRequireAdminRejects(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*mockSource, *http.Request)
	}{
		{"no credentials", func(*mockSource, *http.Request) {}},
		{"malformed header", func(_ *mockSource, r *http.Request) { r.Header.Set("Authorization", "Token abc") }},
		{"unknown session", func(m *mockSource, r *http.Request) {
			m.On("ResolveSession", "gone").Return(nil, pkg.ErrNotFound)
			r.AddCookie(&http.Cookie{Name: "admin_session", Value: "gone"})
		}},
		{"non-admin role", func(m *mockSource, r *http.Request) {
			m.On("ResolveToken", "user-token").Return(plainUser, nil)
			r.Header.Set("Authorization", "Bearer user-token")
		}},
		{"store failure", func(m *mockSource, r *http.Request) {
			m.On("ResolveToken", "t").Return(nil, errors.New("redis down"))
			r.Header.Set("Authorization", "Bearer t")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &mockSource{}
			r, reached := newEngine(src)
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			tc.setup(src, req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			assert.Equal(t, 0, *reached)
		})
	}
}

func TestPublicRouteStaysOpen(t *testing.T) {
	r, _ := newEngine(&mockSource{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"identified":false}`, w.Body.String())
}
