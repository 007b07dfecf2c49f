package pkg

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := NewPage(0, -1, 10)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 0, p.Offset())
	})

	t.Run("second page of fifteen", func(t *testing.T) {
		p := NewPage(2, 10, 10)
		assert.Equal(t, 10, p.Offset())
		res := p.Result(15)
		assert.Equal(t, int64(2), res.TotalPages)
		assert.Equal(t, int64(15), res.Total)
		start, end := p.Window(15)
		assert.Equal(t, 10, start)
		assert.Equal(t, 15, end)
	})

	t.Run("limit capped", func(t *testing.T) {
		p := NewPage(1, 5000, 10)
		assert.Equal(t, MaxPageLimit, p.Limit)
	})

	t.Run("window past end", func(t *testing.T) {
		start, end := NewPage(4, 10, 10).Window(15)
		assert.Equal(t, 15, start)
		assert.Equal(t, 15, end)
	})

	t.Run("huge page does not overflow", func(t *testing.T) {
		for _, limit := range []int{1, 10, MaxPageLimit} {
			p := NewPage(math.MaxInt, limit, 10)
			assert.GreaterOrEqual(t, p.Offset(), 0)
			start, end := p.Window(15)
			assert.Equal(t, 15, start)
			assert.Equal(t, 15, end)
		}
	})

	t.Run("empty total", func(t *testing.T) {
		assert.Equal(t, int64(0), NewPage(1, 10, 10).Result(0).TotalPages)
	})
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("u1", "admin")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewTokenIssuer("test-secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		stale, err := old.Issue("u1", "admin")
		require.NoError(t, err)
		_, err = issuer.Parse(stale)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.Error(t, err)
	})
}

func TestAsAppError(t *testing.T) {
	ae := AsAppError(NotFound("Story not found"), "x")
	assert.Equal(t, http.StatusNotFound, ae.Status)

	wrapped := AsAppError(errors.New("dial tcp: refused"), "Failed to fetch stories")
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
	assert.Equal(t, "Failed to fetch stories", wrapped.Msg)
	assert.Contains(t, wrapped.Error(), "refused")
}

func TestUploadName(t *testing.T) {
	name, err := UploadName("image", ".png", time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^image-1700000000000-\d{9}\.png$`), name)
}
