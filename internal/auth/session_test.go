package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	sessions := NewSessions("test-secret", false)
	user := models.User{ID: "user-123", Username: "alice"}

	tok, err := sessions.GenerateToken(user)
	require.NoError(t, err)

	claims, err := sessions.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessions("right-secret", false).GenerateToken(models.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewSessions("wrong-secret", false).ValidateToken(tok)
	assert.Error(t, err)
}

func TestSetAndClearCookie(t *testing.T) {
	t.Parallel()

	sessions := NewSessions("s", false)

	w := httptest.NewRecorder()
	sessions.SetCookie(w, "tok")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Positive(t, cookies[0].MaxAge)

	w = httptest.NewRecorder()
	sessions.ClearCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	sessions := NewSessions("mw-secret", false)
	handler := sessions.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(claims.UserID))
	}))

	// No token at all.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage cookie.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid cookie.
	tok, err := sessions.GenerateToken(models.User{ID: "u-42", Username: "bob"})
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-42", w.Body.String())

	// Bearer header fallback.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
