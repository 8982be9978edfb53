package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(holder *identity.Holder, roles ...identity.Role) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.GetUserClaimsFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(claims.Username))
	})
	var h http.Handler = final
	if len(roles) > 0 {
		h = auth.RequireRole(roles...)(h)
	}
	return auth.AuthMiddleware(holder)(h)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	holder := identity.NewHolder()
	id := identity.Identity{UserID: uuid.New(), Username: "ana", Role: identity.RoleStudent}
	token, err := auth.GenerateJWT(id.UserID.String(), id.Username, string(id.Role), time.Minute)
	require.NoError(t, err)

	call := func(h http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	bearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }

	t.Run("MissingToken", func(t *testing.T) {
		rec := call(protected(holder), func(*http.Request) {})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NoActiveSession", func(t *testing.T) {
		rec := call(protected(holder), bearer)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	holder.Set(id)

	t.Run("Bearer", func(t *testing.T) {
		rec := call(protected(holder), bearer)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana", rec.Body.String())
	})

	t.Run("Cookie", func(t *testing.T) {
		rec := call(protected(holder), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "jwt", Value: token})
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RoleAllowed", func(t *testing.T) {
		rec := call(protected(holder, identity.RoleStudent), bearer)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RoleDenied", func(t *testing.T) {
		rec := call(protected(holder, identity.RoleTeacher), bearer)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("OtherUserSession", func(t *testing.T) {
		holder.Set(identity.Identity{UserID: uuid.New(), Username: "bob", Role: identity.RoleTeacher})
		rec := call(protected(holder), bearer)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	holder := identity.NewHolder()
	nav := navigation.NewNavigator(holder)
	require.NoError(t, nav.OnUserLoggedIn(identity.Identity{UserID: uuid.New(), Role: identity.RoleTeacher}))

	rec := httptest.NewRecorder()
	auth.NewHandler(nav).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, holder.IsLoggedIn())
	assert.Equal(t, navigation.Login, nav.Current())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
