package auth

import (
	"net/http"

	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/navigation"
)

type Handler struct {
	navigator *navigation.Navigator
}

func NewHandler(navigator *navigation.Navigator) *Handler {
	return &Handler{navigator: navigator}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.navigator.Logout()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	config.WithContext(r.Context()).Info("User logged out")
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}

// SetSessionCookie mirrors the issued token into an http-only cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
