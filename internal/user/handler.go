package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/navigation"
)

type Handler struct {
	service   Service
	navigator *navigation.Navigator
	tokenTTL  time.Duration
}

func NewHandler(service Service, navigator *navigation.Navigator, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, navigator: navigator, tokenTTL: tokenTTL}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Register(r.Context(), dto)
	if err != nil {
		log.WithError(err).Warn("Registration failed")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.service.Authenticate(r.Context(), dto)
	if err != nil {
		config.Error(w, err)
		return
	}

	if err := h.navigator.OnUserLoggedIn(u.Identity()); err != nil {
		h.navigator.Logout()
		log.WithError(err).Warn("Login refused for role without home screen")
		config.Error(w, err)
		return
	}

	token, err := auth.GenerateJWT(u.ID.String(), u.Username, string(u.Role), h.tokenTTL)
	if err != nil {
		h.navigator.Logout()
		log.WithError(err).Error("Failed to sign token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	auth.SetSessionCookie(w, token, int(h.tokenTTL.Seconds()))

	log.WithField("user_id", u.ID).Info("User logged in")
	config.JSON(w, http.StatusOK, LoginResponse{
		Token:  token,
		User:   toResponse(u),
		Screen: h.navigator.Current().String(),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			config.WithContext(r.Context()).WithError(err).Error("Failed to load user")
		}
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}
