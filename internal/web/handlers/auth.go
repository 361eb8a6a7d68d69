package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
)

type AuthHandler struct {
	client   *backend.Client
	sessions *session.Store
	renderer *Renderer
}

func NewAuthHandler(client *backend.Client, sessions *session.Store, renderer *Renderer) *AuthHandler {
	return &AuthHandler{client: client, sessions: sessions, renderer: renderer}
}

func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.render(w, "login", pageData{
		Title:   "Login",
		Flashes: flash.Take(w, r),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/login")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		flash.Set(w, flash.Error("Please fill in all required fields"))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	resp, err := h.client.Login(r.Context(), backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		flash.Set(w, flash.Error(backend.ErrorMessage(err, "Login failed")))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.sessions.Set(resp.Token, resp.User); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
		flash.Set(w, flash.Error("Failed to store session"))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	log.Info().Str("email", email).Msg("operator logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
