package handlers

import (
	"net/http"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
)

type UsersHandler struct {
	client   *backend.Client
	sessions *session.Store
	renderer *Renderer
}

func NewUsersHandler(client *backend.Client, sessions *session.Store, renderer *Renderer) *UsersHandler {
	return &UsersHandler{client: client, sessions: sessions, renderer: renderer}
}

type usersPage struct {
	Users []backend.User
	// Detail is populated when the operator opens one user's view panel;
	// it is fetched separately so the embedded licenses are present.
	Detail *backend.User
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	flashes := flash.Take(w, r)

	users, err := h.client.ListUsers(r.Context())
	if err != nil {
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load users")))
	}

	page := usersPage{Users: users}
	if id := r.URL.Query().Get("view"); id != "" {
		detail, err := h.client.GetUser(r.Context(), id)
		if err != nil {
			flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load user details")))
		} else {
			page.Detail = detail
		}
	}

	h.renderer.render(w, "users", pageData{
		Title:   "User Management",
		Active:  "users",
		User:    h.sessions.Current().User,
		Flashes: flashes,
		Data:    page,
	})
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/users")
		return
	}

	req := backend.RegisterRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     backend.Role(r.PostFormValue("role")),
	}
	if req.Email == "" || req.Password == "" {
		flash.Set(w, flash.Error("Please fill in all required fields"))
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	if _, err := h.client.CreateUser(r.Context(), req); err != nil {
		fail(w, r, err, "Failed to create user", "/users")
		return
	}

	flash.Set(w, flash.Success("User created successfully"))
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/users")
		return
	}

	email := r.PostFormValue("email")
	if email == "" {
		flash.Set(w, flash.Error("Please fill in all required fields"))
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	req := backend.UpdateUserRequest{Email: &email}
	if role := backend.Role(r.PostFormValue("role")); role != "" {
		req.Role = &role
	}

	if _, err := h.client.UpdateUser(r.Context(), param(r, "user_id"), req); err != nil {
		fail(w, r, err, "Failed to update user", "/users")
		return
	}

	flash.Set(w, flash.Success("User updated successfully"))
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteUser(r.Context(), param(r, "user_id")); err != nil {
		fail(w, r, err, "Failed to delete user", "/users")
		return
	}

	flash.Set(w, flash.Success("User deleted successfully"))
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
