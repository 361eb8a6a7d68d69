package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
	"ragadmin/internal/workflow"
)

type LicensesHandler struct {
	licenses *workflow.LicenseService
	sessions *session.Store
	renderer *Renderer
}

func NewLicensesHandler(licenses *workflow.LicenseService, sessions *session.Store, renderer *Renderer) *LicensesHandler {
	return &LicensesHandler{licenses: licenses, sessions: sessions, renderer: renderer}
}

func (h *LicensesHandler) List(w http.ResponseWriter, r *http.Request) {
	flashes := flash.Take(w, r)

	overview, err := h.licenses.LoadOverview(r.Context())
	if err != nil {
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load data")))
		overview = &workflow.LicenseOverview{}
	}

	h.renderer.render(w, "licenses", pageData{
		Title:   "License Management",
		Active:  "licenses",
		User:    h.sessions.Current().User,
		Flashes: flashes,
		Data:    overview,
	})
}

func (h *LicensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/licenses")
		return
	}

	// A blank or malformed validity value falls through to zero, which
	// CreateWithAttachments treats as unlimited.
	validityDays, _ := strconv.Atoi(r.PostFormValue("validity_days"))

	result := h.licenses.CreateWithAttachments(r.Context(), workflow.CreateLicenseInput{
		UserID:           r.PostFormValue("user_id"),
		ValidityDays:     validityDays,
		KnowledgeBaseIDs: r.PostForm["kb_ids"],
	})

	switch {
	case errors.Is(result.Primary, workflow.ErrNoUserSelected):
		flash.Set(w, flash.Error("Please select a user"))
	case result.Failed():
		fail(w, r, result.Primary, "Failed to create license", "/licenses")
		return
	case result.PartialSuccess():
		flash.Set(w, flash.Partial(fmt.Sprintf(
			"License created but some knowledge bases could not be attached: %s",
			backend.ErrorMessage(result.SecondaryErr, "Attach error"))))
	case result.Attached > 0:
		flash.Set(w, flash.Success(fmt.Sprintf(
			"License created successfully with %d knowledge base(s) attached", result.Attached)))
	default:
		flash.Set(w, flash.Success("License created successfully"))
	}

	http.Redirect(w, r, "/licenses", http.StatusSeeOther)
}

func (h *LicensesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/licenses")
		return
	}

	license := backend.License{
		ID:       param(r, "license_id"),
		IsActive: r.PostFormValue("active") == "true",
	}

	if _, err := h.licenses.Toggle(r.Context(), license); err != nil {
		fail(w, r, err, "Failed to update license", "/licenses")
		return
	}

	if license.IsActive {
		flash.Set(w, flash.Success("License deactivated"))
	} else {
		flash.Set(w, flash.Success("License activated"))
	}
	http.Redirect(w, r, "/licenses", http.StatusSeeOther)
}
