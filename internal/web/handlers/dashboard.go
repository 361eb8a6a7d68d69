package handlers

import (
	"net/http"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
	"ragadmin/internal/workflow"
)

type DashboardHandler struct {
	licenses *workflow.LicenseService
	sessions *session.Store
	renderer *Renderer
}

func NewDashboardHandler(licenses *workflow.LicenseService, sessions *session.Store, renderer *Renderer) *DashboardHandler {
	return &DashboardHandler{licenses: licenses, sessions: sessions, renderer: renderer}
}

type dashboardPage struct {
	UserCount          int
	LicenseCount       int
	ActiveLicenseCount int
	KnowledgeBaseCount int
}

func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	flashes := flash.Take(w, r)

	var page dashboardPage
	overview, err := h.licenses.LoadOverview(r.Context())
	if err != nil {
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load data")))
	} else {
		page.UserCount = len(overview.Users)
		page.LicenseCount = len(overview.Licenses)
		page.KnowledgeBaseCount = len(overview.KnowledgeBases)
		for _, license := range overview.Licenses {
			if license.IsActive {
				page.ActiveLicenseCount++
			}
		}
	}

	h.renderer.render(w, "dashboard", pageData{
		Title:   "Dashboard",
		Active:  "dashboard",
		User:    h.sessions.Current().User,
		Flashes: flashes,
		Data:    page,
	})
}
