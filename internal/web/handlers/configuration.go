package handlers

import (
	"net/http"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
	"ragadmin/internal/workflow"
)

type ConfigurationHandler struct {
	config   *workflow.AIConfigService
	sessions *session.Store
	renderer *Renderer
}

func NewConfigurationHandler(config *workflow.AIConfigService, sessions *session.Store, renderer *Renderer) *ConfigurationHandler {
	return &ConfigurationHandler{config: config, sessions: sessions, renderer: renderer}
}

func (h *ConfigurationHandler) Show(w http.ResponseWriter, r *http.Request) {
	flashes := flash.Take(w, r)

	cfg, err := h.config.Load(r.Context())
	if err != nil {
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load configuration")))
	}

	h.renderer.render(w, "configuration", pageData{
		Title:   "Configuration",
		Active:  "configuration",
		User:    h.sessions.Current().User,
		Flashes: flashes,
		Data:    cfg,
	})
}

// Save builds the draft from whichever inputs the form actually carried.
// The provider-specific inputs (topK, stop sequences, the penalties) are
// only rendered for the providers they apply to, so for other providers
// they never reach the form and stay out of the payload.
func (h *ConfigurationHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/configuration")
		return
	}

	draft := workflow.NewConfigDraft()
	if provider := r.PostFormValue("llmProvider"); provider != "" {
		draft.SetProvider(backend.Provider(provider))
	}
	if r.PostForm.Has("model") {
		draft.SetModel(r.PostFormValue("model"))
	}
	if r.PostForm.Has("stopSequences") {
		draft.SetStopSequences(r.PostFormValue("stopSequences"))
	}

	numeric := []struct {
		field string
		set   func(string) error
	}{
		{"temperature", draft.SetTemperature},
		{"maxTokens", draft.SetMaxTokens},
		{"topP", draft.SetTopP},
		{"topK", draft.SetTopK},
		{"frequencyPenalty", draft.SetFrequencyPenalty},
		{"presencePenalty", draft.SetPresencePenalty},
	}
	for _, n := range numeric {
		if !r.PostForm.Has(n.field) {
			continue
		}
		if err := n.set(r.PostFormValue(n.field)); err != nil {
			flash.Set(w, flash.Error(err.Error()))
			http.Redirect(w, r, "/configuration", http.StatusSeeOther)
			return
		}
	}

	if _, err := h.config.Save(r.Context(), draft); err != nil {
		fail(w, r, err, "Failed to update configuration", "/configuration")
		return
	}

	flash.Set(w, flash.Success("Configuration updated successfully"))
	http.Redirect(w, r, "/configuration", http.StatusSeeOther)
}
