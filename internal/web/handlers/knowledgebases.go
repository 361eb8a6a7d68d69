package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ragadmin/internal/backend"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web/flash"
	"ragadmin/internal/workflow"
)

const nonPDFWarning = "Only PDF files are supported. Non-PDF files were filtered out."

type KnowledgeBasesHandler struct {
	kbs      *workflow.KnowledgeBaseService
	sessions *session.Store
	renderer *Renderer
}

func NewKnowledgeBasesHandler(kbs *workflow.KnowledgeBaseService, sessions *session.Store, renderer *Renderer) *KnowledgeBasesHandler {
	return &KnowledgeBasesHandler{kbs: kbs, sessions: sessions, renderer: renderer}
}

func (h *KnowledgeBasesHandler) List(w http.ResponseWriter, r *http.Request) {
	flashes := flash.Take(w, r)

	overview, err := h.kbs.LoadOverview(r.Context())
	if err != nil {
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flashes = append(flashes, flash.Error(backend.ErrorMessage(err, "Failed to load data")))
		overview = &workflow.KnowledgeBaseOverview{}
	}

	h.renderer.render(w, "knowledgebases", pageData{
		Title:   "Knowledge Base Management",
		Active:  "knowledge-bases",
		User:    h.sessions.Current().User,
		Flashes: flashes,
		Data:    overview,
	})
}

func (h *KnowledgeBasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	files, cleanup, err := formFiles(r, "files")
	if err != nil {
		fail(w, r, err, "Invalid form submission", "/knowledge-bases")
		return
	}
	defer cleanup()

	kept, dropped := workflow.FilterPDF(files)
	var messages []flash.Message
	if len(dropped) > 0 {
		messages = append(messages, flash.Warning(nonPDFWarning))
	}

	params := workflow.KnowledgeBaseParams{
		Name:               r.PostFormValue("name"),
		Description:        r.PostFormValue("description"),
		PromptInstructions: r.PostFormValue("prompt_instructions"),
	}

	result := h.kbs.Create(r.Context(), params, kept)
	messages = append(messages, mutationMessage(result, "created", "Failed to create knowledge base"))

	if result.Failed() && backend.IsUnauthorized(result.Primary) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	flash.Set(w, messages...)
	http.Redirect(w, r, "/knowledge-bases", http.StatusSeeOther)
}

func (h *KnowledgeBasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	files, cleanup, err := formFiles(r, "files")
	if err != nil {
		fail(w, r, err, "Invalid form submission", "/knowledge-bases")
		return
	}
	defer cleanup()

	kept, dropped := workflow.FilterPDF(files)
	var messages []flash.Message
	if len(dropped) > 0 {
		messages = append(messages, flash.Warning(nonPDFWarning))
	}

	params := workflow.KnowledgeBaseParams{
		Name:               r.PostFormValue("name"),
		Description:        r.PostFormValue("description"),
		PromptInstructions: r.PostFormValue("prompt_instructions"),
	}

	result := h.kbs.Update(r.Context(), param(r, "kb_id"), params, kept)
	messages = append(messages, mutationMessage(result, "updated", "Failed to update knowledge base"))

	if result.Failed() && backend.IsUnauthorized(result.Primary) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	flash.Set(w, messages...)
	http.Redirect(w, r, "/knowledge-bases", http.StatusSeeOther)
}

// mutationMessage maps a create/update outcome onto the notification the
// operator sees. Partial success is deliberately distinct from both full
// success and failure: the knowledge base exists, its documents do not.
func mutationMessage(result workflow.MutateKnowledgeBaseResult, verb, failFallback string) flash.Message {
	switch {
	case errors.Is(result.Primary, workflow.ErrNameRequired):
		return flash.Error("Please enter a name")
	case result.Failed():
		return flash.Error(backend.ErrorMessage(result.Primary, failFallback))
	case result.PartialSuccess():
		return flash.Partial(fmt.Sprintf("Knowledge base %s but failed to upload files: %s",
			verb, backend.ErrorMessage(result.SecondaryErr, "Upload error")))
	case result.Uploaded > 0:
		return flash.Success(fmt.Sprintf("Knowledge base %s and %d file(s) uploaded successfully",
			verb, result.Uploaded))
	default:
		return flash.Success(fmt.Sprintf("Knowledge base %s successfully", verb))
	}
}

func (h *KnowledgeBasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.kbs.Delete(r.Context(), param(r, "kb_id")); err != nil {
		fail(w, r, err, "Failed to delete knowledge base", "/knowledge-bases")
		return
	}

	flash.Set(w, flash.Success("Knowledge base deleted successfully"))
	http.Redirect(w, r, "/knowledge-bases", http.StatusSeeOther)
}

func (h *KnowledgeBasesHandler) Attach(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err, "Invalid form submission", "/knowledge-bases")
		return
	}

	err := h.kbs.Attach(r.Context(), r.PostFormValue("kb_id"), r.PostFormValue("license_id"))
	switch {
	case errors.Is(err, workflow.ErrSelectionRequired):
		flash.Set(w, flash.Error("Please select both knowledge base and license"))
	case err != nil:
		fail(w, r, err, "Failed to attach knowledge base", "/knowledge-bases")
		return
	default:
		flash.Set(w, flash.Success("Knowledge base attached successfully"))
	}
	http.Redirect(w, r, "/knowledge-bases", http.StatusSeeOther)
}

func (h *KnowledgeBasesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	files, cleanup, err := formFiles(r, "files")
	if err != nil {
		fail(w, r, err, "Invalid form submission", "/knowledge-bases")
		return
	}
	defer cleanup()

	kept, dropped := workflow.FilterPDF(files)
	var messages []flash.Message
	if len(dropped) > 0 {
		messages = append(messages, flash.Warning(nonPDFWarning))
	}

	err = h.kbs.Upload(r.Context(), param(r, "kb_id"), kept)
	switch {
	case errors.Is(err, workflow.ErrNoFilesSelected):
		messages = append(messages, flash.Error("Please select at least one file to upload"))
	case err != nil:
		if backend.IsUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		messages = append(messages, flash.Error(backend.ErrorMessage(err, "Failed to upload files")))
	default:
		messages = append(messages, flash.Success(fmt.Sprintf("%d file(s) uploaded successfully", len(kept))))
	}

	flash.Set(w, messages...)
	http.Redirect(w, r, "/knowledge-bases", http.StatusSeeOther)
}
