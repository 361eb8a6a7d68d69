package workflow

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"ragadmin/internal/backend"
)

var (
	// ErrNameRequired blocks knowledge-base create/update before any
	// backend call when the name is empty or whitespace.
	ErrNameRequired = errors.New("please enter a name")
	// ErrNoFilesSelected blocks a standalone upload with nothing to send.
	ErrNoFilesSelected = errors.New("please select at least one file to upload")
	// ErrSelectionRequired blocks an attach with either side missing.
	ErrSelectionRequired = errors.New("please select both knowledge base and license")
)

// KnowledgeBaseAPI is the slice of the backend client the knowledge-base
// page needs.
type KnowledgeBaseAPI interface {
	ListKnowledgeBases(ctx context.Context) ([]backend.KnowledgeBase, error)
	ListLicenses(ctx context.Context) ([]backend.License, error)
	CreateKnowledgeBase(ctx context.Context, req backend.CreateKnowledgeBaseRequest) (*backend.KnowledgeBase, error)
	UpdateKnowledgeBase(ctx context.Context, id string, req backend.UpdateKnowledgeBaseRequest) (*backend.KnowledgeBase, error)
	DeleteKnowledgeBase(ctx context.Context, id string) error
	AttachKnowledgeBase(ctx context.Context, req backend.AttachKnowledgeBaseRequest) error
	UploadFiles(ctx context.Context, kbID string, files []backend.File) error
}

type KnowledgeBaseService struct {
	api KnowledgeBaseAPI
}

func NewKnowledgeBaseService(api KnowledgeBaseAPI) *KnowledgeBaseService {
	return &KnowledgeBaseService{api: api}
}

// KnowledgeBaseOverview is everything the knowledge-base page renders.
type KnowledgeBaseOverview struct {
	KnowledgeBases []backend.KnowledgeBase
	Licenses       []backend.License
}

func (s *KnowledgeBaseService) LoadOverview(ctx context.Context) (*KnowledgeBaseOverview, error) {
	var overview KnowledgeBaseOverview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.KnowledgeBases, err = s.api.ListKnowledgeBases(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview.Licenses, err = s.api.ListLicenses(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// FilterPDF splits the selection into files safe to ingest and the names
// of everything else. Only PDFs are accepted, judged by declared content
// type or file extension; dropped names feed a non-blocking warning.
func FilterPDF(files []backend.File) (kept []backend.File, dropped []string) {
	for _, f := range files {
		if f.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
			kept = append(kept, f)
		} else {
			dropped = append(dropped, f.Name)
		}
	}
	return kept, dropped
}

// KnowledgeBaseParams is the metadata side of the create/edit dialogs.
// Empty optional fields are normalized to explicit nulls on the wire.
type KnowledgeBaseParams struct {
	Name               string
	Description        string
	PromptInstructions string
}

type MutateKnowledgeBaseResult struct {
	Outcome
	KnowledgeBase *backend.KnowledgeBase
	// Uploaded counts the files sent when the upload step succeeded.
	Uploaded int
}

// Create makes the knowledge base and then, if files were selected, issues
// one batched upload against the new id. The two calls are not atomic: an
// upload failure leaves the knowledge base in place and the outcome is a
// partial success.
func (s *KnowledgeBaseService) Create(ctx context.Context, params KnowledgeBaseParams, files []backend.File) MutateKnowledgeBaseResult {
	if strings.TrimSpace(params.Name) == "" {
		return MutateKnowledgeBaseResult{Outcome: Outcome{Primary: ErrNameRequired}}
	}

	kb, err := s.api.CreateKnowledgeBase(ctx, backend.CreateKnowledgeBaseRequest{
		Name:               params.Name,
		Description:        nullable(params.Description),
		PromptInstructions: nullable(params.PromptInstructions),
	})
	if err != nil {
		return MutateKnowledgeBaseResult{Outcome: Outcome{Primary: err}}
	}

	result := MutateKnowledgeBaseResult{KnowledgeBase: kb}
	result.runUpload(ctx, s.api, kb.ID, files)
	return result
}

// Update patches an existing knowledge base's metadata and then uploads
// any newly selected files, with the same partial-success semantics as
// Create. A failed patch aborts before any upload is attempted.
func (s *KnowledgeBaseService) Update(ctx context.Context, id string, params KnowledgeBaseParams, files []backend.File) MutateKnowledgeBaseResult {
	if strings.TrimSpace(params.Name) == "" {
		return MutateKnowledgeBaseResult{Outcome: Outcome{Primary: ErrNameRequired}}
	}

	name := params.Name
	kb, err := s.api.UpdateKnowledgeBase(ctx, id, backend.UpdateKnowledgeBaseRequest{
		Name:               &name,
		Description:        nullable(params.Description),
		PromptInstructions: nullable(params.PromptInstructions),
	})
	if err != nil {
		return MutateKnowledgeBaseResult{Outcome: Outcome{Primary: err}}
	}

	result := MutateKnowledgeBaseResult{KnowledgeBase: kb}
	result.runUpload(ctx, s.api, id, files)
	return result
}

func (r *MutateKnowledgeBaseResult) runUpload(ctx context.Context, api KnowledgeBaseAPI, kbID string, files []backend.File) {
	if len(files) == 0 {
		r.Secondary = SecondarySkipped
		return
	}
	if err := api.UploadFiles(ctx, kbID, files); err != nil {
		r.Secondary = SecondaryFailed
		r.SecondaryErr = err
		return
	}
	r.Secondary = SecondaryOK
	r.Uploaded = len(files)
}

// Upload is the standalone upload dialog: one batched request against an
// existing knowledge base.
func (s *KnowledgeBaseService) Upload(ctx context.Context, kbID string, files []backend.File) error {
	if len(files) == 0 {
		return ErrNoFilesSelected
	}
	return s.api.UploadFiles(ctx, kbID, files)
}

// Attach links one knowledge base to one license.
func (s *KnowledgeBaseService) Attach(ctx context.Context, kbID, licenseID string) error {
	if kbID == "" || licenseID == "" {
		return ErrSelectionRequired
	}
	return s.api.AttachKnowledgeBase(ctx, backend.AttachKnowledgeBaseRequest{
		KBID:      kbID,
		LicenseID: licenseID,
	})
}

// Delete removes a knowledge base; the backend cascades its documents.
func (s *KnowledgeBaseService) Delete(ctx context.Context, id string) error {
	return s.api.DeleteKnowledgeBase(ctx, id)
}

// nullable maps an empty form field to an explicit null on the wire.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
