package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ragadmin/internal/backend"
)

type fakeKBAPI struct {
	mu sync.Mutex

	createReq *backend.CreateKnowledgeBaseRequest
	createErr error
	creates   int

	updateID  string
	updateReq *backend.UpdateKnowledgeBaseRequest
	updateErr error
	updates   int

	uploadID    string
	uploadCount int
	uploads     int
	uploadErr   error

	deleted  []string
	attaches []backend.AttachKnowledgeBaseRequest
}

func (f *fakeKBAPI) ListKnowledgeBases(ctx context.Context) ([]backend.KnowledgeBase, error) {
	return []backend.KnowledgeBase{{ID: "kb-1", Name: "Manuals"}}, nil
}

func (f *fakeKBAPI) ListLicenses(ctx context.Context) ([]backend.License, error) {
	return []backend.License{{ID: "lic-1"}}, nil
}

func (f *fakeKBAPI) CreateKnowledgeBase(ctx context.Context, req backend.CreateKnowledgeBaseRequest) (*backend.KnowledgeBase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.createReq = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &backend.KnowledgeBase{ID: "kb-new", Name: req.Name}, nil
}

func (f *fakeKBAPI) UpdateKnowledgeBase(ctx context.Context, id string, req backend.UpdateKnowledgeBaseRequest) (*backend.KnowledgeBase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.updateID = id
	f.updateReq = &req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &backend.KnowledgeBase{ID: id}, nil
}

func (f *fakeKBAPI) DeleteKnowledgeBase(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeKBAPI) AttachKnowledgeBase(ctx context.Context, req backend.AttachKnowledgeBaseRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attaches = append(f.attaches, req)
	return nil
}

func (f *fakeKBAPI) UploadFiles(ctx context.Context, kbID string, files []backend.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	f.uploadID = kbID
	f.uploadCount = len(files)
	return f.uploadErr
}

func pdf(name string) backend.File {
	return backend.File{Name: name, ContentType: "application/pdf", Reader: strings.NewReader("%PDF-1.4")}
}

func TestFilterPDF(t *testing.T) {
	files := []backend.File{
		pdf("manual.pdf"),
		{Name: "report.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Reader: strings.NewReader("x")},
		{Name: "SCAN.PDF", ContentType: "application/octet-stream", Reader: strings.NewReader("x")},
		{Name: "notes.txt", ContentType: "text/plain", Reader: strings.NewReader("x")},
	}

	kept, dropped := FilterPDF(files)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if kept[0].Name != "manual.pdf" || kept[1].Name != "SCAN.PDF" {
		t.Errorf("unexpected kept files: %v, %v", kept[0].Name, kept[1].Name)
	}
	if len(dropped) != 2 || dropped[0] != "report.docx" || dropped[1] != "notes.txt" {
		t.Errorf("unexpected dropped files: %v", dropped)
	}
}

func TestCreateKnowledgeBase(t *testing.T) {
	t.Run("empty name blocks before any call", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)

		result := svc.Create(context.Background(), KnowledgeBaseParams{Name: "   "}, nil)
		if !errors.Is(result.Primary, ErrNameRequired) {
			t.Fatalf("expected ErrNameRequired, got %v", result.Primary)
		}
		if api.creates != 0 {
			t.Error("no create call may be issued with an empty name")
		}
	})

	t.Run("no files means one create and zero uploads", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)

		result := svc.Create(context.Background(), KnowledgeBaseParams{Name: "Manuals"}, nil)
		if !result.Succeeded() {
			t.Fatalf("expected success, got %+v", result.Outcome)
		}
		if result.Secondary != SecondarySkipped {
			t.Error("expected secondary step skipped")
		}
		if api.creates != 1 || api.uploads != 0 {
			t.Errorf("expected 1 create / 0 uploads, got %d / %d", api.creates, api.uploads)
		}
	})

	t.Run("empty optionals become explicit nulls", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)

		svc.Create(context.Background(), KnowledgeBaseParams{Name: "Manuals"}, nil)
		if api.createReq.Description != nil {
			t.Error("empty description must be nil (null on the wire)")
		}
		if api.createReq.PromptInstructions != nil {
			t.Error("empty prompt instructions must be nil (null on the wire)")
		}
	})

	t.Run("upload failure is partial success", func(t *testing.T) {
		api := &fakeKBAPI{uploadErr: errors.New("ingestion backend down")}
		svc := NewKnowledgeBaseService(api)

		result := svc.Create(context.Background(), KnowledgeBaseParams{Name: "Manuals"},
			[]backend.File{pdf("a.pdf"), pdf("b.pdf")})
		if !result.PartialSuccess() {
			t.Fatalf("expected partial success, got %+v", result.Outcome)
		}
		if result.KnowledgeBase == nil || result.KnowledgeBase.ID != "kb-new" {
			t.Error("knowledge base must survive the failed upload")
		}
		if api.creates != 1 || api.uploads != 1 {
			t.Errorf("expected 1 create / 1 upload, got %d / %d", api.creates, api.uploads)
		}
	})

	t.Run("create failure skips the upload", func(t *testing.T) {
		api := &fakeKBAPI{createErr: errors.New("duplicate name")}
		svc := NewKnowledgeBaseService(api)

		result := svc.Create(context.Background(), KnowledgeBaseParams{Name: "Manuals"}, []backend.File{pdf("a.pdf")})
		if !result.Failed() {
			t.Fatal("expected failure")
		}
		if api.uploads != 0 {
			t.Error("no upload may follow a failed create")
		}
	})

	t.Run("files go out in one batch against the new id", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)

		result := svc.Create(context.Background(), KnowledgeBaseParams{Name: "Manuals"},
			[]backend.File{pdf("a.pdf"), pdf("b.pdf"), pdf("c.pdf")})
		if !result.Succeeded() || result.Uploaded != 3 {
			t.Fatalf("expected success with 3 uploaded, got %+v", result)
		}
		if api.uploads != 1 || api.uploadCount != 3 || api.uploadID != "kb-new" {
			t.Errorf("expected one batched upload of 3 files to kb-new, got %d/%d/%s",
				api.uploads, api.uploadCount, api.uploadID)
		}
	})
}

func TestUpdateKnowledgeBase(t *testing.T) {
	t.Run("patch failure aborts before upload", func(t *testing.T) {
		api := &fakeKBAPI{updateErr: errors.New("not found")}
		svc := NewKnowledgeBaseService(api)

		result := svc.Update(context.Background(), "kb-1", KnowledgeBaseParams{Name: "Manuals"}, []backend.File{pdf("a.pdf")})
		if !result.Failed() {
			t.Fatal("expected failure")
		}
		if api.uploads != 0 {
			t.Error("no upload may follow a failed patch")
		}
	})

	t.Run("upload failure after patch is partial success", func(t *testing.T) {
		api := &fakeKBAPI{uploadErr: errors.New("storage full")}
		svc := NewKnowledgeBaseService(api)

		result := svc.Update(context.Background(), "kb-1", KnowledgeBaseParams{Name: "Manuals"}, []backend.File{pdf("a.pdf")})
		if !result.PartialSuccess() {
			t.Fatalf("expected partial success, got %+v", result.Outcome)
		}
		if api.updates != 1 || api.uploadID != "kb-1" {
			t.Errorf("expected patch then upload against kb-1, got %d updates, upload id %q", api.updates, api.uploadID)
		}
	})

	t.Run("name always carried in the patch", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)

		svc.Update(context.Background(), "kb-1", KnowledgeBaseParams{Name: "Renamed", Description: "docs"}, nil)
		if api.updateReq.Name == nil || *api.updateReq.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %v", api.updateReq.Name)
		}
		if api.updateReq.Description == nil || *api.updateReq.Description != "docs" {
			t.Errorf("expected description docs, got %v", api.updateReq.Description)
		}
	})
}

func TestStandaloneUploadAndAttach(t *testing.T) {
	t.Run("upload requires files", func(t *testing.T) {
		svc := NewKnowledgeBaseService(&fakeKBAPI{})
		if err := svc.Upload(context.Background(), "kb-1", nil); !errors.Is(err, ErrNoFilesSelected) {
			t.Fatalf("expected ErrNoFilesSelected, got %v", err)
		}
	})

	t.Run("attach requires both sides", func(t *testing.T) {
		svc := NewKnowledgeBaseService(&fakeKBAPI{})
		if err := svc.Attach(context.Background(), "kb-1", ""); !errors.Is(err, ErrSelectionRequired) {
			t.Fatalf("expected ErrSelectionRequired, got %v", err)
		}
		if err := svc.Attach(context.Background(), "", "lic-1"); !errors.Is(err, ErrSelectionRequired) {
			t.Fatalf("expected ErrSelectionRequired, got %v", err)
		}
	})

	t.Run("attach links one pair", func(t *testing.T) {
		api := &fakeKBAPI{}
		svc := NewKnowledgeBaseService(api)
		if err := svc.Attach(context.Background(), "kb-1", "lic-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(api.attaches) != 1 || api.attaches[0].KBID != "kb-1" || api.attaches[0].LicenseID != "lic-1" {
			t.Errorf("unexpected attach calls: %v", api.attaches)
		}
	})
}
