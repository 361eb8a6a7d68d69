package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ragadmin/internal/backend"
)

type fakeLicenseAPI struct {
	mu sync.Mutex

	createReq  *backend.CreateLicenseRequest
	createErr  error
	creates    int
	attaches   []backend.AttachKnowledgeBaseRequest
	attachErrs map[string]error

	listLicensesErr error
	listCalls       []string

	activated   []string
	deactivated []string
}

func (f *fakeLicenseAPI) ListLicenses(ctx context.Context) ([]backend.License, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, "licenses")
	f.mu.Unlock()
	if f.listLicensesErr != nil {
		return nil, f.listLicensesErr
	}
	return []backend.License{{ID: "lic-1"}}, nil
}

func (f *fakeLicenseAPI) ListUsers(ctx context.Context) ([]backend.User, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, "users")
	f.mu.Unlock()
	return []backend.User{{ID: "usr-1"}}, nil
}

func (f *fakeLicenseAPI) ListKnowledgeBases(ctx context.Context) ([]backend.KnowledgeBase, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, "kbs")
	f.mu.Unlock()
	return []backend.KnowledgeBase{{ID: "kb-1"}}, nil
}

func (f *fakeLicenseAPI) CreateLicense(ctx context.Context, req backend.CreateLicenseRequest) (*backend.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.createReq = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &backend.License{ID: "lic-new", Key: "KEY-NEW"}, nil
}

func (f *fakeLicenseAPI) ActivateLicense(ctx context.Context, id string) (*backend.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, id)
	return &backend.License{ID: id, IsActive: true}, nil
}

func (f *fakeLicenseAPI) DeactivateLicense(ctx context.Context, id string) (*backend.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, id)
	return &backend.License{ID: id, IsActive: false}, nil
}

func (f *fakeLicenseAPI) AttachKnowledgeBase(ctx context.Context, req backend.AttachKnowledgeBaseRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attaches = append(f.attaches, req)
	if err, ok := f.attachErrs[req.KBID]; ok {
		return err
	}
	return nil
}

func TestCreateWithAttachments(t *testing.T) {
	t.Run("no user selected blocks before any call", func(t *testing.T) {
		api := &fakeLicenseAPI{}
		svc := NewLicenseService(api)

		result := svc.CreateWithAttachments(context.Background(), CreateLicenseInput{})
		if !errors.Is(result.Primary, ErrNoUserSelected) {
			t.Fatalf("expected ErrNoUserSelected, got %v", result.Primary)
		}
		if api.creates != 0 || len(api.attaches) != 0 {
			t.Error("no backend call may be issued without a selected user")
		}
	})

	t.Run("non-positive validity omitted", func(t *testing.T) {
		api := &fakeLicenseAPI{}
		svc := NewLicenseService(api)

		svc.CreateWithAttachments(context.Background(), CreateLicenseInput{UserID: "usr-1", ValidityDays: 0})
		if api.createReq.ValidityPeriodDays != nil {
			t.Error("zero validity must be omitted from the payload")
		}

		svc.CreateWithAttachments(context.Background(), CreateLicenseInput{UserID: "usr-1", ValidityDays: -3})
		if api.createReq.ValidityPeriodDays != nil {
			t.Error("negative validity must be omitted from the payload")
		}
	})

	t.Run("positive validity included", func(t *testing.T) {
		api := &fakeLicenseAPI{}
		svc := NewLicenseService(api)

		svc.CreateWithAttachments(context.Background(), CreateLicenseInput{UserID: "usr-1", ValidityDays: 30})
		if api.createReq.ValidityPeriodDays == nil || *api.createReq.ValidityPeriodDays != 30 {
			t.Errorf("expected validity 30, got %v", api.createReq.ValidityPeriodDays)
		}
	})

	t.Run("create failure stops the workflow", func(t *testing.T) {
		api := &fakeLicenseAPI{createErr: errors.New("quota exceeded")}
		svc := NewLicenseService(api)

		result := svc.CreateWithAttachments(context.Background(), CreateLicenseInput{
			UserID:           "usr-1",
			KnowledgeBaseIDs: []string{"kb-1", "kb-2"},
		})
		if !result.Failed() {
			t.Fatal("expected failure")
		}
		if len(api.attaches) != 0 {
			t.Error("no attach call may follow a failed create")
		}
	})

	t.Run("one attach per selected knowledge base", func(t *testing.T) {
		api := &fakeLicenseAPI{}
		svc := NewLicenseService(api)

		result := svc.CreateWithAttachments(context.Background(), CreateLicenseInput{
			UserID:           "usr-1",
			KnowledgeBaseIDs: []string{"kb-1", "kb-2"},
		})
		if !result.Succeeded() {
			t.Fatalf("expected success, got %+v", result.Outcome)
		}
		if api.creates != 1 {
			t.Errorf("expected one create call, got %d", api.creates)
		}
		if len(api.attaches) != 2 {
			t.Fatalf("expected two attach calls, got %d", len(api.attaches))
		}
		seen := map[string]bool{}
		for _, attach := range api.attaches {
			if attach.LicenseID != "lic-new" {
				t.Errorf("attach must pair the new license id, got %q", attach.LicenseID)
			}
			seen[attach.KBID] = true
		}
		if !seen["kb-1"] || !seen["kb-2"] {
			t.Errorf("expected attaches for kb-1 and kb-2, got %v", api.attaches)
		}
		if result.Attached != 2 {
			t.Errorf("expected 2 attached, got %d", result.Attached)
		}
	})

	t.Run("attach failure degrades to partial success", func(t *testing.T) {
		api := &fakeLicenseAPI{attachErrs: map[string]error{"kb-2": errors.New("kb not found")}}
		svc := NewLicenseService(api)

		result := svc.CreateWithAttachments(context.Background(), CreateLicenseInput{
			UserID:           "usr-1",
			KnowledgeBaseIDs: []string{"kb-1", "kb-2"},
		})
		if !result.PartialSuccess() {
			t.Fatalf("expected partial success, got %+v", result.Outcome)
		}
		if result.License == nil || result.License.ID != "lic-new" {
			t.Error("license must survive attach failures")
		}
		if len(api.attaches) != 2 {
			t.Errorf("every attach must still be issued, got %d", len(api.attaches))
		}
	})
}

func TestLoadOverview(t *testing.T) {
	api := &fakeLicenseAPI{}
	svc := NewLicenseService(api)

	overview, err := svc.LoadOverview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overview.Licenses) != 1 || len(overview.Users) != 1 || len(overview.KnowledgeBases) != 1 {
		t.Errorf("unexpected overview: %+v", overview)
	}
	if len(api.listCalls) != 3 {
		t.Errorf("expected three list calls, got %v", api.listCalls)
	}
}

func TestToggle(t *testing.T) {
	api := &fakeLicenseAPI{}
	svc := NewLicenseService(api)

	if _, err := svc.Toggle(context.Background(), backend.License{ID: "lic-1", IsActive: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.deactivated) != 1 || api.deactivated[0] != "lic-1" {
		t.Errorf("expected deactivate of lic-1, got %v", api.deactivated)
	}

	if _, err := svc.Toggle(context.Background(), backend.License{ID: "lic-2", IsActive: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.activated) != 1 || api.activated[0] != "lic-2" {
		t.Errorf("expected activate of lic-2, got %v", api.activated)
	}
}
