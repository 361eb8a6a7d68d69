package workflow

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ragadmin/internal/backend"
)

// ErrNoUserSelected blocks license creation before any backend call is made.
var ErrNoUserSelected = errors.New("please select a user")

// LicenseAPI is the slice of the backend client the license page needs.
type LicenseAPI interface {
	ListLicenses(ctx context.Context) ([]backend.License, error)
	ListUsers(ctx context.Context) ([]backend.User, error)
	ListKnowledgeBases(ctx context.Context) ([]backend.KnowledgeBase, error)
	CreateLicense(ctx context.Context, req backend.CreateLicenseRequest) (*backend.License, error)
	ActivateLicense(ctx context.Context, id string) (*backend.License, error)
	DeactivateLicense(ctx context.Context, id string) (*backend.License, error)
	AttachKnowledgeBase(ctx context.Context, req backend.AttachKnowledgeBaseRequest) error
}

type LicenseService struct {
	api LicenseAPI
}

func NewLicenseService(api LicenseAPI) *LicenseService {
	return &LicenseService{api: api}
}

// LicenseOverview is everything the license page renders.
type LicenseOverview struct {
	Licenses       []backend.License
	Users          []backend.User
	KnowledgeBases []backend.KnowledgeBase
}

// LoadOverview fetches the three independent lists concurrently.
func (s *LicenseService) LoadOverview(ctx context.Context) (*LicenseOverview, error) {
	var overview LicenseOverview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.Licenses, err = s.api.ListLicenses(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview.Users, err = s.api.ListUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview.KnowledgeBases, err = s.api.ListKnowledgeBases(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// CreateLicenseInput is the creation dialog's state at submit time.
type CreateLicenseInput struct {
	UserID string
	// ValidityDays <= 0 means unlimited; the field is then omitted from
	// the payload entirely so the backend applies its default.
	ValidityDays     int
	KnowledgeBaseIDs []string
}

type CreateLicenseResult struct {
	Outcome
	License *backend.License
	// Attached counts the knowledge bases that were linked successfully.
	Attached int
}

// CreateWithAttachments creates one license and then links every selected
// knowledge base to it, one attach call per id, all issued concurrently.
// Attach failures do not undo the license; they degrade the outcome to a
// partial success.
func (s *LicenseService) CreateWithAttachments(ctx context.Context, in CreateLicenseInput) CreateLicenseResult {
	if in.UserID == "" {
		return CreateLicenseResult{Outcome: Outcome{Primary: ErrNoUserSelected}}
	}

	req := backend.CreateLicenseRequest{UserID: in.UserID}
	if in.ValidityDays > 0 {
		days := in.ValidityDays
		req.ValidityPeriodDays = &days
	}

	license, err := s.api.CreateLicense(ctx, req)
	if err != nil {
		return CreateLicenseResult{Outcome: Outcome{Primary: err}}
	}

	result := CreateLicenseResult{License: license}
	if len(in.KnowledgeBaseIDs) == 0 {
		return result
	}

	// Attach calls are independent of each other, so the whole batch goes
	// out at once and we settle on the combined result.
	var g errgroup.Group
	for _, kbID := range in.KnowledgeBaseIDs {
		kbID := kbID
		g.Go(func() error {
			err := s.api.AttachKnowledgeBase(ctx, backend.AttachKnowledgeBaseRequest{
				KBID:      kbID,
				LicenseID: license.ID,
			})
			if err != nil {
				log.Error().Err(err).
					Str("license_id", license.ID).
					Str("kb_id", kbID).
					Msg("failed to attach knowledge base to new license")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		result.Secondary = SecondaryFailed
		result.SecondaryErr = err
		return result
	}

	result.Secondary = SecondaryOK
	result.Attached = len(in.KnowledgeBaseIDs)
	return result
}

// Toggle flips a license between active and inactive and returns the
// refreshed license.
func (s *LicenseService) Toggle(ctx context.Context, license backend.License) (*backend.License, error) {
	if license.IsActive {
		return s.api.DeactivateLicense(ctx, license.ID)
	}
	return s.api.ActivateLicense(ctx, license.ID)
}
