package backend

import (
	"context"
	"net/http"
)

func (c *Client) ListLicenses(ctx context.Context) ([]License, error) {
	var licenses []License
	if err := c.doJSON(ctx, http.MethodGet, "/licenses", nil, &licenses); err != nil {
		return nil, err
	}
	return licenses, nil
}

func (c *Client) GetLicense(ctx context.Context, id string) (*License, error) {
	var license License
	if err := c.doJSON(ctx, http.MethodGet, "/licenses/"+id, nil, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

func (c *Client) CreateLicense(ctx context.Context, req CreateLicenseRequest) (*License, error) {
	var license License
	if err := c.doJSON(ctx, http.MethodPost, "/licenses", req, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

// licenseActionResponse wraps the activate/deactivate responses, which
// carry the license next to a human-readable message.
type licenseActionResponse struct {
	Message string   `json:"message"`
	License *License `json:"license"`
}

func (c *Client) ActivateLicense(ctx context.Context, id string) (*License, error) {
	var resp licenseActionResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/licenses/"+id+"/activate", nil, &resp); err != nil {
		return nil, err
	}
	return resp.License, nil
}

func (c *Client) DeactivateLicense(ctx context.Context, id string) (*License, error) {
	var resp licenseActionResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/licenses/"+id+"/deactivate", nil, &resp); err != nil {
		return nil, err
	}
	return resp.License, nil
}
