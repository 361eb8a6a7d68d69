package backend

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) GetAIConfiguration(ctx context.Context) (*AIConfiguration, error) {
	var cfg AIConfiguration
	if err := c.doJSON(ctx, http.MethodGet, "/config/ai", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) UpdateAIConfiguration(ctx context.Context, req UpdateAIConfigRequest) (*AIConfiguration, error) {
	var cfg AIConfiguration
	if err := c.doJSON(ctx, http.MethodPut, "/config/ai", req, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MarshalJSON keeps the patch semantics intact: untouched fields stay out
// of the payload (omitempty on the pointer fields) while fields listed in
// NullFields are written back as explicit JSON nulls.
func (r UpdateAIConfigRequest) MarshalJSON() ([]byte, error) {
	type plain UpdateAIConfigRequest
	data, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}

	if len(r.NullFields) == 0 {
		return data, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, name := range r.NullFields {
		fields[name] = json.RawMessage("null")
	}
	return json.Marshal(fields)
}
