package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ragadmin/internal/backend"
)

// AIConfigAPI is the slice of the backend client the configuration page
// needs.
type AIConfigAPI interface {
	GetAIConfiguration(ctx context.Context) (*backend.AIConfiguration, error)
	UpdateAIConfiguration(ctx context.Context, req backend.UpdateAIConfigRequest) (*backend.AIConfiguration, error)
}

type AIConfigService struct {
	api AIConfigAPI
}

func NewAIConfigService(api AIConfigAPI) *AIConfigService {
	return &AIConfigService{api: api}
}

func (s *AIConfigService) Load(ctx context.Context) (*backend.AIConfiguration, error) {
	return s.api.GetAIConfiguration(ctx)
}

// Save sends the draft as one PUT and returns the server's authoritative
// copy; local state is replaced with that round-trip, never merged.
func (s *AIConfigService) Save(ctx context.Context, draft *ConfigDraft) (*backend.AIConfiguration, error) {
	return s.api.UpdateAIConfiguration(ctx, draft.req)
}

// ConfigDraft accumulates the operator's edits to the AI configuration.
// Every setter corresponds to one input: an empty value clears the field
// (explicit null on the wire), a non-empty value replaces it. Fields with
// no setter call stay out of the payload, which is how provider-specific
// inputs that were never shown remain untouched server-side.
type ConfigDraft struct {
	req backend.UpdateAIConfigRequest
}

func NewConfigDraft() *ConfigDraft {
	return &ConfigDraft{}
}

func (d *ConfigDraft) SetProvider(p backend.Provider) {
	d.req.LLMProvider = &p
}

func (d *ConfigDraft) SetModel(raw string) {
	if raw == "" {
		d.clear("model")
		return
	}
	d.req.Model = &raw
}

func (d *ConfigDraft) SetTemperature(raw string) error {
	return d.setFloat("temperature", raw, &d.req.Temperature)
}

func (d *ConfigDraft) SetMaxTokens(raw string) error {
	return d.setInt("maxTokens", raw, &d.req.MaxTokens)
}

func (d *ConfigDraft) SetTopP(raw string) error {
	return d.setFloat("topP", raw, &d.req.TopP)
}

func (d *ConfigDraft) SetTopK(raw string) error {
	return d.setInt("topK", raw, &d.req.TopK)
}

func (d *ConfigDraft) SetFrequencyPenalty(raw string) error {
	return d.setFloat("frequencyPenalty", raw, &d.req.FrequencyPenalty)
}

func (d *ConfigDraft) SetPresencePenalty(raw string) error {
	return d.setFloat("presencePenalty", raw, &d.req.PresencePenalty)
}

// SetStopSequences parses a comma-separated list, trimming entries and
// dropping empties.
func (d *ConfigDraft) SetStopSequences(raw string) {
	if strings.TrimSpace(raw) == "" {
		d.clear("stopSequences")
		return
	}
	var sequences []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sequences = append(sequences, part)
		}
	}
	if len(sequences) == 0 {
		d.clear("stopSequences")
		return
	}
	d.req.StopSequences = sequences
}

func (d *ConfigDraft) setFloat(field, raw string, dst **float64) error {
	if raw == "" {
		d.clear(field)
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", field, raw)
	}
	*dst = &v
	return nil
}

func (d *ConfigDraft) setInt(field, raw string, dst **int) error {
	if raw == "" {
		d.clear(field)
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", field, raw)
	}
	*dst = &v
	return nil
}

func (d *ConfigDraft) clear(field string) {
	for _, existing := range d.req.NullFields {
		if existing == field {
			return
		}
	}
	d.req.NullFields = append(d.req.NullFields, field)
}
