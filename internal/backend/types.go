package backend

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

type Provider string

const (
	ProviderOpenAI    Provider = "OPENAI"
	ProviderGemini    Provider = "GEMINI"
	ProviderAnthropic Provider = "ANTHROPIC"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Licenses  []License `json:"licenses,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type License struct {
	ID             string          `json:"id"`
	Key            string          `json:"key"`
	IsActive       bool            `json:"isActive"`
	ExpiresAt      *time.Time      `json:"expiresAt"`
	User           *User           `json:"user,omitempty"`
	KnowledgeBases []KnowledgeBase `json:"knowledgeBases,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DocumentMeta is whatever the backend recorded about one ingested
// document. The schema is not fixed server-side, so only the fields the
// dashboard displays are named and the rest is ignored on decode.
type DocumentMeta struct {
	Name       string `json:"name,omitempty"`
	Status     string `json:"status,omitempty"`
	PageCount  int    `json:"pageCount,omitempty"`
	SizeBytes  int64  `json:"sizeBytes,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
}

type KnowledgeBase struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Description        *string                 `json:"description"`
	Documents          map[string]DocumentMeta `json:"documents"`
	PromptInstructions *string                 `json:"promptInstructions"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

type AIConfiguration struct {
	ID               string    `json:"id"`
	Key              string    `json:"key"`
	LLMProvider      Provider  `json:"llmProvider"`
	Model            *string   `json:"model"`
	Temperature      *float64  `json:"temperature"`
	MaxTokens        *int      `json:"maxTokens"`
	TopP             *float64  `json:"topP"`
	TopK             *int      `json:"topK"`
	FrequencyPenalty *float64  `json:"frequencyPenalty"`
	PresencePenalty  *float64  `json:"presencePenalty"`
	StopSequences    []string  `json:"stopSequences"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Request payloads.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

type CreateLicenseRequest struct {
	UserID string `json:"userId"`
	// ValidityPeriodDays is omitted entirely when nil; the backend then
	// issues a license that never expires.
	ValidityPeriodDays *int `json:"validityPeriodDays,omitempty"`
}

type CreateKnowledgeBaseRequest struct {
	Name               string  `json:"name"`
	Description        *string `json:"description"`
	PromptInstructions *string `json:"promptInstructions"`
}

type UpdateKnowledgeBaseRequest struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description"`
	PromptInstructions *string `json:"promptInstructions"`
}

type AttachKnowledgeBaseRequest struct {
	KBID      string `json:"kbId"`
	LicenseID string `json:"licenseId"`
}

// UpdateAIConfigRequest carries only the fields the operator touched.
// A nil pointer field is left out of the payload; an explicit null is
// expressed through the Null* flags so "clear this field" survives
// marshalling.
type UpdateAIConfigRequest struct {
	LLMProvider      *Provider `json:"llmProvider,omitempty"`
	Model            *string   `json:"model,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	MaxTokens        *int      `json:"maxTokens,omitempty"`
	TopP             *float64  `json:"topP,omitempty"`
	TopK             *int      `json:"topK,omitempty"`
	FrequencyPenalty *float64  `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64  `json:"presencePenalty,omitempty"`
	StopSequences    []string  `json:"stopSequences,omitempty"`

	// Fields the operator explicitly cleared, serialized as JSON null.
	NullFields []string `json:"-"`
}
