package provider

// ModelInfo describes one selectable model for frontend dropdowns
type ModelInfo struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Description              string `json:"description"`
	SupportsStructuredOutput bool   `json:"supports_structured_output,omitempty"`
}

// ProviderModels groups the models one provider supports
type ProviderModels struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	TranscriptionModels []ModelInfo `json:"transcription_models"`
	TranslationModels   []ModelInfo `json:"translation_models"`
}

var catalog = []ProviderModels{
	{
		ID:   "openai",
		Name: "OpenAI",
		TranscriptionModels: []ModelInfo{
			{ID: "whisper-1", Name: "Whisper v1", Description: "Whisper model with timestamps"},
		},
		TranslationModels: []ModelInfo{
			{ID: "gpt-4.1", Name: "GPT-4.1", Description: "Most capable model", SupportsStructuredOutput: true},
			{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Description: "Compact GPT-4.1", SupportsStructuredOutput: true},
			{ID: "gpt-4.1-nano", Name: "GPT-4.1 Nano", Description: "Ultra-compact GPT-4.1", SupportsStructuredOutput: true},
			{ID: "gpt-4o", Name: "GPT-4o", Description: "Optimized GPT-4", SupportsStructuredOutput: true},
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Compact GPT-4o", SupportsStructuredOutput: true},
			{ID: "gpt-5", Name: "GPT-5", Description: "Next generation", SupportsStructuredOutput: true},
			{ID: "gpt-5-mini", Name: "GPT-5 Mini", Description: "Compact GPT-5", SupportsStructuredOutput: true},
			{ID: "gpt-5-nano", Name: "GPT-5 Nano", Description: "Ultra-compact GPT-5", SupportsStructuredOutput: true},
		},
	},
	{
		ID:   "groq",
		Name: "Groq",
		TranscriptionModels: []ModelInfo{
			{ID: "whisper-large-v3-turbo", Name: "Whisper Large v3 Turbo", Description: "Fast transcription model"},
		},
		TranslationModels: []ModelInfo{
			{ID: "openai/gpt-oss-120b", Name: "GPT-OSS 120B", Description: "120B parameters with structured output", SupportsStructuredOutput: true},
			{ID: "openai/gpt-oss-20b", Name: "GPT-OSS 20B", Description: "20B parameters with structured output", SupportsStructuredOutput: true},
			{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B Versatile", Description: "Versatile 70B model"},
			{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B Instant", Description: "Fast 8B model"},
			{ID: "meta-llama/llama-4-scout-17b-16e-instruct", Name: "Llama 4 Scout 17B", Description: "Llama 4 Scout"},
			{ID: "meta-llama/llama-4-maverick-17b-128e-instruct", Name: "Llama 4 Maverick 17B", Description: "Llama 4 Maverick"},
			{ID: "qwen/qwen3-32b", Name: "Qwen3 32B", Description: "32B Qwen model"},
			{ID: "moonshotai/kimi-k2-instruct-0905", Name: "Kimi K2 Instruct", Description: "Kimi K2 model"},
		},
	},
}

// Catalog returns the per-provider model listing
func Catalog() []ProviderModels {
	out := make([]ProviderModels, len(catalog))
	copy(out, catalog)
	return out
}

var defaultTranslationModels = map[string]string{
	"openai": "gpt-4o-mini",
	"groq":   "llama-3.3-70b-versatile",
}

// DefaultTranscriptionModel returns the provider's default speech model
func DefaultTranscriptionModel(providerID string) string {
	for _, p := range catalog {
		if p.ID == providerID && len(p.TranscriptionModels) > 0 {
			return p.TranscriptionModels[0].ID
		}
	}
	return "whisper-1"
}

// DefaultTranslationModel returns the provider's default text model
func DefaultTranslationModel(providerID string) string {
	if m, ok := defaultTranslationModels[providerID]; ok {
		return m
	}
	return "gpt-4o-mini"
}

// KnownTranscriptionModel reports whether a model id is in the provider's catalog
func KnownTranscriptionModel(providerID, modelID string) bool {
	return knownModel(providerID, modelID, true)
}

// KnownTranslationModel reports whether a model id is in the provider's catalog
func KnownTranslationModel(providerID, modelID string) bool {
	return knownModel(providerID, modelID, false)
}

func knownModel(providerID, modelID string, transcription bool) bool {
	for _, p := range catalog {
		if p.ID != providerID {
			continue
		}
		models := p.TranslationModels
		if transcription {
			models = p.TranscriptionModels
		}
		for _, m := range models {
			if m.ID == modelID {
				return true
			}
		}
	}
	return false
}
