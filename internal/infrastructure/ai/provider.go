package ai

import (
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/pkg/config"
)

// NewLLMService elige el adaptador según AI_PROVIDER.
func NewLLMService(cfg config.AIConfig) ports.LLMService {
	if cfg.Provider == config.AIProviderGemini {
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
}
