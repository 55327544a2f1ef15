package ai

import (
	"context"
	"strings"
)

// OllamaProvider talks to a local Ollama server through its OpenAI
// compatible endpoint. No API key is needed.
type OllamaProvider struct {
	openai *OpenAIProvider
}

func NewOllamaProvider(cfg Config) *OllamaProvider {
	cfgCopy := cfg
	if strings.TrimSpace(cfgCopy.APIURL) == "" {
		cfgCopy.APIURL = "http://localhost:11434/v1"
	}
	return &OllamaProvider{
		openai: NewOpenAIProvider(cfgCopy),
	}
}

func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.openai.Complete(ctx, prompt)
}
