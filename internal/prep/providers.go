package prep

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.1-8b-instant"
	openAIModel = "gpt-3.5-turbo"
	geminiModel = "gemini-2.5-flash"
)

// Keys holds provider credentials. A provider is enabled only when its key
// is set.
type Keys struct {
	Groq   string
	OpenAI string
	Gemini string
}

// NewProviders builds the enabled providers in priority order: Groq, OpenAI,
// Gemini.
func NewProviders(ctx context.Context, keys Keys) ([]Provider, error) {
	var providers []Provider

	if keys.Groq != "" {
		llm, err := openai.New(
			openai.WithToken(keys.Groq),
			openai.WithModel(groqModel),
			openai.WithBaseURL(groqBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("groq client: %w", err)
		}
		providers = append(providers, Provider{Name: "groq", Model: llm})
	}

	if keys.OpenAI != "" {
		llm, err := openai.New(openai.WithToken(keys.OpenAI), openai.WithModel(openAIModel))
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		providers = append(providers, Provider{Name: "openai", Model: llm})
	}

	if keys.Gemini != "" {
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(keys.Gemini),
			googleai.WithDefaultModel(geminiModel),
		)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		providers = append(providers, Provider{Name: "gemini", Model: llm})
	}

	return providers, nil
}
