// Package llm is the single gateway every model call goes through. It owns
// the OpenRouter-backed chat models for both tiers, renders the embedded
// prompt templates, and retries transient provider failures.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
)

// maxAttempts caps retries of a single completion call.
const maxAttempts = 3

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	FastModel          string        `envconfig:"FAST_MODEL" split_words:"true" default:"amazon/nova-lite-v1"`
	CapableModel       string        `envconfig:"CAPABLE_MODEL" split_words:"true" default:"amazon/nova-pro-v1"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.FastModel) == "" || strings.TrimSpace(c.CapableModel) == "" {
		return fmt.Errorf("%w: both tier models are required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) modelFor(tier contractx.Tier) string {
	if tier == contractx.TierCapable {
		return strings.TrimSpace(c.CapableModel)
	}
	return strings.TrimSpace(c.FastModel)
}

// Gateway implements contract.ModelGateway over two chat models, one per
// tier. Prompt templates are rendered with Go template syntax so literal
// braces in JSON-heavy prompts pass through untouched.
type Gateway struct {
	templates promptx.Set
	models    map[contractx.Tier]model.BaseChatModel
}

var _ contractx.ModelGateway = (*Gateway)(nil)

// New builds both tier models up front so credential and endpoint problems
// surface at startup.
func New(ctx context.Context, cfg Config, templates promptx.Set) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	models := make(map[contractx.Tier]model.BaseChatModel, 2)
	for _, tier := range []contractx.Tier{contractx.TierFast, contractx.TierCapable} {
		maxTokens := cfg.MaxCompletionToken
		temperature := cfg.Temperature
		m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
			BaseURL:     strings.TrimRight(cfg.BaseURL, "/"),
			APIKey:      strings.TrimSpace(cfg.APIKey),
			Model:       cfg.modelFor(tier),
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create %s chat model: %v", contractx.ErrModelInvoke, tier, err)
		}
		models[tier] = m
	}

	return &Gateway{templates: templates, models: models}, nil
}

// NewWithModels wires pre-built chat models. Used by tests.
func NewWithModels(templates promptx.Set, models map[contractx.Tier]model.BaseChatModel) *Gateway {
	return &Gateway{templates: templates, models: models}
}

// Complete renders the named template with bindings and returns the raw
// completion text. Transient invocation failures are retried with a short
// backoff; the last error is returned once attempts are exhausted.
func (g *Gateway) Complete(ctx context.Context, tier contractx.Tier, templateID string, bindings map[string]any) (string, error) {
	msgs, err := g.render(ctx, templateID, bindings)
	if err != nil {
		return "", err
	}

	chatModel, ok := g.models[tier]
	if !ok {
		return "", fmt.Errorf("%w: no model for tier %q", contractx.ErrValidation, tier)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := chatModel.Generate(ctx, msgs)
		if err == nil {
			return out.Content, nil
		}
		lastErr = err
		if attempt == maxAttempts || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	return "", fmt.Errorf("%w: %s/%s: %v", contractx.ErrModelInvoke, tier, templateID, lastErr)
}

func (g *Gateway) render(ctx context.Context, templateID string, bindings map[string]any) ([]*schema.Message, error) {
	tpl, err := g.templates.Get(templateID)
	if err != nil {
		return nil, err
	}
	template := einoprompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tpl.System),
		schema.UserMessage(tpl.User),
	)
	msgs, err := template.Format(ctx, bindings)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %v", contractx.ErrValidation, templateID, err)
	}
	return msgs, nil
}
