package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"finance-bot/internal/config"
	"finance-bot/internal/domain"
)

const defaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client  *genai.Client
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
}

func NewGemini(ctx context.Context, cfg config.Classifier, cats []domain.Category) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	gcc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildPrompt(cats), genai.RoleUser),
		Temperature:       genai.Ptr(float32(cfg.Temperature)),
		ResponseMIMEType:  "application/json",
	}
	if cfg.MaxTokens > 0 {
		gcc.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &Gemini{client: client, model: model, config: gcc, timeout: timeout}, nil
}

func (g *Gemini) Interpret(ctx context.Context, text string) (domain.InterpretationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), g.config)
	if err != nil {
		return domain.InterpretationResult{}, failure("generate content: %v", err)
	}

	raw := resp.Text()
	if raw == "" {
		return domain.InterpretationResult{}, failure("empty response from model")
	}

	slog.Debug("classifier answered", "provider", "gemini", "model", g.model, "elapsed", time.Since(start))
	return Parse(raw)
}
