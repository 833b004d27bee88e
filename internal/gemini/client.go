// Package gemini implements integration with Google's Gemini AI API.
// It provides text generation plus the language detection and translation
// helpers built on the same conversation session.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/jimbotdev/jimbot/internal/config"
)

// Client defines the interface for text operations used throughout the
// application. All three methods share one conversation session: every
// call appends a turn to the same history, including language detection
// and translation. Access to the session is serialized internally.
type Client interface {
	// GenerateText sends prompt as the next turn of the shared session and
	// returns the model's reply. On any failure it returns FallbackMessage;
	// it never surfaces an error to the caller.
	GenerateText(ctx context.Context, prompt string) string

	// DetectLanguage asks the model to name the language of text. On any
	// failure it returns DefaultLanguage.
	DetectLanguage(ctx context.Context, text string) string

	// TranslateToEnglish asks the model to translate text to English.
	// Unlike the other methods it reports failure to the caller, since the
	// result feeds the image pipeline rather than the user directly.
	TranslateToEnglish(ctx context.Context, text string) (string, error)
}

type sdkClient struct {
	genaiClient *genai.Client
	log         *slog.Logger

	// The shared session is mutable ordered state touched by every call
	// from every user, so all access goes through mu.
	mu   sync.Mutex
	chat *genai.Chat
}

// NewClient creates a new Gemini client and opens the shared chat session,
// seeded with the fixed instruction turn.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	contentConfig := &genai.GenerateContentConfig{
		Temperature:      &cfg.Temperature,
		TopP:             &cfg.TopP,
		TopK:             &cfg.TopK,
		MaxOutputTokens:  cfg.MaxOutputTokens,
		ResponseMIMEType: "text/plain",
	}

	seed := cfg.SystemInstruction
	if seed == "" {
		seed = SessionSeedInstruction
	}
	history := []*genai.Content{
		genai.NewContentFromText(seed, genai.RoleUser),
	}

	chat, err := gi.Chats.Create(ctx, cfg.Model, contentConfig, history)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.Model)
	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		chat:        chat,
	}, nil
}

func (c *sdkClient) GenerateText(ctx context.Context, prompt string) string {
	text, err := c.send(ctx, prompt)
	if err != nil {
		c.log.ErrorContext(ctx, "Text generation failed, returning fallback",
			"error", err, "error_kind", classifyError(err))
		return FallbackMessage
	}
	return text
}

func (c *sdkClient) DetectLanguage(ctx context.Context, text string) string {
	resp, err := c.send(ctx, DetectLanguagePrefix+text)
	if err != nil {
		c.log.WarnContext(ctx, "Language detection failed, assuming default",
			"error", err, "error_kind", classifyError(err), "default", DefaultLanguage)
		return DefaultLanguage
	}
	return strings.TrimSpace(resp)
}

func (c *sdkClient) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	resp, err := c.send(ctx, TranslatePrefix+text)
	if err != nil {
		c.log.ErrorContext(ctx, "Translation to English failed",
			"error", err, "error_kind", classifyError(err))
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return resp, nil
}

// send issues one turn against the shared session. The mutex serializes
// concurrent messages so turns never interleave mid-exchange.
func (c *sdkClient) send(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return extractText(resp)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("request blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("response has no content, finish reason: %s", finishReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("response text is empty")
	}
	return text, nil
}

// classifyError labels a failure so monitoring can tell causes apart even
// though the user-facing behavior collapses to one fallback message.
func classifyError(err error) string {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("service(code=%d)", apiErr.Code)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "transport"
	}
	return "malformed_response"
}
