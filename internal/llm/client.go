package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/masato/disclosure-verifier/internal/types"
)

// VisionRequest is one multimodal call: an instruction prompt followed by
// an ordered sequence of page images. Image order is significant; the
// prompt addresses images by position.
type VisionRequest struct {
	Prompt          string
	Images          []types.PageImage
	MaxOutputTokens int32
}

// VisionResult is the outcome of a normally completed (or length-limited)
// call. Truncated marks a length-limit cutoff whose partial text should
// still be fed to the repair parser rather than discarded.
type VisionResult struct {
	Text      string
	Truncated bool
}

// Client is an abstraction over multimodal LLM providers
type Client interface {
	// GenerateVision sends a prompt plus images and returns the response
	// text, or a SafetyBlockError when the model declined to respond.
	GenerateVision(ctx context.Context, req VisionRequest, tier ModelTier) (*VisionResult, error)
	// GetModel returns the underlying provider model for a tier (for direct access if needed)
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey)
	// case ProviderAnthropic:
	//     return NewClaudeClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateVision sends the prompt and page images in one request. Safety
// thresholds are relaxed because registry extracts legitimately contain
// names and addresses that default filters flag. The finish reason is
// inspected before the response text is trusted: only a normal stop or a
// length-limit cutoff yields meaningful text.
func (c *GeminiClient) GenerateVision(ctx context.Context, req VisionRequest, tier ModelTier) (*VisionResult, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	model.SafetySettings = relaxedSafetySettings()

	parts := make([]genai.Part, 0, len(req.Images)+1)
	parts = append(parts, genai.Text(req.Prompt))
	for _, img := range req.Images {
		parts = append(parts, genai.ImageData("jpeg", img.JPEG))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return resultFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func relaxedSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockNone,
		})
	}
	return settings
}

// resultFromResponse maps the provider response to a VisionResult,
// surfacing non-normal completions as SafetyBlockError.
func resultFromResponse(resp *genai.GenerateContentResponse) (*VisionResult, error) {
	if len(resp.Candidates) == 0 {
		reason := ""
		if resp.PromptFeedback != nil {
			reason = resp.PromptFeedback.BlockReason.String()
		}
		return nil, &SafetyBlockError{
			Message: "no candidates in response",
			Reason:  reason,
		}
	}

	candidate := resp.Candidates[0]
	text := candidateText(candidate)

	switch candidate.FinishReason {
	case genai.FinishReasonStop:
		return &VisionResult{Text: text}, nil
	case genai.FinishReasonMaxTokens:
		// A cutoff with partial text is still worth repairing.
		if strings.TrimSpace(text) == "" {
			return nil, &SafetyBlockError{
				Message: "length-limit cutoff with no usable text",
				Reason:  candidate.FinishReason.String(),
			}
		}
		return &VisionResult{Text: text, Truncated: true}, nil
	default:
		return nil, &SafetyBlockError{
			Message: "model declined to respond",
			Reason:  candidate.FinishReason.String(),
		}
	}
}

// candidateText extracts the concatenated text parts of a candidate
func candidateText(candidate *genai.Candidate) string {
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, "")
}
