package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultGeminiTimeout = 60 * time.Second
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks a Gemini model for a JSON array of chunks.
type GeminiClient struct {
	model  string
	models contentGenerator
}

// NewGeminiClient builds a client against the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiClient(cli.Models, model), nil
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{model: model, models: models}
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) SmartSplit(ctx context.Context, text string, limit int) ([]string, error) {
	if c == nil || c.models == nil {
		return nil, fmt.Errorf("nil gemini client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultGeminiTimeout)
	defer cancel()

	resp, err := c.models.GenerateContent(reqCtx, c.model, genai.Text(BuildSplitPrompt(text, limit)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   splitSchema,
	})
	if err != nil {
		return nil, err
	}
	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("gemini: no candidates returned")
	}
	return ParseSplitResponse(raw)
}

var splitSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"content": {
				Type:        genai.TypeString,
				Description: "The full text of this chunk.",
			},
		},
		Required: []string{"content"},
	},
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
