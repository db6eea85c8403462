package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	assert.Error(t, err)
}

func TestGeminiSmartSplit(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`[{"content":"Alpha."},`, `{"content":"Beta."}]`)}
	c := newGeminiClient(gen, "")

	chunks, err := c.SmartSplit(context.Background(), "Alpha. Beta.", 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha.", "Beta."}, chunks)

	assert.Equal(t, defaultGeminiModel, gen.model)
	assert.Contains(t, gen.prompt, "SCRIPT:\nAlpha. Beta.")
	require.NotNil(t, gen.config)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	assert.Equal(t, genai.TypeArray, gen.config.ResponseSchema.Type)
	assert.Equal(t, []string{"content"}, gen.config.ResponseSchema.Items.Required)
	assert.Equal(t, "gemini", c.Name())
}

func TestGeminiSmartSplitFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"transport error", &fakeGenerator{err: errors.New("unavailable")}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"malformed body", &fakeGenerator{resp: textResponse(`[{"text":"x"}]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiClient(tt.gen, "gemini-test")
			_, err := c.SmartSplit(context.Background(), "Alpha. Beta.", 6)
			assert.Error(t, err)
			assert.Equal(t, "gemini-test", tt.gen.model)
		})
	}
}
