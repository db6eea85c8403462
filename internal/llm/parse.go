package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type splitItem struct {
	Content *string `json:"content" validate:"required"`
}

// ParseSplitResponse decodes a provider reply of the form [{"content": "..."}].
// A surrounding markdown code fence is tolerated.
func ParseSplitResponse(raw string) ([]string, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	var items []splitItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: null response", ErrMalformedResponse)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedResponse, i, err)
		}
		out = append(out, *item.Content)
	}
	return out, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
