package llm

import (
	"context"
	"errors"
)

// ErrMalformedResponse is returned when a provider reply is not a JSON array
// of objects carrying a content string.
var ErrMalformedResponse = errors.New("malformed split response")

// Client is a pluggable smart-split provider. SmartSplit returns chunk contents
// in order; ids and character counts are assigned by the caller.
type Client interface {
	Name() string
	SmartSplit(ctx context.Context, text string, limit int) ([]string, error)
}
