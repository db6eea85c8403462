package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"script-split/internal/chunker"
)

// Format selects how a chunk sequence is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for a rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// RenderText renders chunks as "[Chunk N]" headed blocks separated by a blank line.
func RenderText(chunks []chunker.Chunk) string {
	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = fmt.Sprintf("[Chunk %d]\n%s", c.ID, c.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Write renders v in the given format. Text output needs a chunk slice;
// JSON and YAML accept any value.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatText:
		chunks, ok := v.([]chunker.Chunk)
		if !ok {
			return fmt.Errorf("text export needs []chunker.Chunk, got %T", v)
		}
		out := RenderText(chunks)
		if out != "" {
			out += "\n"
		}
		_, err := io.WriteString(w, out)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
