package llm

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSplitResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `[{"content":"First chunk."},{"content":"Second chunk."}]`,
			want: []string{"First chunk.", "Second chunk."},
		},
		{
			name: "code fenced",
			raw:  "```json\n[{\"content\":\"Only chunk.\"}]\n```",
			want: []string{"Only chunk."},
		},
		{
			name: "extra fields ignored",
			raw:  `[{"content":"Text.","id":7,"charCount":999}]`,
			want: []string{"Text."},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []string{},
		},
		{name: "empty string", raw: "  ", wantErr: true},
		{name: "not json", raw: "Here are your chunks: one, two", wantErr: true},
		{name: "object instead of array", raw: `{"content":"x"}`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "missing content", raw: `[{"content":"a"},{"text":"b"}]`, wantErr: true},
		{name: "null content", raw: `[{"content":null}]`, wantErr: true},
		{name: "content not a string", raw: `[{"content":42}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSplitResponse(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[1]", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"```json\n[1]```", "[1]"},
		{"```[1]```", "[1]"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
