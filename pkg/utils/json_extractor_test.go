package utils

import (
	"errors"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "bare array",
			text: `["a", "b"]`,
			want: `["a", "b"]`,
		},
		{
			name: "array wrapped in prose",
			text: `Sure! Here are the relevant ids: ["p1", "p3"] Hope that helps.`,
			want: `["p1", "p3"]`,
		},
		{
			name: "array in markdown fence",
			text: "```json\n[{\"choice\": 1, \"reason\": \"matches\"}]\n```",
			want: `[{"choice": 1, "reason": "matches"}]`,
		},
		{
			name: "empty array",
			text: `[]`,
			want: `[]`,
		},
		{
			name:    "no array at all",
			text:    "I cannot answer that question.",
			wantErr: true,
		},
		{
			name:    "closing bracket before opening",
			text:    "] nothing here [",
			wantErr: true,
		},
		{
			name:    "empty string",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONArray(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrNoJSONArray) {
					t.Errorf("error = %v, want ErrNoJSONArray", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmarshalJSONArray(t *testing.T) {
	t.Run("strings with surrounding text", func(t *testing.T) {
		var ids []string
		err := UnmarshalJSONArray(`The answer is ["x", "y"].`, &ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
			t.Errorf("ids = %v, want [x y]", ids)
		}
	})

	t.Run("objects", func(t *testing.T) {
		var choices []struct {
			Choice int    `json:"choice"`
			Reason string `json:"reason"`
		}
		err := UnmarshalJSONArray(`[{"choice": 2, "reason": "best match"}]`, &choices)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(choices) != 1 || choices[0].Choice != 2 {
			t.Errorf("choices = %v", choices)
		}
	})

	t.Run("brackets but invalid json", func(t *testing.T) {
		var ids []string
		err := UnmarshalJSONArray(`[not json]`, &ids)
		if err == nil {
			t.Fatal("expected an error for invalid JSON")
		}
		if errors.Is(err, ErrNoJSONArray) {
			t.Error("invalid JSON inside brackets should not map to ErrNoJSONArray")
		}
	})

	t.Run("no brackets", func(t *testing.T) {
		var ids []string
		err := UnmarshalJSONArray(`nope`, &ids)
		if !errors.Is(err, ErrNoJSONArray) {
			t.Errorf("error = %v, want ErrNoJSONArray", err)
		}
	})
}
