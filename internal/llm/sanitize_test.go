package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "object wrapped in prose",
			raw:  `Sure! Here is your quiz: {"a": 1} Hope that helps.`,
			want: `{"a": 1}`,
		},
		{
			name: "markdown code fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "nested objects",
			raw:  `prefix {"a": {"b": [1, 2, {"c": 3}]}} suffix`,
			want: `{"a": {"b": [1, 2, {"c": 3}]}}`,
		},
		{
			name: "braces inside strings",
			raw:  `{"text": "use {curly} and \"quoted\" parts"}`,
			want: `{"text": "use {curly} and \"quoted\" parts"}`,
		},
		{
			name: "top-level array",
			raw:  `The list: [{"a": 1}, {"a": 2}]`,
			want: `[{"a": 1}, {"a": 2}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestExtractJSONErrors(t *testing.T) {
	_, err := ExtractJSON("no json here at all")
	assert.Error(t, err)

	_, err = ExtractJSON(`{"a": {"unclosed": 1}`)
	assert.Error(t, err)

	_, err = ExtractJSON("")
	assert.Error(t, err)
}
