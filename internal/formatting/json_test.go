package formatting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyJSONIndentation(t *testing.T) {
	data := map[string]any{"name": "test", "value": json.Number("42")}

	output := PrettyJSON(data)
	assert.True(t, strings.HasPrefix(output, "{\n    \""), "expected 4-space indentation, got: %q", output)
	assert.Contains(t, output, `"name": "test"`)
	assert.Contains(t, output, `"value": 42`)
}

func TestPrettyJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "list response",
			raw:  `{"count": 2, "build": [{"id": 1, "status": "SUCCESS"}, {"id": 2, "status": "FAILURE"}]}`,
		},
		{
			name: "nested objects",
			raw:  `{"triggered": {"type": "user", "user": {"username": "alice", "id": 7}}}`,
		},
		{
			name: "large ids stay intact",
			raw:  `{"id": 9007199254740993}`,
		},
		{
			name: "null and bool values",
			raw:  `{"finishDate": null, "personal": false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := json.NewDecoder(strings.NewReader(tt.raw))
			dec.UseNumber()
			var original map[string]any
			require.NoError(t, dec.Decode(&original))

			output := PrettyJSON(original)

			dec = json.NewDecoder(strings.NewReader(output))
			dec.UseNumber()
			var reparsed map[string]any
			require.NoError(t, dec.Decode(&reparsed))

			assert.Equal(t, original, reparsed, "pretty-printing must be lossless")
		})
	}
}

func TestPrettyJSONUnmarshalableValue(t *testing.T) {
	// Channels cannot be marshaled; the fallback is the fmt rendering.
	output := PrettyJSON(make(chan int))
	assert.NotEmpty(t, output)
	assert.False(t, strings.HasPrefix(output, "{"))
}

func TestPrintJSONPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintJSON(&buf, map[string]any{"status": "SUCCESS"})

	output := buf.String()
	assert.NotContains(t, output, "\x1b[", "buffer output must not carry ANSI codes")
	assert.Equal(t, "{\n    \"status\": \"SUCCESS\"\n}\n", output)
}

func TestPrintJSONOutputParses(t *testing.T) {
	var buf bytes.Buffer
	PrintJSON(&buf, map[string]any{"count": json.Number("0")})

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.EqualValues(t, 0, parsed["count"])
}
