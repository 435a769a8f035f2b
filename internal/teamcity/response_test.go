package teamcity

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var data map[string]any
	require.NoError(t, dec.Decode(&data))
	return data
}

func TestEntityList(t *testing.T) {
	data := parseJSON(t, `{"count": 2, "build": [{"id": 1}, {"id": 2}]}`)

	builds := EntityList(data, "build")
	require.Len(t, builds, 2)
	assert.Equal(t, json.Number("1"), builds[0]["id"])

	assert.Nil(t, EntityList(data, "project"))
}

func TestEntityListSkipsNonObjects(t *testing.T) {
	data := parseJSON(t, `{"build": [{"id": 1}, "garbage", 3]}`)
	builds := EntityList(data, "build")
	assert.Len(t, builds, 1)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 5, Count(parseJSON(t, `{"count": 5}`)))
	assert.Equal(t, 0, Count(parseJSON(t, `{"count": 0}`)))
	assert.Equal(t, 0, Count(parseJSON(t, `{}`)))
	assert.Equal(t, 0, Count(map[string]any{"count": "five"}))
}

func TestField(t *testing.T) {
	data := parseJSON(t, `{
		"triggered": {"type": "user", "user": {"username": "alice"}},
		"statusText": "Tests passed"
	}`)

	assert.Equal(t, "Tests passed", Field(data, "statusText"))
	assert.Equal(t, "alice", Field(data, "triggered", "user", "username"))
	assert.Nil(t, Field(data, "triggered", "build", "id"))
	assert.Nil(t, Field(data, "missing"))
	assert.Nil(t, Field(data, "statusText", "nested"))
}

func TestFieldString(t *testing.T) {
	data := parseJSON(t, `{"triggered": {"user": {"username": "alice"}}, "id": 7, "empty": ""}`)

	username, ok := FieldString(data, "triggered", "user", "username")
	assert.True(t, ok)
	assert.Equal(t, "alice", username)

	_, ok = FieldString(data, "id")
	assert.False(t, ok, "numeric value is not a string")

	_, ok = FieldString(data, "empty")
	assert.False(t, ok, "empty string does not count as present")

	_, ok = FieldString(data, "nope")
	assert.False(t, ok)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", ValueString(nil))
	assert.Equal(t, "SUCCESS", ValueString("SUCCESS"))
	assert.Equal(t, "1234567890123", ValueString(json.Number("1234567890123")))
	assert.Equal(t, "true", ValueString(true))
}
