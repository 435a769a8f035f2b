package context

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorageWithPath(t.TempDir())
}

func TestLoadEmptyWhenMissing(t *testing.T) {
	storage := newTestStorage(t)

	config, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, config.Contexts)
	assert.Equal(t, "", config.CurrentContext)
}

func TestAddAndGetContext(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("production", "https://tc.example.com", nil))

	ctx, err := storage.GetContext("production")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "production", ctx.Name)
	assert.Equal(t, "https://tc.example.com", ctx.Server)
}

func TestAddDuplicateContext(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("staging", "https://a.example.com", nil))
	err := storage.AddContext("staging", "https://b.example.com", nil)
	assert.Error(t, err)
}

func TestAddContextInvalidName(t *testing.T) {
	storage := newTestStorage(t)

	tests := []string{"", "UPPER", "-leading", "trailing-", "has space", "under_score"}
	for _, name := range tests {
		assert.Error(t, storage.AddContext(name, "https://tc.example.com", nil), "name %q should be rejected", name)
	}
}

func TestAddContextEmptyServer(t *testing.T) {
	storage := newTestStorage(t)
	assert.Error(t, storage.AddContext("prod", "", nil))
}

func TestSetCurrentContext(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("prod", "https://tc.example.com", nil))
	require.NoError(t, storage.SetCurrentContext("prod"))

	name, err := storage.GetCurrentContextName()
	require.NoError(t, err)
	assert.Equal(t, "prod", name)

	ctx, err := storage.GetCurrentContext()
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "https://tc.example.com", ctx.Server)
}

func TestSetCurrentContextNotFound(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.SetCurrentContext("missing")
	var notFound *ContextNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDeleteContextClearsCurrent(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("prod", "https://tc.example.com", nil))
	require.NoError(t, storage.SetCurrentContext("prod"))
	require.NoError(t, storage.DeleteContext("prod"))

	name, err := storage.GetCurrentContextName()
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestRenameContext(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("stage", "https://stage.example.com", nil))
	require.NoError(t, storage.SetCurrentContext("stage"))
	require.NoError(t, storage.RenameContext("stage", "staging"))

	ctx, err := storage.GetContext("staging")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "https://stage.example.com", ctx.Server)

	old, err := storage.GetContext("stage")
	require.NoError(t, err)
	assert.Nil(t, old)

	// Renaming the current context follows it.
	name, err := storage.GetCurrentContextName()
	require.NoError(t, err)
	assert.Equal(t, "staging", name)
}

func TestRenameContextCollision(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("a", "https://a.example.com", nil))
	require.NoError(t, storage.AddContext("b", "https://b.example.com", nil))
	assert.Error(t, storage.RenameContext("a", "b"))
}

func TestUpdateContext(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.AddContext("prod", "https://old.example.com", nil))
	require.NoError(t, storage.UpdateContext("prod", "https://new.example.com", &ContextSettings{Output: "json"}))

	ctx, err := storage.GetContext("prod")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "https://new.example.com", ctx.Server)
	require.NotNil(t, ctx.Settings)
	assert.Equal(t, "json", ctx.Settings.Output)
}

func TestListContextsPersisted(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageWithPath(dir)

	require.NoError(t, storage.AddContext("a", "https://a.example.com", nil))
	require.NoError(t, storage.AddContext("b", "https://b.example.com", nil))

	// New storage instance reads the same file.
	reopened := NewStorageWithPath(dir)
	contexts, err := reopened.ListContexts()
	require.NoError(t, err)
	assert.Len(t, contexts, 2)

	names, err := reopened.GetContextNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestResolveServerPrecedence(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.AddContext("prod", "https://prod.example.com", nil))
	require.NoError(t, storage.AddContext("stage", "https://stage.example.com", nil))
	require.NoError(t, storage.SetCurrentContext("prod"))

	// Explicit server wins over everything.
	server, err := ResolveServerWithStorage(storage, "https://explicit.example.com", "stage")
	require.NoError(t, err)
	assert.Equal(t, "https://explicit.example.com", server)

	// Named context beats current-context.
	server, err = ResolveServerWithStorage(storage, "", "stage")
	require.NoError(t, err)
	assert.Equal(t, "https://stage.example.com", server)

	// Environment variable beats current-context.
	t.Setenv(ContextEnvVar, "stage")
	server, err = ResolveServerWithStorage(storage, "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://stage.example.com", server)

	// Current context is the fallback.
	os.Unsetenv(ContextEnvVar)
	server, err = ResolveServerWithStorage(storage, "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://prod.example.com", server)
}

func TestResolveServerUnknownContext(t *testing.T) {
	storage := newTestStorage(t)

	_, err := ResolveServerWithStorage(storage, "", "missing")
	var notFound *ContextNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestResolveServerNoContexts(t *testing.T) {
	storage := newTestStorage(t)

	server, err := ResolveServerWithStorage(storage, "", "")
	require.NoError(t, err)
	assert.Equal(t, "", server)
}
