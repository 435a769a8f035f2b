package context

import (
	"os"
)

// ResolveServer resolves the TeamCity server URL using the precedence order:
//  1. Explicit server URL (from --server flag)
//  2. Context name (from --context flag)
//  3. TEAMCITY_CONTEXT environment variable
//  4. current-context from contexts.yaml
//  5. Empty string (caller should fall back to config-based resolution)
//
// If no context is configured, returns an empty string (not an error).
func ResolveServer(explicitServer, contextName string) (string, error) {
	storage, err := NewStorage()
	if err != nil {
		// Storage initialization failed - explicit values still win,
		// anything context-based falls back to config resolution.
		return explicitServer, nil
	}
	return ResolveServerWithStorage(storage, explicitServer, contextName)
}

// ResolveServerWithStorage is ResolveServer with an injected Storage.
func ResolveServerWithStorage(storage *Storage, explicitServer, contextName string) (string, error) {
	if explicitServer != "" {
		return explicitServer, nil
	}

	if contextName != "" {
		return serverFromContext(storage, contextName)
	}

	if envContext := os.Getenv(ContextEnvVar); envContext != "" {
		return serverFromContext(storage, envContext)
	}

	ctx, err := storage.GetCurrentContext()
	if err != nil {
		// Failed to get current context - fall back to config-based resolution
		return "", nil
	}

	if ctx != nil {
		return ctx.Server, nil
	}

	return "", nil
}

// serverFromContext retrieves the server URL for a named context.
func serverFromContext(storage *Storage, contextName string) (string, error) {
	ctx, err := storage.GetContext(contextName)
	if err != nil {
		return "", err
	}

	if ctx == nil {
		return "", &ContextNotFoundError{Name: contextName}
	}

	return ctx.Server, nil
}
