// Package context manages named TeamCity server contexts.
//
// A context is an alias for a server URL, similar to kubectl contexts.
// Contexts are stored in ~/.config/teamcity-cli/contexts.yaml together
// with the name of the currently active context. Server resolution for a
// command follows the precedence: --server flag, --context flag,
// TEAMCITY_CONTEXT environment variable, current-context, then the
// config-file fallback handled by the caller.
package context
