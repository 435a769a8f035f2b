// Package logging provides a thin wrapper around log/slog with
// subsystem-tagged log functions used across the teamcity-cli packages.
//
// The logger is initialized once at process start via InitForCLI. Log
// output goes to the writer supplied at initialization (stderr for the
// CLI) and is filtered by the configured level; --debug raises the level
// to LevelDebug so HTTP request logging from the API client becomes
// visible.
package logging
