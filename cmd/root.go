package cmd

import (
	"fmt"
	"os"

	"github.com/anight/teamcity-cli/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid
	// arguments, unrecovered remote failure).
	ExitCodeError = 1
)

// Global persistent flag values shared by every command.
var (
	rootServer  string
	rootContext string
	rootDebug   bool
)

// rootCmd represents the base command for the teamcity application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "teamcity",
	Short: "Command-line client for the TeamCity REST API",
	Long: `teamcity talks to a TeamCity server's REST API and renders the
responses as tables or pretty-printed JSON: list and trigger builds,
inspect projects, agents, users, changes, and the build queue.

The server to talk to is resolved from --server, the selected context
(see 'teamcity context'), or the TEAMCITY_URL / TEAMCITY_HOST
environment variables; credentials come from TEAMCITY_USER and
TEAMCITY_PASSWORD or the config file. Without credentials the guest
endpoints are used.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute as a single ERROR: line on stderr.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It runs exactly one leaf command; any error that was not handled inside
// a command handler surfaces here as an ERROR: line on stderr and a
// non-zero exit code. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "teamcity version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootServer, "server", "", "TeamCity server base URL (overrides context and config)")
	rootCmd.PersistentFlags().StringVar(&rootContext, "context", "", "Use a specific context (env: TEAMCITY_CONTEXT)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging (show HTTP requests)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
