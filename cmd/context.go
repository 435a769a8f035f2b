package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tcctx "github.com/anight/teamcity-cli/internal/context"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	contextAddServer        string
	contextAddSetCurrent    bool
	contextDeleteForce      bool
	contextQuiet            bool
	contextShowOutputFormat string
	contextUpdateServer     string
)

// contextCmd represents the context command group
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage teamcity contexts",
	Long: `Manage named contexts for different TeamCity servers.

Contexts provide a convenient way to work with multiple TeamCity servers
without specifying --server for every command. Similar to kubectl's
context management.

Examples:
  teamcity context                              # List all contexts
  teamcity context list                         # List all contexts (alias: ls)
  teamcity context current                      # Show current context
  teamcity context use production               # Switch to context (alias: switch)
  teamcity context add staging --server <url>   # Add new context
  teamcity context add staging --server <url> --use  # Add and switch
  teamcity context update staging --server <url>     # Update context (alias: set)
  teamcity context delete staging               # Remove a context (alias: rm)
  teamcity context delete staging --force       # Remove without confirmation
  teamcity context rename staging stage         # Rename a context
  teamcity context show production              # Show details (alias: describe)
  teamcity context show production -o json      # Show as JSON

Context Configuration:
  Contexts are stored in ~/.config/teamcity-cli/contexts.yaml

Precedence (highest to lowest):
  1. --server flag
  2. --context flag
  3. TEAMCITY_CONTEXT environment variable
  4. current-context from contexts.yaml
  5. Config file / TEAMCITY_* environment`,
	Args: cobra.NoArgs,
	RunE: runContextList,
}

// contextListCmd lists all contexts
var contextListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	Long: `List all configured contexts.

The current context is marked with an asterisk (*).

Examples:
  teamcity context list
  teamcity context ls`,
	Args: cobra.NoArgs,
	RunE: runContextList,
}

// contextCurrentCmd shows the current context
var contextCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context name",
	Long: `Display the name of the currently active context.

Returns nothing if no context is set.

Examples:
  teamcity context current`,
	Args: cobra.NoArgs,
	RunE: runContextCurrent,
}

// contextUseCmd switches the current context
var contextUseCmd = &cobra.Command{
	Use:     "use <name>",
	Aliases: []string{"switch"},
	Short:   "Switch to a different context",
	Long: `Set the current context to the specified name.

The context must already exist. Use 'teamcity context add' to create new contexts.

Examples:
  teamcity context use production
  teamcity context switch staging`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeContextNames,
	RunE:              runContextUse,
}

// contextAddCmd adds a new context
var contextAddCmd = &cobra.Command{
	Use:   "add <name> --server <url>",
	Short: "Add a new context",
	Long: `Add a new named context pointing to a TeamCity server.

Context names must:
  - Be between 1 and 63 characters
  - Contain only lowercase letters, numbers, and hyphens
  - Start and end with an alphanumeric character

Examples:
  teamcity context add local --server http://localhost:8111
  teamcity context add staging --server https://tc-staging.example.com
  teamcity context add production --server https://tc.example.com --use`,
	Args: cobra.ExactArgs(1),
	RunE: runContextAdd,
}

// contextDeleteCmd removes a context
var contextDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a context",
	Long: `Remove a context by name.

If the deleted context was the current context, the current context will be cleared.

By default, this command asks for confirmation. Use --force to skip the prompt.

Examples:
  teamcity context delete staging
  teamcity context delete staging --force
  teamcity context rm staging -f`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeContextNames,
	RunE:              runContextDelete,
}

// contextRenameCmd renames a context
var contextRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a context",
	Long: `Rename an existing context.

If the renamed context was the current context, the current context will be updated.

Examples:
  teamcity context rename staging stage
  teamcity context rename prod production`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return getContextNamesForCompletion(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runContextRename,
}

// contextShowCmd shows details of a context
var contextShowCmd = &cobra.Command{
	Use:     "show <name>",
	Aliases: []string{"describe", "get"},
	Short:   "Show context details",
	Long: `Display detailed information about a specific context.

Supports multiple output formats via --output flag.

Examples:
  teamcity context show production
  teamcity context describe staging
  teamcity context show production --output json
  teamcity context show production -o yaml`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeContextNames,
	RunE:              runContextShow,
}

// contextUpdateCmd updates an existing context
var contextUpdateCmd = &cobra.Command{
	Use:     "update <name> --server <url>",
	Aliases: []string{"set"},
	Short:   "Update an existing context",
	Long: `Update the server URL or settings of an existing context.

Examples:
  teamcity context update staging --server https://new-staging.example.com
  teamcity context set production --server https://tc.example.com`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeContextNames,
	RunE:              runContextUpdate,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextCurrentCmd)
	contextCmd.AddCommand(contextUseCmd)
	contextCmd.AddCommand(contextAddCmd)
	contextCmd.AddCommand(contextDeleteCmd)
	contextCmd.AddCommand(contextRenameCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextUpdateCmd)

	// Global context flags
	contextCmd.PersistentFlags().BoolVarP(&contextQuiet, "quiet", "q", false, "Suppress non-essential output")

	// Add-specific flags
	contextAddCmd.Flags().StringVar(&contextAddServer, "server", "", "Server base URL for the context (required)")
	contextAddCmd.Flags().BoolVar(&contextAddSetCurrent, "use", false, "Set as current context after adding")
	_ = contextAddCmd.MarkFlagRequired("server")

	// Delete-specific flags
	contextDeleteCmd.Flags().BoolVarP(&contextDeleteForce, "force", "f", false, "Skip confirmation prompt")

	// Show-specific flags
	contextShowCmd.Flags().StringVarP(&contextShowOutputFormat, "output", "o", "text", "Output format (text, json, yaml)")

	// Update-specific flags
	contextUpdateCmd.Flags().StringVar(&contextUpdateServer, "server", "", "New server base URL for the context (required)")
	_ = contextUpdateCmd.MarkFlagRequired("server")
}

// completeContextNames provides shell completion for context names
func completeContextNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return getContextNamesForCompletion(), cobra.ShellCompDirectiveNoFileComp
}

// getContextNamesForCompletion returns context names for shell completion
func getContextNamesForCompletion() []string {
	storage, err := tcctx.NewStorage()
	if err != nil {
		return nil
	}
	names, err := storage.GetContextNames()
	if err != nil {
		return nil
	}
	return names
}

func runContextList(cmd *cobra.Command, args []string) error {
	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	config, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load contexts: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(config.Contexts) == 0 {
		if !contextQuiet {
			fmt.Fprintln(out, "No contexts configured yet.")
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, "Get started by adding your first context:")
			fmt.Fprintln(out, "  teamcity context add local --server http://localhost:8111")
			fmt.Fprintln(out, "  teamcity context add prod --server https://tc.example.com")
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, "Then activate it:")
			fmt.Fprintln(out, "  teamcity context use local")
		}
		return nil
	}

	// Use tabwriter for aligned output
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CURRENT\tNAME\tSERVER")

	for _, ctx := range config.Contexts {
		current := ""
		if ctx.Name == config.CurrentContext {
			current = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", current, ctx.Name, ctx.Server)
	}

	return w.Flush()
}

func runContextCurrent(cmd *cobra.Command, args []string) error {
	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	name, err := storage.GetCurrentContextName()
	if err != nil {
		return fmt.Errorf("failed to get current context: %w", err)
	}

	if name == "" {
		// No current context - output nothing (useful for scripting)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

func runContextUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	if err := storage.SetCurrentContext(name); err != nil {
		// Provide helpful message if context doesn't exist
		var notFoundErr *tcctx.ContextNotFoundError
		if errors.As(err, &notFoundErr) {
			return fmt.Errorf("context %q not found. Use 'teamcity context list' to see available contexts", name)
		}
		return fmt.Errorf("failed to set current context: %w", err)
	}

	if !contextQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q\n", name)
	}
	return nil
}

func runContextAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	if err := storage.AddContext(name, contextAddServer, nil); err != nil {
		return fmt.Errorf("failed to add context: %w", err)
	}

	if !contextQuiet {
		fmt.Fprintf(out, "Context %q added.\n", name)
	}

	// Set as current context if --use flag is provided
	if contextAddSetCurrent {
		if err := storage.SetCurrentContext(name); err != nil {
			return fmt.Errorf("failed to set current context: %w", err)
		}
		if !contextQuiet {
			fmt.Fprintf(out, "Switched to context %q\n", name)
		}
	} else if !contextQuiet {
		// Suggest setting as current if no current context
		currentName, _ := storage.GetCurrentContextName()
		if currentName == "" {
			fmt.Fprintf(out, "\nTo use this context, run:\n")
			fmt.Fprintf(out, "  teamcity context use %s\n", name)
		}
	}

	return nil
}

func runContextDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	// Check if context exists before prompting
	ctx, err := storage.GetContext(name)
	if err != nil {
		return fmt.Errorf("failed to check context: %w", err)
	}
	if ctx == nil {
		return fmt.Errorf("context %q not found", name)
	}

	// Check if this is the current context
	currentName, _ := storage.GetCurrentContextName()
	wasCurrent := currentName == name

	// Prompt for confirmation unless --force is used
	if !contextDeleteForce {
		prompt := fmt.Sprintf("Delete context %q?", name)
		if wasCurrent {
			prompt = fmt.Sprintf("Delete context %q (current context)?", name)
		}
		if !confirmAction(prompt) {
			if !contextQuiet {
				fmt.Fprintln(out, "Aborted.")
			}
			return nil
		}
	}

	if err := storage.DeleteContext(name); err != nil {
		var notFoundErr *tcctx.ContextNotFoundError
		if errors.As(err, &notFoundErr) {
			return fmt.Errorf("context %q not found", name)
		}
		return fmt.Errorf("failed to delete context: %w", err)
	}

	if !contextQuiet {
		fmt.Fprintf(out, "Context %q deleted.\n", name)

		if wasCurrent {
			fmt.Fprintln(out, "Note: This was the current context. Current context is now unset.")
		}
	}

	return nil
}

func runContextRename(cmd *cobra.Command, args []string) error {
	oldName := args[0]
	newName := args[1]

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	if err := storage.RenameContext(oldName, newName); err != nil {
		return fmt.Errorf("failed to rename context: %w", err)
	}

	if !contextQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q renamed to %q.\n", oldName, newName)
	}
	return nil
}

// contextDetails represents the output structure for show command
type contextDetails struct {
	Name     string                 `json:"name" yaml:"name"`
	Server   string                 `json:"server" yaml:"server"`
	Current  bool                   `json:"current" yaml:"current"`
	Settings *tcctx.ContextSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

func runContextShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	config, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load contexts: %w", err)
	}

	ctx := config.GetContext(name)
	if ctx == nil {
		return fmt.Errorf("context %q not found", name)
	}

	isCurrent := config.CurrentContext == name

	switch contextShowOutputFormat {
	case "json":
		output := contextDetails{
			Name:     ctx.Name,
			Server:   ctx.Server,
			Current:  isCurrent,
			Settings: ctx.Settings,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		output := contextDetails{
			Name:     ctx.Name,
			Server:   ctx.Server,
			Current:  isCurrent,
			Settings: ctx.Settings,
		}
		data, err := yaml.Marshal(output)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(out, string(data))

	default: // "text" or any other value
		fmt.Fprintf(out, "Name:    %s\n", ctx.Name)
		fmt.Fprintf(out, "Server:  %s\n", ctx.Server)

		if isCurrent {
			fmt.Fprintf(out, "Current: yes\n")
		}

		if ctx.Settings != nil {
			fmt.Fprintln(out, "Settings:")
			if ctx.Settings.Output != "" {
				fmt.Fprintf(out, "  output: %s\n", ctx.Settings.Output)
			}
		}
	}

	return nil
}

func runContextUpdate(cmd *cobra.Command, args []string) error {
	name := args[0]

	storage, err := tcctx.NewStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize context storage: %w", err)
	}

	if err := storage.UpdateContext(name, contextUpdateServer, nil); err != nil {
		var notFoundErr *tcctx.ContextNotFoundError
		if errors.As(err, &notFoundErr) {
			return fmt.Errorf("context %q not found. Use 'teamcity context add' to create a new context", name)
		}
		return fmt.Errorf("failed to update context: %w", err)
	}

	if !contextQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q updated.\n", name)
	}
	return nil
}

// confirmAction prompts the user for confirmation and returns true if they confirm.
func confirmAction(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
