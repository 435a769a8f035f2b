package cmd

import (
	"context"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"
	"github.com/anight/teamcity-cli/pkg/logging"

	"github.com/spf13/cobra"
)

const defaultAgentListColumns = "name,id,ip,pool,build_type,build_text"

var (
	agentListOutputFormat = newChoiceValue("table", "table", "json")
	agentListColumns      string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Commands related to the server instance",
}

var serverInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display info about the server",
	Args:  cobra.NoArgs,
	RunE:  runServerInfo,
}

var serverPluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Commands related to server plugins",
}

var serverPluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of server plugins",
	Args:  cobra.NoArgs,
	RunE:  runServerPluginList,
}

var serverAgentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Commands related to build agents",
}

var serverAgentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of agents",
	Long: `Display the agents known to the server.

Each row is enriched from a per-agent lookup: the agent's IP address and
pool, plus the build configuration and status text of the build it is
currently running (blank columns render as N/A for idle agents).`,
	Args: cobra.NoArgs,
	RunE: runServerAgentList,
}

var serverAgentShowCmd = &cobra.Command{
	Use:   "show <agent-id> [<agent-id>...]",
	Short: "Show agent(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runServerAgentShow,
}

var serverAgentStatisticsCmd = &cobra.Command{
	Use:   "statistics",
	Short: "Display aggregate agent statistics",
	Args:  cobra.NoArgs,
	RunE:  runServerAgentStatistics,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverInfoCmd)
	serverCmd.AddCommand(serverPluginCmd)
	serverPluginCmd.AddCommand(serverPluginListCmd)
	serverCmd.AddCommand(serverAgentCmd)
	serverAgentCmd.AddCommand(serverAgentListCmd)
	serverAgentCmd.AddCommand(serverAgentShowCmd)
	serverAgentCmd.AddCommand(serverAgentStatisticsCmd)

	flags := serverAgentListCmd.Flags()
	flags.Var(agentListOutputFormat, "output-format", "Output format (table, json)")
	flags.StringVar(&agentListColumns, "columns", defaultAgentListColumns, "comma-separated list of columns to show in table")
}

func runServerInfo(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	data, err := client.ServerInfo(cmd.Context())
	if err != nil {
		return err
	}
	formatting.PrintJSON(cmd.OutOrStdout(), data)
	return nil
}

func runServerPluginList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	data, err := client.Plugins(cmd.Context())
	if err != nil {
		return err
	}
	formatting.PrintJSON(cmd.OutOrStdout(), data)
	return nil
}

func runServerAgentList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	data, err := client.Agents(cmd.Context(), teamcity.NewLocator())
	if err != nil {
		return err
	}

	agents := teamcity.EntityList(data, "agent")
	enrichAgents(cmd.Context(), client, agents)

	if agentListOutputFormat.String() == "json" {
		formatting.PrintJSON(out, data)
		return nil
	}
	formatting.RenderTable(out, splitColumns(agentListColumns), agents, formatting.ColorEnabled(out))
	return nil
}

// enrichAgents backfills per-agent columns from the agent details and the
// build currently running on the agent. Lookups are best-effort: a failed
// row is logged and skipped, never aborting the listing.
func enrichAgents(ctx context.Context, client *teamcity.Client, agents []map[string]any) {
	if len(agents) == 0 {
		return
	}
	s := startSpinner(" Fetching agent details...")
	defer stopSpinner(s)

	for _, agent := range agents {
		id := teamcity.ValueString(agent["id"])
		details, err := client.Agent(ctx, id)
		if err != nil {
			logging.Warn("agent", "details lookup for agent %s failed: %v", id, err)
			continue
		}
		if ip, ok := teamcity.FieldString(details, "ip"); ok {
			agent["ip"] = ip
		}
		if pool, ok := teamcity.FieldString(details, "pool", "name"); ok {
			agent["pool"] = pool
		}

		running, err := client.AgentRunningBuild(ctx, id)
		if err != nil {
			logging.Warn("agent", "running-build lookup for agent %s failed: %v", id, err)
			continue
		}
		if running == nil {
			continue
		}
		if buildType, ok := teamcity.FieldString(running, "buildTypeId"); ok {
			agent["build_type"] = buildType
		}
		if statusText, ok := teamcity.FieldString(running, "statusText"); ok {
			agent["build_text"] = statusText
		}
	}
}

func runServerAgentShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, agentID := range args {
		data, err := client.Agent(cmd.Context(), agentID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}

// agentStatistics is the aggregate view printed by the statistics command.
// Counts are derived client-side from the agent list.
type agentStatistics struct {
	NumAgents       int `json:"num_agents"`
	NumConnected    int `json:"num_connected"`
	NumAuthorized   int `json:"num_authorized"`
	NumEnabled      int `json:"num_enabled"`
	NumRunningBuild int `json:"num_running_build"`
	NumIdle         int `json:"num_idle"`
}

func runServerAgentStatistics(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	data, err := client.Agents(ctx, teamcity.NewLocator())
	if err != nil {
		return err
	}
	agents := teamcity.EntityList(data, "agent")

	s := startSpinner(" Fetching agent details...")
	stats := agentStatistics{NumAgents: len(agents)}
	for _, agent := range agents {
		id := teamcity.ValueString(agent["id"])
		details, err := client.Agent(ctx, id)
		if err != nil {
			stopSpinner(s)
			return err
		}
		if flag, ok := teamcity.Field(details, "connected").(bool); ok && flag {
			stats.NumConnected++
		}
		if flag, ok := teamcity.Field(details, "authorized").(bool); ok && flag {
			stats.NumAuthorized++
		}
		if flag, ok := teamcity.Field(details, "enabled").(bool); ok && flag {
			stats.NumEnabled++
		}

		running, err := client.AgentRunningBuild(ctx, id)
		if err != nil {
			stopSpinner(s)
			return err
		}
		if running != nil {
			stats.NumRunningBuild++
		} else {
			stats.NumIdle++
		}
	}
	stopSpinner(s)

	formatting.PrintJSON(cmd.OutOrStdout(), stats)
	return nil
}
