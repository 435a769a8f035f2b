package cmd

import (
	"fmt"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/spf13/cobra"
)

const defaultQueueListColumns = "state,id,buildTypeId,branchName,user"

var (
	queueListBuildTypeID  string
	queueListBranch       string
	queueListOutputFormat = newChoiceValue("table", "table", "json")
	queueListColumns      string

	queueShowAll bool
)

// buildQueueCmd groups the build queue commands.
var buildQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Commands related to the build queue",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of queued builds",
	Args:  cobra.NoArgs,
	RunE:  runQueueList,
}

var queueShowCmd = &cobra.Command{
	Use:   "show <build-id> [<build-id>...]",
	Short: "Show queued build(s)",
	Long: `Show each given queued build.

By default a curated summary is printed (number, dates, branch, project,
state, wait reason). --show-all prints the complete server response.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueueShow,
}

func init() {
	buildCmd.AddCommand(buildQueueCmd)
	buildQueueCmd.AddCommand(queueListCmd)
	buildQueueCmd.AddCommand(queueShowCmd)

	flags := queueListCmd.Flags()
	flags.StringVar(&queueListBuildTypeID, "build-type-id", "", "buildTypeId to filter on")
	flags.StringVar(&queueListBranch, "branch", "", "branch to filter on")
	flags.Var(queueListOutputFormat, "output-format", "Output format (table, json)")
	flags.StringVar(&queueListColumns, "columns", defaultQueueListColumns, "comma-separated list of columns to show in table")

	queueShowCmd.Flags().BoolVar(&queueShowAll, "show-all", false, "show the complete server response")
}

func runQueueList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	loc := teamcity.NewLocator()
	loc.Set("buildType", queueListBuildTypeID)
	loc.Set("branch", queueListBranch)

	data, err := client.QueuedBuilds(cmd.Context(), loc)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "count: %d\n", teamcity.Count(data))
	if teamcity.Count(data) == 0 {
		return nil
	}

	if queueListOutputFormat.String() == "json" {
		formatting.PrintJSON(out, data)
		return nil
	}
	builds := teamcity.EntityList(data, "build")
	formatting.RenderTable(out, splitColumns(queueListColumns), builds, formatting.ColorEnabled(out))
	return nil
}

func runQueueShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		data, err := client.QueuedBuild(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		printQueuedBuild(out, data, queueShowAll)
	}
	return nil
}
