package cmd

import (
	"fmt"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/spf13/cobra"
)

// parameterColumns is the fixed column set of the parameters table.
var parameterColumns = []string{"name", "value"}

var (
	buildShowDetailsAll         bool
	buildShowParamsOutputFormat = newChoiceValue("table", "table", "json")
)

// buildShowCmd groups the per-build inspection commands. Each subcommand
// accepts one or more build ids and handles them in order; the first
// failing lookup aborts the command.
var buildShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show information for selected build(s)",
}

var buildShowDetailsCmd = &cobra.Command{
	Use:   "details <build-id> [<build-id>...]",
	Short: "Show build details",
	Long: `Show details for each given build.

By default a curated summary is printed (number, dates, branch, agent,
project, status). --show-all prints the complete server response.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuildShowDetails,
}

var buildShowStatisticsCmd = &cobra.Command{
	Use:   "statistics <build-id> [<build-id>...]",
	Short: "Show build statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuildShowStatistics,
}

var buildShowLogCmd = &cobra.Command{
	Use:   "log <build-id> [<build-id>...]",
	Short: "Show build log",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuildShowLog,
}

var buildShowArtifactsCmd = &cobra.Command{
	Use:   "artifacts <build-id> [<data-type> [<artifact-path>]]",
	Short: "Show build artifacts",
	Long: `Show the artifacts of a build.

With only a build id the top-level artifact listing is printed. The
optional data-type argument selects an artifact view (such as content or
children) and artifact-path descends into the artifact tree. Text
responses print verbatim, listings print as JSON.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runBuildShowArtifacts,
}

var buildShowParametersCmd = &cobra.Command{
	Use:   "parameters <build-id> [<build-id>...]",
	Short: "Show resulting build parameters",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuildShowParameters,
}

var buildShowTagsCmd = &cobra.Command{
	Use:   "tags <build-id> [<build-id>...]",
	Short: "Show build tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuildShowTags,
}

func init() {
	buildCmd.AddCommand(buildShowCmd)
	buildShowCmd.AddCommand(buildShowDetailsCmd)
	buildShowCmd.AddCommand(buildShowStatisticsCmd)
	buildShowCmd.AddCommand(buildShowLogCmd)
	buildShowCmd.AddCommand(buildShowArtifactsCmd)
	buildShowCmd.AddCommand(buildShowParametersCmd)
	buildShowCmd.AddCommand(buildShowTagsCmd)

	buildShowDetailsCmd.Flags().BoolVar(&buildShowDetailsAll, "show-all", false, "show the complete server response")

	buildShowParametersCmd.Flags().Var(buildShowParamsOutputFormat, "output-format", "Output format (table, json)")
}

func runBuildShowDetails(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		data, err := client.Build(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		if buildShowDetailsAll {
			formatting.PrintJSON(out, data)
			continue
		}
		formatting.PrintJSON(out, newBuildDetailsView(data))
	}
	return nil
}

func runBuildShowStatistics(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		data, err := client.BuildStatistics(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}

func runBuildShowLog(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		log, err := client.BuildLog(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, log)
	}
	return nil
}

func runBuildShowArtifacts(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	buildID := args[0]
	var dataType, artifactPath string
	if len(args) > 1 {
		dataType = args[1]
	}
	if len(args) > 2 {
		artifactPath = args[2]
	}

	payload, err := client.BuildArtifacts(cmd.Context(), buildID, dataType, artifactPath)
	if err != nil {
		return err
	}

	switch payload.Kind {
	case teamcity.ArtifactText:
		fmt.Fprintln(out, payload.Text)
	case teamcity.ArtifactListing:
		formatting.PrintJSON(out, payload.Listing)
	default:
		return fmt.Errorf("unexpected artifact response for build %s", buildID)
	}
	return nil
}

func runBuildShowParameters(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		data, err := client.BuildParameters(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		properties := teamcity.EntityList(data, "property")
		if buildShowParamsOutputFormat.String() == "json" {
			formatting.PrintJSON(out, properties)
			continue
		}
		formatting.RenderTable(out, parameterColumns, properties, formatting.ColorEnabled(out))
	}
	return nil
}

func runBuildShowTags(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildID := range args {
		data, err := client.BuildTags(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}
