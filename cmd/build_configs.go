package cmd

import (
	"fmt"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/spf13/cobra"
)

const defaultBuildConfigColumns = "id,projectName,name"

var (
	configListShowURL         bool
	configListProject         string
	configListAffectedProject string
	configListTemplateFlag    = newChoiceValue("any", "true", "false", "any")
	configListOutputFormat    = newChoiceValue("table", "table", "json")
	configListColumns         string
)

// buildConfigCmd groups the build configuration commands.
var buildConfigCmd = &cobra.Command{
	Use:   "build-configs",
	Short: "Commands related to build configurations",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of build configurations",
	Long: `Display build configurations known to the server.

--project limits results to configurations directly under a project,
--affected-project includes configurations of its subprojects as well.
--template-flag filters templates in or out (any returns both).`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configShowCmd = &cobra.Command{
	Use:   "show <build-type-id> [<build-type-id>...]",
	Short: "Show build configuration(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(buildConfigCmd)
	buildConfigCmd.AddCommand(configListCmd)
	buildConfigCmd.AddCommand(configShowCmd)

	flags := configListCmd.Flags()
	flags.BoolVar(&configListShowURL, "show-url", false, "Show URL for request")
	flags.StringVar(&configListProject, "project", "", "project to filter on")
	flags.StringVar(&configListAffectedProject, "affected-project", "", "project (including subprojects) to filter on")
	flags.Var(configListTemplateFlag, "template-flag", "filter on template flag (true, false, any)")
	flags.Var(configListOutputFormat, "output-format", "Output format (table, json)")
	flags.StringVar(&configListColumns, "columns", defaultBuildConfigColumns, "comma-separated list of columns to show in table")
}

func runConfigList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	loc := teamcity.NewLocator()
	loc.Set("project", configListProject)
	loc.Set("affectedProject", configListAffectedProject)
	if flag := configListTemplateFlag.String(); flag != "any" {
		loc.Set("templateFlag", flag)
	}

	if configListShowURL {
		fmt.Fprintln(out, client.BuildTypesURL(loc))
	}

	data, err := client.BuildTypes(cmd.Context(), loc)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "count: %d\n", teamcity.Count(data))
	if teamcity.Count(data) == 0 {
		return nil
	}

	if configListOutputFormat.String() == "json" {
		formatting.PrintJSON(out, data)
		return nil
	}
	buildTypes := teamcity.EntityList(data, "buildType")
	formatting.RenderTable(out, splitColumns(configListColumns), buildTypes, formatting.ColorEnabled(out))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, buildTypeID := range args {
		data, err := client.BuildType(cmd.Context(), buildTypeID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}
