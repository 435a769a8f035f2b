package cmd

import (
	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/spf13/cobra"
)

const defaultProjectColumns = "name,id,parentProjectId"

var (
	projectListParentID     string
	projectListOutputFormat = newChoiceValue("table", "table", "json")
	projectListColumns      string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Commands related to projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id> [<project-id>...]",
	Short: "Show project(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProjectShow,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)

	flags := projectListCmd.Flags()
	flags.StringVar(&projectListParentID, "parent-project-id", "", "limit projects to children of the given project")
	flags.Var(projectListOutputFormat, "output-format", "Output format (table, json)")
	flags.StringVar(&projectListColumns, "columns", defaultProjectColumns, "comma-separated list of columns to show in table")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	loc := teamcity.NewLocator()
	if projectListParentID != "" {
		loc.Set("parentProject", "(id:"+projectListParentID+")")
	}

	data, err := client.Projects(cmd.Context(), loc)
	if err != nil {
		return err
	}

	if projectListOutputFormat.String() == "json" {
		formatting.PrintJSON(out, data)
		return nil
	}
	projects := teamcity.EntityList(data, "project")
	formatting.RenderTable(out, splitColumns(projectListColumns), projects, formatting.ColorEnabled(out))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, projectID := range args {
		data, err := client.Project(cmd.Context(), projectID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}
