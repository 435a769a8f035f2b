package cmd

import (
	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/spf13/cobra"
)

// Change listings default to a shorter page than the other resources.
const defaultChangeCount = 10

var (
	changeListStart int
	changeListCount int
)

var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "Commands related to VCS changes",
}

var changeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of changes",
	Args:  cobra.NoArgs,
	RunE:  runChangeList,
}

var changeShowCmd = &cobra.Command{
	Use:   "show <change-id> [<change-id>...]",
	Short: "Show change(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChangeShow,
}

func init() {
	rootCmd.AddCommand(changeCmd)
	changeCmd.AddCommand(changeListCmd)
	changeCmd.AddCommand(changeShowCmd)

	flags := changeListCmd.Flags()
	flags.IntVar(&changeListStart, "start", teamcity.DefaultStart, "Start index")
	flags.IntVar(&changeListCount, "count", defaultChangeCount, "Max number of items to show")
}

func runChangeList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	loc := teamcity.NewLocator().Start(changeListStart).Count(changeListCount)
	data, err := client.Changes(cmd.Context(), loc)
	if err != nil {
		return err
	}

	formatting.PrintJSON(cmd.OutOrStdout(), data)
	return nil
}

func runChangeShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, changeID := range args {
		data, err := client.Change(cmd.Context(), changeID)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}
