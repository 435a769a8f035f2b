package cmd

import (
	"github.com/anight/teamcity-cli/internal/formatting"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Commands related to users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userShowCmd = &cobra.Command{
	Use:   "show <username> [<username>...]",
	Short: "Show user(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUserShow,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
}

func runUserList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	data, err := client.Users(cmd.Context())
	if err != nil {
		return err
	}
	formatting.PrintJSON(cmd.OutOrStdout(), data)
	return nil
}

func runUserShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, username := range args {
		data, err := client.User(cmd.Context(), username)
		if err != nil {
			return err
		}
		formatting.PrintJSON(out, data)
	}
	return nil
}
