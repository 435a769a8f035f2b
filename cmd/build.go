package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"
	"github.com/anight/teamcity-cli/pkg/logging"

	"github.com/spf13/cobra"
)

// Default column sets for the build listings.
const (
	defaultBuildListColumns = "status,statusText,id,buildTypeId,number,branchName,user"
	defaultBranchFilter     = "default:any"
)

var (
	buildListShowURL      bool
	buildListShowData     bool
	buildListStart        int
	buildListCount        int
	buildListProject      string
	buildListBuildTypeID  string
	buildListBranch       string
	buildListStatus       = newChoiceValue("", "success", "failure", "error")
	buildListRunning      = newChoiceValue("any", "true", "false", "any")
	buildListTags         string
	buildListUser         string
	buildListOutputFormat = newChoiceValue("table", "table", "json")
	buildListColumns      string

	buildTriggerBuildTypeID string
	buildTriggerBranch      string
	buildTriggerComment     string
	buildTriggerParameters  []string
	buildTriggerAgentID     string
	buildTriggerOpenLog     bool
	buildTriggerWait        bool
	buildTriggerWaitTimeout time.Duration
)

// buildCmd represents the build command group.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Commands related to builds",
}

var buildListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display list of builds",
	Long: `Display builds known to the server, filtered server-side.

Filters are sent only when set; the start/count pagination bounds are
always sent (defaults 0/100). --tags takes a comma-delimited list and
returns only builds carrying all the given tags.

Examples:
  teamcity build list
  teamcity build list --status failure --count 5
  teamcity build list --branch refs/heads/main --output-format json
  teamcity build list --show-url --show-data=false`,
	Args: cobra.NoArgs,
	RunE: runBuildList,
}

var buildTriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger a new build",
	Long: `Enqueue a new build and print the queued-build summary.

Custom parameters are passed as repeatable --parameter key=value options
(split on the first '='). With --wait-for-run the command polls the
queued build every 5 seconds until it leaves the queue, printing the
state on each poll; --wait-timeout bounds the wait (0 waits forever).

Examples:
  teamcity build trigger --build-type-id Proj_Build
  teamcity build trigger --build-type-id Proj_Build --branch feature/x --comment "smoke run"
  teamcity build trigger --build-type-id Proj_Build --parameter env.TARGET=staging --wait-for-run`,
	Args: cobra.NoArgs,
	RunE: runBuildTrigger,
}

var buildBrowseCmd = &cobra.Command{
	Use:   "browse <build-id> [<build-id>...]",
	Short: "Open selected build(s) in web browser",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuildBrowse,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.AddCommand(buildListCmd)
	buildCmd.AddCommand(buildTriggerCmd)
	buildCmd.AddCommand(buildBrowseCmd)

	flags := buildListCmd.Flags()
	flags.BoolVar(&buildListShowURL, "show-url", false, "Show URL for request")
	flags.BoolVar(&buildListShowData, "show-data", true, "Show data retrieved from request")
	flags.IntVar(&buildListStart, "start", teamcity.DefaultStart, "Start index")
	flags.IntVar(&buildListCount, "count", teamcity.DefaultCount, "Max number of items to show")
	flags.StringVar(&buildListProject, "project", "", "project to filter on")
	flags.StringVar(&buildListBuildTypeID, "build-type-id", "", "buildTypeId to filter on")
	flags.StringVar(&buildListBranch, "branch", defaultBranchFilter, "branch to filter on")
	flags.Var(buildListStatus, "status", "filter on build status (success, failure, error)")
	flags.Var(buildListRunning, "running", "filter on build state (true, false, any)")
	flags.StringVar(&buildListTags, "tags", "", "comma-delimited list of build tags (only builds containing all the specified tags are returned)")
	flags.StringVar(&buildListUser, "user", "", "limit builds to only those triggered by the user specified")
	flags.Var(buildListOutputFormat, "output-format", "Output format (table, json)")
	flags.StringVar(&buildListColumns, "columns", defaultBuildListColumns, "comma-separated list of columns to show in table")

	flags = buildTriggerCmd.Flags()
	flags.StringVar(&buildTriggerBuildTypeID, "build-type-id", "", "buildTypeId to trigger (required)")
	flags.StringVar(&buildTriggerBranch, "branch", "", "branch to run the build on")
	flags.StringVar(&buildTriggerComment, "comment", "", "comment message for build")
	flags.StringArrayVar(&buildTriggerParameters, "parameter", nil, "Specify custom parameters (key=value, repeatable)")
	flags.StringVar(&buildTriggerAgentID, "agent-id", "", "ID of agent to force build to run on")
	flags.BoolVar(&buildTriggerOpenLog, "open-build-log", false, "open build log in browser")
	flags.BoolVar(&buildTriggerWait, "wait-for-run", false, "Wait for the build to start running")
	flags.DurationVar(&buildTriggerWaitTimeout, "wait-timeout", 0, "Maximum time to wait for the build to start (0 waits forever)")
	_ = buildTriggerCmd.MarkFlagRequired("build-type-id")
}

// buildListLocator translates the supplied options into the request
// parameters. A filter appears only when its option differs from the
// default; pagination bounds are always present.
func buildListLocator() *teamcity.Locator {
	loc := teamcity.NewLocator().Start(buildListStart).Count(buildListCount)
	loc.Set("project", buildListProject)
	loc.Set("buildType", buildListBuildTypeID)
	if buildListBranch != defaultBranchFilter {
		loc.Set("branch", buildListBranch)
	}
	loc.Set("status", buildListStatus.String())
	if running := buildListRunning.String(); running != "any" {
		loc.Set("running", running)
	}
	loc.Set("tags", buildListTags)
	loc.Set("user", buildListUser)
	return loc
}

func runBuildList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	loc := buildListLocator()

	if buildListShowURL {
		fmt.Fprintln(out, client.BuildsURL(loc))
	}
	if !buildListShowData {
		return nil
	}

	data, err := client.Builds(cmd.Context(), loc)
	if err != nil {
		// build list reports request failures inline and returns
		// cleanly; the other commands let them surface through
		// Execute instead. Transport failures carry status code 0.
		var httpErr *teamcity.HTTPError
		if errors.As(err, &httpErr) {
			fmt.Fprintf(out, "url: %s\n", httpErr.URL)
			fmt.Fprintf(out, "status_code: %d\n", httpErr.StatusCode)
			fmt.Fprintln(out)
			fmt.Fprintln(out, httpErr.Detail)
			return nil
		}
		return err
	}

	builds := teamcity.EntityList(data, "build")
	enrichBuilds(cmd.Context(), client, builds)

	fmt.Fprintf(out, "count: %d\n", teamcity.Count(data))
	if teamcity.Count(data) == 0 {
		return nil
	}

	if buildListOutputFormat.String() == "json" {
		formatting.PrintJSON(out, data)
		return nil
	}
	formatting.RenderTable(out, splitColumns(buildListColumns), builds, formatting.ColorEnabled(out))
	return nil
}

// enrichBuilds backfills the triggering user and extended status text for
// each build from a per-row details lookup. The lookups are best-effort:
// a failed or incomplete lookup leaves the row's fields absent, which the
// table renders as "N/A"; it never aborts the listing.
func enrichBuilds(ctx context.Context, client *teamcity.Client, builds []map[string]any) {
	if len(builds) == 0 {
		return
	}
	s := startSpinner(" Fetching build details...")
	defer stopSpinner(s)

	for _, build := range builds {
		id := teamcity.ValueString(build["id"])
		details, err := client.Build(ctx, id)
		if err != nil {
			logging.Warn("build", "details lookup for build %s failed: %v", id, err)
			continue
		}
		if username, ok := teamcity.FieldString(details, "triggered", "user", "username"); ok {
			build["user"] = username
		}
		if statusText, ok := teamcity.FieldString(details, "statusText"); ok {
			build["statusText"] = statusText
		}
	}
}

func runBuildTrigger(cmd *cobra.Command, args []string) error {
	parameters, err := parseParameters(buildTriggerParameters)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	queued, err := client.TriggerBuild(ctx, teamcity.TriggerRequest{
		BuildTypeID: buildTriggerBuildTypeID,
		Branch:      buildTriggerBranch,
		Comment:     buildTriggerComment,
		Parameters:  parameters,
		AgentID:     buildTriggerAgentID,
	})
	if err != nil {
		return err
	}

	buildID := teamcity.ValueString(queued["id"])
	printQueuedBuild(out, queued, false)

	if buildTriggerOpenLog {
		if webURL, ok := teamcity.FieldString(queued, "webUrl"); ok {
			if err := browserOpen(webURL + "&tab=buildLog"); err != nil {
				logging.Warn("build", "could not open browser: %v", err)
			}
		}
	}

	if !buildTriggerWait {
		return nil
	}

	if err := waitForRun(ctx, cmd, client, buildID, teamcity.ValueString(queued["state"])); err != nil {
		return err
	}

	final, err := client.QueuedBuild(ctx, buildID)
	if err != nil {
		return err
	}
	printQueuedBuild(out, final, false)
	return nil
}

// waitForRun polls the queued build every pollInterval until its state is
// no longer "queued", printing the state on each poll. The wait is a
// cooperative loop: cancelling the context (Ctrl-C or --wait-timeout)
// ends it. With no timeout the wait is unbounded.
func waitForRun(ctx context.Context, cmd *cobra.Command, client *teamcity.Client, buildID, state string) error {
	if buildTriggerWaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, buildTriggerWaitTimeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	s := startSpinner(" Waiting for build to start...")
	defer stopSpinner(s)

	for state == "queued" {
		if err := pollSleep(ctx, pollInterval); err != nil {
			return fmt.Errorf("gave up waiting for build %s to start: %w", buildID, err)
		}
		data, err := client.QueuedBuild(ctx, buildID)
		if err != nil {
			return err
		}
		state = teamcity.ValueString(data["state"])
		fmt.Fprintf(out, "state: %s\n", state)
	}
	return nil
}

func runBuildBrowse(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	// Each id is resolved in the order supplied; a failed lookup aborts
	// the command (propagate-and-abort policy).
	for _, buildID := range args {
		data, err := client.Build(cmd.Context(), buildID)
		if err != nil {
			return err
		}
		webURL, ok := teamcity.FieldString(data, "webUrl")
		if !ok {
			return fmt.Errorf("build %s has no web URL", buildID)
		}
		if err := browserOpen(webURL); err != nil {
			return err
		}
	}
	return nil
}
