package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anight/teamcity-cli/internal/browser"
	"github.com/anight/teamcity-cli/internal/config"
	tcctx "github.com/anight/teamcity-cli/internal/context"
	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Seams for tests: opening a browser and sleeping between queue polls go
// through these variables so command tests can observe them.
var (
	browserOpen = browser.Open
	pollSleep   = sleepContext
)

// pollInterval is the delay between queued-build state polls.
const pollInterval = 5 * time.Second

// newClient builds the API client shared by the invocation. The server
// URL is resolved from (highest to lowest): the --server flag, the
// --context flag, the TEAMCITY_CONTEXT environment variable, the current
// context, and finally the config file / TEAMCITY_* environment.
func newClient() (*teamcity.Client, error) {
	serverURL, err := tcctx.ResolveServer(rootServer, rootContext)
	if err != nil {
		return nil, err
	}

	configPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if serverURL == "" {
		serverURL = cfg.BaseURL()
	}
	if serverURL == "" {
		return nil, fmt.Errorf("no TeamCity server configured; use --server, add a context with 'teamcity context add', or set %s", config.EnvURL)
	}

	return teamcity.New(serverURL, cfg.Username, cfg.Password)
}

// startSpinner shows a progress spinner on stderr while slow work (such
// as per-row enrichment lookups) runs. Returns nil when stderr is not a
// terminal; stopSpinner tolerates that.
func startSpinner(suffix string) *spinner.Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner) {
	if s != nil {
		s.Stop()
	}
}

// sleepContext waits for the duration or until ctx is cancelled,
// whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
