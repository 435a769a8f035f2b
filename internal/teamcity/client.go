package teamcity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anight/teamcity-cli/pkg/logging"

	"github.com/google/uuid"
)

// maxErrorDetail caps how much of an error response body is kept for
// reporting.
const maxErrorDetail = 4096

// Client is the TeamCity REST API client. It is created once per
// invocation and shared by every command handler; apart from the server
// address and credentials it holds no state.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// New creates a client for the given server base URL. When username is
// empty the client uses the unauthenticated /guestAuth endpoints,
// otherwise basic auth under /httpAuth.
func New(serverURL, username, password string) (*Client, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host are required", serverURL)
	}

	return &Client{
		baseURL:  strings.TrimRight(serverURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// authSegment returns the URL segment selecting the authentication scheme.
func (c *Client) authSegment() string {
	if c.username == "" {
		return "/guestAuth"
	}
	return "/httpAuth"
}

// restURL builds a REST endpoint URL from path segments.
func (c *Client) restURL(parts ...string) string {
	return c.baseURL + c.authSegment() + "/app/rest/" + strings.Join(parts, "/")
}

// listURL builds a list endpoint URL carrying the locator expression.
func (c *Client) listURL(resource string, loc *Locator) string {
	query := url.Values{"locator": []string{loc.String()}}
	return c.restURL(resource) + "?" + query.Encode()
}

// newRequest creates a request with authentication applied.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

// do executes a request and returns the response body. Non-2xx responses
// and transport failures are both reported as *HTTPError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	reqID := uuid.NewString()[:8]
	logging.Debug("teamcity", "request %s: %s %s", reqID, req.Method, req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Debug("teamcity", "request %s failed: %v", reqID, err)
		return nil, &HTTPError{
			URL:    req.URL.String(),
			Detail: err.Error(),
			Err:    err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{
			URL:    req.URL.String(),
			Detail: fmt.Sprintf("reading response: %v", err),
			Err:    err,
		}
	}

	logging.Debug("teamcity", "request %s: status %d, %d bytes", reqID, resp.StatusCode, len(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(body))
		if len(detail) > maxErrorDetail {
			detail = detail[:maxErrorDetail]
		}
		return nil, &HTTPError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}

	return body, nil
}

// decode parses a JSON response body, preserving numbers as json.Number.
func decode(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return data, nil
}

// getJSON issues a GET expecting a JSON object response.
func (c *Client) getJSON(ctx context.Context, rawURL string) (map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// getText issues a GET expecting a plain-text response.
func (c *Client) getText(ctx context.Context, rawURL string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postJSON issues a POST with a JSON body expecting a JSON object response.
func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) (map[string]any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, rawURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// ServerInfo returns general information about the server instance.
func (c *Client) ServerInfo(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("server"))
}

// Plugins returns the list of server plugins.
func (c *Client) Plugins(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("server", "plugins"))
}

// Projects returns the project list filtered by loc.
func (c *Client) Projects(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.ProjectsURL(loc))
}

// ProjectsURL returns the resolved project list URL without executing it.
func (c *Client) ProjectsURL(loc *Locator) string {
	return c.listURL("projects", loc)
}

// Project returns a single project by id.
func (c *Client) Project(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("projects", "id:"+id))
}

// BuildTypes returns the build configuration list filtered by loc.
func (c *Client) BuildTypes(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.BuildTypesURL(loc))
}

// BuildTypesURL returns the resolved build configuration list URL without
// executing it.
func (c *Client) BuildTypesURL(loc *Locator) string {
	return c.listURL("buildTypes", loc)
}

// BuildType returns a single build configuration by id.
func (c *Client) BuildType(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("buildTypes", "id:"+id))
}

// Builds returns the build list filtered by loc.
func (c *Client) Builds(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.BuildsURL(loc))
}

// BuildsURL returns the resolved build list URL without executing it.
func (c *Client) BuildsURL(loc *Locator) string {
	return c.listURL("builds", loc)
}

// Build returns a single build by id.
func (c *Client) Build(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("builds", "id:"+id))
}

// BuildStatistics returns the statistics of a build.
func (c *Client) BuildStatistics(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("builds", "id:"+id, "statistics"))
}

// BuildTags returns the tags of a build.
func (c *Client) BuildTags(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("builds", "id:"+id, "tags"))
}

// BuildParameters returns the resulting properties of a build.
func (c *Client) BuildParameters(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("builds", "id:"+id, "resulting-properties"))
}

// BuildLog fetches the raw build log. The log endpoint lives outside the
// REST prefix and returns plain text rather than JSON.
func (c *Client) BuildLog(ctx context.Context, id string) (string, error) {
	logURL := c.baseURL + c.authSegment() + "/downloadBuildLog.html?" + url.Values{"buildId": []string{id}}.Encode()
	return c.getText(ctx, logURL)
}

// QueuedBuilds returns the queued build list filtered by loc.
func (c *Client) QueuedBuilds(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.QueuedBuildsURL(loc))
}

// QueuedBuildsURL returns the resolved queued build list URL without
// executing it.
func (c *Client) QueuedBuildsURL(loc *Locator) string {
	return c.listURL("buildQueue", loc)
}

// QueuedBuild returns a single queued build by id. While a build waits in
// the queue this is also the poll target for its state.
func (c *Client) QueuedBuild(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("buildQueue", "id:"+id))
}

// TriggerRequest describes a build to enqueue.
type TriggerRequest struct {
	// BuildTypeID names the build configuration to run.
	BuildTypeID string
	// Branch selects the logical branch, empty for the default branch.
	Branch string
	// Comment is attached to the triggered build.
	Comment string
	// Parameters are custom build parameters.
	Parameters map[string]string
	// AgentID forces the build onto a specific agent when non-empty.
	AgentID string
}

type triggerProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type triggerBuildType struct {
	ID string `json:"id"`
}

type triggerComment struct {
	Text string `json:"text"`
}

type triggerProperties struct {
	Property []triggerProperty `json:"property"`
}

type triggerAgent struct {
	ID string `json:"id"`
}

type triggerPayload struct {
	BuildType  triggerBuildType   `json:"buildType"`
	BranchName string             `json:"branchName,omitempty"`
	Comment    *triggerComment    `json:"comment,omitempty"`
	Properties *triggerProperties `json:"properties,omitempty"`
	Agent      *triggerAgent      `json:"agent,omitempty"`
}

// TriggerBuild enqueues a new build and returns the queued build object.
func (c *Client) TriggerBuild(ctx context.Context, req TriggerRequest) (map[string]any, error) {
	payload := triggerPayload{
		BuildType:  triggerBuildType{ID: req.BuildTypeID},
		BranchName: req.Branch,
	}
	if req.Comment != "" {
		payload.Comment = &triggerComment{Text: req.Comment}
	}
	if len(req.Parameters) > 0 {
		props := &triggerProperties{}
		for name, value := range req.Parameters {
			props.Property = append(props.Property, triggerProperty{Name: name, Value: value})
		}
		payload.Properties = props
	}
	if req.AgentID != "" {
		payload.Agent = &triggerAgent{ID: req.AgentID}
	}

	return c.postJSON(ctx, c.restURL("buildQueue"), payload)
}

// Users returns all users known to the server.
func (c *Client) Users(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("users"))
}

// User returns a single user by username.
func (c *Client) User(ctx context.Context, username string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("users", "username:"+username))
}

// Agents returns the agent list filtered by loc.
func (c *Client) Agents(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.AgentsURL(loc))
}

// AgentsURL returns the resolved agent list URL without executing it.
func (c *Client) AgentsURL(loc *Locator) string {
	return c.listURL("agents", loc)
}

// Agent returns a single agent by id.
func (c *Client) Agent(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("agents", "id:"+id))
}

// AgentRunningBuild returns the build currently running on an agent, or
// nil when the agent is idle.
func (c *Client) AgentRunningBuild(ctx context.Context, agentID string) (map[string]any, error) {
	loc := NewLocator().Count(1).
		Set("agent", "(id:"+agentID+")").
		Set("running", "true")
	data, err := c.Builds(ctx, loc)
	if err != nil {
		return nil, err
	}
	builds := EntityList(data, "build")
	if len(builds) == 0 {
		return nil, nil
	}
	return builds[0], nil
}

// Changes returns the change list filtered by loc.
func (c *Client) Changes(ctx context.Context, loc *Locator) (map[string]any, error) {
	return c.getJSON(ctx, c.ChangesURL(loc))
}

// ChangesURL returns the resolved change list URL without executing it.
func (c *Client) ChangesURL(loc *Locator) string {
	return c.listURL("changes", loc)
}

// Change returns a single change by id.
func (c *Client) Change(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.restURL("changes", "id:"+id))
}
