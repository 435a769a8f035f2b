package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueListFiltersAndCount(t *testing.T) {
	isolateHome(t)

	var gotLocator atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/guestAuth/app/rest/buildQueue", r.URL.Path)
		gotLocator.Store(r.URL.Query().Get("locator"))
		fmt.Fprint(w, `{"count":1,"build":[{"id":3,"buildTypeId":"Proj_Build","state":"queued","branchName":"main"}]}`)
	}))
	defer srv.Close()

	out, err := executeCommand(t, "build", "queue", "list", "--server", srv.URL, "--build-type-id", "Proj_Build")
	require.NoError(t, err)

	assert.Equal(t, "buildType:Proj_Build,start:0,count:100", gotLocator.Load())
	assert.Contains(t, out, "count: 1")
	assert.Contains(t, out, "queued")
	assert.Contains(t, out, "Proj_Build")
}

func TestQueueListEmptyPrintsOnlyCount(t *testing.T) {
	isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count":0}`)
	}))
	defer srv.Close()

	out, err := executeCommand(t, "build", "queue", "list", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "count: 0\n", out)
}

func TestQueueShowCuratedView(t *testing.T) {
	isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/guestAuth/app/rest/buildQueue/id:44", r.URL.Path)
		fmt.Fprint(w, `{
			"id":44,"state":"queued","waitReason":"Build settings have not been finalized",
			"queuedDate":"20260827T120000+0000",
			"webUrl":"http://tc/viewQueued.html?itemId=44",
			"buildType":{"projectId":"Proj","projectName":"Project"},
			"triggered":{"type":"schedule"}
		}`)
	}))
	defer srv.Close()

	out, err := executeCommand(t, "build", "queue", "show", "44", "--server", srv.URL)
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "queued", view["state"])
	assert.Equal(t, "Build settings have not been finalized", view["waitReason"])
	// Not user-triggered: no username key at all.
	assert.NotContains(t, view, "username")
	// Absent optional fields render as null, keeping the shape stable.
	assert.Contains(t, view, "startEstimate")
	assert.Nil(t, view["startEstimate"])
}

func TestQueueShowAll(t *testing.T) {
	isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":44,"state":"queued","custom":"kept"}`)
	}))
	defer srv.Close()

	out, err := executeCommand(t, "build", "queue", "show", "44", "--show-all", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"custom": "kept"`)
}
