package cmd

import (
	"io"

	"github.com/anight/teamcity-cli/internal/formatting"
	"github.com/anight/teamcity-cli/internal/teamcity"
)

// Curated show views: the fixed field subsets printed by the show-style
// commands when --show-all is off. Struct-backed so the JSON key order is
// stable. Absent optional fields render as null; username appears only
// when the build was user-triggered.

type queuedBuildView struct {
	ID            any `json:"id"`
	Number        any `json:"number"`
	StartEstimate any `json:"startEstimate"`
	StartDate     any `json:"startDate"`
	QueuedDate    any `json:"queuedDate"`
	FinishDate    any `json:"finishDate"`
	BranchName    any `json:"branchName"`
	ProjectID     any `json:"projectId"`
	ProjectName   any `json:"projectName"`
	WebURL        any `json:"webUrl"`
	State         any `json:"state"`
	WaitReason    any `json:"waitReason"`
	Username      any `json:"username,omitempty"`
}

func newQueuedBuildView(data map[string]any) queuedBuildView {
	view := queuedBuildView{
		ID:            teamcity.Field(data, "id"),
		Number:        teamcity.Field(data, "number"),
		StartEstimate: teamcity.Field(data, "startEstimate"),
		StartDate:     teamcity.Field(data, "startDate"),
		QueuedDate:    teamcity.Field(data, "queuedDate"),
		FinishDate:    teamcity.Field(data, "finishDate"),
		BranchName:    teamcity.Field(data, "branchName"),
		ProjectID:     teamcity.Field(data, "buildType", "projectId"),
		ProjectName:   teamcity.Field(data, "buildType", "projectName"),
		WebURL:        teamcity.Field(data, "webUrl"),
		State:         teamcity.Field(data, "state"),
		WaitReason:    teamcity.Field(data, "waitReason"),
	}
	if triggerType, _ := teamcity.FieldString(data, "triggered", "type"); triggerType == "user" {
		view.Username = teamcity.Field(data, "triggered", "user", "username")
	}
	return view
}

type buildDetailsView struct {
	Number      any `json:"number"`
	ID          any `json:"id"`
	StartDate   any `json:"startDate"`
	QueuedDate  any `json:"queuedDate"`
	FinishDate  any `json:"finishDate"`
	BranchName  any `json:"branchName"`
	Agent       any `json:"agent"`
	ProjectID   any `json:"projectId"`
	ProjectName any `json:"projectName"`
	WebURL      any `json:"webUrl"`
	Status      any `json:"status"`
	State       any `json:"state"`
	StatusText  any `json:"statusText"`
	Username    any `json:"username,omitempty"`
}

func newBuildDetailsView(data map[string]any) buildDetailsView {
	view := buildDetailsView{
		Number:      teamcity.Field(data, "number"),
		ID:          teamcity.Field(data, "id"),
		StartDate:   teamcity.Field(data, "startDate"),
		QueuedDate:  teamcity.Field(data, "queuedDate"),
		FinishDate:  teamcity.Field(data, "finishDate"),
		BranchName:  teamcity.Field(data, "branchName"),
		Agent:       teamcity.Field(data, "agent", "name"),
		ProjectID:   teamcity.Field(data, "buildType", "projectId"),
		ProjectName: teamcity.Field(data, "buildType", "projectName"),
		WebURL:      teamcity.Field(data, "webUrl"),
		Status:      teamcity.Field(data, "status"),
		State:       teamcity.Field(data, "state"),
		StatusText:  teamcity.Field(data, "statusText"),
	}
	if triggerType, _ := teamcity.FieldString(data, "triggered", "type"); triggerType == "user" {
		view.Username = teamcity.Field(data, "triggered", "user", "username")
	}
	return view
}

// printQueuedBuild prints a queued build either in full or as the curated
// summary view.
func printQueuedBuild(w io.Writer, data map[string]any, showAll bool) {
	if showAll {
		formatting.PrintJSON(w, data)
		return
	}
	formatting.PrintJSON(w, newQueuedBuildView(data))
}
