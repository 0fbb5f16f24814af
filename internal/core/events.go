package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// IssueEvent is a simplified, internal view of a GitHub issues webhook event.
type IssueEvent struct {
	RepoOwner     string
	RepoName      string
	RepoFullName  string
	RepositoryURL string

	IssueNumber int
	IssueTitle  string
	IssueBody   string
}

// Key derives the job key for the event.
func (e *IssueEvent) Key() JobKey {
	return JobKey{RepoFullName: e.RepoFullName, IssueNumber: e.IssueNumber}
}

// EventFromIssues transforms a raw GitHub IssuesEvent into the application's
// internal IssueEvent representation. It acts as an anti-corruption layer,
// ensuring the incoming webhook payload is valid and contains all necessary
// data before a job is started. Only newly opened issues produce an event;
// anything else returns an error so the caller can acknowledge the delivery
// without starting a job.
func EventFromIssues(event *github.IssuesEvent) (*IssueEvent, error) {
	if event.GetAction() != "opened" {
		return nil, fmt.Errorf("action %q does not trigger automation", event.GetAction())
	}

	issue := event.GetIssue()
	if issue == nil {
		return nil, fmt.Errorf("payload has no issue object")
	}

	number := issue.GetNumber()
	if number <= 0 {
		return nil, fmt.Errorf("invalid issue number: %d", number)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetFullName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}

	return &IssueEvent{
		RepoOwner:     repo.GetOwner().GetLogin(),
		RepoName:      repo.GetName(),
		RepoFullName:  repo.GetFullName(),
		RepositoryURL: issue.GetRepositoryURL(),
		IssueNumber:   number,
		IssueTitle:    issue.GetTitle(),
		IssueBody:     issue.GetBody(),
	}, nil
}

// UserResolver maps a triggering webhook event to the local user whose stored
// credential should back the job. The mapping is heuristic: the default
// implementation assumes the repository owner is the user who connected
// credentials, which does not hold for organization repositories or
// collaborators. Keeping it behind an interface lets a deployment substitute
// a real mapping.
type UserResolver interface {
	ResolveUser(event *IssueEvent) string
}

// OwnerLoginResolver resolves the triggering user as the repository owner's login.
type OwnerLoginResolver struct{}

func (OwnerLoginResolver) ResolveUser(event *IssueEvent) string {
	return event.RepoOwner
}
