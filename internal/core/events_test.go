package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIssuesEvent() *github.IssuesEvent {
	return &github.IssuesEvent{
		Action: github.Ptr("opened"),
		Issue: &github.Issue{
			Number:        github.Ptr(42),
			Title:         github.Ptr("crash on startup"),
			Body:          github.Ptr("stack trace attached"),
			RepositoryURL: github.Ptr("https://api.github.com/repos/acme/widgets"),
		},
		Repo: &github.Repository{
			Name:     github.Ptr("widgets"),
			FullName: github.Ptr("acme/widgets"),
			Owner:    &github.User{Login: github.Ptr("acme")},
		},
	}
}

func TestEventFromIssues(t *testing.T) {
	event, err := EventFromIssues(validIssuesEvent())
	require.NoError(t, err)

	assert.Equal(t, "acme", event.RepoOwner)
	assert.Equal(t, "acme/widgets", event.RepoFullName)
	assert.Equal(t, "https://api.github.com/repos/acme/widgets", event.RepositoryURL)
	assert.Equal(t, 42, event.IssueNumber)
	assert.Equal(t, JobKey{RepoFullName: "acme/widgets", IssueNumber: 42}, event.Key())
}

func TestEventFromIssues_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*github.IssuesEvent)
	}{
		{"ignored action", func(e *github.IssuesEvent) { e.Action = github.Ptr("closed") }},
		{"missing issue", func(e *github.IssuesEvent) { e.Issue = nil }},
		{"invalid issue number", func(e *github.IssuesEvent) { e.Issue.Number = github.Ptr(0) }},
		{"missing repository", func(e *github.IssuesEvent) { e.Repo = nil }},
		{"empty full name", func(e *github.IssuesEvent) { e.Repo.FullName = github.Ptr("") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validIssuesEvent()
			tt.mutate(event)

			_, err := EventFromIssues(event)
			assert.Error(t, err)
		})
	}
}

func TestOwnerLoginResolver(t *testing.T) {
	resolver := OwnerLoginResolver{}
	assert.Equal(t, "acme", resolver.ResolveUser(&IssueEvent{RepoOwner: "acme"}))
}
