// Package policy holds the tunable automation behavior: the wording of the
// task handed to the engine and the webhook events registered on repositories.
// A deployment can override the defaults with a YAML file.
package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrPolicyParsing = errors.New("policy parsing failed")

// Policy configures how automation tasks are phrased and which provider
// events are subscribed to when a webhook is registered.
type Policy struct {
	// TaskTemplate is the fmt template for the per-issue task. It receives
	// the issue number and the repository API URL, in that order.
	TaskTemplate string `yaml:"task_template"`

	// DefaultTask is the task executed by the manual run-task endpoint when
	// no task body is given.
	DefaultTask string `yaml:"default_task"`

	// WebhookEvents are the GitHub event types registered on a repository hook.
	WebhookEvents []string `yaml:"webhook_events"`
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		TaskTemplate: "give labels to this issue #%d from reading it title and body of github repository url: %s",
		DefaultTask:  "give labels to open issues from reading their title and body",
		WebhookEvents: []string{
			"issues",
			"issue_comment",
			"pull_request",
			"pull_request_review_comment",
		},
	}
}

// Load reads a policy file, overlaying it on the defaults. A missing path or
// a path that does not exist yields the default policy.
func Load(path string) (*Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyParsing, err)
	}
	return p, nil
}

// TaskFor renders the task description for one issue.
func (p *Policy) TaskFor(issueNumber int, repositoryURL string) string {
	return fmt.Sprintf(p.TaskTemplate, issueNumber, repositoryURL)
}
