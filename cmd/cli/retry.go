package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/labelpilot/labelpilot/internal/core"
)

var retryUserID string

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var retryCmd = &cobra.Command{
	Use:   "retry [owner/repo] [issue]",
	Short: "Re-runs the automation job for one issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		issue, err := strconv.Atoi(args[1])
		if err != nil || issue <= 0 {
			return fmt.Errorf("issue must be a positive number, got %q", args[1])
		}

		url := fmt.Sprintf("%s/automation-status/%s/%d/retry", serverURL, args[0], issue)
		if retryUserID != "" {
			url += "?user_id=" + retryUserID
		}

		resp, err := http.Post(url, "application/json", nil)
		if err != nil {
			return fmt.Errorf("failed to reach LabelPilot server: %w", err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			successColor.Printf("Retry accepted for %s#%d\n", args[0], issue)
			dimColor.Printf("   Run 'labelpilot-cli status %s' to follow progress\n", args[0])
			return nil
		case http.StatusConflict:
			errorColor.Println("A job for this issue is already queued or running")
			return nil
		case http.StatusServiceUnavailable:
			var body struct {
				Detail string `json:"detail"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&body)
			if body.Detail == "" {
				body.Detail = core.ErrQueueFull.Error()
			}
			errorColor.Println(body.Detail)
			return nil
		default:
			return fmt.Errorf("server returned %s", resp.Status)
		}
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	retryCmd.Flags().StringVarP(&retryUserID, "user", "u", "", "Local user whose GitHub credential the job should use")
	rootCmd.AddCommand(retryCmd)
}
