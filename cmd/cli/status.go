package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelpilot/labelpilot/internal/core"
)

var outputJSON bool

type repositoryStatusResponse struct {
	Repository string                        `json:"repository"`
	Statuses   map[int]core.AutomationRecord `json:"automation_statuses"`
}

var statusCmd = &cobra.Command{
	Use:   "status [owner/repo]",
	Short: "Shows the automation status of every tracked issue in a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		url := fmt.Sprintf("%s/automation-status/%s", serverURL, args[0])
		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("failed to reach LabelPilot server: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s", resp.Status)
		}

		var body repositoryStatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode server response: %w", err)
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(body)
		}

		if len(body.Statuses) == 0 {
			fmt.Printf("No automation jobs tracked for %s.\n", body.Repository)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ISSUE\tSTATUS\tSTARTED\tCOMPLETED\tERROR")
		for issue, record := range body.Statuses {
			fmt.Fprintf(w, "#%d\t%s\t%s\t%s\t%s\n",
				issue,
				colorizeStatus(record.Status),
				formatTime(record.StartedAt),
				formatTime(record.CompletedAt),
				deref(record.ErrorMessage),
			)
		}
		return w.Flush()
	},
}

func colorizeStatus(s core.Status) string {
	switch s {
	case core.StatusCompleted:
		return successColor.Sprint(string(s))
	case core.StatusFailed:
		return errorColor.Sprint(string(s))
	case core.StatusRunning:
		return warnColor.Sprint(string(s))
	default:
		return dimColor.Sprint(string(s))
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC822)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}
