package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportMarkdown renders a run and its answers as a markdown document.
func ExportMarkdown(run *Run, answers []Answer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Training run %s\n\n", run.ID[:8])
	fmt.Fprintf(&b, "- **Mode:** %s\n", run.Mode)
	fmt.Fprintf(&b, "- **Score:** %d/%d\n", run.Score, run.Total)
	fmt.Fprintf(&b, "- **Duration:** %s\n", run.Duration.Round(time.Second))
	fmt.Fprintf(&b, "- **Date:** %s\n", run.CreatedAt.Format(time.RFC3339))
	if run.Quit {
		fmt.Fprintf(&b, "- **Quit early** after %d of %d items\n", run.Answered, run.Total)
	}

	if len(answers) > 0 {
		b.WriteString("\n| Item | Level | Attempts | Result |\n")
		b.WriteString("|------|-------|----------|--------|\n")
		for _, a := range answers {
			result := "failed"
			if a.Correct {
				result = "passed"
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", a.Title, a.Level, a.Attempts, result)
		}
	}

	return b.String()
}

// ExportJSON renders a run and its answers as formatted JSON.
func ExportJSON(run *Run, answers []Answer) ([]byte, error) {
	export := struct {
		Run     *Run     `json:"run"`
		Answers []Answer `json:"answers"`
	}{
		Run:     run,
		Answers: answers,
	}
	return json.MarshalIndent(export, "", "  ")
}
