package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/typedrill/typedrill/internal/config"
	"github.com/typedrill/typedrill/internal/storage"
	"github.com/typedrill/typedrill/internal/storage/sqlite"
)

var (
	modeFilter   string
	limitFlag    int
	exportFormat string
	exportOutput string
	forceFlag    bool
)

var resultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"result", "r"},
	Short:   "Manage saved training runs",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE:  runResultsList,
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show run details and per-item outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsShow,
}

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsDelete,
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run as markdown or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsExport,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd, resultsShowCmd, resultsDeleteCmd, resultsExportCmd)

	resultsListCmd.Flags().StringVar(&modeFilter, "mode", "", "Filter by mode (easy, hard, mixed)")
	resultsListCmd.Flags().IntVar(&limitFlag, "limit", 20, "Max runs to show")

	resultsExportCmd.Flags().StringVar(&exportFormat, "format", "md", "Export format: md or json")
	resultsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	resultsDeleteCmd.Flags().BoolVar(&forceFlag, "force", false, "Skip confirmation")
}

func openStore() (storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return sqlite.Open(cfg.Storage.DBPath)
}

func runResultsList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := storage.RunListOptions{
		Mode:  modeFilter,
		Limit: limitFlag,
	}

	runs, err := store.ListRuns(context.Background(), opts)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	// Header
	fmt.Printf("%-10s %-7s %-7s %-10s %s\n", "ID", "MODE", "SCORE", "DURATION", "WHEN")
	fmt.Println(strings.Repeat("─", 50))

	for _, r := range runs {
		score := fmt.Sprintf("%d/%d", r.Score, r.Total)
		if r.Quit {
			score += "*"
		}
		fmt.Printf("%-10s %-7s %-7s %-10s %s\n",
			r.ID[:8], r.Mode, score, r.Duration.Round(time.Second), timeAgo(r.CreatedAt))
	}
	fmt.Println("\n(* = quit early)")

	return nil
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Mode:     %s\n", run.Mode)
	fmt.Printf("Score:    %d/%d\n", run.Score, run.Total)
	fmt.Printf("Duration: %s\n", run.Duration.Round(time.Second))
	fmt.Printf("Date:     %s\n", run.CreatedAt.Format(time.RFC3339))
	if run.Quit {
		fmt.Printf("Quit early after %d items\n", run.Answered)
	}

	answers, err := store.ListAnswers(ctx, run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("\nItems: %d\n", len(answers))
	fmt.Println(strings.Repeat("─", 60))

	for _, a := range answers {
		mark := "\033[31m✗\033[0m"
		if a.Correct {
			mark = "\033[32m✓\033[0m"
		}
		attempts := ""
		if a.Attempts > 1 {
			attempts = fmt.Sprintf(" (%d attempts)", a.Attempts)
		}
		fmt.Printf(" %s %-6s %s%s\n", mark, a.Level, a.Title, attempts)
	}

	return nil
}

func runResultsDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return err
	}

	if !forceFlag {
		fmt.Printf("Delete run %s (%d/%d, %s)? [y/N] ", run.ID[:8], run.Score, run.Total, run.Mode)
		var confirm string
		fmt.Scanln(&confirm)
		if strings.ToLower(confirm) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.DeleteRun(ctx, run.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", run.ID[:8])
	return nil
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return err
	}

	answers, err := store.ListAnswers(ctx, run.ID)
	if err != nil {
		return err
	}

	var output string
	switch exportFormat {
	case "json":
		data, err := storage.ExportJSON(run, answers)
		if err != nil {
			return err
		}
		output = string(data)
	default:
		output = storage.ExportMarkdown(run, answers)
	}

	if exportOutput != "" {
		return os.WriteFile(exportOutput, []byte(output), 0o644)
	}

	fmt.Print(output)
	return nil
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
