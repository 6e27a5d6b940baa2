package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/typedrill/typedrill/internal/config"
	"github.com/typedrill/typedrill/internal/quiz"
	"github.com/typedrill/typedrill/internal/sandbox"
)

var rootCmd = &cobra.Command{
	Use:   "typedrill",
	Short: "typedrill - Interactive Python data-types trainer",
	Long: `typedrill is an interactive trainer for Python's core data types.

It quizzes you on None, booleans, numbers, strings, collections, bytes and
ranges, and verifies your answers by evaluating them in a restricted
expression sandbox.`,
}

// applySandboxLimits installs the configured evaluation budgets before any
// checker runs.
func applySandboxLimits(cfg *config.Config) {
	if cfg.Sandbox.MaxSteps > 0 {
		sandbox.DefaultLimits.MaxSteps = cfg.Sandbox.MaxSteps
	}
	if cfg.Sandbox.MaxElems > 0 {
		sandbox.DefaultLimits.MaxElems = cfg.Sandbox.MaxElems
	}
}

// loadCatalog returns the item catalog, reading a custom YAML catalog when
// one is configured.
func loadCatalog(cfg *config.Config) (*quiz.Catalog, error) {
	if cfg.Quiz.CatalogPath != "" {
		return quiz.LoadCatalog(cfg.Quiz.CatalogPath)
	}
	return quiz.NewCatalog(), nil
}

func resolveMode(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Quiz.Mode
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
