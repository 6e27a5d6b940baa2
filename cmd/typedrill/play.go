package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/typedrill/typedrill/internal/config"
	"github.com/typedrill/typedrill/internal/storage"
	"github.com/typedrill/typedrill/internal/storage/sqlite"
	"github.com/typedrill/typedrill/internal/trainer"
)

var (
	modeFlag   string
	noSaveFlag bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive training session",
	Long: `Start an interactive quiz session in the terminal.

Each item prints a prompt; type your answer, ? for a hint, or q to quit.
Finished sessions are saved so you can review them with "typedrill results".

Examples:
  typedrill play
  typedrill play --mode hard`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&modeFlag, "mode", "", "Difficulty mode: easy, hard or mixed (overrides config)")
	playCmd.Flags().BoolVar(&noSaveFlag, "no-save", false, "Don't persist the session result")
	rootCmd.AddCommand(playCmd)
}

// lineSource is the slice of readline.Instance the trainer needs.
type lineSource interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// rlReader adapts a readline instance to the trainer's input interface.
// Ctrl-C reads as EOF so an interrupt ends the session with a partial score
// instead of an error.
type rlReader struct {
	rl lineSource
}

func (r rlReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	return line, err
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applySandboxLimits(cfg)

	mode := resolveMode(modeFlag, cfg)
	if err := validMode(mode); err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	fmt.Printf("typedrill - Python Data Types Trainer\n")
	fmt.Printf("Mode: %s\n", mode)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Your answer: ",
		HistoryFile:     "/tmp/typedrill_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := catalog.Pool(mode, rng)

	session := trainer.New(rlReader{rl}, os.Stdout, mode)
	summary, err := session.Run(pool)
	if err != nil {
		return err
	}

	if noSaveFlag || summary.Answered == 0 {
		return nil
	}

	store, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	run := &storage.Run{
		ID:       uuid.New().String(),
		Mode:     summary.Mode,
		Score:    summary.Score,
		Total:    summary.Total,
		Answered: summary.Answered,
		Quit:     summary.Quit,
		Duration: summary.Duration,
	}
	answers := make([]storage.Answer, 0, len(summary.Answers))
	for _, a := range summary.Answers {
		answers = append(answers, storage.Answer{
			RunID:    run.ID,
			ItemID:   a.ItemID,
			Title:    a.Title,
			Level:    a.Level,
			Attempts: a.Attempts,
			Correct:  a.Correct,
		})
	}

	if err := store.SaveRun(context.Background(), run, answers); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	fmt.Printf("Saved as run %s\n", run.ID[:8])
	return nil
}

func validMode(mode string) error {
	switch mode {
	case "easy", "hard", "mixed":
		return nil
	}
	return fmt.Errorf("invalid mode %q (want easy, hard or mixed)", mode)
}
