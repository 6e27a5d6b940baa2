package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedrill/typedrill/internal/config"
)

var levelFilter string

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the quiz items in the catalog",
	RunE:  runItemsList,
}

var itemsShowCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show one item's prompt and hint",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsShow,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsShowCmd)

	itemsCmd.Flags().StringVar(&levelFilter, "level", "", "Filter by level (easy, hard)")
}

func runItemsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	fmt.Printf("%-22s %-6s %s\n", "ID", "LEVEL", "TITLE")
	fmt.Println(strings.Repeat("─", 70))

	count := 0
	for _, it := range catalog.Items() {
		if levelFilter != "" && string(it.Level) != levelFilter {
			continue
		}
		fmt.Printf("%-22s %-6s %s\n", it.ID, it.Level, it.Title)
		count++
	}
	fmt.Printf("\n%d items\n", count)
	return nil
}

func runItemsShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	item, err := catalog.ByID(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Item:  %s\n", item.ID)
	fmt.Printf("Title: %s\n", item.Title)
	fmt.Printf("Level: %s\n", item.Level)
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(item.Prompt)
	fmt.Printf("\nHint: %s\n", item.Hint)
	return nil
}

