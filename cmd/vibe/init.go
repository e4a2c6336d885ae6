package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibecodehq/vibe/internal/agent"
	"github.com/vibecodehq/vibe/internal/contextstore"
)

var (
	initForce           bool
	initSkipClaudeCheck bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a vibe project",
	Long: `Initialize a directory for use with vibe.

This command sets up everything needed:
  - Verifies the claude CLI is available (optional)
  - Creates the .vibe directory with the project database
  - Creates a .vibe.yaml configuration template

The directory argument is optional and defaults to the current directory.

Examples:
  vibe init                    # Initialize current directory
  vibe init ./myproject        # Initialize specific directory
  vibe init --force            # Reinitialize even if already set up
  vibe init --skip-claude-check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
	initCmd.Flags().BoolVar(&initSkipClaudeCheck, "skip-claude-check", false, "Skip claude CLI availability check")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing vibe in %s...\n\n", absPath)

	vibeDir := filepath.Join(absPath, ".vibe")
	if _, err := os.Stat(vibeDir); err == nil && !initForce {
		fmt.Println("Directory already initialized. Use --force to reinitialize.")
		return nil
	}

	if !initSkipClaudeCheck {
		if err := agent.CheckCLI(); err != nil {
			printStatus("!", "claude CLI not found (the cli agent will be unavailable)", color.FgYellow)
		} else {
			printStatus("+", "claude CLI found", color.FgGreen)
		}
	}

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("!", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("+", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	// Opening the store creates .vibe/ and runs the schema migrations.
	store, err := contextstore.OpenProject(absPath)
	if err != nil {
		return fmt.Errorf("creating project database: %w", err)
	}
	project := store.Project()
	if err := store.Close(); err != nil {
		return err
	}
	printStatus("+", "Created .vibe/state.db", color.FgGreen)

	if err := os.MkdirAll(filepath.Join(vibeDir, "workflows"), 0755); err != nil {
		return fmt.Errorf("creating workflows directory: %w", err)
	}
	printStatus("+", "Created .vibe/workflows", color.FgGreen)

	if err := createProjectConfig(absPath); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("+", "Created .vibe.yaml template", color.FgGreen)

	fmt.Printf("\n%s vibe initialization complete!\n\n", color.GreenString("+"))
	fmt.Println("Next steps:")
	fmt.Println("  1. Describe your project:")
	fmt.Println("     vibe context --tech go,sqlite")
	fmt.Println()
	fmt.Println("  2. Run a task:")
	fmt.Println("     vibe task \"your task here\"")
	fmt.Println("     # or: vibe (for interactive mode)")
	fmt.Println()
	fmt.Printf("Project name: %s\n", project)
	return nil
}

// createProjectConfig writes a .vibe.yaml template unless one exists.
func createProjectConfig(repoPath string) error {
	configPath := filepath.Join(repoPath, ".vibe.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	template := `# Vibe Project Configuration
# This file overrides defaults from ~/.config/vibe/config.yaml

# defaults:
#   model: claude-sonnet-4-5-20250929

# batch:
#   max_workers: 4

# timeouts:
#   step: 5m
#   cli: 5m

# budgets:
#   daily: 10.00
#   monthly: 100.00
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
