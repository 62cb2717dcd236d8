package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/session"
	"waveline/internal/tui"
	"waveline/internal/tui/config"
	"waveline/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		fmt.Println("Using default configuration...")
		cfg = config.Default()
	}

	// Logs go to stderr; the TUI owns stdout
	logger.Init(cfg.Log)

	// Open the local session store
	dbPath, err := session.DefaultPath()
	if err != nil {
		fmt.Printf("Error resolving session path: %v\n", err)
		os.Exit(1)
	}
	store, err := session.Open(dbPath)
	if err != nil {
		fmt.Printf("Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Create TUI application
	app := tui.New(cfg, store)

	// Run the Bubble Tea program
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
