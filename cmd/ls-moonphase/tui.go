package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse months of phases interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	start, err := parseDate(dateFlag, time.Now())
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	log.SetOutput(io.Discard)

	provider := ephem.New(cfg.EphemerisMode())
	model := ui.New(lunar.NewResolver(lunar.NewLocator(provider)), provider.Name(), start)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
