package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonaustin/mimi/internal/ui"
)

// NewPlayCmd creates the play subcommand.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the game (the default)",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
}

func runPlay(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	model := ui.NewModel(a.engine, a.cfg.TickInterval, a.logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		a.logger.Error("game exited with an error", "err", err)
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
