package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonaustin/mimi/internal/pet"
)

const barWidth = 10

// StatsModel is a simple Bubble Tea model for displaying a saved pet's stats
type StatsModel struct {
	State pet.State
	Max   int
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return RenderCard(m.State, m.Max) + "\nPress ESC, click, or any key to close..."
}

// RenderCard draws the boxed stats card used by the stats command
func RenderCard(st pet.State, statMax int) string {
	sleeping := "No"
	if st.Sleeping {
		sleeping = "Yes"
	}
	emoji := st.Stage.Emoji()

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════╗\n")
	s.WriteString(fmt.Sprintf("║  %s %-30s ║\n", emoji, st.Name))
	s.WriteString("╠════════════════════════════════════╣\n")
	s.WriteString(fmt.Sprintf("║  Stage:     %-22s ║\n", st.Stage.Name()))
	s.WriteString(fmt.Sprintf("║  Played:    %-22s ║\n", formatPlayTime(st.TotalPlayTimeMs)))
	s.WriteString(fmt.Sprintf("║  Sleeping:  %-22s ║\n", sleeping))
	s.WriteString("║                                    ║\n")
	s.WriteString(fmt.Sprintf("║  Hunger:    [%s] %3d      ║\n", statBar(st.Stats.Hunger, statMax), st.Stats.Hunger))
	s.WriteString(fmt.Sprintf("║  Happiness: [%s] %3d      ║\n", statBar(st.Stats.Happiness, statMax), st.Stats.Happiness))
	s.WriteString(fmt.Sprintf("║  Clean:     [%s] %3d      ║\n", statBar(st.Stats.Cleanliness, statMax), st.Stats.Cleanliness))
	s.WriteString("╚════════════════════════════════════╝\n")
	return s.String()
}

// DisplayStats shows the stats card until a key is pressed
func DisplayStats(st pet.State, statMax int) error {
	program := tea.NewProgram(StatsModel{State: st, Max: statMax}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running stats display: %w", err)
	}
	return nil
}

// statBar renders value out of statMax as a fixed-width bar
func statBar(value, statMax int) string {
	if statMax <= 0 {
		statMax = pet.MaxStat
	}
	filled := value * barWidth / statMax
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func formatPlayTime(ms int64) string {
	secs := ms / 1000
	if secs >= 3600 {
		return fmt.Sprintf("%dh %02dm", secs/3600, secs%3600/60)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}
