package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonaustin/mimi/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	sleep   lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(36),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(36),

	menu: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	sleep: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#8A8AFF")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	if m.Screen == screenTitle {
		return m.titleView()
	}
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	st := m.Engine.State()
	sections := []string{
		gameStyles.title.Render(st.Stage.Emoji() + " " + st.Name + " " + st.Stage.Emoji()),
		"",
		m.renderStats(st),
		"",
		gameStyles.status.Render("Status: " + pet.GetStatusWithLabel(st)),
	}

	if st.Sleeping {
		sections = append(sections, "", gameStyles.sleep.Render(st.Name+" is sleeping...\nfeed them to wake up!"))
	}

	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}

	helpText := "Use arrows to move • enter to select • q to quit"
	if m.Screen == screenFood {
		sections = append(sections, "", gameStyles.menu.Render("Choose Food"), m.renderMenu(m.foodOptions(), m.FoodChoice))
		helpText = "Use arrows to move • enter to feed • esc to go back"
	} else {
		sections = append(sections, "", m.renderMenu(gameMenuOptions, m.Choice))
	}

	sections = append(sections, "", gameStyles.status.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) titleView() string {
	sections := []string{
		gameStyles.title.Render("🐾 Mimi's Pets 🐾"),
		"",
		gameStyles.status.Render("Raise a kitten from a tiny egg."),
		"",
		m.renderMenu(m.titleOptions(), m.Choice),
		"",
		gameStyles.status.Render("Use arrows to move • enter to select • q to quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) activeMessage() string {
	if m.Message != "" && pet.TimeNow().Before(m.MessageExpires) {
		return m.Message
	}
	return ""
}

func (m Model) renderStats(st pet.State) string {
	statMax := m.Engine.Config().StatMax
	stats := []struct {
		name, value string
	}{
		{"Stage", st.Stage.Name()},
		{"Hunger", fmt.Sprintf("%s %3d", statBar(st.Stats.Hunger, statMax), st.Stats.Hunger)},
		{"Happy", fmt.Sprintf("%s %3d", statBar(st.Stats.Happiness, statMax), st.Stats.Happiness)},
		{"Clean", fmt.Sprintf("%s %3d", statBar(st.Stats.Cleanliness, statMax), st.Stats.Cleanliness)},
		{"Played", formatPlayTime(st.TotalPlayTimeMs)},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-8s %s", stat.name+":", stat.value))
	}
	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderMenu(choices []string, selected int) string {
	var menuItems []string
	for i, choice := range choices {
		cursor := " "
		if selected == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, choice))
	}
	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderAnimation() string {
	st := m.Engine.State()
	title := gameStyles.title.Render(st.Stage.Emoji() + " " + st.Name + " " + st.Stage.Emoji())

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(36).
		Align(lipgloss.Center)

	sections := []string{
		title,
		"",
		animStyle.Render(GetAnimationFrame(m.Animation)),
	}
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
