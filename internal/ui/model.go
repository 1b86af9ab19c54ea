package ui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jonaustin/mimi/internal/pet"
)

type screen int

const (
	screenTitle screen = iota
	screenGame
	screenFood
)

var gameMenuOptions = []string{"Feed", "Pet", "Clean", "Quit"}

const (
	choiceFeed = iota
	choicePet
	choiceClean
	choiceQuit
)

// DefaultTickInterval is how often the engine is ticked when no interval is configured
const DefaultTickInterval = 100 * time.Millisecond

// Model is the bubbletea host around a pet engine
type Model struct {
	Engine         *pet.Engine
	Screen         screen
	Choice         int
	FoodChoice     int
	HasSave        bool
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation
	TickInterval   time.Duration

	lastPetAt  time.Time
	shownStage pet.Stage
	logger     *log.Logger

	// Shared across the value copies bubbletea makes of the model
	clock *clock
	inbox *inbox
}

type tickMsg time.Time
type autoSaveMsg time.Time
type animTickMsg struct {
	started time.Time
}

// clock converts wall time into the engine's millisecond host clock,
// which starts at 0 when the game screen is entered.
type clock struct {
	start time.Time
	last  int64
}

func (c *clock) reset(t time.Time) {
	c.start = t
	c.last = 0
}

func (c *clock) advance(t time.Time) (nowMs, deltaMs int64) {
	nowMs = t.Sub(c.start).Milliseconds()
	if nowMs < c.last {
		nowMs = c.last
	}
	deltaMs = nowMs - c.last
	c.last = nowMs
	return nowMs, deltaMs
}

// inbox collects engine notifications until the model gets to them
type inbox struct {
	events []pet.Event
}

func (b *inbox) push(e pet.Event) {
	b.events = append(b.events, e)
}

func (b *inbox) drain() []pet.Event {
	events := b.events
	b.events = nil
	return events
}

// NewModel creates the host model. The engine should not have been loaded yet;
// the title screen decides between a new game and continuing a save.
func NewModel(engine *pet.Engine, tickInterval time.Duration, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	hasSave, err := engine.HasSaveData()
	if err != nil {
		logger.Warn("could not check for save data", "err", err)
	}

	in := &inbox{}
	engine.Subscribe(in.push)

	return Model{
		Engine:       engine,
		Screen:       screenTitle,
		HasSave:      hasSave,
		TickInterval: tickInterval,
		logger:       logger,
		clock:        &clock{},
		inbox:        in,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.autoSave())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) autoSave() tea.Cmd {
	return tea.Tick(m.Engine.Config().AutoSaveInterval, func(t time.Time) tea.Msg {
		return autoSaveMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

func (m Model) inGame() bool {
	return m.Screen == screenGame || m.Screen == screenFood
}

func (m Model) titleOptions() []string {
	if m.HasSave {
		return []string{"New Game", "Continue"}
	}
	return []string{"New Game"}
}

func (m Model) foodOptions() []string {
	return append(m.Engine.Config().FoodNames(), "Back")
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m.quit()
		}

		// While an animation is playing, ignore everything but quit
		if m.Animation.Type != AnimNone {
			return m, nil
		}

		switch m.Screen {
		case screenTitle:
			return m.updateTitle(msg)
		case screenFood:
			return m.updateFood(msg)
		default:
			return m.updateGame(msg)
		}

	case tickMsg:
		if !m.inGame() {
			return m, m.tick()
		}
		nowMs, deltaMs := m.clock.advance(time.Time(msg))
		if err := m.Engine.Tick(nowMs, deltaMs); err != nil {
			m.persistFailed(err)
		}
		cmd := m.handleEvents()
		return m, tea.Batch(m.tick(), cmd)

	case autoSaveMsg:
		if m.inGame() {
			m.save()
		}
		return m, m.autoSave()

	case tea.BlurMsg:
		if m.inGame() {
			m.save()
		}
		return m, nil

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}
		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

func (m Model) updateTitle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.titleOptions()
	switch msg.String() {
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(options)-1 {
			m.Choice++
		}
	case "enter", " ":
		if options[m.Choice] == "Continue" {
			m.continueGame()
		} else {
			m.newGame()
		}
		m.startGame()
		// Loading or resetting announces the whole state, which the
		// first frame shows anyway
		m.inbox.drain()
		return m, nil
	}
	return m, nil
}

func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(gameMenuOptions)-1 {
			m.Choice++
		}
	case "enter", " ":
		switch m.Choice {
		case choiceFeed:
			m.Screen = screenFood
			m.FoodChoice = 0
		case choicePet:
			if m.stroke() {
				cmd := m.afterAction()
				return m, cmd
			}
		case choiceClean:
			if m.clean() {
				cmd := m.afterAction()
				return m, cmd
			}
		case choiceQuit:
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) updateFood(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.foodOptions()
	switch msg.String() {
	case "esc":
		m.Screen = screenGame
	case "up", "k":
		if m.FoodChoice > 0 {
			m.FoodChoice--
		}
	case "down", "j":
		if m.FoodChoice < len(options)-1 {
			m.FoodChoice++
		}
	case "enter", " ":
		m.Screen = screenGame
		if m.FoodChoice == len(options)-1 {
			return m, nil
		}
		if m.feed(options[m.FoodChoice]) {
			cmd := m.afterAction()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.inGame() {
		m.save()
	}
	m.Quitting = true
	return m, tea.Quit
}

func (m *Model) startGame() {
	m.Screen = screenGame
	m.Choice = 0
	m.shownStage = m.Engine.State().Stage
	m.clock.reset(pet.TimeNow())
}

func (m *Model) newGame() {
	if err := m.Engine.Reset(); err != nil {
		m.persistFailed(err)
		return
	}
	m.setMessage("🥚 A new egg! Take good care of it.")
}

func (m *Model) continueGame() {
	loaded, err := m.Engine.Load()
	switch {
	case pet.IsCorruptSave(err):
		m.logger.Warn("save data is corrupt, starting over", "err", err)
		if err := m.Engine.Reset(); err != nil {
			m.persistFailed(err)
			return
		}
		m.setMessage("⚠️ Save data was corrupt. Starting fresh.")
	case err != nil:
		m.persistFailed(err)
	case !loaded:
		m.setMessage("No save found. Starting fresh.")
	default:
		m.setMessage(fmt.Sprintf("Welcome back, %s!", m.Engine.State().Name))
	}
}

func (m *Model) save() {
	if err := m.Engine.Save(); err != nil {
		m.persistFailed(err)
		return
	}
	m.logger.Debug("auto-saved")
}

func (m *Model) persistFailed(err error) {
	m.logger.Error("persistence failed", "err", err)
	m.setMessage("⚠️ Could not save your progress")
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = pet.TimeNow().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: pet.TimeNow(),
	}
}

func (m *Model) feed(food string) bool {
	wasSleeping := m.Engine.State().Sleeping
	err := m.Engine.Feed(food)
	if pet.IsInvalidArgument(err) {
		m.logger.Warn("refused food", "food", food, "err", err)
		m.setMessage("🤔 " + m.Engine.State().Name + " doesn't know that food")
		return false
	}

	if wasSleeping {
		m.setMessage(fmt.Sprintf("😺 %s woke up for some %s!", m.Engine.State().Name, food))
	} else {
		m.setMessage("🍖 Yum!")
	}
	if err != nil {
		m.persistFailed(err)
	}
	m.startAnimation(AnimFeed)
	m.Animation.Food = food
	return true
}

func (m *Model) stroke() bool {
	st := m.Engine.State()
	if st.Sleeping {
		m.setMessage("💤 Shh... " + st.Name + " is sleeping")
		return false
	}
	now := pet.TimeNow()
	if !m.lastPetAt.IsZero() && now.Sub(m.lastPetAt) < m.Engine.Config().PetCooldown {
		return false
	}
	m.lastPetAt = now

	m.setMessage("💕 Purrr...")
	if err := m.Engine.Pet(); err != nil {
		m.persistFailed(err)
	}
	m.startAnimation(AnimPet)
	return true
}

func (m *Model) clean() bool {
	st := m.Engine.State()
	if st.Sleeping {
		m.setMessage("💤 Let " + st.Name + " sleep first")
		return false
	}

	m.setMessage("✨ Squeaky clean!")
	if err := m.Engine.Clean(); err != nil {
		m.persistFailed(err)
	}
	m.startAnimation(AnimClean)
	return true
}

// afterAction starts the action animation, letting any notification the
// action raised take over the screen.
func (m *Model) afterAction() tea.Cmd {
	if cmd := m.handleEvents(); cmd != nil {
		return cmd
	}
	return animTick(m.Animation.StartTime)
}

// handleEvents turns queued engine notifications into messages and animations
func (m *Model) handleEvents() tea.Cmd {
	animated := false
	for _, ev := range m.inbox.drain() {
		switch ev := ev.(type) {
		case pet.Evolved:
			m.setMessage(fmt.Sprintf("✨ %s evolved into %s %s! ✨", m.Engine.State().Name, article(ev.Stage.Name()), ev.Stage.Name()))
			m.startAnimation(AnimEvolve)
			m.Animation.From, m.Animation.To = m.shownStage, ev.Stage
			m.shownStage = ev.Stage
			animated = true
		case pet.SleepChanged:
			if ev.Sleeping {
				m.setMessage(fmt.Sprintf("😴 %s is too hungry and fell asleep", m.Engine.State().Name))
				m.startAnimation(AnimSleep)
				animated = true
			}
		}
	}
	if animated {
		return animTick(m.Animation.StartTime)
	}
	return nil
}

func article(word string) string {
	switch word[0] {
	case 'A', 'E', 'I', 'O', 'U':
		return "an"
	}
	return "a"
}
