package pet

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/jonaustin/mimi/internal/store"
)

// Engine owns the pet's state and is the only thing that mutates it.
//
// The engine does not schedule itself: the host calls Tick on a steady cadence
// and Save on its auto-save cadence, and must serialize all calls.
type Engine struct {
	cfg    Config
	store  store.Store
	logger *log.Logger
	bus    bus

	state State

	// Host-clock milliseconds; the host clock starts at 0
	lastHungerDecayAt      int64
	lastCleanlinessDecayAt int64
	lastTickAt             int64
}

// NewEngine creates an engine holding a fresh egg. A nil logger discards output.
func NewEngine(cfg Config, st store.Store, logger *log.Logger, listeners ...Listener) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{
		cfg:    cfg,
		store:  st,
		logger: logger,
	}
	for _, l := range listeners {
		e.bus.subscribe(l)
	}
	e.state = e.freshState()
	return e
}

func (e *Engine) freshState() State {
	return State{
		Name:  e.cfg.Name,
		Stats: e.cfg.DefaultStats,
		Stage: StageEgg,
	}
}

// Subscribe registers a listener and returns a function that removes it
func (e *Engine) Subscribe(l Listener) func() {
	return e.bus.subscribe(l)
}

// State returns a snapshot of the simulation state
func (e *Engine) State() State {
	return e.state
}

// Config returns the tuning the engine runs with
func (e *Engine) Config() Config {
	return e.cfg
}

// Tick advances the simulation to host time nowMs, deltaMs after the previous tick.
// The returned error is only ever a persistence failure from an automatic save;
// the in-memory state has advanced regardless.
func (e *Engine) Tick(nowMs, deltaMs int64) error {
	// Sleep pauses the simulation clock: slide the decay timers along so the
	// slept span never counts as elapsed once the pet wakes.
	if e.state.Sleeping {
		if gap := nowMs - e.lastTickAt; gap > 0 {
			e.lastHungerDecayAt += gap
			e.lastCleanlinessDecayAt += gap
		}
		e.lastTickAt = nowMs
		return nil
	}
	e.lastTickAt = nowMs

	played := max(deltaMs, 0)
	e.state.TotalPlayTimeMs += played

	// A long tick can cover the moment hunger runs out. Everything after
	// sleepAt is slept time and must not decay anything.
	sleepAt := nowMs
	interval := e.cfg.DecayInterval.Milliseconds()
	if n := elapsedIntervals(nowMs, e.lastHungerDecayAt, interval); n > 0 {
		if k := e.intervalsUntilStarved(); k > 0 && k <= n {
			n = k
			sleepAt = e.lastHungerDecayAt + k*interval
		}
		s := &e.state.Stats
		s.Hunger = e.clampStat(s.Hunger - int(n)*e.cfg.DecayRates.Hunger)
		s.Happiness = e.clampStat(s.Happiness - int(n)*e.cfg.DecayRates.Happiness)
		e.lastHungerDecayAt += n * interval
		e.bus.publish(StatsChanged{Stats: *s})
	}

	cleanInterval := e.cfg.CleanlinessDecayInterval.Milliseconds()
	if n := elapsedIntervals(sleepAt, e.lastCleanlinessDecayAt, cleanInterval); n > 0 {
		s := &e.state.Stats
		s.Cleanliness = e.clampStat(s.Cleanliness - int(n)*e.cfg.DecayRates.Cleanliness)
		e.lastCleanlinessDecayAt += n * cleanInterval
		e.bus.publish(StatsChanged{Stats: *s})
	}

	var errs []error
	if e.state.Stats.Hunger <= e.cfg.StatMin {
		if slept := nowMs - sleepAt; slept > 0 {
			e.lastHungerDecayAt += slept
			e.lastCleanlinessDecayAt += slept
			e.state.TotalPlayTimeMs -= min(slept, played)
		}
		errs = append(errs, e.enterSleep())
	}
	errs = append(errs, e.checkEvolution())
	return errors.Join(errs...)
}

// elapsedIntervals counts whole intervals between last and now
func elapsedIntervals(now, last, interval int64) int64 {
	if interval <= 0 || now-last < interval {
		return 0
	}
	return (now - last) / interval
}

// intervalsUntilStarved counts the hunger intervals it takes for hunger to
// reach StatMin, or 0 if it is already there or never gets there
func (e *Engine) intervalsUntilStarved() int64 {
	rate := e.cfg.DecayRates.Hunger
	above := e.state.Stats.Hunger - e.cfg.StatMin
	if rate <= 0 || above <= 0 {
		return 0
	}
	return int64((above + rate - 1) / rate)
}

func (e *Engine) clampStat(v int) int {
	return clamp(v, e.cfg.StatMin, e.cfg.StatMax)
}

// Feed gives the pet a food from the food table, waking it first if asleep
func (e *Engine) Feed(food string) error {
	nutrition, ok := e.cfg.Foods[food]
	if !ok {
		return ErrUnknownFood(food)
	}

	if e.state.Sleeping {
		e.exitSleep()
	}

	s := &e.state.Stats
	s.Hunger = e.clampStat(s.Hunger + nutrition.Hunger)
	if nutrition.Happiness != 0 {
		s.Happiness = e.clampStat(s.Happiness + nutrition.Happiness)
	}
	e.logger.Debug("fed pet", "food", food, "hunger", s.Hunger, "happiness", s.Happiness)
	e.bus.publish(StatsChanged{Stats: *s})
	return e.Save()
}

// Pet raises happiness. The engine allows this while sleeping; hosts decide
// whether to offer it.
func (e *Engine) Pet() error {
	s := &e.state.Stats
	s.Happiness = e.clampStat(s.Happiness + e.cfg.PetBonus)
	e.logger.Debug("petted pet", "happiness", s.Happiness)
	e.bus.publish(StatsChanged{Stats: *s})
	return e.Save()
}

// Clean restores cleanliness to the maximum
func (e *Engine) Clean() error {
	e.state.Stats.Cleanliness = e.cfg.StatMax
	e.logger.Debug("cleaned pet")
	e.bus.publish(StatsChanged{Stats: e.state.Stats})
	return e.Save()
}

func (e *Engine) enterSleep() error {
	e.state.Sleeping = true
	e.state.Stats.Hunger = e.cfg.StatMin
	e.logger.Info("pet fell asleep from hunger", "name", e.state.Name)
	e.bus.publish(SleepChanged{Sleeping: true})
	return e.Save()
}

func (e *Engine) exitSleep() {
	e.state.Sleeping = false
	e.logger.Info("pet woke up", "name", e.state.Name)
	e.bus.publish(SleepChanged{Sleeping: false})
}

// StageFor returns the highest stage whose threshold playMs has reached
func (c Config) StageFor(playMs int64) Stage {
	switch {
	case playMs >= c.Evolution.Adult.Milliseconds():
		return StageAdult
	case playMs >= c.Evolution.Kitten.Milliseconds():
		return StageKitten
	default:
		return StageEgg
	}
}

func (e *Engine) checkEvolution() error {
	next := e.cfg.StageFor(e.state.TotalPlayTimeMs)
	if next <= e.state.Stage {
		return nil
	}
	prev := e.state.Stage
	e.state.Stage = next
	e.logger.Info("pet evolved", "from", prev, "to", next, "play_time", e.state.PlayTime())
	e.bus.publish(Evolved{Stage: next})
	return e.Save()
}

// Reset starts over with a fresh egg and removes the saved record
func (e *Engine) Reset() error {
	e.replaceState(e.freshState())

	if err := e.store.Delete(SaveKey); err != nil {
		e.logger.Error("failed to clear save", "err", err)
		return ErrPersistence("clear save", err)
	}
	e.logger.Info("started a new pet", "name", e.state.Name)
	return nil
}

// replaceState swaps in st wholesale and tells listeners what changed.
// Stats are always announced so subscribers redraw.
func (e *Engine) replaceState(st State) {
	prev := e.state
	e.state = st
	if prev.Sleeping != st.Sleeping {
		e.bus.publish(SleepChanged{Sleeping: st.Sleeping})
	}
	if prev.Stage != st.Stage {
		e.bus.publish(StageReplaced{Stage: st.Stage})
	}
	e.bus.publish(StatsChanged{Stats: st.Stats})
}

// Load adopts a previously saved state. It reports false with no error when
// there is no save. A corrupt record is rejected whole and leaves the engine untouched.
func (e *Engine) Load() (bool, error) {
	data, err := e.store.Get(SaveKey)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		e.logger.Error("failed to read save", "err", err)
		return false, ErrPersistence("load", err)
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		e.logger.Warn("save data is corrupt", "err", err)
		return false, ErrCorruptSave(err)
	}

	st := rec.State()
	if st.Name == "" {
		st.Name = e.cfg.Name
	}
	e.replaceState(st)
	e.logger.Info("loaded pet", "name", st.Name, "stage", st.Stage, "last_saved", rec.LastSaved)
	return true, nil
}

// Save writes the current state. A failed write leaves memory untouched.
func (e *Engine) Save() error {
	data, err := EncodeRecord(NewRecord(e.state, TimeNow()))
	if err != nil {
		return ErrPersistence("encode", err)
	}
	if err := e.store.Set(SaveKey, data); err != nil {
		e.logger.Error("failed to save", "err", err)
		return ErrPersistence("save", err)
	}
	return nil
}

// HasSaveData reports whether a save record exists
func (e *Engine) HasSaveData() (bool, error) {
	return HasSaveData(e.store)
}

// HasSaveData reports whether st holds a save record
func HasSaveData(st store.Store) (bool, error) {
	_, err := st.Get(SaveKey)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, ErrPersistence("check save", err)
	}
	return true, nil
}
