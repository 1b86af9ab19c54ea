package pet

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonaustin/mimi/internal/store"
)

// recorder collects engine events in order
type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) count(match func(Event) bool) int {
	n := 0
	for _, ev := range r.events {
		if match(ev) {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.events = nil }

// flakyStore is a memory store whose writes can be switched off
type flakyStore struct {
	*store.Memory
	failWrites bool
}

var errWritesOff = errors.New("writes switched off")

func (f *flakyStore) Set(key string, value []byte) error {
	if f.failWrites {
		return errWritesOff
	}
	return f.Memory.Set(key, value)
}

func (f *flakyStore) Delete(key string) error {
	if f.failWrites {
		return errWritesOff
	}
	return f.Memory.Delete(key)
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *flakyStore, *recorder) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	mem := &flakyStore{Memory: store.NewMemory()}
	rec := &recorder{}
	return NewEngine(cfg, mem, nil, rec.listen), mem, rec
}

// mockTimeNow sets a fixed time for deterministic tests and auto-restores after test
func mockTimeNow(t *testing.T) time.Time {
	originalTimeNow := TimeNow
	currentTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	TimeNow = func() time.Time { return currentTime }
	t.Cleanup(func() { TimeNow = originalTimeNow })
	return currentTime
}

// runTicks drives the engine from `from` to `to` in steps of `step` ms
func runTicks(t *testing.T, e *Engine, from, to, step int64) {
	t.Helper()
	prev := from
	for now := from + step; prev < to; now += step {
		if now > to {
			now = to
		}
		require.NoError(t, e.Tick(now, now-prev))
		prev = now
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())
	s := e.State()

	assert.Equal(t, DefaultPetName, s.Name)
	assert.Equal(t, Stats{Hunger: 80, Happiness: 80, Cleanliness: 80}, s.Stats)
	assert.Equal(t, StageEgg, s.Stage)
	assert.Zero(t, s.TotalPlayTimeMs)
	assert.False(t, s.Sleeping)
}

func TestIndependentDecayTimers(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig())

	require.NoError(t, e.Tick(31000, 31000))

	s := e.State()
	assert.Equal(t, 80-3*HungerDecayRate, s.Stats.Hunger, "3 hunger decrements")
	assert.Equal(t, 80-3*HappinessDecayRate, s.Stats.Happiness, "3 happiness decrements")
	assert.Equal(t, 80-2*CleanlinessDecayRate, s.Stats.Cleanliness, "2 cleanliness decrements")
	assert.Equal(t, int64(31000), s.TotalPlayTimeMs)
	assert.Equal(t, 2, rec.count(func(ev Event) bool { _, ok := ev.(StatsChanged); return ok }))
}

func TestDecayIndependentOfTickCadence(t *testing.T) {
	want := Stats{Hunger: 80 - 3*2, Happiness: 80 - 3, Cleanliness: 80 - 2}

	for _, step := range []int64{16, 33, 100, 250, 1000, 7000, 31000} {
		t.Run(time.Duration(step*int64(time.Millisecond)).String(), func(t *testing.T) {
			e, _, _ := newTestEngine(t, DefaultConfig())
			runTicks(t, e, 0, 31000, step)

			assert.Equal(t, want, e.State().Stats)
			assert.Equal(t, int64(31000), e.State().TotalPlayTimeMs)
		})
	}
}

func TestNoDecayBeforeInterval(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig())

	require.NoError(t, e.Tick(9999, 9999))

	assert.Equal(t, DefaultConfig().DefaultStats, e.State().Stats)
	assert.Empty(t, rec.events)
}

func TestSleepTrigger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Tick(10000, 10000))

	s := e.State()
	assert.Equal(t, 0, s.Stats.Hunger)
	assert.True(t, s.Sleeping, "pet should fall asleep on the tick hunger hits zero")
	require.Len(t, rec.events, 2)
	assert.IsType(t, StatsChanged{}, rec.events[0])
	assert.Equal(t, SleepChanged{Sleeping: true}, rec.events[1])

	ok, err := e.HasSaveData()
	require.NoError(t, err)
	assert.True(t, ok, "falling asleep is persisted")
}

func TestSleepPausesSimulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Tick(10000, 10000))
	require.True(t, e.State().Sleeping)
	asleep := e.State()
	rec.reset()

	for now := int64(20000); now <= 100000; now += 10000 {
		require.NoError(t, e.Tick(now, 10000))
		assert.Equal(t, asleep, e.State(), "tick at %d changed a sleeping pet", now)
	}
	assert.Empty(t, rec.events)
}

func TestWakeOnFeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Tick(10000, 10000))
	for now := int64(20000); now <= 100000; now += 10000 {
		require.NoError(t, e.Tick(now, 10000))
	}
	rec.reset()

	require.NoError(t, e.Feed(FoodKibble))

	s := e.State()
	assert.False(t, s.Sleeping)
	assert.Equal(t, 20, s.Stats.Hunger)
	require.Len(t, rec.events, 2)
	assert.Equal(t, SleepChanged{Sleeping: false}, rec.events[0], "wake happens before nutrition")
	assert.Equal(t, StatsChanged{Stats: s.Stats}, rec.events[1])

	// Slept time does not count toward decay: one interval of awake time
	// later exactly one decrement applies.
	require.NoError(t, e.Tick(110000, 10000))
	s = e.State()
	assert.Equal(t, 18, s.Stats.Hunger)
	assert.Equal(t, 78, s.Stats.Happiness)
	assert.Equal(t, 79, s.Stats.Cleanliness)
	assert.Equal(t, int64(20000), s.TotalPlayTimeMs)
}

func TestLongTickStopsDecayAtSleep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 4
	e, _, _ := newTestEngine(t, cfg)

	// Hunger runs out at 20000; the last 11000 ms are slept
	require.NoError(t, e.Tick(31000, 31000))

	s := e.State()
	assert.True(t, s.Sleeping)
	assert.Equal(t, 0, s.Stats.Hunger)
	assert.Equal(t, 78, s.Stats.Happiness)
	assert.Equal(t, 79, s.Stats.Cleanliness)
	assert.Equal(t, int64(20000), s.TotalPlayTimeMs)

	require.NoError(t, e.Feed(FoodKibble))
	require.NoError(t, e.Tick(41000, 10000))

	s = e.State()
	assert.Equal(t, 18, s.Stats.Hunger)
	assert.Equal(t, 77, s.Stats.Happiness)
	assert.Equal(t, 78, s.Stats.Cleanliness, "awake time before and after sleeping adds up to one interval")
	assert.Equal(t, int64(30000), s.TotalPlayTimeMs)
}

func TestFeed(t *testing.T) {
	tests := []struct {
		name          string
		food          string
		hunger        int
		happiness     int
		wantHunger    int
		wantHappiness int
	}{
		{"kibble", FoodKibble, 50, 50, 70, 50},
		{"fish", FoodFish, 50, 50, 85, 50},
		{"treat adds happiness", FoodTreat, 50, 50, 65, 60},
		{"hunger clamps at max", FoodFish, 90, 50, 100, 50},
		{"happiness clamps at max", FoodTreat, 10, 95, 25, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DefaultStats.Hunger = tt.hunger
			cfg.DefaultStats.Happiness = tt.happiness
			e, mem, _ := newTestEngine(t, cfg)

			require.NoError(t, e.Feed(tt.food))

			assert.Equal(t, tt.wantHunger, e.State().Stats.Hunger)
			assert.Equal(t, tt.wantHappiness, e.State().Stats.Happiness)
			_, err := mem.Get(SaveKey)
			assert.NoError(t, err, "feeding persists")
		})
	}
}

func TestFeedUnknownFood(t *testing.T) {
	e, mem, rec := newTestEngine(t, DefaultConfig())
	before := e.State()

	err := e.Feed("lasagna")

	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, before, e.State())
	assert.Empty(t, rec.events)
	_, err = mem.Get(SaveKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFeedUnknownFoodKeepsSleep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, _, _ := newTestEngine(t, cfg)
	require.NoError(t, e.Tick(10000, 10000))

	require.Error(t, e.Feed("stone"))
	assert.True(t, e.State().Sleeping)
}

func TestPet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Happiness = 97
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Pet())
	assert.Equal(t, 100, e.State().Stats.Happiness)
	require.NoError(t, e.Pet())
	assert.Equal(t, 100, e.State().Stats.Happiness)
	assert.Len(t, rec.events, 2)
}

func TestPetWhileSleepingIsAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, _, _ := newTestEngine(t, cfg)
	require.NoError(t, e.Tick(10000, 10000))
	happiness := e.State().Stats.Happiness

	require.NoError(t, e.Pet())

	assert.True(t, e.State().Sleeping, "petting does not wake the pet")
	assert.Equal(t, happiness+PetBonus, e.State().Stats.Happiness)
}

func TestClean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Cleanliness = 3
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Clean())

	assert.Equal(t, MaxStat, e.State().Stats.Cleanliness)
	require.Len(t, rec.events, 1)
	assert.Equal(t, StatsChanged{Stats: e.State().Stats}, rec.events[0])
}

func TestEvolutionToKitten(t *testing.T) {
	e, mem, rec := newTestEngine(t, DefaultConfig())
	evolved := func(ev Event) bool { _, ok := ev.(Evolved); return ok }

	runTicks(t, e, 0, 119000, 1000)
	assert.Equal(t, StageEgg, e.State().Stage)
	assert.Zero(t, rec.count(evolved))

	require.NoError(t, e.Tick(120000, 1000))
	assert.Equal(t, int64(120000), e.State().TotalPlayTimeMs)
	assert.Equal(t, StageKitten, e.State().Stage)
	assert.Equal(t, 1, rec.count(evolved))
	assert.Contains(t, rec.events, Event(Evolved{Stage: StageKitten}))

	// Persisted immediately
	data, err := mem.Get(SaveKey)
	require.NoError(t, err)
	saved, err := DecodeRecord(data)
	require.NoError(t, err)
	assert.Equal(t, StageKitten, saved.Stage)

	runTicks(t, e, 120000, 130000, 1000)
	assert.Equal(t, 1, rec.count(evolved), "evolution fires once per stage")
}

func TestEvolutionToAdult(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayRates = DecayRates{} // keep the pet awake for ten minutes
	e, _, rec := newTestEngine(t, cfg)

	runTicks(t, e, 0, 600000, 5000)

	assert.Equal(t, StageAdult, e.State().Stage)
	var stages []Stage
	for _, ev := range rec.events {
		if evo, ok := ev.(Evolved); ok {
			stages = append(stages, evo.Stage)
		}
	}
	assert.Equal(t, []Stage{StageKitten, StageAdult}, stages)
}

func TestEvolutionSkipsToHighestStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayRates = DecayRates{}
	e, _, rec := newTestEngine(t, cfg)

	require.NoError(t, e.Tick(700000, 700000))

	assert.Equal(t, StageAdult, e.State().Stage)
	var evolutions []Event
	for _, ev := range rec.events {
		if _, ok := ev.(Evolved); ok {
			evolutions = append(evolutions, ev)
		}
	}
	assert.Equal(t, []Event{Evolved{Stage: StageAdult}}, evolutions)
}

func TestStageNeverRegresses(t *testing.T) {
	mockTimeNow(t)
	mem := store.NewMemory()
	rec := NewRecord(State{Name: "Mimi", Stats: Stats{80, 80, 80}, Stage: StageAdult, TotalPlayTimeMs: 1000}, TimeNow())
	data, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.NoError(t, mem.Set(SaveKey, data))

	e := NewEngine(DefaultConfig(), mem, nil)
	ok, err := e.Load()
	require.NoError(t, err)
	require.True(t, ok)

	runTicks(t, e, 0, 5000, 1000)
	assert.Equal(t, StageAdult, e.State().Stage, "play time below thresholds does not demote")
}

func TestClampingInvariant(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())
	rng := rand.New(rand.NewSource(42))
	foods := DefaultConfig().FoodNames()

	inRange := func(v int) bool { return v >= MinStat && v <= MaxStat }
	var now int64
	for i := 0; i < 5000; i++ {
		switch rng.Intn(5) {
		case 0:
			require.NoError(t, e.Feed(foods[rng.Intn(len(foods))]))
		case 1:
			require.NoError(t, e.Pet())
		case 2:
			require.NoError(t, e.Clean())
		default:
			delta := rng.Int63n(60000)
			now += delta
			require.NoError(t, e.Tick(now, delta))
		}

		s := e.State().Stats
		require.True(t, inRange(s.Hunger), "hunger %d out of range at step %d", s.Hunger, i)
		require.True(t, inRange(s.Happiness), "happiness %d out of range at step %d", s.Happiness, i)
		require.True(t, inRange(s.Cleanliness), "cleanliness %d out of range at step %d", s.Cleanliness, i)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mockTimeNow(t)
	cfg := DefaultConfig()
	e, mem, _ := newTestEngine(t, cfg)

	runTicks(t, e, 0, 150000, 700)
	require.NoError(t, e.Feed(FoodTreat))
	require.NoError(t, e.Pet())
	runTicks(t, e, 150000, 190000, 700)
	require.NoError(t, e.Save())

	fresh := NewEngine(cfg, mem, nil)
	ok, err := fresh.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e.State(), fresh.State())
}

func TestSaveLoadRoundTripWhileSleeping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultStats.Hunger = 2
	e, mem, _ := newTestEngine(t, cfg)
	require.NoError(t, e.Tick(10000, 10000))
	require.NoError(t, e.Save())

	fresh := NewEngine(DefaultConfig(), mem, nil)
	_, err := fresh.Load()
	require.NoError(t, err)
	assert.Equal(t, e.State(), fresh.State())
	assert.True(t, fresh.State().Sleeping)
}

func TestLoadWithoutSave(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())
	before := e.State()

	ok, err := e.Load()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, e.State())
}

func TestLoadCorruptSave(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"empty", ``},
		{"wrong type", `[1,2,3]`},
		{"missing stats", `{"version":1,"stage":"egg","totalPlayTimeMs":0,"isSleeping":false}`},
		{"partial stats", `{"version":1,"stage":"egg","stats":{"hunger":1},"totalPlayTimeMs":0,"isSleeping":false}`},
		{"unknown stage", `{"version":1,"stage":"dragon","stats":{"hunger":1,"happiness":1,"cleanliness":1},"totalPlayTimeMs":0,"isSleeping":false}`},
		{"future version", `{"version":9,"stage":"egg","stats":{"hunger":1,"happiness":1,"cleanliness":1},"totalPlayTimeMs":0,"isSleeping":false}`},
		{"string stat", `{"version":1,"stage":"egg","stats":{"hunger":"1","happiness":1,"cleanliness":1},"totalPlayTimeMs":0,"isSleeping":false}`},
		{"missing sleep flag", `{"version":1,"stage":"egg","stats":{"hunger":1,"happiness":1,"cleanliness":1},"totalPlayTimeMs":0}`},
		{"negative play time", `{"version":1,"stage":"egg","stats":{"hunger":1,"happiness":1,"cleanliness":1},"totalPlayTimeMs":-5,"isSleeping":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mem, _ := newTestEngine(t, DefaultConfig())
			require.NoError(t, mem.Set(SaveKey, []byte(tt.data)))
			before := e.State()

			ok, err := e.Load()

			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, IsCorruptSave(err), "got %v", err)
			assert.Equal(t, before, e.State(), "corrupt data must not be partially applied")
		})
	}
}

func TestLoadAdoptsValuesVerbatim(t *testing.T) {
	e, mem, _ := newTestEngine(t, DefaultConfig())
	data := `{"version":1,"stage":"kitten","stats":{"hunger":12,"happiness":34,"cleanliness":56},"totalPlayTimeMs":130000,"isSleeping":true,"lastSaved":"2024-01-01T12:00:00Z"}`
	require.NoError(t, mem.Set(SaveKey, []byte(data)))

	ok, err := e.Load()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, State{
		Name:            DefaultPetName,
		Stats:           Stats{Hunger: 12, Happiness: 34, Cleanliness: 56},
		Stage:           StageKitten,
		TotalPlayTimeMs: 130000,
		Sleeping:        true,
	}, e.State())
}

type failingStore struct {
	*store.Memory
	readErr error
}

func (f failingStore) Get(key string) ([]byte, error) {
	return nil, f.readErr
}

func TestLoadReadFailure(t *testing.T) {
	st := failingStore{Memory: store.NewMemory(), readErr: errors.New("disk on fire")}
	e := NewEngine(DefaultConfig(), st, nil)

	ok, err := e.Load()

	assert.False(t, ok)
	assert.True(t, IsPersistence(err))
	assert.ErrorContains(t, err, "disk on fire")
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	e, mem, rec := newTestEngine(t, DefaultConfig())
	mem.failWrites = true

	err := e.Feed(FoodFish)

	require.Error(t, err)
	assert.True(t, IsPersistence(err))
	assert.Equal(t, 100, e.State().Stats.Hunger, "state is not rolled back")
	assert.Len(t, rec.events, 1)

	err = e.Save()
	assert.True(t, IsPersistence(err))

	mem.failWrites = false
	assert.NoError(t, e.Save(), "a later save succeeds once storage recovers")
}

func TestTickReportsEvolutionSaveFailure(t *testing.T) {
	e, mem, _ := newTestEngine(t, DefaultConfig())
	mem.failWrites = true

	err := e.Tick(120000, 120000)

	assert.True(t, IsPersistence(err))
	assert.Equal(t, StageKitten, e.State().Stage)
}

func TestReset(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig())
	runTicks(t, e, 0, 130000, 1000)
	require.NoError(t, e.Save())
	rec.reset()

	require.NoError(t, e.Reset())

	assert.Equal(t, State{Name: DefaultPetName, Stats: DefaultConfig().DefaultStats, Stage: StageEgg}, e.State())
	ok, err := e.HasSaveData()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []Event{
		StageReplaced{Stage: StageEgg},
		StatsChanged{Stats: DefaultConfig().DefaultStats},
	}, rec.events)
}

// saveSleepingKitten stores a sleeping kitten for the engine to load
func saveSleepingKitten(t *testing.T, mem store.Store) {
	t.Helper()
	data, err := EncodeRecord(NewRecord(State{
		Name:            DefaultPetName,
		Stats:           Stats{Hunger: 12, Happiness: 34, Cleanliness: 56},
		Stage:           StageKitten,
		TotalPlayTimeMs: 130000,
		Sleeping:        true,
	}, TimeNow()))
	require.NoError(t, err)
	require.NoError(t, mem.Set(SaveKey, data))
}

func TestLoadAnnouncesAdoptedState(t *testing.T) {
	e, mem, rec := newTestEngine(t, DefaultConfig())
	saveSleepingKitten(t, mem)

	ok, err := e.Load()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []Event{
		SleepChanged{Sleeping: true},
		StageReplaced{Stage: StageKitten},
		StatsChanged{Stats: Stats{Hunger: 12, Happiness: 34, Cleanliness: 56}},
	}, rec.events)
}

func TestResetWakesSleepingPet(t *testing.T) {
	e, mem, rec := newTestEngine(t, DefaultConfig())
	saveSleepingKitten(t, mem)
	_, err := e.Load()
	require.NoError(t, err)
	rec.reset()

	require.NoError(t, e.Reset())

	assert.False(t, e.State().Sleeping)
	assert.Equal(t, []Event{
		SleepChanged{Sleeping: false},
		StageReplaced{Stage: StageEgg},
		StatsChanged{Stats: DefaultConfig().DefaultStats},
	}, rec.events)
}

func TestSubscribe(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())
	var first, second int
	unsubFirst := e.Subscribe(func(Event) { first++ })
	e.Subscribe(func(Event) { second++ })

	require.NoError(t, e.Pet())
	unsubFirst()
	require.NoError(t, e.Pet())

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestStateIsSnapshot(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())

	s := e.State()
	s.Stats.Hunger = -50
	s.Sleeping = true

	assert.Equal(t, 80, e.State().Stats.Hunger)
	assert.False(t, e.State().Sleeping)
}
