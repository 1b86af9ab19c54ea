package pet

// Event is a notification emitted by the engine. The concrete types are
// StatsChanged, SleepChanged, Evolved and StageReplaced.
type Event interface {
	isEvent()
}

// StatsChanged is emitted after any stat mutation
type StatsChanged struct {
	Stats Stats
}

// SleepChanged is emitted when the pet falls asleep or is woken
type SleepChanged struct {
	Sleeping bool
}

// Evolved is emitted after a stage advance
type Evolved struct {
	Stage Stage
}

// StageReplaced is emitted when Load or Reset swaps in a different stage.
// Unlike Evolved it need not be a forward step.
type StageReplaced struct {
	Stage Stage
}

func (StatsChanged) isEvent()  {}
func (SleepChanged) isEvent()  {}
func (Evolved) isEvent()       {}
func (StageReplaced) isEvent() {}

// Listener receives engine events synchronously, at the point of mutation.
// Listeners must not call back into the engine.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// bus fans events out to listeners in registration order
type bus struct {
	subs   []subscription
	nextID int
}

func (b *bus) subscribe(fn Listener) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *bus) publish(ev Event) {
	for _, s := range b.subs {
		s.fn(ev)
	}
}
