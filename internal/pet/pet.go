package pet

import (
	"fmt"
	"time"
)

// Testable time function
var TimeNow = func() time.Time { return time.Now().UTC() }

// String returns the stage's save-file name
func (s Stage) String() string {
	switch s {
	case StageEgg:
		return "egg"
	case StageKitten:
		return "kitten"
	case StageAdult:
		return "adult"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ParseStage maps a save-file name back to a Stage
func ParseStage(name string) (Stage, error) {
	switch name {
	case "egg":
		return StageEgg, nil
	case "kitten":
		return StageKitten, nil
	case "adult":
		return StageAdult, nil
	default:
		return StageEgg, fmt.Errorf("unknown stage %q", name)
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	if s < StageEgg || s > StageAdult {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Name returns the display name for the stage
func (s Stage) Name() string {
	switch s {
	case StageEgg:
		return "Egg"
	case StageKitten:
		return "Kitten"
	case StageAdult:
		return "Adult Cat"
	default:
		return "Unknown"
	}
}

// Emoji returns the emoji for the stage
func (s Stage) Emoji() string {
	switch s {
	case StageEgg:
		return "🥚"
	case StageKitten:
		return "🐱"
	case StageAdult:
		return "🐈"
	default:
		return "❓"
	}
}

// Stats holds the three need values
type Stats struct {
	Hunger      int `json:"hunger"`
	Happiness   int `json:"happiness"`
	Cleanliness int `json:"cleanliness"`
}

// State is the persisted simulation aggregate. Values handed out by the engine
// are copies; writing to them has no effect on the engine.
type State struct {
	Name            string
	Stats           Stats
	Stage           Stage
	TotalPlayTimeMs int64
	Sleeping        bool
}

// PlayTime returns the accumulated awake time as a Duration
func (s State) PlayTime() time.Duration {
	return time.Duration(s.TotalPlayTimeMs) * time.Millisecond
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
