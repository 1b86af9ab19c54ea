package pet

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Food is the nutrition a food item gives. Happiness may be zero.
type Food struct {
	Hunger    int `koanf:"hunger" yaml:"hunger"`
	Happiness int `koanf:"happiness" yaml:"happiness,omitempty"`
}

// DecayRates is how much each stat drops per timer firing
type DecayRates struct {
	Hunger      int `koanf:"hunger" yaml:"hunger"`
	Happiness   int `koanf:"happiness" yaml:"happiness"`
	Cleanliness int `koanf:"cleanliness" yaml:"cleanliness"`
}

// EvolutionThresholds are cumulative awake play times at which each stage is reached
type EvolutionThresholds struct {
	Kitten time.Duration `koanf:"kitten" yaml:"kitten"`
	Adult  time.Duration `koanf:"adult" yaml:"adult"`
}

// Config tunes the simulation. Zero values are not defaults; start from DefaultConfig.
type Config struct {
	Name                     string              `koanf:"name" yaml:"name"`
	StatMin                  int                 `koanf:"stat-min" yaml:"stat-min"`
	StatMax                  int                 `koanf:"stat-max" yaml:"stat-max"`
	DefaultStats             Stats               `koanf:"default-stats" yaml:"default-stats"`
	DecayRates               DecayRates          `koanf:"decay-rates" yaml:"decay-rates"`
	DecayInterval            time.Duration       `koanf:"decay-interval" yaml:"decay-interval"`
	CleanlinessDecayInterval time.Duration       `koanf:"cleanliness-decay-interval" yaml:"cleanliness-decay-interval"`
	Foods                    map[string]Food     `koanf:"foods" yaml:"foods"`
	PetBonus                 int                 `koanf:"pet-bonus" yaml:"pet-bonus"`
	PetCooldown              time.Duration       `koanf:"pet-cooldown" yaml:"pet-cooldown"`
	Evolution                EvolutionThresholds `koanf:"evolution" yaml:"evolution"`
	AutoSaveInterval         time.Duration       `koanf:"auto-save-interval" yaml:"auto-save-interval"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		Name:    DefaultPetName,
		StatMin: MinStat,
		StatMax: MaxStat,
		DefaultStats: Stats{
			Hunger:      DefaultStat,
			Happiness:   DefaultStat,
			Cleanliness: DefaultStat,
		},
		DecayRates: DecayRates{
			Hunger:      HungerDecayRate,
			Happiness:   HappinessDecayRate,
			Cleanliness: CleanlinessDecayRate,
		},
		DecayInterval:            DecayInterval,
		CleanlinessDecayInterval: CleanlinessDecayInterval,
		Foods: map[string]Food{
			FoodKibble: {Hunger: 20},
			FoodFish:   {Hunger: 35},
			FoodTreat:  {Hunger: 15, Happiness: 10},
		},
		PetBonus:    PetBonus,
		PetCooldown: PetCooldown,
		Evolution: EvolutionThresholds{
			Kitten: KittenThreshold,
			Adult:  AdultThreshold,
		},
		AutoSaveInterval: AutoSaveInterval,
	}
}

// Validate reports the first setting the engine cannot run with
func (c Config) Validate() error {
	invalid := func(field string, format string, args ...any) error {
		return oops.Code(CodeConfigInvalid).With("field", field).Errorf(format, args...)
	}

	switch {
	case c.StatMin >= c.StatMax:
		return invalid("stat-min", "stat-min (%d) must be below stat-max (%d)", c.StatMin, c.StatMax)
	case c.DecayInterval < time.Millisecond:
		return invalid("decay-interval", "decay-interval must be at least 1ms, got %s", c.DecayInterval)
	case c.CleanlinessDecayInterval < time.Millisecond:
		return invalid("cleanliness-decay-interval", "cleanliness-decay-interval must be at least 1ms, got %s", c.CleanlinessDecayInterval)
	case c.DecayRates.Hunger < 0 || c.DecayRates.Happiness < 0 || c.DecayRates.Cleanliness < 0:
		return invalid("decay-rates", "decay rates must not be negative")
	case c.Evolution.Kitten < 0 || c.Evolution.Adult < c.Evolution.Kitten:
		return invalid("evolution", "evolution thresholds must satisfy 0 <= kitten <= adult")
	case len(c.Foods) == 0:
		return invalid("foods", "at least one food is required")
	case c.AutoSaveInterval <= 0:
		return invalid("auto-save-interval", "auto-save-interval must be positive")
	}
	return nil
}

// FoodNames returns the configured food identifiers in display order:
// cheapest hunger value first, ties broken by name.
func (c Config) FoodNames() []string {
	names := make([]string, 0, len(c.Foods))
	for name := range c.Foods {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := c.Foods[a].Hunger - c.Foods[b].Hunger; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}
