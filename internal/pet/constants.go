package pet

import "time"

// Game constants
const (
	DefaultPetName = "Mimi"
	MaxStat        = 100
	MinStat        = 0
	DefaultStat    = 80

	// Decay per timer firing
	HungerDecayRate      = 2
	HappinessDecayRate   = 1
	CleanlinessDecayRate = 1

	DecayInterval            = 10 * time.Second
	CleanlinessDecayInterval = 15 * time.Second // separate timer from hunger/happiness

	PetBonus    = 5
	PetCooldown = 1 * time.Second // enforced by the host, not the engine

	KittenThreshold = 2 * time.Minute  // cumulative awake play time
	AdultThreshold  = 10 * time.Minute // cumulative awake play time

	AutoSaveInterval = 30 * time.Second

	// Status thresholds
	LowStatThreshold  = 30
	HighStatThreshold = 80

	// Status emojis
	StatusEmojiHappy    = "😸"
	StatusEmojiSleeping = "😴"
	StatusEmojiHungry   = "🙀"
	StatusEmojiSad      = "😿"
	StatusEmojiDirty    = "🙊"
	StatusEmojiExcited  = "😻"
)

// Persistence
const (
	SaveKey        = "mimi-pets-save"
	CurrentVersion = 1
)

// Food identifiers in the default food table
const (
	FoodKibble = "kibble"
	FoodFish   = "fish"
	FoodTreat  = "treat"
)

// Stage is a life stage. Stages only move forward except through Reset.
type Stage int

const (
	StageEgg Stage = iota
	StageKitten
	StageAdult
)
