package ui

import (
	"strings"
	"time"

	"github.com/jonaustin/mimi/internal/pet"
)

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPet
	AnimClean
	AnimSleep
	AnimEvolve
)

// Animation holds the current animation state
type Animation struct {
	Type      AnimationType
	Frame     int
	StartTime time.Time

	// Food is drawn into feed frames; From and To into evolve frames
	Food     string
	From, To pet.Stage
}

var foodEmoji = map[string]string{
	pet.FoodKibble: "🥣",
	pet.FoodFish:   "🐟",
	pet.FoodTreat:  "🍪",
}

// AnimationFrames contains ASCII art frames for each animation type
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
   {food}
     \
      😺
`,
		`

   {food}→😺

`,
		`

     😸
   *nom*
`,
		`

     😋
   *munch*
`,
	},
	AnimPet: {
		`
     ✋
     😺
`,
		`
      ✋
     😸
`,
		`
     ✋  💕
     😻
`,
		`
       💕
     😻
   *purr*
`,
	},
	AnimClean: {
		`
  🧽       🙊
`,
		`
     🧽    🙊
`,
		`
       🧽🫧😺
`,
		`
        🫧 😸 🫧
         ✨✨
`,
	},
	AnimSleep: {
		`
     😺
`,
		`
     😪
      z
`,
		`
     😴
     z
      z
`,
		`
     😴
    z
     z
      z
`,
	},
	AnimEvolve: {
		`
      {from}
`,
		`
    ✨ {from} ✨
`,
		`
  ✨ ✨ 💥 ✨ ✨
`,
		`
    ✨ {to} ✨
`,
		`
      {to}
   *ta-da!*
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// GetAnimationFrame returns the current frame for an animation, with the
// food and stage placeholders filled in
func GetAnimationFrame(anim Animation) string {
	frames := AnimationFrames[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	frame := frames[min(anim.Frame, len(frames)-1)]

	food, ok := foodEmoji[anim.Food]
	if !ok {
		food = "🍖"
	}
	return strings.NewReplacer(
		"{food}", food,
		"{from}", anim.From.Emoji(),
		"{to}", anim.To.Emoji(),
	).Replace(frame)
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	frames := AnimationFrames[anim.Type]
	return anim.Frame >= len(frames)
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(AnimationFrames[animType])
}
