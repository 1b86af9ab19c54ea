package pet

// lowestNeed returns the emoji and label of the lowest stat when it is below
// LowStatThreshold, or empty strings when nothing is pressing.
func lowestNeed(s State) (emoji, label string) {
	lowest := s.Stats.Hunger
	emoji, label = StatusEmojiHungry, "Hungry"
	if s.Stats.Happiness < lowest {
		lowest = s.Stats.Happiness
		emoji, label = StatusEmojiSad, "Sad"
	}
	if s.Stats.Cleanliness < lowest {
		lowest = s.Stats.Cleanliness
		emoji, label = StatusEmojiDirty, "Dirty"
	}
	if lowest >= LowStatThreshold {
		return "", ""
	}
	return emoji, label
}

// GetStatus returns the status emoji(s) for a state: what the pet is doing,
// followed by its most pressing need if any stat is low.
func GetStatus(s State) string {
	activity := StatusEmojiHappy
	if s.Sleeping {
		activity = StatusEmojiSleeping
	}

	if need, _ := lowestNeed(s); need != "" {
		return activity + need
	}
	if !s.Sleeping && s.Stats.Happiness >= HighStatThreshold && s.Stats.Hunger >= HighStatThreshold {
		return StatusEmojiExcited
	}
	return activity
}

// GetStatusWithLabel returns the status with a text label for the UI
func GetStatusWithLabel(s State) string {
	status := GetStatus(s)

	if s.Sleeping {
		return status + " Sleeping (feed to wake)"
	}
	if _, label := lowestNeed(s); label != "" {
		return status + " " + label
	}
	if status == StatusEmojiExcited {
		return status + " Content"
	}
	return status + " Happy"
}
