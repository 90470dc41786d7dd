package domain

// interests are the topics offered on the interest selection screen.
var interests = []string{
	"Nature",
	"Science",
	"History",
	"Art",
	"Tech",
	"Personal Development",
	"Fitness",
	"Cooking",
	"Travel",
	"Mindfulness & Meditation",
}

// Interests returns the selectable interest categories in display order.
func Interests() []string {
	out := make([]string, len(interests))
	copy(out, interests)
	return out
}
