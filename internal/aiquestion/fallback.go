package aiquestion

var fallbackQuestions = [...]string{
	"Tell me about yourself.",
	"Why are you interested in this role?",
	"Describe a challenging project you worked on.",
	"How do you stay up to date with industry trends?",
	"Tell me about a time you worked in a team.",
	"Describe a situation where you solved a difficult problem.",
	"What are your strengths and weaknesses?",
	"Tell me about a time you made a mistake and how you handled it.",
	"Where do you see yourself in five years?",
	"Why should we hire you for this position?",
}

// FallbackQuestions returns a copy of the static question set.
func FallbackQuestions() []string {
	out := make([]string, len(fallbackQuestions))
	copy(out, fallbackQuestions[:])
	return out
}
