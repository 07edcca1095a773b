package models

// QuizCategory names the metadata category a quiz question draws from.
type QuizCategory string

const (
	QuizCategoryPeople QuizCategory = "people"
	QuizCategoryPlace  QuizCategory = "place"
	QuizCategoryTime   QuizCategory = "time"
)

// QuizQuestion is a multiple-choice recall question built from a photo's
// metadata. Options contains CorrectAnswer exactly once and holds at most
// four entries.
type QuizQuestion struct {
	Prompt        string       `json:"prompt"`
	Category      QuizCategory `json:"category"`
	CorrectAnswer string       `json:"correctAnswer"`
	Options       []string     `json:"options"`
}
