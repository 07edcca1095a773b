package quiz_test

import (
	"math/rand/v2"
	"testing"

	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/quiz"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func personTag(label string) models.PointTag {
	return models.PointTag{Type: models.TagTypePerson, Label: label, X: 50, Y: 50}
}

func TestGenerateCategory_people(t *testing.T) {
	record := models.PhotoRecord{
		ID:   "1_picnic.jpg",
		Tags: []models.PointTag{personTag("Alice"), personTag("Bob")},
	}
	corpus := []models.PhotoRecord{
		record,
		{ID: "2", Tags: []models.PointTag{personTag("Emily"), personTag("David")}},
		{ID: "3", Tags: []models.PointTag{personTag("Sarah")}},
		{ID: "4", Tags: []models.PointTag{personTag("John"), personTag("Emily")}},
	}

	question, err := quiz.GenerateCategory(testRand(), record, corpus, models.QuizCategoryPeople)
	require.NoError(t, err)

	require.Equal(t, "Who is this?", question.Prompt)
	require.Contains(t, []string{"Alice", "Bob"}, question.CorrectAnswer)
	require.Len(t, question.Options, 4)
	require.Equal(t, 1, countOf(question.Options, question.CorrectAnswer))
	// Distractors never come from the source record itself.
	for _, option := range question.Options {
		if option == question.CorrectAnswer {
			continue
		}
		require.NotContains(t, []string{"Alice", "Bob"}, option)
	}
}

func TestGenerateCategory_degenerateDistractorPool(t *testing.T) {
	record := models.PhotoRecord{
		ID:   "1",
		Tags: []models.PointTag{personTag("Alice"), personTag("Bob")},
	}
	// No other record has person tags, so the only option is the correct answer.
	corpus := []models.PhotoRecord{
		record,
		{ID: "2", Place: "Beach"},
		{ID: "3", Time: "2023"},
	}

	question, err := quiz.GenerateCategory(testRand(), record, corpus, models.QuizCategoryPeople)
	require.NoError(t, err)
	require.Len(t, question.Options, 1)
	require.Equal(t, question.CorrectAnswer, question.Options[0])
}

func TestGenerateCategory_place(t *testing.T) {
	record := models.PhotoRecord{ID: "1", Place: "Park"}
	corpus := []models.PhotoRecord{
		record,
		{ID: "2", Place: "Beach"},
		{ID: "3", Place: "Home"},
		{ID: "4", Place: "Park"},  // duplicate of the correct answer must be excluded
		{ID: "5", Place: "Beach"}, // duplicate distractor must be deduplicated
	}

	question, err := quiz.GenerateCategory(testRand(), record, corpus, models.QuizCategoryPlace)
	require.NoError(t, err)
	require.Equal(t, "Park", question.CorrectAnswer)
	require.ElementsMatch(t, []string{"Park", "Beach", "Home"}, question.Options)
}

func TestGenerate_picksPopulatedCategory(t *testing.T) {
	record := models.PhotoRecord{ID: "1", Place: "Park"}
	corpus := []models.PhotoRecord{record, {ID: "2", Place: "Beach"}}

	// Only place is populated, so every draw must land on it.
	for range 20 {
		question, err := quiz.Generate(testRand(), record, corpus)
		require.NoError(t, err)
		require.Equal(t, models.QuizCategoryPlace, question.Category)
	}
}

func TestGenerate_optionInvariants(t *testing.T) {
	record := models.PhotoRecord{
		ID:    "1",
		Place: "Park",
		Time:  "2024",
		Tags:  []models.PointTag{personTag("Alice")},
	}
	corpus := []models.PhotoRecord{
		record,
		{ID: "2", Place: "Beach", Time: "2023", Tags: []models.PointTag{personTag("Bob")}},
		{ID: "3", Place: "Home", Time: "2022", Tags: []models.PointTag{personTag("Emily")}},
		{ID: "4", Place: "Garden", Time: "2021", Tags: []models.PointTag{personTag("David")}},
		{ID: "5", Place: "School", Time: "2020", Tags: []models.PointTag{personTag("Sarah")}},
	}

	rng := rand.New(rand.NewPCG(42, 7))
	for range 100 {
		question, err := quiz.Generate(rng, record, corpus)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(question.Options), 1)
		require.LessOrEqual(t, len(question.Options), 4)
		require.Equal(t, 1, countOf(question.Options, question.CorrectAnswer))
	}
}

func TestGenerate_noQuizData(t *testing.T) {
	record := models.PhotoRecord{
		ID:   "1",
		Tags: []models.PointTag{{Type: models.TagTypeOther, Label: "a dog", X: 10, Y: 10}},
	}

	_, err := quiz.Generate(testRand(), record, nil)
	require.ErrorIs(t, err, quiz.ErrNoQuizData)
}

func TestGenerateCategory_emptyCategory(t *testing.T) {
	record := models.PhotoRecord{ID: "1", Place: "Park"}

	_, err := quiz.GenerateCategory(testRand(), record, nil, models.QuizCategoryPeople)
	require.ErrorIs(t, err, quiz.ErrNoQuizData)
}

func countOf(options []string, value string) int {
	n := 0
	for _, option := range options {
		if option == value {
			n++
		}
	}
	return n
}
