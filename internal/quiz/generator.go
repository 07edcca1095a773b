// Package quiz builds multiple-choice recall questions from tagged photos.
// Generation is a pure function of its inputs; all randomness flows through
// the caller-supplied Rand so that tests can pin a seed.
package quiz

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
)

// ErrNoQuizData signals that the record has no populated category to ask about.
var ErrNoQuizData = errors.NewSentinel("record has no metadata to quiz on")

const (
	maxOptions      = 4
	distractorCount = maxOptions - 1
)

// Generate builds a question from record, choosing uniformly at random among
// the record's populated categories. Distractors come from the same category
// on the other records in corpus.
func Generate(rng *rand.Rand, record models.PhotoRecord, corpus []models.PhotoRecord) (models.QuizQuestion, error) {
	categories := populatedCategories(record)
	if len(categories) == 0 {
		return models.QuizQuestion{}, errors.Wrap(ErrNoQuizData, "pick category", slog.String("recordID", record.ID))
	}
	category := categories[rng.IntN(len(categories))]
	return GenerateCategory(rng, record, corpus, category)
}

// GenerateCategory builds a question for a specific category.
//
// The correct answer is drawn from record; the distractor pool is every
// same-category value on the other corpus records, deduplicated and with the
// correct answer excluded. If fewer than three distractors exist, the
// question degenerates to fewer than four options, which is valid.
func GenerateCategory(
	rng *rand.Rand,
	record models.PhotoRecord,
	corpus []models.PhotoRecord,
	category models.QuizCategory,
) (models.QuizQuestion, error) {
	correct := correctAnswer(rng, record, category)
	if correct == "" {
		return models.QuizQuestion{}, errors.Wrap(ErrNoQuizData, "pick correct answer",
			slog.String("recordID", record.ID), slog.String("category", string(category)))
	}

	pool := distractorPool(record, corpus, category, correct)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > distractorCount {
		pool = pool[:distractorCount]
	}

	options := append(pool, correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return models.QuizQuestion{
		Prompt:        prompt(category),
		Category:      category,
		CorrectAnswer: correct,
		Options:       options,
	}, nil
}

func populatedCategories(record models.PhotoRecord) []models.QuizCategory {
	var categories []models.QuizCategory
	if len(record.PersonLabels()) > 0 {
		categories = append(categories, models.QuizCategoryPeople)
	}
	if record.Place != "" {
		categories = append(categories, models.QuizCategoryPlace)
	}
	if record.Time != "" {
		categories = append(categories, models.QuizCategoryTime)
	}
	return categories
}

func correctAnswer(rng *rand.Rand, record models.PhotoRecord, category models.QuizCategory) string {
	switch category {
	case models.QuizCategoryPeople:
		people := record.PersonLabels()
		if len(people) == 0 {
			return ""
		}
		return people[rng.IntN(len(people))]
	case models.QuizCategoryPlace:
		return record.Place
	case models.QuizCategoryTime:
		return record.Time
	}
	return ""
}

func distractorPool(
	record models.PhotoRecord,
	corpus []models.PhotoRecord,
	category models.QuizCategory,
	correct string,
) []string {
	var pool []string
	for _, other := range corpus {
		if other.ID == record.ID {
			continue
		}
		for _, value := range categoryValues(other, category) {
			if value == "" || value == correct || slices.Contains(pool, value) {
				continue
			}
			pool = append(pool, value)
		}
	}
	return pool
}

func categoryValues(record models.PhotoRecord, category models.QuizCategory) []string {
	switch category {
	case models.QuizCategoryPeople:
		return record.PersonLabels()
	case models.QuizCategoryPlace:
		return []string{record.Place}
	case models.QuizCategoryTime:
		return []string{record.Time}
	}
	return nil
}

func prompt(category models.QuizCategory) string {
	switch category {
	case models.QuizCategoryPeople:
		return "Who is this?"
	case models.QuizCategoryPlace:
		return "Where was this photo taken?"
	case models.QuizCategoryTime:
		return "When was this photo taken?"
	}
	return ""
}
