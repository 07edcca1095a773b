// Package feed steps a patient through stored photos one at a time and
// interjects recall quizzes at a configurable interval.
package feed

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/quiz"
)

var (
	ErrNoActiveQuiz = errors.NewSentinel("no quiz is active")
	ErrNoSelection  = errors.NewSentinel("no answer selected")
)

// DefaultQuizInterval interjects a quiz on every fourth photo.
const DefaultQuizInterval = 4

// Config carries the tunables of a Paginator.
//
// A zero QuizInterval falls back to DefaultQuizInterval. A zero Cooldown
// disables the navigation debounce. Now and Rand default to time.Now and an
// OS-seeded Rand.
type Config struct {
	QuizInterval int
	Cooldown     time.Duration
	Now          func() time.Time
	Rand         *rand.Rand
}

// Tally is the running count of quiz answers.
type Tally struct {
	Correct   int
	Incorrect int
}

// Paginator holds the patient-facing feed state: a clamped index into an
// ordered record sequence, a navigation cooldown, and the active quiz.
// It is not safe for concurrent use.
type Paginator struct {
	records  []models.PhotoRecord
	index    int
	interval int
	cooldown time.Duration
	now      func() time.Time
	rng      *rand.Rand

	lastNav    time.Time
	activeQuiz *models.QuizQuestion
	selected   string
	resolved   map[int]bool
	tally      Tally
}

// NewPaginator creates a paginator over records. The record order is the
// list endpoint's response order; no client-side re-sorting happens.
func NewPaginator(records []models.PhotoRecord, cfg Config) *Paginator {
	if cfg.QuizInterval <= 0 {
		cfg.QuizInterval = DefaultQuizInterval
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Paginator{
		records:  records,
		interval: cfg.QuizInterval,
		cooldown: cfg.Cooldown,
		now:      cfg.Now,
		rng:      cfg.Rand,
		resolved: make(map[int]bool),
	}
}

func (p *Paginator) Len() int {
	return len(p.records)
}

func (p *Paginator) Index() int {
	return p.index
}

// Current returns the record at the current index.
func (p *Paginator) Current() (models.PhotoRecord, bool) {
	if p.index < 0 || p.index >= len(p.records) {
		return models.PhotoRecord{}, false
	}
	return p.records[p.index], true
}

// Advance moves one record forward. It reports whether the event was
// accepted: events are dropped, not queued, while a quiz is unresolved,
// while the cooldown window is open, or at the upper bound.
func (p *Paginator) Advance() bool {
	return p.navigate(1)
}

// Retreat moves one record back, with the same dropping rules as Advance.
func (p *Paginator) Retreat() bool {
	return p.navigate(-1)
}

func (p *Paginator) navigate(delta int) bool {
	if p.activeQuiz != nil {
		return false
	}
	now := p.now()
	if !p.lastNav.IsZero() && now.Sub(p.lastNav) < p.cooldown {
		return false
	}
	next := p.index + delta
	if next < 0 || next >= len(p.records) {
		return false
	}
	p.index = next
	p.lastNav = now
	p.maybeTriggerQuiz()
	return true
}

// maybeTriggerQuiz starts a quiz when the current position is a multiple of
// the interval and no quiz has been resolved for it yet. The question is
// seeded from the record just viewed, one position back.
func (p *Paginator) maybeTriggerQuiz() {
	if (p.index+1)%p.interval != 0 || p.resolved[p.index] {
		return
	}
	source := p.records[p.index]
	if p.index > 0 {
		source = p.records[p.index-1]
	}
	question, err := quiz.Generate(p.rng, source, p.records)
	if err != nil {
		// A record with no taggable metadata suppresses the quiz for this
		// position instead of blocking navigation.
		if errors.Is(err, quiz.ErrNoQuizData) {
			p.resolved[p.index] = true
		}
		return
	}
	p.activeQuiz = &question
	p.selected = ""
}

// ActiveQuiz returns the unresolved quiz, if any.
func (p *Paginator) ActiveQuiz() (models.QuizQuestion, bool) {
	if p.activeQuiz == nil {
		return models.QuizQuestion{}, false
	}
	return *p.activeQuiz, true
}

// Selected returns the currently selected option.
func (p *Paginator) Selected() string {
	return p.selected
}

// Select records the patient's chosen option for the active quiz.
func (p *Paginator) Select(option string) error {
	if p.activeQuiz == nil {
		return errors.Wrap(ErrNoActiveQuiz, "select option", slog.String("option", option))
	}
	p.selected = option
	return nil
}

// Confirm resolves the active quiz against the selected option. It updates
// the tally, marks the position resolved so the quiz never re-triggers for
// it, and resumes navigation.
func (p *Paginator) Confirm() (bool, error) {
	if p.activeQuiz == nil {
		return false, errors.Wrap(ErrNoActiveQuiz, "confirm answer")
	}
	if p.selected == "" {
		return false, errors.Wrap(ErrNoSelection, "confirm answer")
	}
	correct := p.selected == p.activeQuiz.CorrectAnswer
	if correct {
		p.tally.Correct++
	} else {
		p.tally.Incorrect++
	}
	p.resolved[p.index] = true
	p.activeQuiz = nil
	p.selected = ""
	return correct, nil
}

func (p *Paginator) Tally() Tally {
	return p.tally
}
