package main

import (
	"net/http"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/feed"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/random"
)

type patientTemplateData struct {
	BaseTemplateData
	PatientName string
	Empty       bool
	Current     models.PhotoRecord
	Index       int
	Count       int
	Quiz        *models.QuizQuestion
	Selected    string
	Tally       feed.Tally
	QuizResult  string
}

// patientPage renders the session's feed, starting one from the stored
// photos in list order when the session has none yet. Re-choosing the
// patient role restarts the feed, like reopening the app.
func (app *application) patientPage(w http.ResponseWriter, r *http.Request) {
	paginator := app.feedFor(r)
	if paginator == nil {
		photos, err := app.photos.List(r.Context())
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		records := make([]models.PhotoRecord, 0, len(photos))
		for _, photo := range photos {
			records = append(records, photo.Record())
		}

		paginator = feed.NewPaginator(records, feed.Config{
			QuizInterval: app.cfg.QuizInterval,
			Cooldown:     app.cfg.FeedCooldown,
			Now:          nil,
			Rand:         random.NewRand(),
		})
		app.feeds.set(app.sessionID(r), paginator)
	}

	app.render(w, r, http.StatusOK, "patient", app.patientTemplateData(r, paginator))
}

func (app *application) patientTemplateData(r *http.Request, paginator *feed.Paginator) patientTemplateData {
	data := patientTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		PatientName:      app.cfg.PatientName,
		Index:            paginator.Index(),
		Count:            paginator.Len(),
		Selected:         paginator.Selected(),
		Tally:            paginator.Tally(),
		QuizResult:       app.sessionManager.PopString(r.Context(), quizResultSessionKey),
	}
	current, ok := paginator.Current()
	if !ok {
		data.Empty = true
		return data
	}
	data.Current = current
	if quiz, active := paginator.ActiveQuiz(); active {
		data.Quiz = &quiz
	}
	return data
}

// feedFor returns the session's paginator. A nil return means the page has
// not been loaded yet in this session.
func (app *application) feedFor(r *http.Request) *feed.Paginator {
	paginator, ok := app.feeds.get(app.sessionID(r))
	if !ok {
		return nil
	}
	return paginator
}

// feedRespond finishes a feed mutation the same way familyRespond does for
// the workflow.
func (app *application) feedRespond(w http.ResponseWriter, r *http.Request, paginator *feed.Paginator) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderFragment(w, r, http.StatusOK, "patient", "feed", app.patientTemplateData(r, paginator))
		return
	}
	http.Redirect(w, r, "/patient", http.StatusSeeOther)
}

// patientAdvance steps to the next photo. Dropped events (cooldown, open
// quiz, upper bound) are not errors: the feed simply stays put.
func (app *application) patientAdvance(w http.ResponseWriter, r *http.Request) {
	paginator := app.feedFor(r)
	if paginator == nil {
		http.Redirect(w, r, "/patient", http.StatusSeeOther)
		return
	}
	paginator.Advance()
	app.feedRespond(w, r, paginator)
}

func (app *application) patientRetreat(w http.ResponseWriter, r *http.Request) {
	paginator := app.feedFor(r)
	if paginator == nil {
		http.Redirect(w, r, "/patient", http.StatusSeeOther)
		return
	}
	paginator.Retreat()
	app.feedRespond(w, r, paginator)
}

func (app *application) patientQuizSelect(w http.ResponseWriter, r *http.Request) {
	paginator := app.feedFor(r)
	if paginator == nil {
		http.Redirect(w, r, "/patient", http.StatusSeeOther)
		return
	}
	if err := paginator.Select(r.PostFormValue("option")); err != nil {
		app.feedError(w, r, err)
		return
	}
	app.feedRespond(w, r, paginator)
}

func (app *application) patientQuizAnswer(w http.ResponseWriter, r *http.Request) {
	paginator := app.feedFor(r)
	if paginator == nil {
		http.Redirect(w, r, "/patient", http.StatusSeeOther)
		return
	}
	correct, err := paginator.Confirm()
	if err != nil {
		app.feedError(w, r, err)
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	app.sessionManager.Put(r.Context(), quizResultSessionKey, result)
	app.feedRespond(w, r, paginator)
}

func (app *application) feedError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, feed.ErrNoActiveQuiz):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, feed.ErrNoSelection):
		app.clientError(w, r, http.StatusBadRequest)
	default:
		app.serverError(w, r, err)
	}
}
