package main

import (
	"io"
	"net/http"
	"strconv"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/tagstore"
	"github.com/memora-app/memora/internal/workflow"
)

const maxUploadBytes = 32 << 20

type familyTemplateData struct {
	BaseTemplateData
	State         workflow.State
	Records       []models.PhotoRecord
	Finalized     bool
	Selected      models.PhotoRecord
	SelectedIndex int
	Pending       *workflow.PendingPoint
}

// workflowFor returns the session's tagging workflow machine, creating one
// on first use.
func (app *application) workflowFor(r *http.Request) *workflow.Machine {
	id := app.sessionID(r)
	machine, ok := app.workflows.get(id)
	if !ok {
		machine = workflow.NewMachine(app.uploader, app.logger)
		app.workflows.set(id, machine)
	}
	return machine
}

func (app *application) familyTemplateData(r *http.Request, machine *workflow.Machine) familyTemplateData {
	data := familyTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		State:            machine.State(),
		Records:          machine.Records(),
		Finalized:        machine.Finalized(),
		SelectedIndex:    -1,
	}
	if record, index, err := machine.Selected(); err == nil {
		data.Selected = record
		data.SelectedIndex = index
	}
	if pending, ok := machine.Pending(); ok {
		data.Pending = &pending
	}
	return data
}

func (app *application) familyPage(w http.ResponseWriter, r *http.Request) {
	machine := app.workflowFor(r)
	app.render(w, r, http.StatusOK, "family", app.familyTemplateData(r, machine))
}

// familyRespond finishes a workflow mutation: htmx requests get the workflow
// fragment swapped in place, plain form posts follow the redirect back.
func (app *application) familyRespond(w http.ResponseWriter, r *http.Request, machine *workflow.Machine) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderFragment(w, r, http.StatusOK, "family", "workflow", app.familyTemplateData(r, machine))
		return
	}
	http.Redirect(w, r, "/family", http.StatusSeeOther)
}

// familyCollect receives the photo batch as a multipart form with a
// `photos` field. A completed workflow is replaced with a fresh one so the
// family can start the next batch.
func (app *application) familyCollect(w http.ResponseWriter, r *http.Request) {
	machine := app.workflowFor(r)
	if machine.State() == workflow.StateComplete {
		machine = workflow.NewMachine(app.uploader, app.logger)
		app.workflows.set(app.sessionID(r), machine)
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	var files []models.FileSource
	for _, header := range r.MultipartForm.File["photos"] {
		file, err := header.Open()
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "open uploaded file"))
			return
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "read uploaded file"))
			return
		}
		files = append(files, models.FileSource{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	if err := machine.Collect(files); err != nil {
		if errors.Is(err, workflow.ErrMissingFile) {
			app.clientError(w, r, http.StatusBadRequest)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.familyRespond(w, r, machine)
}

func (app *application) familyPlace(w http.ResponseWriter, r *http.Request) {
	app.familyEditMetadata(w, r, func(machine *workflow.Machine, index int) error {
		return machine.SetPlace(index, r.PostFormValue("place"))
	})
}

func (app *application) familyTime(w http.ResponseWriter, r *http.Request) {
	app.familyEditMetadata(w, r, func(machine *workflow.Machine, index int) error {
		return machine.SetTime(index, r.PostFormValue("time"))
	})
}

func (app *application) familyEditMetadata(
	w http.ResponseWriter,
	r *http.Request,
	edit func(machine *workflow.Machine, index int) error,
) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	machine := app.workflowFor(r)
	if err = edit(machine, index); err != nil {
		app.workflowError(w, r, err)
		return
	}
	app.familyRespond(w, r, machine)
}

func (app *application) familyFinalize(w http.ResponseWriter, r *http.Request) {
	machine := app.workflowFor(r)
	if err := machine.Finalize(); err != nil {
		app.workflowError(w, r, err)
		return
	}
	app.familyRespond(w, r, machine)
}

func (app *application) familyStartTagging(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	machine := app.workflowFor(r)
	if err = machine.StartTagging(index); err != nil {
		app.workflowError(w, r, err)
		return
	}
	app.familyRespond(w, r, machine)
}

// familySubmitTag records a clicked point and attaches the submitted type
// and label to it in one round trip. A malformed tag leaves the record
// untouched, mirroring the silently-ignored submit on the tagging screen.
func (app *application) familySubmitTag(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.PostFormValue("x"), 64)
	y, errY := strconv.ParseFloat(r.PostFormValue("y"), 64)
	if errX != nil || errY != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	machine := app.workflowFor(r)
	if err := machine.AddPoint(x, y); err != nil {
		app.workflowError(w, r, err)
		return
	}
	tagType := models.TagType(r.PostFormValue("type"))
	label := r.PostFormValue("label")
	if err := machine.SubmitTag(tagType, label); err != nil {
		if errors.Is(err, workflow.ErrMalformedTag) {
			app.logger.Debug("ignored malformed tag", "type", string(tagType), "label", label)
			app.familyRespond(w, r, machine)
			return
		}
		app.workflowError(w, r, err)
		return
	}

	app.familyRespond(w, r, machine)
}

func (app *application) familyBack(w http.ResponseWriter, r *http.Request) {
	machine := app.workflowFor(r)
	if err := machine.Back(); err != nil {
		app.workflowError(w, r, err)
		return
	}
	app.familyRespond(w, r, machine)
}

// familyFinish submits every collected record. The machine ends up Complete
// whatever the per-record outcome, so the page always shows the done screen.
func (app *application) familyFinish(w http.ResponseWriter, r *http.Request) {
	machine := app.workflowFor(r)
	if err := machine.Finish(r.Context()); err != nil {
		app.workflowError(w, r, err)
		return
	}
	app.familyRespond(w, r, machine)
}

// workflowError maps the workflow error taxonomy to HTTP statuses.
func (app *application) workflowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tagstore.ErrIndexOutOfRange):
		app.notFound(w, r)
	case errors.Is(err, tagstore.ErrTagOutOfBounds):
		app.clientError(w, r, http.StatusBadRequest)
	case errors.Is(err, workflow.ErrInvalidState),
		errors.Is(err, workflow.ErrEditLocked),
		errors.Is(err, workflow.ErrNoPendingPoint):
		app.clientError(w, r, http.StatusConflict)
	default:
		app.serverError(w, r, err)
	}
}
