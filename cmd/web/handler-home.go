package main

import (
	"net/http"

	"github.com/memora-app/memora/internal/contexthelpers"
)

type homeTemplateData struct {
	BaseTemplateData
	PatientName string
}

// home renders the onboarding screen where the visitor picks whether they
// are here as a family member or as the patient.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		PatientName:      app.cfg.PatientName,
	}

	app.render(w, r, http.StatusOK, "home", data)
}

// chooseRole stores the chosen role in the session and redirects to the
// matching screen.
func (app *application) chooseRole(w http.ResponseWriter, r *http.Request) {
	role := contexthelpers.Role(r.PostFormValue("role"))
	switch role {
	case contexthelpers.RoleFamily, contexthelpers.RolePatient:
	default:
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	app.sessionManager.Put(r.Context(), roleSessionKey, string(role))
	// Choosing a role restarts the feed so freshly shared photos show up.
	app.feeds.remove(app.sessionID(r))
	target := "/patient"
	if role == contexthelpers.RoleFamily {
		target = "/family"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
