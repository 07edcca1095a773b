package main

import (
	"net/http"
	"strings"

	"github.com/memora-app/memora/internal/models"
)

const recentPictureCount = 6

type profileTemplateData struct {
	BaseTemplateData
	PatientName    string
	FamilyMembers  []string
	RecentPictures []models.StoredPhoto
}

// profile shows the patient's name, the configured family members, and the
// most recently uploaded pictures.
func (app *application) profile(w http.ResponseWriter, r *http.Request) {
	recent, err := app.photos.Latest(r.Context(), recentPictureCount)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	var members []string
	for _, member := range strings.Split(app.cfg.FamilyMembers, ",") {
		if member = strings.TrimSpace(member); member != "" {
			members = append(members, member)
		}
	}

	data := profileTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		PatientName:      app.cfg.PatientName,
		FamilyMembers:    members,
		RecentPictures:   recent,
	}

	app.render(w, r, http.StatusOK, "profile", data)
}
