package main

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/memora-app/memora/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServerFS(ui.Files)
	mux.Handle("GET /static/", cacheForeverHeaders(fileServer))

	// Browser-facing routes carry the session and CSRF protection.
	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /role", session.ThenFunc(app.chooseRole))
	mux.Handle("GET /profile", session.ThenFunc(app.profile))

	mux.Handle("GET /family", session.ThenFunc(app.familyPage))
	mux.Handle("POST /family/photos", session.ThenFunc(app.familyCollect))
	mux.Handle("POST /family/photos/{index}/place", session.ThenFunc(app.familyPlace))
	mux.Handle("POST /family/photos/{index}/time", session.ThenFunc(app.familyTime))
	mux.Handle("POST /family/finalize", session.ThenFunc(app.familyFinalize))
	mux.Handle("POST /family/photos/{index}/tag-session", session.ThenFunc(app.familyStartTagging))
	mux.Handle("POST /family/tags", session.ThenFunc(app.familySubmitTag))
	mux.Handle("POST /family/back", session.ThenFunc(app.familyBack))
	mux.Handle("POST /family/finish", session.ThenFunc(app.familyFinish))

	mux.Handle("GET /patient", session.ThenFunc(app.patientPage))
	mux.Handle("POST /patient/advance", session.ThenFunc(app.patientAdvance))
	mux.Handle("POST /patient/retreat", session.ThenFunc(app.patientRetreat))
	mux.Handle("POST /patient/quiz/select", session.ThenFunc(app.patientQuizSelect))
	mux.Handle("POST /patient/quiz/answer", session.ThenFunc(app.patientQuizAnswer))

	// The JSON/multipart API is sessionless and CSRF-exempt.
	mux.HandleFunc("POST /api/upload", app.apiUpload)
	mux.HandleFunc("GET /api/images", app.apiImages)
	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
