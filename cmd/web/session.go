package main

// Session keys for alexedwards/scs.
const (
	roleSessionKey       = "role"
	sessionIDSessionKey  = "sessionID"
	quizResultSessionKey = "quizResult"
)
