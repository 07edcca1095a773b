package contexthelpers

import (
	"context"
	"net/http"
)

func SetRole(r *http.Request, role Role) *http.Request {
	ctx := context.WithValue(r.Context(), roleContextKey, role)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}
