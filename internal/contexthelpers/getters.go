package contexthelpers

import "context"

// Role identifies the chosen experience: family members upload and tag,
// patients view the feed.
type Role string

const (
	RoleFamily  Role = "family"
	RolePatient Role = "patient"
)

func CurrentRole(ctx context.Context) Role {
	role, ok := ctx.Value(roleContextKey).(Role)
	if !ok {
		return ""
	}

	return role
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}
