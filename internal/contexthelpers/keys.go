package contexthelpers

type contextKey string

const roleContextKey = contextKey("role")
const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
