package utils

// ContextKey types the request-context keys set by the JWT middleware
// (userId, role, groupId, email, firstName, expiresAt).
type ContextKey string
