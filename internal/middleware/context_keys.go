package middleware

import "context"

// clientIDKey is the key used to store the authenticated client's ID
// (the token subject) in the request context.
const clientIDKey = contextKey("clientID")

// rolesKey is the key used to store the authenticated client's roles.
const rolesKey = contextKey("roles")

// GetClientIDFromContext retrieves the authenticated client ID from the
// context. It returns the ID and a boolean indicating if it was found.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	if !ok || clientID == "" {
		return "", false
	}
	return clientID, true
}

// GetRolesFromContext retrieves the authenticated client's roles from the
// context.
func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(rolesKey).([]string)
	return roles, ok
}
