package utils

import (
	"net/http"

	"solemart/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func IsAdminRequest(r *http.Request) bool {
	role, _ := r.Context().Value(globals.RoleKey).(string)
	return role == "admin"
}
