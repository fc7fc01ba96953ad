package globals

import (
	"context"
	"os"
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var JwtSecret = []byte(envOr("JWT_SECRET", "dev-only-secret"))

var Ctx = context.Background()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
