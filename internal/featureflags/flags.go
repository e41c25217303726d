package featureflags

import (
	"os"
	"strings"
)

const (
	// RequireVerifiedLogin rejects logins from principals that have not
	// confirmed their email.
	RequireVerifiedLogin = "REQUIRE_VERIFIED_LOGIN"
	// PublicRealtime serves the anonymous /ws/public channel.
	PublicRealtime = "PUBLIC_REALTIME"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Set is a snapshot of the flags read once at startup.
type Set struct {
	RequireVerifiedLogin bool
	PublicRealtime       bool
}

// Load reads every known flag from the environment.
func Load() Set {
	return Set{
		RequireVerifiedLogin: Enabled(RequireVerifiedLogin),
		PublicRealtime:       Enabled(PublicRealtime),
	}
}
