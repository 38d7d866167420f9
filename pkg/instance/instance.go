package instance

import (
	"os"
	"strings"
)

// EnvInstanceID overrides the detected process identity.
const EnvInstanceID = "FOGUEL_INSTANCE_ID"

// GetID returns the identity logged by long-running workers: the configured
// instance id, else the host name, else fallback.
func GetID(fallback string) string {
	if id := strings.TrimSpace(os.Getenv(EnvInstanceID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
