package config

import (
	"os"
	"strconv"
	"time"
)

// GetBackendURL returns the base URL of the marketplace API that owns
// all donation-request state. This service never mutates requests
// directly; every completion goes through that API.
func GetBackendURL() string {
	BACKEND_API_URL := os.Getenv("BACKEND_API_URL")
	if BACKEND_API_URL == "" {
		BACKEND_API_URL = "http://localhost:8080/api/v1"
	}
	return BACKEND_API_URL
}

// GetRequestTimeout returns the timeout applied to backend submissions.
// Zero means no client-side timeout, matching the transport defaults
// the original client relied on.
func GetRequestTimeout() time.Duration {
	raw := os.Getenv("REQUEST_TIMEOUT_SECONDS")
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// GetSessionTTL returns how long an idle verification session is kept
// before the sweeper reclaims it and releases any camera it holds.
func GetSessionTTL() time.Duration {
	raw := os.Getenv("SESSION_TTL_MINUTES")
	mins, err := strconv.Atoi(raw)
	if err != nil || mins <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(mins) * time.Minute
}

const (
	// CODE_LENGTH is the fixed length of a pickup confirmation code.
	CODE_LENGTH = 6

	// SAMPLE_INTERVAL is how often an active capture session samples
	// the camera feed for a decodable frame.
	SAMPLE_INTERVAL = 100 * time.Millisecond
)
