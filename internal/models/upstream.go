package models

import "encoding/json"

// UpstreamResult is the raw outcome of a proxied upstream call. The
// proxy layer stays schema-unaware: on success the body is passed
// through unchanged, on failure only a best-effort message is read.
type UpstreamResult struct {
	StatusCode int
	Body       []byte
}

func (r *UpstreamResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UpstreamErrorMessage extracts a human-readable message from an
// upstream error payload. postcodes.io reports under "error",
// OpenWeatherMap under "message"; an unparseable or empty payload
// falls back to the given default.
func UpstreamErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if payload.Error != "" {
		return payload.Error
	}
	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}
