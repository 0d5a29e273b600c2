// Package health serves the liveness probe. It is a plain chi handler so
// probes never depend on the API layer or its envelopes.
package health

import (
	"encoding/json"
	"net/http"
)

// Response is the health payload.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Handler reports the service as healthy along with its version.
func Handler(version string) http.HandlerFunc {
	body, _ := json.Marshal(Response{Status: "healthy", Version: version})
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}
