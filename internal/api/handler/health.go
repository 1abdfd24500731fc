package handler

import (
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports process liveness only.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready reports readiness by pinging each named dependency. Any failed
// check yields a 503 with the per-dependency results.
func Ready(checks map[string]func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := ReadyResponse{
			Status: "ok",
			Checks: make(map[string]string, len(checks)),
		}
		status := http.StatusOK

		for name, check := range checks {
			if err := check(r); err != nil {
				resp.Status = "unavailable"
				resp.Checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		JSON(w, status, resp)
	}
}
