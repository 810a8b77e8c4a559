package httpx

import (
	"net/http"

	"github.com/lubsanchez/pos-console/internal/access"
)

// healthStatus is the /healthz body. Operator reports whether a signed-in
// identity is known; it never triggers a validation call.
type healthStatus struct {
	Status   string `json:"status"`
	Operator bool   `json:"operator"`
}

// healthHandler answers liveness probes without touching the POS API.
func healthHandler(identities access.IdentitySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		status := healthStatus{Status: "ok"}
		if identities != nil {
			_, status.Operator = identities.CurrentIdentity()
		}
		WriteJSON(w, http.StatusOK, status)
	}
}
