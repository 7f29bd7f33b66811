package http

import (
	stdhttp "net/http"
)

// HealthHandler reports liveness. It says nothing about database health;
// readiness is the deployment's concern.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
