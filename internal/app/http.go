package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpcontext "github.com/dtroode/identity-server/internal/api/http/context"
	"github.com/dtroode/identity-server/internal/api/http/router"
	"github.com/dtroode/identity-server/internal/logger"
)

// NewHTTPRouter creates the HTTP router of a service with its own metrics
// registry, including the Go runtime and process collectors.
func NewHTTPRouter(service string, logger *logger.Logger) *router.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return router.New(httpcontext.NewManager(), registry, service, logger.With("service", service))
}
