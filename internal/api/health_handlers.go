package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Version    string                     `json:"version" doc:"Server version"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	storageHealth := s.checkStorage()
	components["storage"] = storageHealth
	if storageHealth.Status == "degraded" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Version:    Version,
			Components: components,
		},
	}, nil
}

// checkStorage reports which backend is serving and whether uploads persist.
// Running on the fallback store is degraded, not unhealthy: annotation state
// still persists, only document bytes become session-only.
func (s *Server) checkStorage() ComponentHealth {
	if s.workspace == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "workspace not configured",
		}
	}

	name := s.workspace.BackendName()
	if !s.workspace.BackendCapabilities().DocumentBlobs {
		return ComponentHealth{
			Status:  "degraded",
			Message: name + ": document uploads are session-only",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: name,
	}
}
