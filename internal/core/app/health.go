package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

// Check reports "up" once at least one resolution has completed.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.store != nil {
		status.Components["catalog_cache"] = s.app.Config.Catalog.Cache
	}

	run, ok := s.app.LastRun()
	if !ok {
		status.Status = "starting"
		status.Components["resolver"] = "no completed run"
		return status
	}
	status.Components["resolver"] = fmt.Sprintf("ok (%d imports, %d features, %d diagnostics)",
		run.Imports, len(run.Features), run.Diagnostics)
	status.Components["last_run"] = run.FinishedAt.Format(time.RFC3339)
	return status
}
