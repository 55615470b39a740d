package usecase

import (
	"context"
	"time"

	"jobboard-api/internal/domain"
)

type healthUsecase struct {
	checks map[string]domain.Pinger
}

// NewHealthUsecase reports on each named dependency; nil pingers are shown as disabled.
func NewHealthUsecase(checks map[string]domain.Pinger) domain.HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	healthy := true
	for name, p := range u.checks {
		if p == nil {
			status[name] = "disabled"
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
