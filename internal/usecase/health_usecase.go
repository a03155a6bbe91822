package usecase

import (
	"context"
	"time"
)

// Pinger is a backing service the API depends on
type Pinger func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthUsecase reports "ok" for the process plus the state of each named
// dependency. Nil pingers are skipped so optional backends can be left out.
func NewHealthUsecase(checks map[string]Pinger) HealthUsecase {
	filtered := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			filtered[name] = p
		}
	}
	return &healthUsecase{checks: filtered, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	healthy := true

	for name, ping := range u.checks {
		pctx, cancel := context.WithTimeout(ctx, u.timeout)
		err := ping(pctx)
		cancel()
		if err != nil {
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
