package memory

import (
	"context"
	"sync"
	"time"

	"tedred-internship-api/internal/domain"
)

// SimulatedSubmitter stands in for the real submission backend. It waits
// for a fixed delay and then accepts the application.
type SimulatedSubmitter struct {
	delay time.Duration

	mu        sync.Mutex
	submitted map[string]domain.SubmittedApplication
}

func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{
		delay:     delay,
		submitted: make(map[string]domain.SubmittedApplication),
	}
}

// Submit is idempotent per reference number
func (s *SimulatedSubmitter) Submit(ctx context.Context, app *domain.SubmittedApplication) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submitted[app.ReferenceNumber]; !exists {
		stored := *app
		stored.Record = app.Record.Clone()
		s.submitted[app.ReferenceNumber] = stored
	}
	return nil
}

// Get returns a submitted application by reference number
func (s *SimulatedSubmitter) Get(reference string) (domain.SubmittedApplication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.submitted[reference]
	return app, ok
}

// Count returns how many distinct applications were accepted
func (s *SimulatedSubmitter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submitted)
}
