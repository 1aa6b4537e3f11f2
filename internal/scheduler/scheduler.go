package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weatherdash/weather-dashboard/internal/dashboard"
)

// Scheduler periodically refreshes the dashboard session so the displayed
// record stays recent without user interaction.
type Scheduler struct {
	scheduler *gocron.Scheduler
	session   *dashboard.Session
	interval  time.Duration
}

// New creates a new Scheduler.
func New(session *dashboard.Session, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		session:   session,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if s.session.Location() == "" {
			return
		}
		log.Println("scheduler: refreshing dashboard")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.session.Refresh(ctx); err != nil {
			log.Printf("scheduler: refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
