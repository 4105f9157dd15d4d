package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"weather-report-service/internal/weather"
)

// Scheduler periodically re-ingests weather data for configured coordinates,
// keeping the reporting window populated without on-demand requests.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	service     *weather.Service
	coordinates []weather.Coordinate
	interval    time.Duration
}

// New creates a new Scheduler.
func New(coordinates []weather.Coordinate, interval time.Duration, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:   s,
		service:     service,
		coordinates: coordinates,
		interval:    interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.coordinates) == 0 {
		log.Println("scheduler: no coordinates configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running weather ingest job")

		var wg sync.WaitGroup
		for _, coord := range s.coordinates {
			coord := coord
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Ingest(ctx, coord); err != nil {
					log.Printf("scheduler: ingest failed for %s: %v", coord.Key(), err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed weather ingest job")
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
