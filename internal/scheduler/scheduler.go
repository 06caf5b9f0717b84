package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/syaikhipin/llm-farm/internal/agridata"
	"github.com/syaikhipin/llm-farm/internal/cache"
)

// Scheduler periodically sweeps stale cache entries and prewarms snapshots
// for the configured regions. Prewarming is cheap when the cache is fresh
// because BuildSnapshot consults it before issuing live calls.
type Scheduler struct {
	scheduler *gocron.Scheduler
	data      *agridata.Service
	cache     *cache.TimedCache
	regions   []agridata.RegionProfile
	interval  time.Duration
}

// New creates a Scheduler.
func New(c *cache.TimedCache, data *agridata.Service, regions []agridata.RegionProfile, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		data:      data,
		cache:     c,
		regions:   regions,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if removed := s.cache.SweepStale(); removed > 0 {
			log.Printf("scheduler: swept %d stale cache entries", removed)
		}

		var wg sync.WaitGroup
		for _, region := range s.regions {
			region := region
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				s.data.BuildSnapshot(ctx, region)
			}()
		}
		wg.Wait()
		log.Printf("scheduler: prewarmed snapshots for %d regions", len(s.regions))
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
