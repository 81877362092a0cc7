package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	sweeper *Sweeper
}

func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{sweeper: sweeper}
}

// Start schedules the nightly blob sweep (03:00 server time).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.sweeper.Run(ctx)
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (blob sweep nightly at 3:00AM)")
	c.Start()
}
