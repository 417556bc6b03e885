package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"hostel_mess_backend/internal/repositories"
	"hostel_mess_backend/internal/services"
	"hostel_mess_backend/pkg/clients/kitchen"
	"hostel_mess_backend/pkg/utils"
)

// Scheduler runs the nightly cutoff snapshot job. At the ordering cutoff the
// head counts for the next day are final, so they are collected and pushed to
// the kitchen in one pass.
type Scheduler struct {
	cron          *cron.Cron
	mealOrderRepo repositories.MealOrderRepository
	policy        *services.CutoffPolicy
	kitchenClient kitchen.Client
}

// NewScheduler creates a new scheduler instance. kitchenClient may be nil, in
// which case the snapshot is only logged.
func NewScheduler(mealOrderRepo repositories.MealOrderRepository, policy *services.CutoffPolicy, kitchenClient kitchen.Client) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		mealOrderRepo: mealOrderRepo,
		policy:        policy,
		kitchenClient: kitchenClient,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	// At 22:00 every day, when ordering for the next day closes.
	_, err := s.cron.AddFunc("0 22 * * *", s.sendCutoffSnapshot)
	if err != nil {
		utils.LogError(err, "Failed to schedule cutoff snapshot job")
		return
	}

	s.cron.Start()
	utils.LogInfo("Cutoff snapshot scheduler started")
}

// Stop stops the cron loop. Running jobs are left to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	utils.LogInfo("Cutoff snapshot scheduler stopped")
}

func (s *Scheduler) sendCutoffSnapshot() {
	snapshotDate := s.policy.Today().AddDate(0, 0, 1)

	counts, err := s.mealOrderRepo.CountMealsForDate(snapshotDate)
	if err != nil {
		utils.LogError(err, "Failed to count meals for cutoff snapshot")
		return
	}

	utils.LogInfo("Cutoff snapshot collected", map[string]interface{}{
		"date":      counts.Date,
		"breakfast": counts.Breakfast,
		"lunch":     counts.Lunch,
		"dinner":    counts.Dinner,
		"total":     counts.Total(),
	})

	if s.kitchenClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.kitchenClient.SendDailySnapshot(ctx, counts); err != nil {
		utils.LogError(err, "Failed to send cutoff snapshot to kitchen")
		return
	}

	utils.LogInfo("Cutoff snapshot sent to kitchen", map[string]interface{}{"date": counts.Date})
}
