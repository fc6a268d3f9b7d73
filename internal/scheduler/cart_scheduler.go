package scheduler

import (
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/service"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartScheduler periodically closes empty carts that sat idle too long,
// so abandoned sessions do not pile up as open aggregates.
type CartScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	staleAge    time.Duration
}

func NewCartScheduler(cartService service.CartService, staleAge time.Duration) *CartScheduler {
	return &CartScheduler{
		cron:        cron.New(),
		cartService: cartService,
		staleAge:    staleAge,
	}
}

// Start schedules the cleanup to run hourly.
func (s *CartScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting scheduled stale cart cleanup", map[string]interface{}{
			"stale_age": s.staleAge.String(),
		})

		closed, err := s.cartService.CloseStaleCarts(s.staleAge)
		if err != nil {
			logger.Error("Failed to close stale carts from scheduler", err)
			return
		}

		logger.Info("Scheduled stale cart cleanup finished", map[string]interface{}{
			"closed": closed,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started successfully (hourly)", nil)
	return nil
}

// Stop halts the scheduler.
func (s *CartScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
