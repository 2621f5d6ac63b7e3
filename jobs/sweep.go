package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"frontdesk-backend/services"
)

// StartCheckoutSweep schedules the past-checkout sweep. The tick is
// deliberately tighter than the sweep's own 5-minute throttle: the durable
// watermark in the database decides whether a tick actually runs, so
// multiple server instances don't duplicate work. Failures are logged and
// swallowed; the next tick retries.
func StartCheckoutSweep(c *cron.Cron, bookings *services.BookingService, log *zap.Logger) error {
	_, err := c.AddFunc("@every 1m", func() {
		n, err := bookings.RunSweep()
		if err != nil {
			log.Warn("checkout sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("checkout sweep transitioned bookings", zap.Int("count", n))
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
