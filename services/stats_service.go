package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"frontdesk-backend/models"
)

// StatsService maintains the dashboard counters in redis. Every call is
// fire-and-forget relative to the booking transition that triggered it: a
// nil client or a redis failure is logged and dropped, never propagated.
type StatsService struct {
	RDB *redis.Client
	Log *zap.Logger
}

func NewStatsService(rdb *redis.Client, log *zap.Logger) *StatsService {
	return &StatsService{RDB: rdb, Log: log}
}

const (
	keyBookingsTotal = "stats:bookings:total"
	keyRevenueTotal  = "stats:revenue:total"
	keyGuestsInHouse = "stats:guests:inhouse"
)

func keyBookingsMonth(t time.Time) string {
	return "stats:bookings:" + t.Format("2006-01")
}

func keyArrivals(t time.Time) string {
	return "stats:arrivals:" + t.Format("2006-01-02")
}

func (s *StatsService) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func (s *StatsService) apply(op string, fn func(ctx context.Context, pipe redis.Pipeliner)) {
	if s == nil || s.RDB == nil {
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	pipe := s.RDB.Pipeline()
	fn(ctx, pipe)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Log.Warn("stats counter update failed", zap.String("op", op), zap.Error(err))
	}
}

func (s *StatsService) BookingCreated(b *models.Booking) {
	s.apply("booking_created", func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Incr(ctx, keyBookingsTotal)
		pipe.Incr(ctx, keyBookingsMonth(b.CreatedAt))
		pipe.IncrByFloat(ctx, keyRevenueTotal, b.TotalAmount)
	})
}

func (s *StatsService) BookingCancelled(b *models.Booking) {
	s.apply("booking_cancelled", func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.IncrByFloat(ctx, keyRevenueTotal, -b.TotalAmount)
	})
}

func (s *StatsService) GuestCheckedIn(b *models.Booking) {
	s.apply("guest_checked_in", func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Incr(ctx, keyArrivals(time.Now().UTC()))
		pipe.IncrBy(ctx, keyGuestsInHouse, int64(b.Guests))
	})
}

func (s *StatsService) GuestCheckedOut(b *models.Booking) {
	s.apply("guest_checked_out", func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.DecrBy(ctx, keyGuestsInHouse, int64(b.Guests))
	})
}

// Snapshot reads the current counters for the dashboard.
func (s *StatsService) Snapshot() (map[string]string, error) {
	if s == nil || s.RDB == nil {
		return map[string]string{}, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	now := time.Now().UTC()
	keys := []string{
		keyBookingsTotal,
		keyBookingsMonth(now),
		keyRevenueTotal,
		keyArrivals(now),
		keyGuestsInHouse,
	}
	vals, err := s.RDB.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stats counters: %w", err)
	}
	out := make(map[string]string, len(keys))
	labels := []string{"totalBookings", "monthlyBookings", "totalRevenue", "todayArrivals", "guestsInHouse"}
	for i, v := range vals {
		if v == nil {
			out[labels[i]] = "0"
			continue
		}
		out[labels[i]] = fmt.Sprintf("%v", v)
	}
	return out, nil
}
