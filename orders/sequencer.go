package orders

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSequencer mints per-day order sequences with an atomic INCR on a
// daily key. Keys expire two days after first use; by then the day's prefix
// is no longer minted from.
type RedisSequencer struct {
	Conn *redis.Client
}

func (s *RedisSequencer) Next(ctx context.Context, day string) (int, error) {
	key := "ordseq:" + day
	seq, err := s.Conn.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if seq == 1 {
		s.Conn.Expire(ctx, key, 48*time.Hour)
	}
	return int(seq), nil
}
