package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func presenceKey(deviceID string) string {
	return fmt.Sprintf("presence:player:%s", deviceID)
}

// TouchPresence refreshes the player's liveness key. The key expires on
// its own when the device stops polling, so the fleet dashboard reads
// presence without touching the database.
func TouchPresence(ctx context.Context, deviceID string, syncInterval int) {
	if Rdb == nil {
		return
	}
	ttl := time.Duration(syncInterval*2) * time.Second
	if err := Rdb.Set(ctx, presenceKey(deviceID), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("failed to refresh presence key")
	}
}

// IsOnline reports whether the player's presence key is still live.
func IsOnline(ctx context.Context, deviceID string) bool {
	if Rdb == nil {
		return false
	}
	n, err := Rdb.Exists(ctx, presenceKey(deviceID)).Result()
	if err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("failed to check presence key")
		return false
	}
	return n > 0
}

// LastSeen returns the timestamp stored in the presence key, or zero if
// the key is gone or unreadable.
func LastSeen(ctx context.Context, deviceID string) time.Time {
	if Rdb == nil {
		return time.Time{}
	}
	raw, err := Rdb.Get(ctx, presenceKey(deviceID)).Result()
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
