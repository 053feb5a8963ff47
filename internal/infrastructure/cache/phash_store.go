package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const defaultHashSetKey = "image_phash_set"

// PhashStore keeps every perceptual hash the service has ever accepted in
// one shared redis set, so duplicate detection works across submissions,
// tenants, and restarts.
type PhashStore struct {
	rdb *redis.Client
	key string
}

func NewPhashStore(rdb *redis.Client) *PhashStore {
	return &PhashStore{rdb: rdb, key: defaultHashSetKey}
}

func (s *PhashStore) Members(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, s.key).Result()
}

func (s *PhashStore) Add(ctx context.Context, hash string) error {
	return s.rdb.SAdd(ctx, s.key, hash).Err()
}
