package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitCache connecte le cache Redis des quotas. URL vide = pas de cache.
func InitCache(redisURL string) error {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("URL Redis invalide: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connexion Redis échouée: %w", err)
	}

	redisClient = client
	return nil
}

// SetCacheClient remplace le client (tests avec miniredis)
func SetCacheClient(client *redis.Client) {
	redisClient = client
}

func cacheKey(workspaceID string) string {
	return fmt.Sprintf("quota:workspace:%s", workspaceID)
}

func cacheGet(ctx context.Context, workspaceID string) (Quota, bool) {
	if redisClient == nil {
		return Quota{}, false
	}
	data, err := redisClient.Get(ctx, cacheKey(workspaceID)).Result()
	if err != nil {
		return Quota{}, false
	}
	var q Quota
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		// Donnée corrompue : on la supprime
		redisClient.Del(ctx, cacheKey(workspaceID))
		return Quota{}, false
	}
	return q, true
}

func cacheSet(ctx context.Context, workspaceID string, q Quota, ttl time.Duration) {
	if redisClient == nil {
		return
	}
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	redisClient.Set(ctx, cacheKey(workspaceID), data, ttl)
}

func cacheDel(ctx context.Context, workspaceID string) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(ctx, cacheKey(workspaceID)).Err()
}
