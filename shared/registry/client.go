// shared/registry/client.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegistryClient reads the registry; registration itself is the
// ServiceRegistrar's job.
type RegistryClient struct {
	redisClient    *redis.ClusterClient
	serviceTimeout time.Duration
}

func NewRegistryClient(redisClient *redis.ClusterClient, serviceTimeout time.Duration) *RegistryClient {
	return &RegistryClient{
		redisClient:    redisClient,
		serviceTimeout: serviceTimeout,
	}
}

// GetActiveServices returns the instances of a service type whose last
// heartbeat is within the configured timeout, keyed by instance id.
func (rc *RegistryClient) GetActiveServices(ctx context.Context, serviceType string) (map[string]ServiceInfo, error) {
	key := fmt.Sprintf("%s%s", RedisRegistryHashPrefix, serviceType)
	results, err := rc.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list services of type %s from Redis: %w", serviceType, err)
	}

	activeServices := make(map[string]ServiceInfo)
	now := time.Now()

	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			// Malformed entries get purged by the registrar's cleanup loop.
			log.Printf("WARN: RegistryClient: corrupt ServiceInfo for ID %s (type %s): %v", instanceID, serviceType, err)
			continue
		}
		if now.Sub(time.UnixMilli(info.LastSeen)) <= rc.serviceTimeout {
			activeServices[instanceID] = info
		}
	}
	return activeServices, nil
}
