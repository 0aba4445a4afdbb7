// scoring/store/identity_store.go
package store

import (
	"context"
	"fmt"

	redisu "github.com/birthday-games/go-services/shared/redis"
	"github.com/redis/go-redis/v9"
)

// IdentityStore maps a device id to the player id the device claims to be,
// held server-side so handlers can resolve the acting player as explicit
// session context instead of trusting ambient client state.
type IdentityStore struct {
	client *redis.ClusterClient
}

func NewIdentityStore(client *redis.ClusterClient) *IdentityStore {
	return &IdentityStore{client: client}
}

// SetIdentity records which player a device claims to be. No TTL: the claim
// sticks until replaced or cleared.
func (is *IdentityStore) SetIdentity(ctx context.Context, deviceID, playerID string) error {
	key := fmt.Sprintf(redisu.IdentityKeyPrefix, deviceID)
	if err := is.client.Set(ctx, key, playerID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set identity for device %s: %w", deviceID, err)
	}
	return nil
}

// GetIdentity returns the claimed player id for a device, or
// redisu.ErrRedisKeyNotFound when the device has no claim.
func (is *IdentityStore) GetIdentity(ctx context.Context, deviceID string) (string, error) {
	key := fmt.Sprintf(redisu.IdentityKeyPrefix, deviceID)
	playerID, err := is.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("no identity for device %s: %w", deviceID, redisu.ErrRedisKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get identity for device %s: %w", deviceID, err)
	}
	return playerID, nil
}

// ClearIdentity removes a device's claim.
func (is *IdentityStore) ClearIdentity(ctx context.Context, deviceID string) error {
	key := fmt.Sprintf(redisu.IdentityKeyPrefix, deviceID)
	if err := is.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear identity for device %s: %w", deviceID, err)
	}
	return nil
}
