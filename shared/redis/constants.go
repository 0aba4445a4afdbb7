// shared/redis/constants.go
package redis

import "fmt"

const (
	// IdentityKeyPrefix maps a device id to the player id the device claims
	// to be: identity:{deviceID}
	IdentityKeyPrefix = "identity:{%s}:"

	// StandingsSnapshotKey holds the latest JSON standings snapshot written
	// by the leader-elected sync job.
	StandingsSnapshotKey = "standings:latest"
)

// ErrRedisKeyNotFound is returned when a looked-up key does not exist.
var ErrRedisKeyNotFound = fmt.Errorf("redis key not found")
