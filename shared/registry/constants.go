// shared/registry/constants.go
package registry

const (
	// RedisRegistryHashPrefix prefixes the Redis hash keys holding service
	// registrations. Full key format: "services:<serviceType>".
	RedisRegistryHashPrefix = "services:"
)
