// shared/registry/types.go
package registry

// ServiceInfo describes one registered service instance. Stored in Redis and
// used for discovery and for leader election of background jobs.
type ServiceInfo struct {
	ServiceID   string            `json:"serviceId"`
	ServiceType string            `json:"serviceType"` // e.g. "scoring-service", "recordstore-service"
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	LastSeen    int64             `json:"last_seen"` // unix milliseconds
	Metadata    map[string]string `json:"metadata,omitempty"`
}
