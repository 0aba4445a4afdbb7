// shared/cluster/assignment_manager.go
package cluster

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/birthday-games/go-services/shared/registry"
	"github.com/stathat/consistent"
)

// ServiceAssignmentManager lets a service instance decide whether it owns a
// given entity, using consistent hashing across the active instances of its
// type. The scoring service uses it to elect the one instance that refreshes
// the standings snapshot.
type ServiceAssignmentManager struct {
	registryClient   *registry.RegistryClient
	serviceRegistrar *registry.ServiceRegistrar
	updateInterval   time.Duration
	consistentHash   *consistent.Consistent
	chMux            sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
}

func NewServiceAssignmentManager(
	registryClient *registry.RegistryClient,
	serviceRegistrar *registry.ServiceRegistrar,
	updateInterval time.Duration,
) *ServiceAssignmentManager {
	ctx, cancel := context.WithCancel(context.Background())

	sam := &ServiceAssignmentManager{
		registryClient:   registryClient,
		serviceRegistrar: serviceRegistrar,
		updateInterval:   updateInterval,
		consistentHash:   consistent.New(),
		ctx:              ctx,
		cancel:           cancel,
	}

	// Seed the ring with this instance so IsResponsible works before the
	// first registry refresh.
	sam.chMux.Lock()
	sam.consistentHash.Add(sam.serviceRegistrar.GetServiceID())
	sam.chMux.Unlock()

	return sam
}

// Start runs the periodic ring refresh. Run in a goroutine.
func (sam *ServiceAssignmentManager) Start() {
	ticker := time.NewTicker(sam.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sam.ctx.Done():
			return
		case <-ticker.C:
			sam.updateConsistentHashRing()
		}
	}
}

// Stop shuts the manager down.
func (sam *ServiceAssignmentManager) Stop() {
	sam.cancel()
}

// updateConsistentHashRing rebuilds the ring when the set of active instances
// has changed.
func (sam *ServiceAssignmentManager) updateConsistentHashRing() {
	activeServices, err := sam.registryClient.GetActiveServices(sam.ctx, sam.serviceRegistrar.GetServiceType())
	if err != nil {
		log.Printf("ERROR: AssignmentManager: failed to get active services for type %q: %v", sam.serviceRegistrar.GetServiceType(), err)
		return
	}

	members := make([]string, 0, len(activeServices))
	for id := range activeServices {
		members = append(members, id)
	}
	slices.Sort(members)

	sam.chMux.Lock()
	defer sam.chMux.Unlock()

	currentMembers := sam.consistentHash.Members()
	slices.Sort(currentMembers)

	if !slices.Equal(members, currentMembers) {
		newHashRing := consistent.New()
		for _, member := range members {
			newHashRing.Add(member)
		}
		sam.consistentHash = newHashRing
		log.Printf("INFO: AssignmentManager: ring updated for %q, members: %v", sam.serviceRegistrar.GetServiceType(), members)
	}
}

// IsResponsible reports whether this instance owns the given entity id.
func (sam *ServiceAssignmentManager) IsResponsible(entityID string) (bool, error) {
	sam.chMux.RLock()
	defer sam.chMux.RUnlock()

	if len(sam.consistentHash.Members()) == 0 {
		return false, fmt.Errorf("consistent hash ring is empty for service type %s", sam.serviceRegistrar.GetServiceType())
	}

	responsibleService, err := sam.consistentHash.Get(entityID)
	if err != nil {
		return false, fmt.Errorf("failed to get responsible service for entity %q: %w", entityID, err)
	}

	return responsibleService == sam.serviceRegistrar.GetServiceID(), nil
}
