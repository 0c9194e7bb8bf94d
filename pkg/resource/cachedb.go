package resource

import (
	"encoding/json"
	"fmt"
)

// TypeCacheDB is the registry name for the in-memory cache variant.
const TypeCacheDB = "CacheDB"

// CacheDB is an in-memory caching database service. The eviction policy
// is descriptive metadata; no eviction is simulated.
type CacheDB struct {
	// TTLSeconds is the default entry time-to-live in seconds.
	TTLSeconds int `json:"ttl_seconds" validate:"oneof=60 300 600 3600"`

	// CapacityMB is the cache capacity in megabytes.
	CapacityMB int `json:"capacity_mb" validate:"oneof=128 256 512 1024"`

	// EvictionPolicy is the configured eviction strategy.
	EvictionPolicy string `json:"eviction_policy" validate:"oneof=LRU FIFO LFU RANDOM"`
}

// NewCacheDB decodes and validates a CacheDB configuration.
func NewCacheDB(raw json.RawMessage) (Spec, error) {
	var s CacheDB
	if err := decodeConfig(raw, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// TypeName implements Spec.
func (s *CacheDB) TypeName() string { return TypeCacheDB }

// Validate implements Spec.
func (s *CacheDB) Validate() error { return checkStruct(s) }

// CreationDetails implements Spec.
func (s *CacheDB) CreationDetails() string {
	return fmt.Sprintf("with %s eviction, %dMB capacity, TTL %ds",
		s.EvictionPolicy, s.CapacityMB, s.TTLSeconds)
}

// StartDetails implements Spec.
func (s *CacheDB) StartDetails() string {
	return fmt.Sprintf("with %s policy", s.EvictionPolicy)
}

// Describe implements Spec.
func (s *CacheDB) Describe(name string, state State) string {
	return fmt.Sprintf("CacheDB: %s\n  TTL: %d seconds\n  Capacity: %dMB\n  Eviction Policy: %s\n  State: %s",
		name, s.TTLSeconds, s.CapacityMB, s.EvictionPolicy, state)
}
