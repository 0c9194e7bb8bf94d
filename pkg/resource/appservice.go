package resource

import (
	"encoding/json"
	"fmt"
)

// TypeAppService is the registry name for the web application hosting
// variant.
const TypeAppService = "AppService"

// AppService is a web application hosting service.
type AppService struct {
	// Runtime is the application runtime stack.
	Runtime string `json:"runtime" validate:"oneof=python nodejs dotnet"`

	// Region is the deployment region.
	Region string `json:"region" validate:"oneof=EastUS WestEurope CentralIndia"`

	// ReplicaCount is the number of replicas to run.
	ReplicaCount int `json:"replica_count" validate:"oneof=1 2 3"`
}

// NewAppService decodes and validates an AppService configuration.
func NewAppService(raw json.RawMessage) (Spec, error) {
	var s AppService
	if err := decodeConfig(raw, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// TypeName implements Spec.
func (s *AppService) TypeName() string { return TypeAppService }

// Validate implements Spec.
func (s *AppService) Validate() error { return checkStruct(s) }

// CreationDetails implements Spec.
func (s *AppService) CreationDetails() string {
	return fmt.Sprintf("with %s runtime, %d replicas in %s", s.Runtime, s.ReplicaCount, s.Region)
}

// StartDetails implements Spec.
func (s *AppService) StartDetails() string {
	return fmt.Sprintf("in %s", s.Region)
}

// Describe implements Spec.
func (s *AppService) Describe(name string, state State) string {
	return fmt.Sprintf("AppService: %s\n  Runtime: %s\n  Region: %s\n  Replicas: %d\n  State: %s",
		name, s.Runtime, s.Region, s.ReplicaCount, state)
}
