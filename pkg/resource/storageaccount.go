package resource

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
)

// TypeStorageAccount is the registry name for the cloud storage variant.
const TypeStorageAccount = "StorageAccount"

// accessKeyLen is the length of a generated storage access key.
const accessKeyLen = 32

const accessKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// StorageAccount is a cloud storage service.
type StorageAccount struct {
	// EncryptionEnabled controls at-rest encryption.
	EncryptionEnabled bool `json:"encryption_enabled"`

	// AccessKey is generated at validation time. Caller-supplied values
	// are overwritten.
	AccessKey string `json:"access_key"`

	// MaxSizeGB is the maximum storage size in gigabytes.
	MaxSizeGB int `json:"max_size_gb" validate:"oneof=50 100 500 1000"`
}

// NewStorageAccount decodes and validates a StorageAccount configuration.
func NewStorageAccount(raw json.RawMessage) (Spec, error) {
	var s StorageAccount
	if err := decodeConfig(raw, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// TypeName implements Spec.
func (s *StorageAccount) TypeName() string { return TypeStorageAccount }

// Validate implements Spec. On success it generates the access key,
// replacing any caller-supplied value.
func (s *StorageAccount) Validate() error {
	if err := checkStruct(s); err != nil {
		return err
	}
	s.AccessKey = generateAccessKey()
	return nil
}

// CreationDetails implements Spec.
func (s *StorageAccount) CreationDetails() string {
	encryption := "without encryption"
	if s.EncryptionEnabled {
		encryption = "with encryption"
	}
	return fmt.Sprintf("%s, max size %dGB", encryption, s.MaxSizeGB)
}

// StartDetails implements Spec.
func (s *StorageAccount) StartDetails() string {
	return fmt.Sprintf("with access key %s...", s.AccessKey[:8])
}

// Describe implements Spec.
func (s *StorageAccount) Describe(name string, state State) string {
	encryption := "Disabled"
	if s.EncryptionEnabled {
		encryption = "Enabled"
	}
	return fmt.Sprintf("StorageAccount: %s\n  Encryption: %s\n  Access Key: %s...\n  Max Size: %dGB\n  State: %s",
		name, encryption, s.AccessKey[:12], s.MaxSizeGB, state)
}

// generateAccessKey returns a random alphanumeric token of accessKeyLen
// characters.
func generateAccessKey() string {
	buf := make([]byte, accessKeyLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = accessKeyAlphabet[int(b)%len(accessKeyAlphabet)]
	}
	return string(buf)
}
