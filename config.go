package staterng

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config specifies how a Generator is built.
type Config struct {
	// TotalCapacityCap bounds the whole buffer (header, identifier and
	// user stack). Rounded up to a power of two.
	TotalCapacityCap uint32 `yaml:"total_capacity_cap"`

	// UserCapacityCap bounds the user stack alone. Rounded up to a power
	// of two.
	UserCapacityCap uint32 `yaml:"user_capacity_cap"`

	// Hash selects the built-in hash primitive.
	Hash HashKind `yaml:"hash"`

	// HashFunc replaces Hash with a custom primitive when set.
	HashFunc HashFunc `yaml:"-"`

	// Allocator provides buffer memory. Defaults to HeapAllocator.
	Allocator Allocator `yaml:"-"`

	// Uniqueness supplies headers. Defaults to DefaultUniqueness().
	Uniqueness *UniquenessAllocator `yaml:"-"`
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		TotalCapacityCap: DefaultCapacityCap,
		UserCapacityCap:  DefaultCapacityCap,
		Hash:             HashXXH3,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TotalCapacityCap == 0 || c.UserCapacityCap == 0 {
		return fmt.Errorf("%w: caps must not be zero", ErrInvalidCapacity)
	}

	if c.TotalCapacityCap > MaxCapacityCap || c.UserCapacityCap > MaxCapacityCap {
		return fmt.Errorf("%w: caps must not exceed %d", ErrInvalidCapacity, uint32(MaxCapacityCap))
	}

	if c.TotalCapacityCap < HeaderSize {
		return fmt.Errorf("%w: total cap %d cannot hold the header", ErrInvalidCapacity, c.TotalCapacityCap)
	}

	if c.HashFunc == nil && c.Hash.Func() == nil {
		return fmt.Errorf("staterng: invalid hash: %v", c.Hash)
	}

	return nil
}

func (c *Config) hashFunc() HashFunc {
	if c.HashFunc != nil {
		return c.HashFunc
	}
	return c.Hash.Func()
}

func (c *Config) allocator() Allocator {
	if c.Allocator != nil {
		return c.Allocator
	}
	return HeapAllocator{}
}

func (c *Config) uniqueness() *UniquenessAllocator {
	if c.Uniqueness != nil {
		return c.Uniqueness
	}
	return DefaultUniqueness()
}

// ParseConfig decodes a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("staterng: parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("staterng: read config: %w", err)
	}
	return ParseConfig(data)
}

// UnmarshalYAML decodes a hash kind from its configuration name.
func (k *HashKind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.New("staterng: hash must be a scalar")
	}
	kind, err := ParseHashKind(value.Value)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalYAML encodes a hash kind as its configuration name.
func (k HashKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
