package config

import "fmt"

// DomainConfig holds the configurable limits of the canvas and of the
// validation service.
type DomainConfig struct {
	// Canvas constraints
	MaxNodesPerCanvas int
	MaxEdgesPerCanvas int
	MaxTemplateLength int

	// Connection rules
	AllowSelfConnections bool

	// Validation service limits
	MaxDocumentNodes int
	MaxDocumentEdges int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNodesPerCanvas:    1000,
		MaxEdgesPerCanvas:    5000,
		MaxTemplateLength:    20000,
		AllowSelfConnections: true,
		MaxDocumentNodes:     10000,
		MaxDocumentEdges:     50000,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerCanvas = 500
	config.MaxEdgesPerCanvas = 2500
	config.MaxDocumentNodes = 5000
	config.MaxDocumentEdges = 25000

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerCanvas = 100000
	config.MaxEdgesPerCanvas = 500000
	config.MaxTemplateLength = 200000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxNodesPerCanvas <= 0 || c.MaxEdgesPerCanvas <= 0 {
		return fmt.Errorf("canvas limits must be positive")
	}
	if c.MaxDocumentNodes <= 0 || c.MaxDocumentEdges <= 0 {
		return fmt.Errorf("document limits must be positive")
	}
	if c.MaxTemplateLength <= 0 {
		return fmt.Errorf("template length limit must be positive")
	}
	return nil
}
