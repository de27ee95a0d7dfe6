package engine

import "fmt"

// EngineConfig contains configuration for the rewrite engine.
type EngineConfig struct {
	// MaxRewritesPerNode bounds how many times one rule may fire at a
	// single node during Apply.
	// Default: 64.
	MaxRewritesPerNode int

	// MaxPasses bounds how many full passes a rule set makes before it is
	// considered cyclic.
	// Default: 32.
	MaxPasses int

	// MaxExpressionLength is the largest accepted input in bytes.
	// Default: 4096.
	MaxExpressionLength int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxRewritesPerNode:  DefaultMaxRewritesPerNode,
		MaxPasses:           32,
		MaxExpressionLength: 4096,
	}
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	if c.MaxRewritesPerNode <= 0 {
		return fmt.Errorf("%w: max rewrites per node must be positive", ErrInvalidConfig)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("%w: max passes must be positive", ErrInvalidConfig)
	}
	if c.MaxExpressionLength <= 0 {
		return fmt.Errorf("%w: max expression length must be positive", ErrInvalidConfig)
	}
	return nil
}

// WithMaxRewritesPerNode sets the per-node rewrite bound.
func (c *EngineConfig) WithMaxRewritesPerNode(n int) *EngineConfig {
	c.MaxRewritesPerNode = n
	return c
}

// WithMaxPasses sets the rule-set pass bound.
func (c *EngineConfig) WithMaxPasses(n int) *EngineConfig {
	c.MaxPasses = n
	return c
}

// WithMaxExpressionLength sets the input length limit.
func (c *EngineConfig) WithMaxExpressionLength(n int) *EngineConfig {
	c.MaxExpressionLength = n
	return c
}
