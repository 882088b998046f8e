package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GlorotUConfig implements a configuration of the Glorot Uniform
// initialization algorithm.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	config := GlorotUConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// Validate checks that the gain is positive
func (g GlorotUConfig) Validate() error {
	return validateGain(g.Gain)
}

// GlorotNConfig implements a configuration of the Glorot Normal
// initialization algorithm. Values are drawn from a normal distribution
// with mean 0 and standard deviation Gain * sqrt(2 / (fanIn + fanOut)).
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot Normal weight initializer.
func NewGlorotN(gain float64) (*InitWFn, error) {
	config := GlorotNConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by the
// configuration.
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}

// Validate checks that the gain is positive
func (g GlorotNConfig) Validate() error {
	return validateGain(g.Gain)
}

func validateGain(gain float64) error {
	if gain <= 0 {
		return fmt.Errorf("gain must be positive, got %v", gain)
	}
	return nil
}
