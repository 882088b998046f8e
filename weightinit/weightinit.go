// Package weightinit initializes the learnables of network modules
// before training.
//
// InitWeights dispatches on the kind of a single module: Linear layers
// get Glorot normal weights and standard normal biases, recurrent cells
// get orthogonal matrices and standard normal vectors, and every other
// kind is left untouched. InitMessageWeights fills Linear layers from
// N(0, 0.1) and rejects every other kind with ErrUnsupportedModule.
//
// Neither function is safe to call concurrently on modules sharing
// learnables.
package weightinit

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/nninit/network"
)

// ErrUnsupportedModule is returned by InitMessageWeights for modules
// that are not Linear layers.
var ErrUnsupportedModule = errors.New("unsupported module type")

// InitWeights initializes the learnables of m according to
// DefaultScheme. Modules that are neither Linear nor RecurrentCell are
// left unchanged. Children of m are not visited; use network.Apply with
// Scheme.InitWeights to initialize a whole tree.
//
// InitWeights panics if a learnable of a recognized module cannot be
// filled, such as a node without a value.
func InitWeights(m network.Module) {
	if err := DefaultScheme().InitWeights(m); err != nil {
		panic(fmt.Sprintf("initweights: %v", err))
	}
}

// InitMessageWeights fills the weights and biases of Linear layers from
// a normal distribution with mean 0 and standard deviation 0.1.
//
// If m is a ModuleList, the tree of each of its children is visited in
// order. Otherwise, the tree of m is visited, children before parents.
// The first module that is not a Linear layer stops the traversal with
// an error wrapping ErrUnsupportedModule; its learnables and those of
// every module after it are left unchanged.
func InitMessageWeights(m network.Module) error {
	return MessageScheme().InitMessageWeights(m)
}
