// Package network implements neural network modules whose learnable
// parameters are nodes of a Gorgonia computational graph. Modules form
// a tree: leaf modules own learnables, containers own ordered children.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Kind tags the type of a Module
type Kind int

// Available module kinds
const (
	Other Kind = iota
	Linear
	RecurrentCell
	ContainerList
)

// String implements the fmt.Stringer interface
func (k Kind) String() string {
	switch k {
	case Other:
		return "Other"
	case Linear:
		return "Linear"
	case RecurrentCell:
		return "RecurrentCell"
	case ContainerList:
		return "ContainerList"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Module is a typed unit of a neural network. Learnables returns only
// the learnables that the module owns directly, in a fixed order with
// weights before biases. Containers return their children's learnables
// in child order.
type Module interface {
	Kind() Kind
	Name() string
	Learnables() G.Nodes
	Children() []Module
}

// Apply calls fn on every module of the tree rooted at m. Children are
// visited in order and before their parent. Apply stops at and returns
// the first error returned by fn.
func Apply(m Module, fn func(Module) error) error {
	for _, child := range m.Children() {
		if err := Apply(child, fn); err != nil {
			return err
		}
	}
	return fn(m)
}

// validateSizes returns an error if any size is not positive
func validateSizes(caller string, sizes map[string]int) error {
	for name, size := range sizes {
		if size <= 0 {
			return fmt.Errorf("%v: %v must be positive, got %v", caller, name,
				size)
		}
	}
	return nil
}
