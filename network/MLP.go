package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// MLP implements a multi-layered perceptron as a stack of FCLayer
// children. An MLP is not a ModuleList: it is a module of kind Other
// whose children happen to be Linear layers.
type MLP struct {
	name       string
	layers     []*FCLayer
	numInputs  int
	numOutputs int

	learnables G.Nodes
}

// NewMLP creates and returns a new multi-layered perceptron with
// features inputs and outputs outputs. The graph parameter g is
// populated with the MLP's learnables, which are given initial values
// by init.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. For index
// i, hiddenSizes[i] is the number of nodes in hidden layer i; biases[i]
// is true if the hidden layer will contain a bias unit and false
// otherwise; and activations[i] is the activation function for hidden
// layer i. A final layer with a bias unit and no activation maps the
// last hidden layer to the outputs.
func NewMLP(g *G.ExprGraph, name string, features, outputs int,
	hiddenSizes []int, biases []bool, activations []*Activation,
	init G.InitWFn) (*MLP, error) {
	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newmlp: invalid number of activations\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}

	// Ensure one bias bool per layer
	if len(hiddenSizes) != len(biases) {
		msg := "newmlp: invalid number of biases\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}

	layers := make([]*FCLayer, 0, len(hiddenSizes)+1)
	in := features
	for i := 0; i <= len(hiddenSizes); i++ {
		out, bias, act := outputs, true, Identity()
		if i < len(hiddenSizes) {
			out, bias, act = hiddenSizes[i], biases[i], activations[i]
		}

		layerName := fmt.Sprintf("%vL%d", name, i)
		layer, err := NewFCLayer(g, layerName, in, out, bias, act, init)
		if err != nil {
			return nil, fmt.Errorf("newmlp: could not create layer %d: %v",
				i, err)
		}
		layers = append(layers, layer)
		in = out
	}

	return &MLP{
		name:       name,
		layers:     layers,
		numInputs:  features,
		numOutputs: outputs,
	}, nil
}

// Fwd adds the forward pass of the MLP on the input node to the graph
func (m *MLP) Fwd(input *G.Node) (*G.Node, error) {
	inputShape := input.Shape()[len(input.Shape())-1]
	if inputShape != m.numInputs {
		return nil, fmt.Errorf("fwd: invalid shape for input to neural net:"+
			" \n\twant(%v) \n\thave(%v)", m.numInputs, inputShape)
	}

	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.Fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}
	return pred, nil
}

// Features returns the number of features in a single input vector
func (m *MLP) Features() int {
	return m.numInputs
}

// Outputs returns the number of outputs from the network
func (m *MLP) Outputs() int {
	return m.numOutputs
}

// Layers returns the fully connected layers of the MLP
func (m *MLP) Layers() []*FCLayer {
	return m.layers
}

// Kind returns Other
func (m *MLP) Kind() Kind {
	return Other
}

// Name returns the name of the MLP
func (m *MLP) Name() string {
	return m.name
}

// Learnables returns the learnable nodes of all layers in the MLP
func (m *MLP) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		m.learnables = m.computeLearnables()
	}
	return m.learnables
}

// computeLearnables computes all the learnables for the network
func (m *MLP) computeLearnables() G.Nodes {
	learnables := make(G.Nodes, 0, 2*len(m.layers))
	for _, l := range m.layers {
		learnables = append(learnables, l.Learnables()...)
	}
	return learnables
}

// Children returns the layers of the MLP
func (m *MLP) Children() []Module {
	children := make([]Module, len(m.layers))
	for i, l := range m.layers {
		children[i] = l
	}
	return children
}
