package network

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// FCLayer implements a fully connected layer of a feed forward neural
// network. Weights have shape (inputs, outputs) and the optional bias
// has shape (outputs).
type FCLayer struct {
	name    string
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// NewFCLayer adds a fully connected layer to the graph g. The learnables
// are named name_W and name_b, and are given initial values by init.
// If act is nil, the layer has no activation.
func NewFCLayer(g *G.ExprGraph, name string, inputs, outputs int,
	bias bool, act *Activation, init G.InitWFn) (*FCLayer, error) {
	err := validateSizes("newfclayer", map[string]int{
		"inputs":  inputs,
		"outputs": outputs,
	})
	if err != nil {
		return nil, err
	}
	if act == nil {
		act = Nil()
	}

	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(inputs, outputs),
		G.WithName(name+"_W"),
		G.WithInit(init),
	)

	var b *G.Node
	if bias {
		b = G.NewVector(
			g,
			tensor.Float64,
			G.WithShape(outputs),
			G.WithName(name+"_b"),
			G.WithInit(init),
		)
	}

	return &FCLayer{
		name:    name,
		weights: weights,
		bias:    b,
		act:     act,
	}, nil
}

// Fwd adds the forward pass of the FCLayer to the computational graph
func (f *FCLayer) Fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.Weights())
	if err != nil {
		return nil, err
	}
	if f.Bias() != nil {
		if x, err = broadcastBias(x, f.Bias()); err != nil {
			return nil, err
		}
	}
	return f.act.fwd(x)
}

// broadcastBias adds the bias vector b to each row of x
func broadcastBias(x, b *G.Node) (*G.Node, error) {
	row, err := G.Reshape(b, tensor.Shape{1, b.Shape()[0]})
	if err != nil {
		return nil, err
	}
	// Broadcast the bias weights to all samples along the batch
	// dimension
	return G.BroadcastAdd(x, row, nil, []byte{0})
}

// Kind returns Linear
func (f *FCLayer) Kind() Kind {
	return Linear
}

// Name returns the name of the layer
func (f *FCLayer) Name() string {
	return f.name
}

// Learnables returns the weights followed by the bias, if present
func (f *FCLayer) Learnables() G.Nodes {
	if f.bias == nil {
		return G.Nodes{f.weights}
	}
	return G.Nodes{f.weights, f.bias}
}

// Children returns nil, an FCLayer is a leaf module
func (f *FCLayer) Children() []Module {
	return nil
}

// Activation returns the activation of the layer
func (f *FCLayer) Activation() *Activation {
	return f.act
}

// Bias returns the bias node, which is nil if the layer has no bias
func (f *FCLayer) Bias() *G.Node {
	return f.bias
}

// Weights returns the weight node
func (f *FCLayer) Weights() *G.Node {
	return f.weights
}

// Inputs returns the number of input features of the layer
func (f *FCLayer) Inputs() int {
	return f.weights.Shape()[0]
}

// Outputs returns the number of outputs of the layer
func (f *FCLayer) Outputs() int {
	return f.weights.Shape()[1]
}
