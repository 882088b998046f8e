package network

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Conv2D holds the kernel, of shape (outChannels, inChannels, kh, kw),
// and bias, of shape (outChannels), of a 2D convolution. Conv2D only
// owns parameters, it does not implement a forward pass.
type Conv2D struct {
	name   string
	kernel *G.Node
	bias   *G.Node
}

// NewConv2D adds the parameters of a 2D convolution to the graph g
func NewConv2D(g *G.ExprGraph, name string, inChannels, outChannels, kh,
	kw int, init G.InitWFn) (*Conv2D, error) {
	err := validateSizes("newconv2d", map[string]int{
		"inChannels":    inChannels,
		"outChannels":   outChannels,
		"kernel height": kh,
		"kernel width":  kw,
	})
	if err != nil {
		return nil, err
	}

	return &Conv2D{
		name: name,
		kernel: G.NewTensor(g, tensor.Float64, 4,
			G.WithShape(outChannels, inChannels, kh, kw),
			G.WithName(name+"_K"), G.WithInit(init)),
		bias: G.NewVector(g, tensor.Float64, G.WithShape(outChannels),
			G.WithName(name+"_b"), G.WithInit(init)),
	}, nil
}

// Kind returns Other
func (c *Conv2D) Kind() Kind {
	return Other
}

// Name returns the name of the layer
func (c *Conv2D) Name() string {
	return c.name
}

// Learnables returns the kernel followed by the bias
func (c *Conv2D) Learnables() G.Nodes {
	return G.Nodes{c.kernel, c.bias}
}

// Children returns nil, a Conv2D is a leaf module
func (c *Conv2D) Children() []Module {
	return nil
}
