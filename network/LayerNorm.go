package network

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// LayerNorm holds the gain and shift of a layer normalization over the
// feature dimension. The gain starts at 1 and the shift at 0.
type LayerNorm struct {
	name  string
	gain  *G.Node
	shift *G.Node
}

// NewLayerNorm adds a layer normalization over features to the graph g
func NewLayerNorm(g *G.ExprGraph, name string, features int) (*LayerNorm,
	error) {
	err := validateSizes("newlayernorm", map[string]int{
		"features": features,
	})
	if err != nil {
		return nil, err
	}

	return &LayerNorm{
		name: name,
		gain: G.NewVector(g, tensor.Float64, G.WithShape(features),
			G.WithName(name+"_gain"), G.WithInit(G.Ones())),
		shift: G.NewVector(g, tensor.Float64, G.WithShape(features),
			G.WithName(name+"_shift"), G.WithInit(G.Zeroes())),
	}, nil
}

// Kind returns Other
func (l *LayerNorm) Kind() Kind {
	return Other
}

// Name returns the name of the layer
func (l *LayerNorm) Name() string {
	return l.name
}

// Learnables returns the gain followed by the shift
func (l *LayerNorm) Learnables() G.Nodes {
	return G.Nodes{l.gain, l.shift}
}

// Children returns nil, a LayerNorm is a leaf module
func (l *LayerNorm) Children() []Module {
	return nil
}
