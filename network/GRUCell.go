package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// gate holds the learnables of a single GRU gate
type gate struct {
	wInput, wHidden *G.Node // (inputs, hidden) and (hidden, hidden)
	bInput, bHidden *G.Node // (hidden)
}

// GRUCell implements a single step of a gated recurrent unit:
//
//	r  = σ(x·Wir + bir + h·Whr + bhr)
//	z  = σ(x·Wiz + biz + h·Whz + bhz)
//	n  = tanh(x·Win + bin + r ∘ (h·Whn + bhn))
//	h' = (1 - z) ∘ n + z ∘ h
type GRUCell struct {
	name      string
	inputs    int
	hidden    int
	reset     gate
	update    gate
	candidate gate
}

// NewGRUCell adds a GRU cell to the graph g with learnables initialized
// by init. Learnables are named name_W{i,h}{r,z,n} and
// name_b{i,h}{r,z,n}.
func NewGRUCell(g *G.ExprGraph, name string, inputs, hidden int,
	init G.InitWFn) (*GRUCell, error) {
	err := validateSizes("newgrucell", map[string]int{
		"inputs": inputs,
		"hidden": hidden,
	})
	if err != nil {
		return nil, err
	}

	newGate := func(suffix string) gate {
		return gate{
			wInput: G.NewMatrix(g, tensor.Float64,
				G.WithShape(inputs, hidden),
				G.WithName(fmt.Sprintf("%v_Wi%v", name, suffix)),
				G.WithInit(init)),
			wHidden: G.NewMatrix(g, tensor.Float64,
				G.WithShape(hidden, hidden),
				G.WithName(fmt.Sprintf("%v_Wh%v", name, suffix)),
				G.WithInit(init)),
			bInput: G.NewVector(g, tensor.Float64,
				G.WithShape(hidden),
				G.WithName(fmt.Sprintf("%v_bi%v", name, suffix)),
				G.WithInit(init)),
			bHidden: G.NewVector(g, tensor.Float64,
				G.WithShape(hidden),
				G.WithName(fmt.Sprintf("%v_bh%v", name, suffix)),
				G.WithInit(init)),
		}
	}

	return &GRUCell{
		name:      name,
		inputs:    inputs,
		hidden:    hidden,
		reset:     newGate("r"),
		update:    newGate("z"),
		candidate: newGate("n"),
	}, nil
}

// Fwd adds one step of the GRU cell to the computational graph. The
// input x has shape (batch, inputs) and the hidden state h has shape
// (batch, hidden). The next hidden state is returned.
func (c *GRUCell) Fwd(x, h *G.Node) (*G.Node, error) {
	r, err := c.gateFwd(c.reset, x, h, G.Sigmoid)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute reset gate: %v", err)
	}
	z, err := c.gateFwd(c.update, x, h, G.Sigmoid)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute update gate: %v", err)
	}

	// Candidate state, with the reset gate applied to the hidden part
	inPart, err := affine(x, c.candidate.wInput, c.candidate.bInput)
	if err != nil {
		return nil, err
	}
	hPart, err := affine(h, c.candidate.wHidden, c.candidate.bHidden)
	if err != nil {
		return nil, err
	}
	n := G.Must(G.Tanh(G.Must(G.Add(inPart, G.Must(G.HadamardProd(r,
		hPart))))))

	// h' = (1 - z) ∘ n + z ∘ h = n + z ∘ (h - n)
	return G.Add(n, G.Must(G.HadamardProd(z, G.Must(G.Sub(h, n)))))
}

// gateFwd computes act(x·Wi + bi + h·Wh + bh)
func (c *GRUCell) gateFwd(gt gate, x, h *G.Node,
	act func(*G.Node) (*G.Node, error)) (*G.Node, error) {
	inPart, err := affine(x, gt.wInput, gt.bInput)
	if err != nil {
		return nil, err
	}
	hPart, err := affine(h, gt.wHidden, gt.bHidden)
	if err != nil {
		return nil, err
	}
	sum, err := G.Add(inPart, hPart)
	if err != nil {
		return nil, err
	}
	return act(sum)
}

// affine computes x·w + b
func affine(x, w, b *G.Node) (*G.Node, error) {
	xw, err := G.Mul(x, w)
	if err != nil {
		return nil, err
	}
	return broadcastBias(xw, b)
}

// Kind returns RecurrentCell
func (c *GRUCell) Kind() Kind {
	return RecurrentCell
}

// Name returns the name of the cell
func (c *GRUCell) Name() string {
	return c.name
}

// Learnables returns the weights of the reset, update and candidate
// gates, followed by their biases.
func (c *GRUCell) Learnables() G.Nodes {
	gates := []gate{c.reset, c.update, c.candidate}
	learnables := make(G.Nodes, 0, 4*len(gates))
	for _, gt := range gates {
		learnables = append(learnables, gt.wInput, gt.wHidden)
	}
	for _, gt := range gates {
		learnables = append(learnables, gt.bInput, gt.bHidden)
	}
	return learnables
}

// Children returns nil, a GRUCell is a leaf module
func (c *GRUCell) Children() []Module {
	return nil
}

// Inputs returns the number of input features of the cell
func (c *GRUCell) Inputs() int {
	return c.inputs
}

// Hidden returns the size of the hidden state of the cell
func (c *GRUCell) Hidden() int {
	return c.hidden
}
