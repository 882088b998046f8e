package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "Linear", Linear.String())
	assert.Equal(t, "RecurrentCell", RecurrentCell.String())
	assert.Equal(t, "Other", Other.String())
	assert.Equal(t, "ContainerList", ContainerList.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestFCLayer(t *testing.T) {
	g := G.NewGraph()
	fc, err := NewFCLayer(g, "fc", 4, 3, true, ReLU(), G.Zeroes())
	require.NoError(t, err)

	assert.Equal(t, Linear, fc.Kind())
	assert.Equal(t, "fc", fc.Name())
	assert.Equal(t, 4, fc.Inputs())
	assert.Equal(t, 3, fc.Outputs())
	assert.Empty(t, fc.Children())

	learnables := fc.Learnables()
	require.Len(t, learnables, 2)
	assert.Equal(t, tensor.Shape{4, 3}, learnables[0].Shape())
	assert.Equal(t, tensor.Shape{3}, learnables[1].Shape())
	assert.Same(t, fc.Weights(), learnables[0])
	assert.Same(t, fc.Bias(), learnables[1])

	noBias, err := NewFCLayer(g, "nobias", 4, 3, false, nil, G.Zeroes())
	require.NoError(t, err)
	assert.Nil(t, noBias.Bias())
	assert.Len(t, noBias.Learnables(), 1)
	assert.True(t, noBias.Activation().IsNil())

	_, err = NewFCLayer(g, "bad", 0, 3, true, nil, G.Zeroes())
	assert.Error(t, err)
}

func TestFCLayerFwd(t *testing.T) {
	g := G.NewGraph()
	fc, err := NewFCLayer(g, "fc", 2, 3, true, Identity(), G.Ones())
	require.NoError(t, err)

	x := G.NewMatrix(g, tensor.Float64, G.WithShape(2, 2), G.WithName("x"),
		G.WithValue(tensor.New(
			tensor.WithShape(2, 2),
			tensor.WithBacking([]float64{1, 2, 3, 4}),
		)))

	out, err := fc.Fwd(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())

	var outVal G.Value
	G.Read(out, &outVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	// Each output is the sum of the row's inputs plus a bias of 1
	assert.Equal(t, []float64{4, 4, 4, 8, 8, 8},
		outVal.Data().([]float64))
}

func TestGRUCell(t *testing.T) {
	g := G.NewGraph()
	cell, err := NewGRUCell(g, "gru", 5, 3, G.Zeroes())
	require.NoError(t, err)

	assert.Equal(t, RecurrentCell, cell.Kind())
	assert.Equal(t, 5, cell.Inputs())
	assert.Equal(t, 3, cell.Hidden())

	learnables := cell.Learnables()
	require.Len(t, learnables, 12)
	for i, n := range learnables[:6] {
		assert.Equalf(t, 2, n.Dims(), "learnable %d (%v)", i, n.Name())
	}
	for i, n := range learnables[6:] {
		assert.Equalf(t, 1, n.Dims(), "learnable %d (%v)", i+6, n.Name())
		assert.Equal(t, tensor.Shape{3}, n.Shape())
	}
	assert.Equal(t, tensor.Shape{5, 3}, learnables[0].Shape())
	assert.Equal(t, tensor.Shape{3, 3}, learnables[1].Shape())

	_, err = NewGRUCell(g, "bad", 5, -1, G.Zeroes())
	assert.Error(t, err)
}

func TestGRUCellFwd(t *testing.T) {
	g := G.NewGraph()
	cell, err := NewGRUCell(g, "gru", 2, 3, G.Zeroes())
	require.NoError(t, err)

	x := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 2), G.WithName("x"),
		G.WithInit(G.Ones()))
	h := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 3), G.WithName("h"),
		G.WithValue(tensor.New(
			tensor.WithShape(1, 3),
			tensor.WithBacking([]float64{1, 2, 4}),
		)))

	next, err := cell.Fwd(x, h)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3}, next.Shape())

	var nextVal G.Value
	G.Read(next, &nextVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	// With all learnables zero, z = 0.5 and n = 0, so h' = h / 2
	assert.InDeltaSlice(t, []float64{0.5, 1, 2},
		nextVal.Data().([]float64), 1e-12)
}

func TestLayerNormAndConv2D(t *testing.T) {
	g := G.NewGraph()
	ln, err := NewLayerNorm(g, "ln", 6)
	require.NoError(t, err)
	assert.Equal(t, Other, ln.Kind())
	require.Len(t, ln.Learnables(), 2)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1},
		ln.Learnables()[0].Value().Data().([]float64))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0},
		ln.Learnables()[1].Value().Data().([]float64))

	conv, err := NewConv2D(g, "conv", 3, 8, 3, 3, G.Zeroes())
	require.NoError(t, err)
	assert.Equal(t, Other, conv.Kind())
	require.Len(t, conv.Learnables(), 2)
	assert.Equal(t, tensor.Shape{8, 3, 3, 3}, conv.Learnables()[0].Shape())

	_, err = NewConv2D(g, "bad", 3, 8, 0, 3, G.Zeroes())
	assert.Error(t, err)
}

func TestModuleList(t *testing.T) {
	g := G.NewGraph()
	a, err := NewFCLayer(g, "a", 2, 2, true, nil, G.Zeroes())
	require.NoError(t, err)
	b, err := NewFCLayer(g, "b", 2, 2, false, nil, G.Zeroes())
	require.NoError(t, err)

	list := NewModuleList("list", a)
	list.Append(b)

	assert.Equal(t, ContainerList, list.Kind())
	assert.Equal(t, 2, list.Len())
	assert.Same(t, b, list.At(1))
	assert.Equal(t, []Module{a, b}, list.Children())
	assert.Equal(t, G.Nodes{a.Weights(), a.Bias(), b.Weights()},
		list.Learnables())
}

func TestMLP(t *testing.T) {
	g := G.NewGraph()
	mlp, err := NewMLP(g, "mlp", 4, 2, []int{8, 6}, []bool{true, false},
		[]*Activation{ReLU(), TanH()}, G.Zeroes())
	require.NoError(t, err)

	assert.Equal(t, Other, mlp.Kind())
	require.Len(t, mlp.Children(), 3)
	for _, child := range mlp.Children() {
		assert.Equal(t, Linear, child.Kind())
	}
	// 2 + 1 + 2 learnables
	assert.Len(t, mlp.Learnables(), 5)
	assert.Equal(t, 6, mlp.Layers()[2].Inputs())
	assert.Equal(t, 2, mlp.Layers()[2].Outputs())

	x := G.NewMatrix(g, tensor.Float64, G.WithShape(3, 4), G.WithName("x"),
		G.WithInit(G.Ones()))
	out, err := mlp.Fwd(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())

	bad := G.NewMatrix(g, tensor.Float64, G.WithShape(3, 5), G.WithName("bad"),
		G.WithInit(G.Ones()))
	_, err = mlp.Fwd(bad)
	assert.Error(t, err)

	_, err = NewMLP(g, "mlp2", 4, 2, []int{8}, []bool{true, false},
		[]*Activation{ReLU()}, G.Zeroes())
	assert.Error(t, err)
}

func TestApplyOrder(t *testing.T) {
	g := G.NewGraph()
	mlp, err := NewMLP(g, "mlp", 2, 1, []int{3}, []bool{true},
		[]*Activation{ReLU()}, G.Zeroes())
	require.NoError(t, err)
	cell, err := NewGRUCell(g, "gru", 2, 2, G.Zeroes())
	require.NoError(t, err)
	root := NewModuleList("root", mlp, cell)

	var visited []string
	err = Apply(root, func(m Module) error {
		visited = append(visited, m.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mlpL0", "mlpL1", "mlp", "gru", "root"}, visited)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	g := G.NewGraph()
	a, err := NewFCLayer(g, "a", 2, 2, true, nil, G.Zeroes())
	require.NoError(t, err)
	ln, err := NewLayerNorm(g, "ln", 2)
	require.NoError(t, err)
	c, err := NewFCLayer(g, "c", 2, 2, true, nil, G.Zeroes())
	require.NoError(t, err)

	stop := errors.New("stop")
	var visited []string
	err = Apply(NewModuleList("list", a, ln, c), func(m Module) error {
		visited = append(visited, m.Name())
		if m.Kind() == Other {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a", "ln"}, visited)
}
