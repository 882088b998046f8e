package weightinit

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/nninit/initwfn"
	"github.com/samuelfneumann/nninit/network"
	G "gorgonia.org/gorgonia"
	"k8s.io/klog/v2"
)

// Scheme describes the distributions used to fill the learnables of
// each kind of module. A nil field means learnables of that class are
// not filled.
type Scheme struct {
	// Linear layers
	LinearWeight *initwfn.InitWFn
	LinearBias   *initwfn.InitWFn

	// Recurrent cells, split by the rank of the learnable
	RecurrentMatrix *initwfn.InitWFn // rank >= 2
	RecurrentVector *initwfn.InitWFn // rank < 2
}

// DefaultScheme returns the scheme used by InitWeights: Glorot normal
// Linear weights, standard normal Linear biases, orthogonal recurrent
// matrices and standard normal recurrent vectors.
func DefaultScheme() *Scheme {
	return &Scheme{
		LinearWeight:    must(initwfn.NewGlorotN(1.0)),
		LinearBias:      must(initwfn.NewStdNormal()),
		RecurrentMatrix: must(initwfn.NewOrthogonal(1.0)),
		RecurrentVector: must(initwfn.NewStdNormal()),
	}
}

// MessageScheme returns the scheme used by InitMessageWeights, which
// fills Linear weights and biases from N(0, 0.1).
func MessageScheme() *Scheme {
	return &Scheme{
		LinearWeight: must(initwfn.NewGaussian(0, 0.1)),
		LinearBias:   must(initwfn.NewGaussian(0, 0.1)),
	}
}

// LoadScheme reads a JSON encoded Scheme from the file at path
func LoadScheme(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loadscheme")
	}

	var s Scheme
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "loadscheme: could not decode %v", path)
	}
	return &s, nil
}

// Save writes the Scheme to the file at path as JSON
func (s *Scheme) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return errors.Wrap(err, "save")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "save")
}

// InitWeights fills the learnables of m if m is a Linear layer or a
// recurrent cell, and does nothing otherwise. Children of m are not
// visited. Its signature allows it to be passed to network.Apply.
func (s *Scheme) InitWeights(m network.Module) error {
	switch m.Kind() {
	case network.Linear:
		if err := s.initLinear(m); err != nil {
			return errors.Wrapf(err, "initweights: module %q", m.Name())
		}

	case network.RecurrentCell:
		for _, n := range m.Learnables() {
			init := s.RecurrentVector
			if n.Dims() >= 2 {
				init = s.RecurrentMatrix
			}
			if err := fill(init, n); err != nil {
				return errors.Wrapf(err, "initweights: module %q", m.Name())
			}
		}

	default:
		klog.V(2).Infof("initweights: skipping module %q of kind %v",
			m.Name(), m.Kind())
		return nil
	}

	klog.V(1).Infof("initweights: initialized module %q of kind %v",
		m.Name(), m.Kind())
	return nil
}

// InitMessageWeights fills the learnables of every Linear layer in the
// tree of m, or in the trees of the children of m if m is a ModuleList.
// The first module of any other kind stops the traversal with an error
// wrapping ErrUnsupportedModule.
func (s *Scheme) InitMessageWeights(m network.Module) error {
	if m.Kind() != network.ContainerList {
		return network.Apply(m, s.initMessageModule)
	}

	for _, child := range m.Children() {
		if err := network.Apply(child, s.initMessageModule); err != nil {
			return err
		}
	}
	return nil
}

// initMessageModule fills a single Linear layer, or returns an error
// wrapping ErrUnsupportedModule before touching any other module.
func (s *Scheme) initMessageModule(m network.Module) error {
	if m.Kind() != network.Linear {
		return errors.Wrapf(ErrUnsupportedModule,
			"initmessageweights: module %q of kind %v", m.Name(), m.Kind())
	}
	if err := s.initLinear(m); err != nil {
		return errors.Wrapf(err, "initmessageweights: module %q", m.Name())
	}

	klog.V(1).Infof("initmessageweights: initialized module %q", m.Name())
	return nil
}

// initLinear fills the weights and the bias, if present, of a Linear
// module.
func (s *Scheme) initLinear(m network.Module) error {
	learnables := m.Learnables()
	if len(learnables) == 0 || len(learnables) > 2 {
		return fmt.Errorf("expected weights and optional bias, got %d "+
			"learnables", len(learnables))
	}

	if err := fill(s.LinearWeight, learnables[0]); err != nil {
		return err
	}
	if len(learnables) == 2 {
		return fill(s.LinearBias, learnables[1])
	}
	return nil
}

// fill fills n with init, skipping nil initializers
func fill(init *initwfn.InitWFn, n *G.Node) error {
	if init == nil {
		return nil
	}
	return init.Fill(n)
}

func must(init *initwfn.InitWFn, err error) *initwfn.InitWFn {
	if err != nil {
		panic(err)
	}
	return init
}
