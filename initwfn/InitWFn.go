// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into configuration files and
// used to overwrite the values of existing learnable nodes.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	GlorotU    Type = "GlorotU"
	GlorotN    Type = "GlorotN"
	Gaussian   Type = "Gaussian"
	Uniform    Type = "Uniform"
	Orthogonal Type = "Orthogonal"
	Zeroes     Type = "Zeroes"
	Ones       Type = "Ones"
	Constant   Type = "Constant"
)

// registered maps each Type to the concrete Config type used to
// unmarshal it.
var registered = map[string]reflect.Type{
	string(GlorotU):    reflect.TypeOf(GlorotUConfig{}),
	string(GlorotN):    reflect.TypeOf(GlorotNConfig{}),
	string(Gaussian):   reflect.TypeOf(GaussianConfig{}),
	string(Uniform):    reflect.TypeOf(UniformConfig{}),
	string(Orthogonal): reflect.TypeOf(OrthogonalConfig{}),
	string(Zeroes):     reflect.TypeOf(ZeroesConfig{}),
	string(Ones):       reflect.TypeOf(OnesConfig{}),
	string(Constant):   reflect.TypeOf(ConstantConfig{}),
}

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config) (*InitWFn, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newinitwfn: invalid %v config: %v", c.Type(),
			err)
	}
	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// Fill overwrites the value of n with values drawn from the wrapped
// InitWFn. The backing data of the node's tensor is reused, so any
// other reference to the tensor observes the new values. Only Float64
// and Float32 tensors can be filled.
func (i *InitWFn) Fill(n *G.Node) error {
	if n == nil {
		return errors.New("fill: cannot fill nil node")
	}
	value := n.Value()
	if value == nil {
		return errors.Errorf("fill: node %v has no value", n.Name())
	}
	dense, ok := value.(*tensor.Dense)
	if !ok {
		return errors.Errorf("fill: node %v holds %T, want *tensor.Dense",
			n.Name(), value)
	}

	switch data := dense.Data().(type) {
	case []float64:
		values, ok := i.initWFn(tensor.Float64, dense.Shape()...).([]float64)
		if !ok || len(values) != len(data) {
			return errors.Errorf("fill: %v produced invalid values for "+
				"node %v", i.Type, n.Name())
		}
		copy(data, values)

	case []float32:
		values, ok := i.initWFn(tensor.Float32, dense.Shape()...).([]float32)
		if !ok || len(values) != len(data) {
			return errors.Errorf("fill: %v produced invalid values for "+
				"node %v", i.Type, n.Name())
		}
		copy(data, values)

	default:
		return errors.Errorf("fill: cannot fill node %v of dtype %v",
			n.Name(), dense.Dtype())
	}

	return nil
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	config, typeName, err := unmarshalConfig(data, "Type", "Config",
		registered)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("unmarshaljson: invalid %v config: %v", typeName,
			err)
	}

	i.Type = typeName
	i.Config = config
	i.initWFn = i.Config.Create()

	return nil
}

// unmarshalConfig uses reflection to unmarshall a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(data []byte, typeJsonField, valueJsonField string,
	customTypes map[string]reflect.Type) (Config, Type, error) {
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	typeName, ok := m[typeJsonField].(string)
	if !ok {
		return nil, "", fmt.Errorf("unmarshalconfig: missing %v field",
			typeJsonField)
	}
	ty, found := customTypes[typeName]
	if !found {
		return nil, "", fmt.Errorf("unmarshalconfig: unknown type %v",
			typeName)
	}
	value := reflect.New(ty).Interface().(Config)

	// Configs without parameters may be stored without a value field
	if raw := m[valueJsonField]; raw != nil {
		valueBytes, err := json.Marshal(raw)
		if err != nil {
			return nil, "", err
		}

		if err = json.Unmarshal(valueBytes, &value); err != nil {
			return nil, "", err
		}
	}
	concreteValue := reflect.ValueOf(value).Elem().Interface().(Config)

	return concreteValue, Type(typeName), nil
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type

	// Validate returns an error describing why the configuration is
	// invalid, or nil if it is valid.
	Validate() error
}
