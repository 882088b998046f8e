package initwfn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// OrthogonalConfig implements a configuration of the orthogonal
// initialization algorithm. A tensor of shape (r, c1, c2, ...) is
// treated as an r x (c1 * c2 * ...) matrix and filled with Gain times a
// random matrix with orthonormal rows (if r <= c1 * c2 * ...) or
// orthonormal columns (otherwise).
//
// If Seed is 0, random numbers are drawn from the global generator.
// Otherwise, each InitWFn created from the config owns a source seeded
// with Seed, and is therefore not safe for concurrent use.
type OrthogonalConfig struct {
	Gain float64
	Seed uint64
}

// NewOrthogonal returns a new orthogonal weight initializer
func NewOrthogonal(gain float64) (*InitWFn, error) {
	config := OrthogonalConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// NewSeededOrthogonal returns a new orthogonal weight initializer which
// draws from its own source seeded with seed.
func NewSeededOrthogonal(gain float64, seed uint64) (*InitWFn, error) {
	config := OrthogonalConfig{
		Gain: gain,
		Seed: seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (o OrthogonalConfig) Type() Type {
	return Orthogonal
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (o OrthogonalConfig) Create() G.InitWFn {
	var src rand.Source
	if o.Seed != 0 {
		src = rand.NewSource(o.Seed)
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	return func(dt tensor.Dtype, s ...int) interface{} {
		if len(s) < 2 {
			panic(fmt.Sprintf("orthogonal: tensors must have at least 2 "+
				"dimensions, got shape %v", s))
		}
		rows := s[0]
		cols := tensor.Shape(s[1:]).TotalSize()
		values := orthogonal(norm, o.Gain, rows, cols)

		switch dt {
		case tensor.Float64:
			return values
		case tensor.Float32:
			f32 := make([]float32, len(values))
			for i, v := range values {
				f32[i] = float32(v)
			}
			return f32
		default:
			panic(fmt.Sprintf("orthogonal: dtype %v not supported", dt))
		}
	}
}

// Validate checks that the gain is positive
func (o OrthogonalConfig) Validate() error {
	return validateGain(o.Gain)
}

// orthogonal returns the row-major data of a rows x cols matrix with
// orthonormal rows or columns, whichever there are fewer of, scaled by
// gain.
//
// A standard normal matrix is drawn in its tall orientation (m >= n)
// and factorized as QR. The first n columns of Q are orthonormal, and
// multiplying each column by the sign of the matching diagonal entry of
// R makes the result uniformly distributed over orthogonal matrices.
func orthogonal(norm distuv.Normal, gain float64, rows, cols int) []float64 {
	m, n := rows, cols
	transpose := rows < cols
	if transpose {
		m, n = cols, rows
	}

	a := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, norm.Rand())
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	out := make([]float64, rows*cols)
	for j := 0; j < n; j++ {
		sign := gain
		if r.At(j, j) < 0 {
			sign = -gain
		}
		for i := 0; i < m; i++ {
			v := sign * q.At(i, j)
			if transpose {
				out[j*cols+i] = v
			} else {
				out[i*cols+j] = v
			}
		}
	}

	return out
}
