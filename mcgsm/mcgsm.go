// Package mcgsm implements the sampling side of a mixture of conditional
// Gaussian scale mixtures. The model describes a pixel (or small group of
// cells) conditioned on its causal neighborhood: a gate picks one of several
// expert components based on the conditioning vector, the component picks a
// precision scale from its scale mixture, and the output is drawn from a
// Gaussian around the component's linear prediction.
//
// Only sampling is provided here; fitting the parameters and evaluating
// densities are outside this package's contract.
package mcgsm

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultComponents = 8
	DefaultScales     = 6
)

// A Model holds the parameters of one mixture of conditional Gaussian scale
// mixtures. A fresh model is usable immediately: parameters are initialized
// to small random values, so its samples are noise around a weak linear
// prediction until real parameters are loaded in their place.
type Model struct {
	dimIn      int
	dimOut     int
	components int
	scales     int

	// gate parameters: one logit per component, quadratic in the input
	gateBiases  []float64
	gateLinear  *mat.Dense // components x dimIn
	gateQuad    *mat.Dense // components x dimIn, diagonal quadratic penalty
	scaleWeight *mat.Dense // components x scales, mixture weights before softmax
	scaleValue  *mat.Dense // components x scales, precision multipliers

	predictors []*mat.Dense    // per component, dimOut x dimIn
	cholesky   []*mat.TriDense // per component, lower factor of the output covariance

	normal distuv.Normal
	rng    *rand.Rand
}

// New creates a default-initialized model with DefaultComponents experts and
// DefaultScales precision scales each, seeded from the clock.
func New(dimIn, dimOut int) *Model {
	return NewWithSource(dimIn, dimOut, DefaultComponents, DefaultScales,
		rand.NewSource(uint64(time.Now().UnixNano())))
}

// NewWithSource creates a model with explicit mixture extents and a caller
// supplied random source, for reproducible sampling runs.
func NewWithSource(dimIn, dimOut, components, scales int, src rand.Source) *Model {
	if dimIn < 1 || dimOut < 1 {
		panic("mcgsm: model dimensionality must be at least 1")
	}
	if components < 1 || scales < 1 {
		panic("mcgsm: at least one component and one scale are required")
	}
	rng := rand.New(src)
	m := &Model{
		dimIn:       dimIn,
		dimOut:      dimOut,
		components:  components,
		scales:      scales,
		gateBiases:  make([]float64, components),
		gateLinear:  mat.NewDense(components, dimIn, nil),
		gateQuad:    mat.NewDense(components, dimIn, nil),
		scaleWeight: mat.NewDense(components, scales, nil),
		scaleValue:  mat.NewDense(components, scales, nil),
		predictors:  make([]*mat.Dense, components),
		cholesky:    make([]*mat.TriDense, components),
		normal:      distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		rng:         rng,
	}

	small := 0.01 / math.Sqrt(float64(dimIn))
	for c := 0; c < components; c++ {
		m.gateBiases[c] = small * rng.NormFloat64()
		for d := 0; d < dimIn; d++ {
			m.gateLinear.Set(c, d, small*rng.NormFloat64())
			m.gateQuad.Set(c, d, small*math.Abs(rng.NormFloat64()))
		}
		for s := 0; s < scales; s++ {
			m.scaleWeight.Set(c, s, small*rng.NormFloat64())
			// precision scales spread geometrically around 1
			m.scaleValue.Set(c, s, math.Exp(float64(s)-float64(scales-1)/2))
		}
		pred := mat.NewDense(dimOut, dimIn, nil)
		for r := 0; r < dimOut; r++ {
			for d := 0; d < dimIn; d++ {
				pred.Set(r, d, small*rng.NormFloat64())
			}
		}
		m.predictors[c] = pred
		chol := mat.NewTriDense(dimOut, mat.Lower, nil)
		for r := 0; r < dimOut; r++ {
			chol.SetTri(r, r, 1+0.1*math.Abs(rng.NormFloat64()))
			for d := 0; d < r; d++ {
				chol.SetTri(r, d, small*rng.NormFloat64())
			}
		}
		m.cholesky[c] = chol
	}
	return m
}

// The dimensionality of the conditioning vector the model expects.
func (m *Model) InputDims() int {
	return m.dimIn
}

// The dimensionality of each sampled output.
func (m *Model) OutputDims() int {
	return m.dimOut
}

// The number of expert components in the mixture.
func (m *Model) Components() int {
	return m.components
}

// The number of precision scales per component.
func (m *Model) Scales() int {
	return m.scales
}

// Sample draws one output per column of the input matrix. Inputs must have
// InputDims rows; the result has OutputDims rows and the same column count.
// For each column the gate posterior selects a component, the component's
// scale mixture selects a precision, and the output is the component's linear
// prediction plus correlated Gaussian noise shrunk by the chosen precision.
func (m *Model) Sample(inputs *mat.Dense) (*mat.Dense, error) {
	rows, cols := inputs.Dims()
	if rows != m.dimIn {
		return nil, fmt.Errorf("mcgsm: input has %d rows, model conditions on %d", rows, m.dimIn)
	}
	if cols < 1 {
		return nil, fmt.Errorf("mcgsm: input must have at least one column")
	}

	outputs := mat.NewDense(m.dimOut, cols, nil)
	x := make([]float64, m.dimIn)
	logits := make([]float64, m.components)
	scaleLogits := make([]float64, m.scales)
	noise := make([]float64, m.dimOut)
	pred := mat.NewVecDense(m.dimOut, nil)
	scaled := mat.NewVecDense(m.dimOut, nil)

	for col := 0; col < cols; col++ {
		mat.Col(x, col, inputs)

		for c := 0; c < m.components; c++ {
			logit := m.gateBiases[c]
			for d := 0; d < m.dimIn; d++ {
				logit += m.gateLinear.At(c, d)*x[d] - 0.5*m.gateQuad.At(c, d)*x[d]*x[d]
			}
			logits[c] = logit
		}
		comp := m.drawCategorical(logits)

		for s := 0; s < m.scales; s++ {
			scaleLogits[s] = m.scaleWeight.At(comp, s)
		}
		precision := m.scaleValue.At(comp, m.drawCategorical(scaleLogits))

		pred.MulVec(m.predictors[comp], mat.NewVecDense(m.dimIn, x))
		for d := range noise {
			noise[d] = m.normal.Rand()
		}
		scaled.MulVec(m.cholesky[comp], mat.NewVecDense(m.dimOut, noise))
		dev := 1 / math.Sqrt(precision)
		for d := 0; d < m.dimOut; d++ {
			outputs.Set(d, col, pred.AtVec(d)+dev*scaled.AtVec(d))
		}
	}
	return outputs, nil
}

// Draws an index from the softmax of the given logits.
func (m *Model) drawCategorical(logits []float64) int {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	total := 0.0
	for _, l := range logits {
		total += math.Exp(l - maxLogit)
	}
	u := m.rng.Float64() * total
	cum := 0.0
	for i, l := range logits {
		cum += math.Exp(l - maxLogit)
		if u < cum {
			return i
		}
	}
	return len(logits) - 1
}
