package pixgen

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// Correlated input/output pairs: outputs depend linearly on inputs plus
// noise, the situation whitening is meant to undo.
func correlatedData(dimIn, dimOut, cols int, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	inputs := mat.NewDense(dimIn, cols, nil)
	outputs := mat.NewDense(dimOut, cols, nil)
	weights := mat.NewDense(dimOut, dimIn, nil)
	for r := 0; r < dimOut; r++ {
		for c := 0; c < dimIn; c++ {
			weights.Set(r, c, rng.NormFloat64())
		}
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < dimIn; r++ {
			inputs.Set(r, c, 2*rng.NormFloat64()+1)
		}
		for r := 0; r < dimOut; r++ {
			sum := 0.0
			for d := 0; d < dimIn; d++ {
				sum += weights.At(r, d) * inputs.At(d, c)
			}
			outputs.Set(r, c, sum+0.5*rng.NormFloat64())
		}
	}
	return inputs, outputs
}

func covariance(a *mat.Dense) *mat.Dense {
	rows, cols := a.Dims()
	means := rowMeans(a)
	centered := mat.DenseCopyOf(a)
	subColumn(centered, mat.NewVecDense(rows, means))
	cov := mat.NewDense(rows, rows, nil)
	cov.Mul(centered, centered.T())
	cov.Scale(1/float64(cols), cov)
	return cov
}

func TestWhiteningIdentityCovariance(t *testing.T) {
	inputs, outputs := correlatedData(3, 2, 5000, 41)
	transform, err := Whitening(inputs, outputs)
	require.NoError(t, err)

	preIn, preOut, err := transform.Forward(inputs, outputs)
	require.NoError(t, err)

	covIn := covariance(preIn)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			assert.InDelta(t, want, covIn.At(r, c), 1e-8, "input covariance at (%d, %d)", r, c)
		}
	}

	covOut := covariance(preOut)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			assert.InDelta(t, want, covOut.At(r, c), 1e-8, "output covariance at (%d, %d)", r, c)
		}
	}
}

func TestWhiteningDecorrelatesOutputs(t *testing.T) {
	inputs, outputs := correlatedData(3, 2, 5000, 43)
	transform, err := Whitening(inputs, outputs)
	require.NoError(t, err)

	preIn, preOut, err := transform.Forward(inputs, outputs)
	require.NoError(t, err)

	// cross-covariance between transformed inputs and outputs vanishes
	inRows, cols := preIn.Dims()
	outRows, _ := preOut.Dims()
	inMeans := rowMeans(preIn)
	outMeans := rowMeans(preOut)
	for i := 0; i < outRows; i++ {
		for j := 0; j < inRows; j++ {
			sum := 0.0
			for c := 0; c < cols; c++ {
				sum += (preOut.At(i, c) - outMeans[i]) * (preIn.At(j, c) - inMeans[j])
			}
			assert.InDelta(t, 0, sum/float64(cols), 1e-8, "cross-covariance at (%d, %d)", i, j)
		}
	}
}

func TestAffineTransformRoundTrip(t *testing.T) {
	inputs, outputs := correlatedData(4, 2, 500, 47)
	transform, err := Whitening(inputs, outputs)
	require.NoError(t, err)

	preIn, preOut, err := transform.Forward(inputs, outputs)
	require.NoError(t, err)
	backIn, backOut, err := transform.Inverse(preIn, preOut)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(inputs, backIn, 1e-8), "inputs do not survive the round trip")
	assert.True(t, mat.EqualApprox(outputs, backOut, 1e-8), "outputs do not survive the round trip")
}

func TestForwardInputMatchesForward(t *testing.T) {
	inputs, outputs := correlatedData(3, 1, 200, 53)
	transform, err := Whitening(inputs, outputs)
	require.NoError(t, err)

	preIn, _, err := transform.Forward(inputs, outputs)
	require.NoError(t, err)
	preInOnly, err := transform.ForwardInput(inputs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(preIn, preInOnly, 1e-12))
}

func TestAffineTransformArgumentChecks(t *testing.T) {
	identity2 := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	identity3 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	predictor := mat.NewDense(2, 3, nil)

	t.Run("wrong preIn extent", func(t *testing.T) {
		_, err := NewAffineTransform([]float64{0, 0, 0}, []float64{0, 0}, identity2, identity2, predictor)
		assert.Error(t, err)
	})
	t.Run("singular preOut", func(t *testing.T) {
		singular := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
		_, err := NewAffineTransform([]float64{0, 0, 0}, []float64{0, 0}, identity3, singular, predictor)
		assert.Error(t, err)
	})
	t.Run("column count mismatch", func(t *testing.T) {
		transform, err := NewAffineTransform([]float64{0, 0, 0}, []float64{0, 0}, identity3, identity2, predictor)
		require.NoError(t, err)
		_, _, err = transform.Forward(mat.NewDense(3, 5, nil), mat.NewDense(2, 6, nil))
		assert.Error(t, err)
	})
}

func TestWhiteningArgumentChecks(t *testing.T) {
	_, err := Whitening(mat.NewDense(3, 10, nil), mat.NewDense(1, 9, nil))
	assert.Error(t, err)

	_, err = Whitening(mat.NewDense(3, 1, nil), mat.NewDense(1, 1, nil))
	assert.Error(t, err)
}

func TestWhiteningLogJacobian(t *testing.T) {
	inputs, outputs := correlatedData(3, 2, 1000, 59)
	transform, err := Whitening(inputs, outputs)
	require.NoError(t, err)
	// whitening shrinks the correlated outputs, so the output map's log
	// determinant is finite
	lj := transform.LogJacobian()
	assert.False(t, lj != lj, "log Jacobian is NaN")
}
