package pixgen

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// An AffineTransform preconditions paired input/output feature matrices
// before they reach a conditional model. Inputs are centered and linearly
// mapped; outputs are additionally decorrelated from the inputs through a
// predictor matrix:
//
//	x' = preIn * (x - meanIn)
//	y' = preOut * (y - meanOut - predictor * (x - meanIn))
//
// Inverse restores the original representation exactly. LogJacobian reports
// the log absolute determinant of the output map, the correction a density
// in the transformed space needs to be compared in the original one.
type AffineTransform struct {
	meanIn    *mat.VecDense
	meanOut   *mat.VecDense
	preIn     *mat.Dense
	preInInv  *mat.Dense
	preOut    *mat.Dense
	preOutInv *mat.Dense
	predictor *mat.Dense

	logJacobian float64
}

// NewAffineTransform builds a transform from explicit parameters. preIn must
// be square over the input dimensionality, preOut square over the output
// dimensionality, and predictor outputDims x inputDims; both maps must be
// invertible.
func NewAffineTransform(meanIn, meanOut []float64, preIn, preOut, predictor *mat.Dense) (*AffineTransform, error) {
	dimIn := len(meanIn)
	dimOut := len(meanOut)
	if r, c := preIn.Dims(); r != dimIn || c != dimIn {
		return nil, ArgumentError("input preconditioning matrix must be square over the input dimensionality")
	}
	if r, c := preOut.Dims(); r != dimOut || c != dimOut {
		return nil, ArgumentError("output preconditioning matrix must be square over the output dimensionality")
	}
	if r, c := predictor.Dims(); r != dimOut || c != dimIn {
		return nil, ArgumentError("predictor must map the input dimensionality to the output dimensionality")
	}

	t := &AffineTransform{
		meanIn:    mat.NewVecDense(dimIn, append([]float64(nil), meanIn...)),
		meanOut:   mat.NewVecDense(dimOut, append([]float64(nil), meanOut...)),
		preIn:     mat.DenseCopyOf(preIn),
		preOut:    mat.DenseCopyOf(preOut),
		predictor: mat.DenseCopyOf(predictor),
		preInInv:  mat.NewDense(dimIn, dimIn, nil),
		preOutInv: mat.NewDense(dimOut, dimOut, nil),
	}
	if err := t.preInInv.Inverse(preIn); err != nil {
		return nil, ArgumentError("input preconditioning matrix is not invertible")
	}
	if err := t.preOutInv.Inverse(preOut); err != nil {
		return nil, ArgumentError("output preconditioning matrix is not invertible")
	}

	var lu mat.LU
	lu.Factorize(preOut)
	logDet, _ := lu.LogDet()
	t.logJacobian = logDet
	return t, nil
}

func (t *AffineTransform) InputDims() int {
	return t.meanIn.Len()
}

func (t *AffineTransform) OutputDims() int {
	return t.meanOut.Len()
}

func (t *AffineTransform) LogJacobian() float64 {
	return t.logJacobian
}

func (t *AffineTransform) checkPair(inputs, outputs *mat.Dense) error {
	inRows, inCols := inputs.Dims()
	outRows, outCols := outputs.Dims()
	if inRows != t.InputDims() || outRows != t.OutputDims() {
		return ArgumentError("data dimensionality does not match the transform")
	}
	if inCols != outCols {
		return ArgumentError("inputs and outputs must have the same number of columns")
	}
	return nil
}

// Forward preconditions a paired input/output matrix. Neither argument is
// mutated.
func (t *AffineTransform) Forward(inputs, outputs *mat.Dense) (*mat.Dense, *mat.Dense, error) {
	if err := t.checkPair(inputs, outputs); err != nil {
		return nil, nil, err
	}
	_, cols := inputs.Dims()

	centeredIn := mat.DenseCopyOf(inputs)
	subColumn(centeredIn, t.meanIn)

	preIn := mat.NewDense(t.InputDims(), cols, nil)
	preIn.Mul(t.preIn, centeredIn)

	predicted := mat.NewDense(t.OutputDims(), cols, nil)
	predicted.Mul(t.predictor, centeredIn)

	residual := mat.NewDense(t.OutputDims(), cols, nil)
	residual.Sub(outputs, predicted)
	subColumn(residual, t.meanOut)

	preOut := mat.NewDense(t.OutputDims(), cols, nil)
	preOut.Mul(t.preOut, residual)
	return preIn, preOut, nil
}

// Inverse undoes Forward, restoring the original input/output pair.
func (t *AffineTransform) Inverse(inputs, outputs *mat.Dense) (*mat.Dense, *mat.Dense, error) {
	if err := t.checkPair(inputs, outputs); err != nil {
		return nil, nil, err
	}
	_, cols := inputs.Dims()

	centeredIn := mat.NewDense(t.InputDims(), cols, nil)
	centeredIn.Mul(t.preInInv, inputs)

	rawIn := mat.DenseCopyOf(centeredIn)
	addColumn(rawIn, t.meanIn)

	rawOut := mat.NewDense(t.OutputDims(), cols, nil)
	rawOut.Mul(t.preOutInv, outputs)
	addColumn(rawOut, t.meanOut)

	predicted := mat.NewDense(t.OutputDims(), cols, nil)
	predicted.Mul(t.predictor, centeredIn)
	rawOut.Add(rawOut, predicted)
	return rawIn, rawOut, nil
}

// ForwardInput preconditions an input matrix alone, for conditioning vectors
// built at sampling time when no output exists yet.
func (t *AffineTransform) ForwardInput(inputs *mat.Dense) (*mat.Dense, error) {
	rows, cols := inputs.Dims()
	if rows != t.InputDims() {
		return nil, ArgumentError("data dimensionality does not match the transform")
	}
	centered := mat.DenseCopyOf(inputs)
	subColumn(centered, t.meanIn)
	pre := mat.NewDense(rows, cols, nil)
	pre.Mul(t.preIn, centered)
	return pre, nil
}

// Whitening derives an AffineTransform from data. Inputs are whitened by the
// inverse square root of their covariance; the predictor is the least-squares
// linear map from centered inputs to centered outputs; outputs are whitened
// by the inverse square root of the conditional (residual) covariance. After
// the transform, inputs have identity covariance and outputs are
// decorrelated from them.
func Whitening(inputs, outputs *mat.Dense) (*AffineTransform, error) {
	inRows, inCols := inputs.Dims()
	outRows, outCols := outputs.Dims()
	if inCols != outCols {
		return nil, ArgumentError("inputs and outputs must have the same number of columns")
	}
	if inCols < 2 {
		return nil, ArgumentError("whitening requires at least two data columns")
	}

	meanIn := rowMeans(inputs)
	meanOut := rowMeans(outputs)

	centeredIn := mat.DenseCopyOf(inputs)
	subColumn(centeredIn, mat.NewVecDense(inRows, meanIn))
	centeredOut := mat.DenseCopyOf(outputs)
	subColumn(centeredOut, mat.NewVecDense(outRows, meanOut))

	n := float64(inCols)
	covIn := mat.NewDense(inRows, inRows, nil)
	covIn.Mul(centeredIn, centeredIn.T())
	covIn.Scale(1/n, covIn)

	covOut := mat.NewDense(outRows, outRows, nil)
	covOut.Mul(centeredOut, centeredOut.T())
	covOut.Scale(1/n, covOut)

	covOutIn := mat.NewDense(outRows, inRows, nil)
	covOutIn.Mul(centeredOut, centeredIn.T())
	covOutIn.Scale(1/n, covOutIn)

	covInInv := mat.NewDense(inRows, inRows, nil)
	if err := covInInv.Inverse(covIn); err != nil {
		return nil, ArgumentError("input covariance is singular, cannot whiten")
	}

	// predictor = C_yx * C_xx^-1
	predictor := mat.NewDense(outRows, inRows, nil)
	predictor.Mul(covOutIn, covInInv)

	// conditional covariance C_yy - C_yx * C_xx^-1 * C_xy
	explained := mat.NewDense(outRows, outRows, nil)
	explained.Mul(predictor, covOutIn.T())
	condCov := mat.NewDense(outRows, outRows, nil)
	condCov.Sub(covOut, explained)

	preIn, err := inverseSqrt(covIn)
	if err != nil {
		return nil, err
	}
	preOut, err := inverseSqrt(condCov)
	if err != nil {
		return nil, err
	}
	return NewAffineTransform(meanIn, meanOut, preIn, preOut, predictor)
}

// The inverse symmetric square root of a positive definite matrix, via its
// eigendecomposition.
func inverseSqrt(a *mat.Dense) (*mat.Dense, error) {
	n, _ := a.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, ArgumentError("covariance eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	scaled := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		if values[j] <= 0 {
			return nil, ArgumentError("covariance is not positive definite, cannot whiten")
		}
		s := 1 / math.Sqrt(values[j])
		for i := 0; i < n; i++ {
			scaled.Set(i, j, vectors.At(i, j)*s)
		}
	}
	result := mat.NewDense(n, n, nil)
	result.Mul(scaled, vectors.T())
	return result, nil
}

func rowMeans(a *mat.Dense) []float64 {
	rows, cols := a.Dims()
	means := make([]float64, rows)
	for r := 0; r < rows; r++ {
		sum := 0.0
		for c := 0; c < cols; c++ {
			sum += a.At(r, c)
		}
		means[r] = sum / float64(cols)
	}
	return means
}

func subColumn(a *mat.Dense, v *mat.VecDense) {
	rows, cols := a.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a.Set(r, c, a.At(r, c)-v.AtVec(r))
		}
	}
}

func addColumn(a *mat.Dense, v *mat.VecDense) {
	rows, cols := a.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a.Set(r, c, a.At(r, c)+v.AtVec(r))
		}
	}
}
