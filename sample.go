package pixgen

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A ConditionalModel predicts output cells from conditioning cells. It is
// consumed only through its sampling operation: given an input matrix with
// InputDims rows and one column per query, Sample returns a matrix with
// OutputDims rows and the same column count. Density and gradient
// computations stay inside the model.
type ConditionalModel interface {
	InputDims() int
	OutputDims() int
	Sample(inputs *mat.Dense) (*mat.Dense, error)
}

func checkModelDims(model ConditionalModel, xmask, ymask *Mask, dataChannels int) error {
	if in := maskFeatureRows(xmask, dataChannels); model.InputDims() != in {
		return ArgumentError(fmt.Sprintf("model expects %d inputs but the x-mask selects %d", model.InputDims(), in))
	}
	if out := maskFeatureRows(ymask, dataChannels); model.OutputDims() != out {
		return ArgumentError(fmt.Sprintf("model produces %d outputs but the y-mask selects %d", model.OutputDims(), out))
	}
	return nil
}

func sampleShapeErr(sampled *mat.Dense, wantRows int) error {
	if sampled == nil {
		return fmt.Errorf("sample missing, want shape (%d, 1)", wantRows)
	}
	rows, cols := sampled.Dims()
	if rows != wantRows || cols != 1 {
		return fmt.Errorf("sample shaped (%d, %d), want (%d, 1)", rows, cols, wantRows)
	}
	return nil
}

// SampleImage fills in pixels of an image by raster-scan sampling from a
// conditional model. Anchors are visited left to right, top to bottom, so
// every cell a causal x-mask reaches has already been finalized, either as
// original data or as an earlier sample. At each anchor the x-mask
// conditioning vector is built from the working image, one sample is drawn
// from the model, and the y-mask cells are overwritten with it, letting later
// pixels condition on earlier synthesized ones.
//
// The caller's image is never mutated; sampling happens on a clone that is
// returned. Cells outside every anchor's y-mask keep their original values.
// If the model fails or returns a mismatched shape, the partially sampled
// clone is returned together with a ModelError; cells written before the
// failure stand.
func SampleImage(img *Grid, model ConditionalModel, xmask, ymask *Mask) (*Grid, error) {
	if err := checkImageMasks(img, xmask, ymask); err != nil {
		return nil, err
	}
	if err := checkModelDims(model, xmask, ymask, img.Channels); err != nil {
		return nil, err
	}
	out := img.Clone()
	input := mat.NewDense(model.InputDims(), 1, nil)
	for row := xmask.Height - 1; row < img.Height; row++ {
		for col := xmask.Width - 1; col < img.Width; col++ {
			fillImageColumn(input, 0, out, xmask, row, col)
			sampled, err := model.Sample(input)
			if err != nil {
				return out, ModelError{Row: row, Col: col, Err: err}
			}
			if err := sampleShapeErr(sampled, model.OutputDims()); err != nil {
				return out, ModelError{Row: row, Col: col, Err: err}
			}
			storeImageColumn(out, ymask, row, col, sampled, 0)
		}
	}
	return out, nil
}

// SampleVideo is the spatio-temporal analogue of SampleImage. Frames are
// scanned earliest to latest, starting at maskDepth-1; earlier frames are
// never written and serve as fixed seed context for the rest of the video.
func SampleVideo(vid *Video, model ConditionalModel, xmask, ymask *Mask) (*Video, error) {
	if err := checkVideoMasks(vid, xmask, ymask); err != nil {
		return nil, err
	}
	if err := checkModelDims(model, xmask, ymask, vid.Channels); err != nil {
		return nil, err
	}
	out := vid.Clone()
	input := mat.NewDense(model.InputDims(), 1, nil)
	for frame := xmask.Depth - 1; frame < vid.Frames; frame++ {
		for row := xmask.Height - 1; row < vid.Height; row++ {
			for col := xmask.Width - 1; col < vid.Width; col++ {
				fillVideoColumn(input, 0, out, xmask, row, col, frame)
				sampled, err := model.Sample(input)
				if err != nil {
					return out, ModelError{Row: row, Col: col, Frame: frame, Err: err}
				}
				if err := sampleShapeErr(sampled, model.OutputDims()); err != nil {
					return out, ModelError{Row: row, Col: col, Frame: frame, Err: err}
				}
				storeVideoColumn(out, ymask, row, col, frame, sampled, 0)
			}
		}
	}
	return out, nil
}
