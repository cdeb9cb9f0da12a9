package pixgen

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/gracefulearth/pixgen/mcgsm"
	"gonum.org/v1/gonum/mat"
)

// stubModel lets the sampler tests control exactly what the conditional
// model returns.
type stubModel struct {
	in, out  int
	value    float64
	failAt   int
	badShape bool
	calls    int
}

func (s *stubModel) InputDims() int  { return s.in }
func (s *stubModel) OutputDims() int { return s.out }

func (s *stubModel) Sample(inputs *mat.Dense) (*mat.Dense, error) {
	s.calls++
	if s.failAt > 0 && s.calls >= s.failAt {
		return nil, fmt.Errorf("stub model failure")
	}
	if s.badShape {
		return mat.NewDense(s.out+1, 1, nil), nil
	}
	_, cols := inputs.Dims()
	result := mat.NewDense(s.out, cols, nil)
	for r := 0; r < s.out; r++ {
		for c := 0; c < cols; c++ {
			result.Set(r, c, s.value)
		}
	}
	return result, nil
}

func TestSampleImageFixture(t *testing.T) {
	xmask, ymask := causalFixture()
	img := GridFromRows([][]float64{
		{1, 2},
		{3, 4},
	})

	model := mcgsm.NewWithSource(3, 1, mcgsm.DefaultComponents, mcgsm.DefaultScales, rand.NewSource(11))
	sampled, err := SampleImage(img, model, xmask, ymask)
	if err != nil {
		t.Fatal(err)
	}

	// only the bottom-right pixel is covered by the y-mask
	want := [][]float64{{1, 2}, {3, 4}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if r == 1 && c == 1 {
				continue
			}
			if math.Abs(sampled.At(r, c, 0)-want[r][c]) > 1e-10 {
				t.Errorf("cell (%d, %d) changed from %v to %v", r, c, want[r][c], sampled.At(r, c, 0))
			}
		}
	}

	// copy semantics: the caller's image is untouched entirely
	if img.At(1, 1, 0) != 4 {
		t.Error("sampling mutated the caller's image")
	}
}

func TestSampleImageWritesTargets(t *testing.T) {
	xmask, ymask := causalFixture()
	img := randomGrid(8, 8, 1, 5)
	model := &stubModel{in: 3, out: 1, value: 42}

	sampled, err := SampleImage(img, model, xmask, ymask)
	if err != nil {
		t.Fatal(err)
	}
	// every anchor's target cell carries the model's value
	for r := 1; r < 8; r++ {
		for c := 1; c < 8; c++ {
			if sampled.At(r, c, 0) != 42 {
				t.Errorf("anchor (%d, %d) not written", r, c)
			}
		}
	}
	// the first row and column lie outside every y-mask placement
	for i := 0; i < 8; i++ {
		if sampled.At(0, i, 0) != img.At(0, i, 0) {
			t.Errorf("seed cell (0, %d) was overwritten", i)
		}
		if sampled.At(i, 0, 0) != img.At(i, 0, 0) {
			t.Errorf("seed cell (%d, 0) was overwritten", i)
		}
	}
	if model.calls != 49 {
		t.Errorf("model sampled %d times, want once per anchor (49)", model.calls)
	}
}

func TestSampleImageModelFailure(t *testing.T) {
	xmask, ymask := causalFixture()
	img := randomGrid(8, 8, 1, 7)
	model := &stubModel{in: 3, out: 1, value: 42, failAt: 10}

	sampled, err := SampleImage(img, model, xmask, ymask)
	var modelErr ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if sampled == nil {
		t.Fatal("partially sampled grid must be returned alongside the error")
	}
	// cells written before the failure stand
	if sampled.At(1, 1, 0) != 42 {
		t.Error("cells sampled before the failure were rolled back")
	}
	// the failing anchor is the 10th in raster order: row 2, col 3
	if modelErr.Row != 2 || modelErr.Col != 3 {
		t.Errorf("failure reported at (%d, %d), want (2, 3)", modelErr.Row, modelErr.Col)
	}
}

func TestSampleImageShapeMismatch(t *testing.T) {
	xmask, ymask := causalFixture()
	img := randomGrid(4, 4, 1, 9)
	model := &stubModel{in: 3, out: 1, badShape: true}

	_, err := SampleImage(img, model, xmask, ymask)
	var modelErr ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError for mismatched sample shape, got %v", err)
	}
}

func TestSampleImageDimsMismatch(t *testing.T) {
	xmask, ymask := causalFixture()
	img := randomGrid(4, 4, 1, 13)
	model := &stubModel{in: 5, out: 1}

	_, err := SampleImage(img, model, xmask, ymask)
	var argErr ArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("expected ArgumentError for model/mask dimension mismatch, got %v", err)
	}
}

func TestSampleImageOverlap(t *testing.T) {
	xmask := MaskFromRows([][]bool{
		{true, true},
		{true, true},
	})
	_, ymask := causalFixture()
	img := randomGrid(4, 4, 1, 15)
	model := &stubModel{in: 4, out: 1}

	_, err := SampleImage(img, model, xmask, ymask)
	var argErr ArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("expected ArgumentError for overlapping masks, got %v", err)
	}
}

func TestSampleVideoSeedFrame(t *testing.T) {
	// 3x3 spatial, depth-2 masks: the full earlier neighborhood plus the
	// causal half of the later one, predicting the later center cell
	xEarly := MaskFromRows([][]bool{
		{true, true, true},
		{true, true, true},
		{true, true, true},
	})
	xLate := MaskFromRows([][]bool{
		{true, true, true},
		{true, false, false},
		{false, false, false},
	})
	yEarly := NewMask(3, 3)
	yLate := MaskFromRows([][]bool{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	})
	xmask, err := StackFrames(xEarly, xLate)
	if err != nil {
		t.Fatal(err)
	}
	ymask, err := StackFrames(yEarly, yLate)
	if err != nil {
		t.Fatal(err)
	}

	vid := randomVideo(64, 64, 5, 21)
	model := mcgsm.NewWithSource(13, 1, mcgsm.DefaultComponents, mcgsm.DefaultScales, rand.NewSource(19))

	sampled, err := SampleVideo(vid, model, xmask, ymask)
	if err != nil {
		t.Fatal(err)
	}

	// the first frame is seed context and must come through untouched
	for r := 0; r < 64; r++ {
		for c := 0; c < 64; c++ {
			if math.Abs(sampled.At(r, c, 0, 0)-vid.At(r, c, 0, 0)) > 1e-10 {
				t.Fatalf("seed frame changed at (%d, %d)", r, c)
			}
		}
	}
	// and the caller's video is untouched everywhere
	fresh := randomVideo(64, 64, 5, 21)
	for i := range vid.Data {
		if vid.Data[i] != fresh.Data[i] {
			t.Fatal("sampling mutated the caller's video")
		}
	}
}

func TestSampleVideoModelFailure(t *testing.T) {
	xmask, ymask, err := videoFixture()
	if err != nil {
		t.Fatal(err)
	}
	vid := randomVideo(8, 8, 3, 25)
	model := &stubModel{in: 7, out: 1, failAt: 1}

	_, sampleErr := SampleVideo(vid, model, xmask, ymask)
	var modelErr ModelError
	if !errors.As(sampleErr, &modelErr) {
		t.Fatalf("expected ModelError, got %v", sampleErr)
	}
	if modelErr.Frame != 1 {
		t.Errorf("failure reported in frame %d, want the first sampled frame (1)", modelErr.Frame)
	}
}
