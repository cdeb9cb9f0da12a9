package pixgen

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
)

// Feature extraction materializes, for each anchor location, the values
// under the x-mask as one input column and the values under the y-mask as one
// output column. The anchor is the cell the mask's bottom-right (and, for
// video, latest-frame) corner aligns to, so a causal mask only ever reaches
// cells at or before the anchor in raster order. Values within a column
// appear in row-major mask order with the channel axis fastest.
//
// Image anchors are numbered row-major over the valid region: anchor index
// i covers row maskHeight-1 + i/validCols, column maskWidth-1 + i%validCols.

// The number of rows one mask contributes to a feature column, accounting
// for single-channel masks being broadcast across the data's channels.
func maskFeatureRows(m *Mask, dataChannels int) int {
	if m.Channels == 1 {
		return m.SetCount() * dataChannels
	}
	return m.SetCount()
}

func checkImageMasks(img *Grid, xmask, ymask *Mask) error {
	if err := ValidateMasks(xmask, ymask); err != nil {
		return err
	}
	if xmask.Depth != 1 {
		return ArgumentError("image masks cannot have a temporal axis")
	}
	if xmask.Height > img.Height || xmask.Width > img.Width {
		return ArgumentError("mask extent exceeds image extent")
	}
	if xmask.Channels != 1 && xmask.Channels != img.Channels {
		return ArgumentError("mask channels must be 1 or match the image channels")
	}
	if xmask.SetCount() == 0 || ymask.SetCount() == 0 {
		return ArgumentError("mask pair must select at least one input and one output cell")
	}
	return nil
}

// Copies the values selected by the mask, anchored at (row, col), into column
// dstCol of dst starting at row 0. The destination must have maskFeatureRows
// rows. Single-channel masks take every data channel of a selected cell.
func fillImageColumn(dst *mat.Dense, dstCol int, img *Grid, m *Mask, row, col int) {
	feat := 0
	top := row - m.Height + 1
	left := col - m.Width + 1
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			if m.Channels == 1 {
				if !m.At(i, j, 0, 0) {
					continue
				}
				for ch := 0; ch < img.Channels; ch++ {
					dst.Set(feat, dstCol, img.At(top+i, left+j, ch))
					feat++
				}
			} else {
				for ch := 0; ch < m.Channels; ch++ {
					if !m.At(i, j, 0, ch) {
						continue
					}
					dst.Set(feat, dstCol, img.At(top+i, left+j, ch))
					feat++
				}
			}
		}
	}
}

// The mirror of fillImageColumn: writes column srcCol of src into the cells
// selected by the mask, anchored at (row, col).
func storeImageColumn(img *Grid, m *Mask, row, col int, src *mat.Dense, srcCol int) {
	feat := 0
	top := row - m.Height + 1
	left := col - m.Width + 1
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			if m.Channels == 1 {
				if !m.At(i, j, 0, 0) {
					continue
				}
				for ch := 0; ch < img.Channels; ch++ {
					img.Set(top+i, left+j, ch, src.At(feat, srcCol))
					feat++
				}
			} else {
				for ch := 0; ch < m.Channels; ch++ {
					if !m.At(i, j, 0, ch) {
						continue
					}
					img.Set(top+i, left+j, ch, src.At(feat, srcCol))
					feat++
				}
			}
		}
	}
}

func extractImage(img *Grid, xmask, ymask *Mask, anchors []int) (*mat.Dense, *mat.Dense, error) {
	if len(anchors) == 0 {
		return nil, nil, ArgumentError("at least one anchor is required for extraction")
	}
	validCols := img.Width - xmask.Width + 1
	validRows := img.Height - xmask.Height + 1
	inputs := mat.NewDense(maskFeatureRows(xmask, img.Channels), len(anchors), nil)
	outputs := mat.NewDense(maskFeatureRows(ymask, img.Channels), len(anchors), nil)
	for i, anchor := range anchors {
		if anchor < 0 || anchor >= validRows*validCols {
			return nil, nil, ArgumentError("anchor index out of range of valid image locations")
		}
		row := xmask.Height - 1 + anchor/validCols
		col := xmask.Width - 1 + anchor%validCols
		fillImageColumn(inputs, i, img, xmask, row, col)
		fillImageColumn(outputs, i, img, ymask, row, col)
	}
	return inputs, outputs, nil
}

// ExtractImage builds paired input/output feature matrices from an image.
// Each column corresponds to one anchor; inputs has one row per x-mask cell
// and channel, outputs one per y-mask cell and channel. When count is below
// the number of valid anchors a uniform random subset of that size is
// extracted; otherwise every valid anchor is used in index order. The source
// image is never mutated.
func ExtractImage(img *Grid, xmask, ymask *Mask, count int, src rand.Source) (*mat.Dense, *mat.Dense, error) {
	if err := checkImageMasks(img, xmask, ymask); err != nil {
		return nil, nil, err
	}
	if count < 0 {
		return nil, nil, ArgumentError("extraction count must be non-negative")
	}
	total := (img.Height - xmask.Height + 1) * (img.Width - xmask.Width + 1)
	var anchors []int
	if count < total {
		var err error
		anchors, err = RandomSelect(total, count, src)
		if err != nil {
			return nil, nil, err
		}
	} else {
		anchors = make([]int, total)
		for i := range anchors {
			anchors[i] = i
		}
	}
	return extractImage(img, xmask, ymask, anchors)
}

// ExtractImageAt extracts feature columns at an explicit set of anchor
// indices instead of a random subset. The same anchor set always yields the
// same columns, which lets separate extractions (say, of an image and its
// labels) stay paired.
func ExtractImageAt(img *Grid, xmask, ymask *Mask, anchors []int) (*mat.Dense, *mat.Dense, error) {
	if err := checkImageMasks(img, xmask, ymask); err != nil {
		return nil, nil, err
	}
	return extractImage(img, xmask, ymask, anchors)
}

func checkVideoMasks(vid *Video, xmask, ymask *Mask) error {
	if err := ValidateMasks(xmask, ymask); err != nil {
		return err
	}
	if xmask.Height > vid.Height || xmask.Width > vid.Width || xmask.Depth > vid.Frames {
		return ArgumentError("mask extent exceeds video extent")
	}
	if xmask.Channels != 1 && xmask.Channels != vid.Channels {
		return ArgumentError("mask channels must be 1 or match the video channels")
	}
	if xmask.SetCount() == 0 || ymask.SetCount() == 0 {
		return ArgumentError("mask pair must select at least one input and one output cell")
	}
	return nil
}

// Copies the values selected by the video mask, anchored at (row, col,
// frame), into column dstCol of dst. Values appear in row-major mask order
// with the frame axis before the channel axis.
func fillVideoColumn(dst *mat.Dense, dstCol int, vid *Video, m *Mask, row, col, frame int) {
	feat := 0
	top := row - m.Height + 1
	left := col - m.Width + 1
	earliest := frame - m.Depth + 1
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			for k := 0; k < m.Depth; k++ {
				if m.Channels == 1 {
					if !m.At(i, j, k, 0) {
						continue
					}
					for ch := 0; ch < vid.Channels; ch++ {
						dst.Set(feat, dstCol, vid.At(top+i, left+j, earliest+k, ch))
						feat++
					}
				} else {
					for ch := 0; ch < m.Channels; ch++ {
						if !m.At(i, j, k, ch) {
							continue
						}
						dst.Set(feat, dstCol, vid.At(top+i, left+j, earliest+k, ch))
						feat++
					}
				}
			}
		}
	}
}

func storeVideoColumn(vid *Video, m *Mask, row, col, frame int, src *mat.Dense, srcCol int) {
	feat := 0
	top := row - m.Height + 1
	left := col - m.Width + 1
	earliest := frame - m.Depth + 1
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			for k := 0; k < m.Depth; k++ {
				if m.Channels == 1 {
					if !m.At(i, j, k, 0) {
						continue
					}
					for ch := 0; ch < vid.Channels; ch++ {
						vid.Set(top+i, left+j, earliest+k, ch, src.At(feat, srcCol))
						feat++
					}
				} else {
					for ch := 0; ch < m.Channels; ch++ {
						if !m.At(i, j, k, ch) {
							continue
						}
						vid.Set(top+i, left+j, earliest+k, ch, src.At(feat, srcCol))
						feat++
					}
				}
			}
		}
	}
}

func extractVideo(vid *Video, xmask, ymask *Mask, anchors []int) (*mat.Dense, *mat.Dense, error) {
	if len(anchors) == 0 {
		return nil, nil, ArgumentError("at least one anchor is required for extraction")
	}
	validRows := vid.Height - xmask.Height + 1
	validCols := vid.Width - xmask.Width + 1
	validFrames := vid.Frames - xmask.Depth + 1
	inputs := mat.NewDense(maskFeatureRows(xmask, vid.Channels), len(anchors), nil)
	outputs := mat.NewDense(maskFeatureRows(ymask, vid.Channels), len(anchors), nil)
	for i, anchor := range anchors {
		if anchor < 0 || anchor >= validRows*validCols*validFrames {
			return nil, nil, ArgumentError("anchor index out of range of valid video locations")
		}
		frame := xmask.Depth - 1 + anchor/(validRows*validCols)
		rest := anchor % (validRows * validCols)
		row := xmask.Height - 1 + rest/validCols
		col := xmask.Width - 1 + rest%validCols
		fillVideoColumn(inputs, i, vid, xmask, row, col, frame)
		fillVideoColumn(outputs, i, vid, ymask, row, col, frame)
	}
	return inputs, outputs, nil
}

// ExtractVideo is the spatio-temporal analogue of ExtractImage. Valid
// anchors additionally require the mask's temporal extent to fit within the
// preceding frames; anchors are numbered frame-major (frame, then row, then
// column), the same order the video sampler scans.
func ExtractVideo(vid *Video, xmask, ymask *Mask, count int, src rand.Source) (*mat.Dense, *mat.Dense, error) {
	if err := checkVideoMasks(vid, xmask, ymask); err != nil {
		return nil, nil, err
	}
	if count < 0 {
		return nil, nil, ArgumentError("extraction count must be non-negative")
	}
	total := (vid.Height - xmask.Height + 1) * (vid.Width - xmask.Width + 1) * (vid.Frames - xmask.Depth + 1)
	var anchors []int
	if count < total {
		var err error
		anchors, err = RandomSelect(total, count, src)
		if err != nil {
			return nil, nil, err
		}
	} else {
		anchors = make([]int, total)
		for i := range anchors {
			anchors[i] = i
		}
	}
	return extractVideo(vid, xmask, ymask, anchors)
}

// ExtractVideoAt extracts video feature columns at an explicit set of anchor
// indices, deterministically.
func ExtractVideoAt(vid *Video, xmask, ymask *Mask, anchors []int) (*mat.Dense, *mat.Dense, error) {
	if err := checkVideoMasks(vid, xmask, ymask); err != nil {
		return nil, nil, err
	}
	return extractVideo(vid, xmask, ymask, anchors)
}
