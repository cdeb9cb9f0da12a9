package pixgen

import "strconv"

// A Mask is a boolean neighborhood template with explicit spatial, temporal
// and channel extents. Image masks have Depth == 1; masks with Channels == 1
// are broadcast across the channels of the data they are applied to. Bits are
// stored row-major with depth before channel: the bit at (row, col, frame,
// channel) lives at index ((row*Width+col)*Depth + frame)*Channels + channel.
//
// An x-mask selects the conditioning ("known") cells relative to an anchor,
// a y-mask the target ("to predict") cells. The two must never both select
// the same cell.
type Mask struct {
	Height   int
	Width    int
	Depth    int
	Channels int
	Bits     []bool
}

// Creates an all-false single-channel image mask of the given extent.
func NewMask(height, width int) *Mask {
	return NewMaskShape(height, width, 1, 1)
}

// Creates an all-false mask of the given extent, depth and channel count.
func NewMaskShape(height, width, depth, channels int) *Mask {
	if height < 0 || width < 0 || depth < 1 || channels < 1 {
		panic("pixgen: mask extents must be non-negative with at least one frame and channel")
	}
	return &Mask{
		Height:   height,
		Width:    width,
		Depth:    depth,
		Channels: channels,
		Bits:     make([]bool, height*width*depth*channels),
	}
}

// Creates a single-channel image mask from literal rows. All rows must have
// the same length.
func MaskFromRows(rows [][]bool) *Mask {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	mask := NewMask(height, width)
	for r, row := range rows {
		if len(row) != width {
			panic("pixgen: mask rows must all have the same length")
		}
		copy(mask.Bits[r*width:(r+1)*width], row)
	}
	return mask
}

// Stacks single-frame masks along the temporal axis to build a video mask.
// The first argument becomes the earliest frame. All masks must share the
// same spatial extent and channel count and have Depth 1.
func StackFrames(frames ...*Mask) (*Mask, error) {
	if len(frames) == 0 {
		return nil, ArgumentError("at least one frame is required to stack a video mask")
	}
	first := frames[0]
	mask := NewMaskShape(first.Height, first.Width, len(frames), first.Channels)
	for k, frame := range frames {
		if frame.Height != first.Height || frame.Width != first.Width ||
			frame.Channels != first.Channels || frame.Depth != 1 {
			return nil, ArgumentError("stacked mask frames must share extents and have depth 1")
		}
		for i := 0; i < frame.Height; i++ {
			for j := 0; j < frame.Width; j++ {
				for ch := 0; ch < frame.Channels; ch++ {
					mask.Set(i, j, k, ch, frame.At(i, j, 0, ch))
				}
			}
		}
	}
	return mask, nil
}

// Stacks single-channel masks along the channel axis to build a mask with an
// explicit per-channel pattern. All masks must share the same spatial and
// temporal extent and have Channels 1.
func StackChannels(channels ...*Mask) (*Mask, error) {
	if len(channels) == 0 {
		return nil, ArgumentError("at least one channel is required to stack a channel mask")
	}
	first := channels[0]
	mask := NewMaskShape(first.Height, first.Width, first.Depth, len(channels))
	for ch, chMask := range channels {
		if chMask.Height != first.Height || chMask.Width != first.Width ||
			chMask.Depth != first.Depth || chMask.Channels != 1 {
			return nil, ArgumentError("stacked mask channels must share extents and have a single channel")
		}
		for i := 0; i < chMask.Height; i++ {
			for j := 0; j < chMask.Width; j++ {
				for k := 0; k < chMask.Depth; k++ {
					mask.Set(i, j, k, ch, chMask.At(i, j, k, 0))
				}
			}
		}
	}
	return mask, nil
}

// CausalMasks builds the canonical raster-scan mask pair for an image: the
// x-mask selects every cell of the bounding box before the bottom-right
// corner in raster order, the y-mask exactly that corner. A sampler using
// this pair only ever conditions on cells already finalized by the scan.
func CausalMasks(height, width int) (xmask, ymask *Mask) {
	xmask = NewMask(height, width)
	ymask = NewMask(height, width)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			if i < height-1 || j < width-1 {
				xmask.Set(i, j, 0, 0, true)
			}
		}
	}
	ymask.Set(height-1, width-1, 0, 0, true)
	return xmask, ymask
}

func (m *Mask) At(row, col, frame, channel int) bool {
	return m.Bits[((row*m.Width+col)*m.Depth+frame)*m.Channels+channel]
}

func (m *Mask) Set(row, col, frame, channel int, val bool) {
	m.Bits[((row*m.Width+col)*m.Depth+frame)*m.Channels+channel] = val
}

// The number of set cells in the mask, counted per channel.
func (m *Mask) SetCount() int {
	count := 0
	for _, b := range m.Bits {
		if b {
			count++
		}
	}
	return count
}

// Reports whether both masks have the same extent on every axis.
func (m *Mask) SameShape(other *Mask) bool {
	return m.Height == other.Height && m.Width == other.Width &&
		m.Depth == other.Depth && m.Channels == other.Channels
}

// Reports whether no cell is selected by both masks at the same position.
func (m *Mask) Disjoint(other *Mask) bool {
	if !m.SameShape(other) {
		return false
	}
	for i, b := range m.Bits {
		if b && other.Bits[i] {
			return false
		}
	}
	return true
}

// Checks the invariant required of every x-mask/y-mask pair: identical
// extents and no cell selected by both. Overlap would let the model condition
// on the value it is asked to predict.
func ValidateMasks(xmask, ymask *Mask) error {
	if !xmask.SameShape(ymask) {
		return ArgumentError("mask pair must have the same extents on every axis")
	}
	for i, b := range xmask.Bits {
		if b && ymask.Bits[i] {
			return ArgumentError("mask pair overlaps: a cell cannot be both input and output")
		}
	}
	return nil
}

func (m *Mask) String() string {
	return "Mask(" + strconv.Itoa(m.Height) + " x " + strconv.Itoa(m.Width) +
		" x " + strconv.Itoa(m.Depth) + " x " + strconv.Itoa(m.Channels) + ")"
}
