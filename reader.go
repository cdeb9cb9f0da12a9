package pixgen

import "io"

func readContent(r io.Reader, want uint32) (*Header, ScalarType, error) {
	h := &Header{}
	if err := h.ReadHeader(r); err != nil {
		return nil, ScalarUnknown, err
	}
	var content uint32
	if err := h.Read(r, &content); err != nil {
		return nil, ScalarUnknown, err
	}
	if content != want {
		return nil, ScalarUnknown, FormatError("container holds a different content kind than requested")
	}
	var scalar uint32
	if err := h.Read(r, &scalar); err != nil {
		return nil, ScalarUnknown, err
	}
	return h, ScalarType(scalar), nil
}

func readExtents(r io.Reader, h *Header, extents []int64) error {
	for i := range extents {
		extent, err := h.ReadOffset(r)
		if err != nil {
			return err
		}
		if extent < 0 {
			return FormatError("container declares a negative extent")
		}
		extents[i] = extent
	}
	return nil
}

// ReadGrid restores a grid written by WriteGrid.
func ReadGrid(r io.Reader) (*Grid, error) {
	h, scalar, err := readContent(r, contentGrid)
	if err != nil {
		return nil, err
	}
	if !scalar.Floating() {
		return nil, FormatError("grid container declares a non floating point payload")
	}
	extents := make([]int64, 3)
	if err := readExtents(r, h, extents); err != nil {
		return nil, err
	}
	if extents[2] < 1 {
		return nil, FormatError("grid container declares no channels")
	}
	grid := NewGridChannels(int(extents[0]), int(extents[1]), int(extents[2]))
	if err := readFloatPayload(r, grid.Data, h, scalar); err != nil {
		return nil, err
	}
	return grid, nil
}

// ReadVideo restores a video written by WriteVideo.
func ReadVideo(r io.Reader) (*Video, error) {
	h, scalar, err := readContent(r, contentVideo)
	if err != nil {
		return nil, err
	}
	if !scalar.Floating() {
		return nil, FormatError("video container declares a non floating point payload")
	}
	extents := make([]int64, 4)
	if err := readExtents(r, h, extents); err != nil {
		return nil, err
	}
	if extents[3] < 1 {
		return nil, FormatError("video container declares no channels")
	}
	video := NewVideoChannels(int(extents[0]), int(extents[1]), int(extents[2]), int(extents[3]))
	if err := readFloatPayload(r, video.Data, h, scalar); err != nil {
		return nil, err
	}
	return video, nil
}

// ReadMask restores a mask written by WriteMask.
func ReadMask(r io.Reader) (*Mask, error) {
	h, scalar, err := readContent(r, contentMask)
	if err != nil {
		return nil, err
	}
	if scalar != ScalarBool {
		return nil, FormatError("mask container must declare a boolean payload")
	}
	extents := make([]int64, 4)
	if err := readExtents(r, h, extents); err != nil {
		return nil, err
	}
	if extents[2] < 1 || extents[3] < 1 {
		return nil, FormatError("mask container declares no frames or channels")
	}
	mask := NewMaskShape(int(extents[0]), int(extents[1]), int(extents[2]), int(extents[3]))
	packed := make([]byte, (len(mask.Bits)+7)/8)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, err
	}
	for i := range mask.Bits {
		mask.Bits[i] = UnpackBool(packed, i)
	}
	return mask, nil
}

func readFloatPayload(r io.Reader, data []float64, h *Header, scalar ScalarType) error {
	buf := make([]byte, scalar.Size())
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		data[i] = scalar.Float(buf, h.ByteOrder)
	}
	return nil
}
