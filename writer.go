package pixgen

import "io"

// Content kind markers distinguishing what a pixgen container stores.
const (
	contentGrid  uint32 = 1
	contentVideo uint32 = 2
	contentMask  uint32 = 3
)

// WriteGrid persists a grid to a binary container. Values are stored in the
// given scalar format, which must be floating point; formats narrower than
// float64 drop precision on write.
func WriteGrid(w io.Writer, g *Grid, h *Header, scalar ScalarType) error {
	if !scalar.Floating() {
		return UnsupportedError("grid payloads require a floating point scalar format")
	}
	if err := h.WriteHeader(w); err != nil {
		return err
	}
	if err := h.Write(w, contentGrid); err != nil {
		return err
	}
	if err := h.Write(w, uint32(scalar)); err != nil {
		return err
	}
	for _, extent := range []int{g.Height, g.Width, g.Channels} {
		if err := h.WriteOffset(w, int64(extent)); err != nil {
			return err
		}
	}
	return writeFloatPayload(w, g.Data, h, scalar)
}

// WriteVideo persists a video to a binary container in the given floating
// point scalar format.
func WriteVideo(w io.Writer, v *Video, h *Header, scalar ScalarType) error {
	if !scalar.Floating() {
		return UnsupportedError("video payloads require a floating point scalar format")
	}
	if err := h.WriteHeader(w); err != nil {
		return err
	}
	if err := h.Write(w, contentVideo); err != nil {
		return err
	}
	if err := h.Write(w, uint32(scalar)); err != nil {
		return err
	}
	for _, extent := range []int{v.Height, v.Width, v.Frames, v.Channels} {
		if err := h.WriteOffset(w, int64(extent)); err != nil {
			return err
		}
	}
	return writeFloatPayload(w, v.Data, h, scalar)
}

// WriteMask persists a mask to a binary container. Bits are packed eight to
// a byte.
func WriteMask(w io.Writer, m *Mask, h *Header) error {
	if err := h.WriteHeader(w); err != nil {
		return err
	}
	if err := h.Write(w, contentMask); err != nil {
		return err
	}
	if err := h.Write(w, uint32(ScalarBool)); err != nil {
		return err
	}
	for _, extent := range []int{m.Height, m.Width, m.Depth, m.Channels} {
		if err := h.WriteOffset(w, int64(extent)); err != nil {
			return err
		}
	}
	packed := make([]byte, (len(m.Bits)+7)/8)
	for i, b := range m.Bits {
		PackBool(b, packed, i)
	}
	_, err := w.Write(packed)
	return err
}

func writeFloatPayload(w io.Writer, data []float64, h *Header, scalar ScalarType) error {
	buf := make([]byte, scalar.Size())
	for _, v := range data {
		scalar.PutFloat(v, h.ByteOrder, buf)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
