package pixgen

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

const (
	FileType = "pxgn" // Every container starts with these four bytes.
	Version  = 1      // Two ASCII digits following the file type.
)

// Contains information used to read or write the rest of a pixgen container:
// the format version, the width of stored extents and the byte order of
// every multi-byte value after the header itself.
type Header struct {
	Version    int
	OffsetSize int
	ByteOrder  binary.ByteOrder
}

func (h *Header) Write(w io.Writer, val any) error {
	return binary.Write(w, h.ByteOrder, val)
}

func (h *Header) Read(r io.Reader, val any) error {
	return binary.Read(r, h.ByteOrder, val)
}

// Writes an extent or offset using the header's configured width.
func (h *Header) WriteOffset(w io.Writer, offset int64) error {
	switch h.OffsetSize {
	case 4:
		return binary.Write(w, h.ByteOrder, int32(offset))
	case 8:
		return binary.Write(w, h.ByteOrder, offset)
	}
	panic("pixgen: unsupported offset size")
}

func (h *Header) ReadOffset(r io.Reader) (int64, error) {
	switch h.OffsetSize {
	case 4:
		var offset int32
		err := binary.Read(r, h.ByteOrder, &offset)
		return int64(offset), err
	case 8:
		var offset int64
		err := binary.Read(r, h.ByteOrder, &offset)
		return offset, err
	}
	panic("pixgen: unsupported offset size")
}

func (h *Header) WriteHeader(w io.Writer) error {
	// write file type
	_, err := w.Write([]byte(FileType))
	if err != nil {
		return err
	}

	// write file version
	_, err = w.Write([]byte(fmt.Sprintf("%02d", h.Version)))
	if err != nil {
		return err
	}

	// write offset size indicator
	_, err = w.Write([]byte{byte(h.OffsetSize)})
	if err != nil {
		return err
	}

	// write byte order indicator
	byteOrderEnc := byte(0x00)
	if h.ByteOrder == binary.BigEndian {
		byteOrderEnc = byte(0xff)
	}
	_, err = w.Write([]byte{byteOrderEnc})
	return err
}

func (h *Header) ReadHeader(r io.Reader) error {
	buf := make([]byte, 4)

	// check file type
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return err
	}
	if string(buf) != FileType {
		return FormatError("pixgen file marker not found at start of stream")
	}

	// check file version
	_, err = io.ReadFull(r, buf[0:2])
	if err != nil {
		return err
	}
	version, err := strconv.ParseInt(string(buf[0:2]), 10, 32)
	if err != nil {
		return err
	}
	if version > Version {
		return FormatError("reader does not support this version of pixgen container")
	}
	h.Version = int(version)

	// read offset size indicator & byte order indicator
	_, err = io.ReadFull(r, buf[0:2])
	if err != nil {
		return err
	}

	if buf[0] != 4 && buf[0] != 8 {
		return FormatError("reader only supports offset sizes of 4 or 8 bytes")
	}
	h.OffsetSize = int(buf[0])

	if buf[1] == 0x00 {
		h.ByteOrder = binary.LittleEndian
	} else if buf[1] == 0xff {
		h.ByteOrder = binary.BigEndian
	} else {
		return FormatError("unsupported or invalid byte order specified")
	}
	return nil
}
