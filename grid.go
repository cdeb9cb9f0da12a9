package pixgen

import "strconv"

// A Grid is a two-dimensional raster of scalar intensities with an explicit
// channel axis. Single-channel data is represented as Channels == 1 rather
// than a separate rank, so callers never dispatch on array shape. Values are
// stored row-major with the channel axis fastest: the value at (row, col,
// channel) lives at index (row*Width+col)*Channels + channel.
type Grid struct {
	Height   int
	Width    int
	Channels int
	Data     []float64
}

// Creates a zero-filled single-channel grid of the given extent.
func NewGrid(height, width int) *Grid {
	return NewGridChannels(height, width, 1)
}

// Creates a zero-filled grid of the given extent with the given number of
// channels per cell.
func NewGridChannels(height, width, channels int) *Grid {
	if height < 0 || width < 0 || channels < 1 {
		panic("pixgen: grid extents must be non-negative with at least one channel")
	}
	return &Grid{
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     make([]float64, height*width*channels),
	}
}

// Creates a single-channel grid from literal rows. All rows must have the
// same length.
func GridFromRows(rows [][]float64) *Grid {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	grid := NewGrid(height, width)
	for r, row := range rows {
		if len(row) != width {
			panic("pixgen: grid rows must all have the same length")
		}
		copy(grid.Data[r*width:(r+1)*width], row)
	}
	return grid
}

func (g *Grid) At(row, col, channel int) float64 {
	return g.Data[(row*g.Width+col)*g.Channels+channel]
}

func (g *Grid) Set(row, col, channel int, val float64) {
	g.Data[(row*g.Width+col)*g.Channels+channel] = val
}

// Returns a deep copy of the grid. Mutating the copy never affects the
// original.
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &Grid{Height: g.Height, Width: g.Width, Channels: g.Channels, Data: data}
}

func (g *Grid) String() string {
	return "Grid(" + strconv.Itoa(g.Height) + " x " + strconv.Itoa(g.Width) +
		" x " + strconv.Itoa(g.Channels) + ")"
}
