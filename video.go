package pixgen

import "strconv"

// A Video is a raster of frames with explicit spatial, temporal and channel
// extents. Values are stored row-major with the frame axis before the channel
// axis: the value at (row, col, frame, channel) lives at index
// ((row*Width+col)*Frames + frame)*Channels + channel. During sampling the
// earliest frames act as immutable seed context.
type Video struct {
	Height   int
	Width    int
	Frames   int
	Channels int
	Data     []float64
}

// Creates a zero-filled single-channel video of the given extent.
func NewVideo(height, width, frames int) *Video {
	return NewVideoChannels(height, width, frames, 1)
}

// Creates a zero-filled video of the given extent with the given number of
// channels per cell.
func NewVideoChannels(height, width, frames, channels int) *Video {
	if height < 0 || width < 0 || frames < 0 || channels < 1 {
		panic("pixgen: video extents must be non-negative with at least one channel")
	}
	return &Video{
		Height:   height,
		Width:    width,
		Frames:   frames,
		Channels: channels,
		Data:     make([]float64, height*width*frames*channels),
	}
}

func (v *Video) At(row, col, frame, channel int) float64 {
	return v.Data[((row*v.Width+col)*v.Frames+frame)*v.Channels+channel]
}

func (v *Video) Set(row, col, frame, channel int, val float64) {
	v.Data[((row*v.Width+col)*v.Frames+frame)*v.Channels+channel] = val
}

// Returns a deep copy of the video. Mutating the copy never affects the
// original.
func (v *Video) Clone() *Video {
	data := make([]float64, len(v.Data))
	copy(data, v.Data)
	return &Video{Height: v.Height, Width: v.Width, Frames: v.Frames, Channels: v.Channels, Data: data}
}

// Extracts a copy of a single frame as a grid with the same channel count.
func (v *Video) Frame(frame int) *Grid {
	grid := NewGridChannels(v.Height, v.Width, v.Channels)
	for r := 0; r < v.Height; r++ {
		for c := 0; c < v.Width; c++ {
			for ch := 0; ch < v.Channels; ch++ {
				grid.Set(r, c, ch, v.At(r, c, frame, ch))
			}
		}
	}
	return grid
}

func (v *Video) String() string {
	return "Video(" + strconv.Itoa(v.Height) + " x " + strconv.Itoa(v.Width) +
		" x " + strconv.Itoa(v.Frames) + " x " + strconv.Itoa(v.Channels) + ")"
}
