package pixgen

import (
	"image"
	"image/color"
	"math"
)

// GridFromImage converts a decoded image into a grid of intensities in
// [0, 255]. Gray images become a single channel; everything else becomes
// three channels in red, green, blue order, with any alpha discarded.
func GridFromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()

	if gray, ok := img.(*image.Gray); ok {
		grid := NewGrid(height, width)
		for r := 0; r < height; r++ {
			for c := 0; c < width; c++ {
				grid.Set(r, c, 0, float64(gray.GrayAt(bounds.Min.X+c, bounds.Min.Y+r).Y))
			}
		}
		return grid
	}

	grid := NewGridChannels(height, width, 3)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			red, green, blue, _ := img.At(bounds.Min.X+c, bounds.Min.Y+r).RGBA()
			grid.Set(r, c, 0, float64(red>>8))
			grid.Set(r, c, 1, float64(green>>8))
			grid.Set(r, c, 2, float64(blue>>8))
		}
	}
	return grid
}

// GridImage renders a grid of intensities in [0, 255] back into an image.
// Single-channel grids become grayscale, three-channel grids opaque color;
// out-of-range values are clamped, so freshly sampled grids render without
// further normalization.
func GridImage(g *Grid) (image.Image, error) {
	switch g.Channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
		for r := 0; r < g.Height; r++ {
			for c := 0; c < g.Width; c++ {
				img.SetGray(c, r, color.Gray{Y: clampByte(g.At(r, c, 0))})
			}
		}
		return img, nil
	case 3:
		img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
		for r := 0; r < g.Height; r++ {
			for c := 0; c < g.Width; c++ {
				img.SetNRGBA(c, r, color.NRGBA{
					R: clampByte(g.At(r, c, 0)),
					G: clampByte(g.At(r, c, 1)),
					B: clampByte(g.At(r, c, 2)),
					A: 255,
				})
			}
		}
		return img, nil
	}
	return nil, UnsupportedError("only 1- and 3-channel grids can be rendered as images")
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
