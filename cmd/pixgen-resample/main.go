package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"strings"

	"github.com/gracefulearth/image/bmp"
	"github.com/gracefulearth/image/tiff"
	"github.com/gracefulearth/pixgen"
	"github.com/gracefulearth/pixgen/mcgsm"
	"golang.org/x/exp/rand"
)

// This application raster-resamples an image with a default-initialized
// conditional model: every pixel below and right of the causal mask origin is
// redrawn conditioned on its already-finalized neighbors. It serves as an
// example of wiring a grid, a causal mask pair and a conditional model into
// the sampling pipeline; with an untrained model the output is textured
// noise seeded by the top and left image borders.

func main() {
	srcFile := flag.String("src", "", "image to resample (png, jpg, bmp, tif)")
	dstFile := flag.String("dst", "", "file to write the resampled image to")
	maskHeight := flag.Int("maskHeight", 2, "height of the causal neighborhood mask")
	maskWidth := flag.Int("maskWidth", 2, "width of the causal neighborhood mask")
	seed := flag.Uint64("seed", 0, "random seed for the model, 0 for a clock seed")
	flag.Parse()

	if *srcFile == "" || *dstFile == "" {
		fmt.Println("both -src and -dst are required")
		flag.Usage()
		return
	}
	if *maskHeight < 1 || *maskWidth < 1 || (*maskHeight)*(*maskWidth) < 2 {
		fmt.Println("the causal mask needs at least two cells")
		return
	}

	if err := resample(*srcFile, *dstFile, *maskHeight, *maskWidth, *seed); err != nil {
		fmt.Println(err)
	}
}

func resample(srcFile, dstFile string, maskHeight, maskWidth int, seed uint64) error {
	srcStream, err := os.Open(srcFile)
	if err != nil {
		return err
	}
	defer srcStream.Close()

	img, err := decodeImage(srcStream, srcFile)
	if err != nil {
		return err
	}

	grid := pixgen.GridFromImage(img)
	xmask, ymask := pixgen.CausalMasks(maskHeight, maskWidth)

	var model *mcgsm.Model
	if seed == 0 {
		model = mcgsm.New(xmask.SetCount()*grid.Channels, grid.Channels)
	} else {
		model = mcgsm.NewWithSource(xmask.SetCount()*grid.Channels, grid.Channels,
			mcgsm.DefaultComponents, mcgsm.DefaultScales, rand.NewSource(seed))
	}

	sampled, err := pixgen.SampleImage(grid, model, xmask, ymask)
	if err != nil {
		return err
	}

	result, err := pixgen.GridImage(sampled)
	if err != nil {
		return err
	}

	dstStream, err := os.Create(dstFile)
	if err != nil {
		return err
	}
	defer dstStream.Close()
	return encodeImage(dstStream, dstFile, result)
}

func decodeImage(r io.Reader, name string) (image.Image, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".bmp":
		return bmp.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	}
	return nil, pixgen.UnsupportedError("image format not supported for resampling")
}

func encodeImage(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	}
	return pixgen.UnsupportedError("image format not supported for output")
}
