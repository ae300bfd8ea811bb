package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// DecodeFrame decodes an uploaded image into a BGR frame, applying EXIF
// auto-orientation so registration photos from phones come out upright.
func DecodeFrame(r io.Reader) (Frame, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return FrameFromImage(img), nil
}

// FrameFromImage converts a decoded image.Image into a BGR frame
func FrameFromImage(img image.Image) Frame {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pix := make([]byte, width*height*FrameChannels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := nrgba.PixOffset(x, y)
			dst := (y*width + x) * FrameChannels
			pix[dst] = nrgba.Pix[src+2]   // B
			pix[dst+1] = nrgba.Pix[src+1] // G
			pix[dst+2] = nrgba.Pix[src]   // R
		}
	}
	return Frame{Width: width, Height: height, Pix: pix}
}
