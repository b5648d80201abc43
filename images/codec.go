package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	// Register decoders for every format on the upload allow-list.
	// JPEG is pulled in by the imaging library itself.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Variant is one encoded JPEG rendition of an uploaded image.
type Variant struct {
	Data   []byte
	Width  int
	Height int
}

// Process decodes a validated payload, bakes any EXIF rotation into the
// pixel data, flattens transparency onto an opaque white background and
// produces the full and thumbnail variants. All failures wrap
// ErrProcessing with the underlying cause.
func Process(src []byte, lim Limits) (full, thumb Variant, err error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return Variant{}, Variant{}, fmt.Errorf("%w: decode: %v", ErrProcessing, err)
	}
	img = flatten(img)

	full, err = encodeFit(img, lim.FullSize, lim.FullQuality)
	if err != nil {
		return Variant{}, Variant{}, err
	}
	thumb, err = encodeFit(img, lim.ThumbSize, lim.ThumbQuality)
	if err != nil {
		return Variant{}, Variant{}, err
	}
	return full, thumb, nil
}

// flatten composites the image onto opaque white. JPEG has no alpha
// channel, so palette and alpha modes must be flattened before encoding.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// encodeFit downscales img to fit within a maxDim square, preserving the
// aspect ratio and never upscaling, then encodes it as JPEG.
func encodeFit(img image.Image, maxDim, quality int) (Variant, error) {
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Variant{}, fmt.Errorf("%w: encode jpeg: %v", ErrProcessing, err)
	}
	b = img.Bounds()
	return Variant{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
