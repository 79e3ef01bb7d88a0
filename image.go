package ttficon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Supported output formats.
const (
	PNG  = "png"
	JPEG = "jpg"
	BMP  = "bmp"
	GIF  = "gif"
	ICO  = "ico"
)

// maxIcoSize is the largest edge an ICO directory entry can describe.
const maxIcoSize = 256

// ErrUnsupportedFormat is returned by Encode for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath returns the output format matching the file extension.
// Paths without extension, as well as the pipe name, are encoded as PNG.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "":
		return PNG
	case "jpeg":
		return JPEG
	}
	return ext
}

// DecodeImage opens and decodes the image file found at path.
func DecodeImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode the image file %q", path)
	}
	return img, nil
}

// Encode encodes img to w in the requested format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG, "jpeg":
		// JPEG has no alpha channel, the transparent background becomes white.
		return jpeg.Encode(w, flatten(img, color.White), &jpeg.Options{Quality: 100})
	case BMP:
		return bmp.Encode(w, img)
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	case ICO:
		return EncodeICO(w, img)
	}
	return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
}

// EncodeICO writes the images as the entries of a single ICO file.
// Each entry holds PNG data; images larger than 256 pixels are scaled down to fit.
func EncodeICO(w io.Writer, imgs ...image.Image) error {
	if len(imgs) == 0 {
		return errors.New("an ICO file should contain at least one image")
	}

	fitted := make([]image.Image, len(imgs))
	entries := make([][]byte, len(imgs))
	for i, img := range imgs {
		b := img.Bounds()
		if b.Dx() > maxIcoSize || b.Dy() > maxIcoSize {
			img = imaging.Fit(img, maxIcoSize, maxIcoSize, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return errors.Wrap(err, "could not encode the ICO entry")
		}
		fitted[i] = img
		entries[i] = buf.Bytes()
	}

	var out bytes.Buffer
	// ICONDIR: reserved, type (1 = icon), number of images.
	binary.Write(&out, binary.LittleEndian, [3]uint16{0, 1, uint16(len(imgs))})

	offset := 6 + 16*len(imgs)
	for i, img := range fitted {
		b := img.Bounds()
		binary.Write(&out, binary.LittleEndian, struct {
			Width, Height      uint8
			Colors, Reserved   uint8
			Planes, BitCount   uint16
			BytesInRes, Offset uint32
		}{
			Width:      icoDimension(b.Dx()),
			Height:     icoDimension(b.Dy()),
			Planes:     1,
			BitCount:   32,
			BytesInRes: uint32(len(entries[i])),
			Offset:     uint32(offset),
		})
		offset += len(entries[i])
	}
	for _, data := range entries {
		out.Write(data)
	}

	_, err := out.WriteTo(w)
	return err
}

// icoDimension encodes an edge length; 0 means 256 pixels.
func icoDimension(n int) uint8 {
	if n >= maxIcoSize {
		return 0
	}
	return uint8(n)
}

// flatten draws img over a solid background.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), bg)

	return imaging.Overlay(dst, img, image.Point{}, 1.0)
}
