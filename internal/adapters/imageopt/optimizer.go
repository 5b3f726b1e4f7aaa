// Package imageopt optimizes raster images with the standard codecs and
// minifies svg documents.
package imageopt

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

const svgMediaType = "image/svg+xml"

var _ ports.ImageOptimizer = (*Optimizer)(nil)

// Optimizer implements ports.ImageOptimizer. Re-encoded files are only used
// when they are smaller than the original.
type Optimizer struct {
	minifier *minify.M
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer() *Optimizer {
	m := minify.New()
	m.Add("text/css", &css.Minifier{})
	m.Add(svgMediaType, &svg.Minifier{})
	return &Optimizer{minifier: m}
}

// OptimizeRaster recompresses png and gif files losslessly and strips the
// metadata segments of jpeg files.
func (o *Optimizer) OptimizeRaster(name string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return o.optimizePNG(name, data)
	case ".gif":
		return o.optimizeGIF(name, data)
	case ".jpg", ".jpeg":
		return o.optimizeJPEG(name, data)
	default:
		return nil, zerr.With(zerr.New("unsupported image format"), "file", name)
	}
}

func (o *Optimizer) optimizePNG(name string, data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err, name)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error()), "file", name)
	}
	return smallest(data, buf.Bytes()), nil
}

// optimizeJPEG removes metadata without re-encoding, so the image stays
// bit-exact.
func (o *Optimizer) optimizeJPEG(name string, data []byte) ([]byte, error) {
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		return nil, decodeError(err, name)
	}

	stripped, err := stripJPEG(data)
	if err != nil {
		return nil, zerr.With(err, "file", name)
	}
	return smallest(data, stripped), nil
}

func (o *Optimizer) optimizeGIF(name string, data []byte) ([]byte, error) {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err, name)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error()), "file", name)
	}
	return smallest(data, buf.Bytes()), nil
}

// MinifyVector minifies an svg document.
func (o *Optimizer) MinifyVector(data []byte) ([]byte, error) {
	out, err := o.minifier.Bytes(svgMediaType, data)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error())
	}
	return out, nil
}

func decodeError(err error, name string) error {
	if errors.Is(err, image.ErrFormat) {
		return zerr.With(zerr.Wrap(err, "file is not a valid image"), "file", name)
	}
	return zerr.With(zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error()), "file", name)
}

func smallest(original, encoded []byte) []byte {
	if len(encoded) < len(original) {
		return bytes.Clone(encoded)
	}
	return bytes.Clone(original)
}
