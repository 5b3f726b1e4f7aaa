// Package stylesheet implements the compiled-stylesheet transforms: comment
// stripping, minification and unused-rule removal.
package stylesheet

import (
	"bytes"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	parsecss "github.com/tdewolff/parse/v2/css"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

const mediaType = "text/css"

var _ ports.StylesheetTransformer = (*Transformer)(nil)

// Transformer implements ports.StylesheetTransformer.
type Transformer struct {
	minifier *minify.M
}

// NewTransformer creates a Transformer whose minifier keeps the output valid
// CSS2, which IE8 still parses.
func NewTransformer() *Transformer {
	m := minify.New()
	m.Add(mediaType, &mincss.Minifier{KeepCSS2: true})
	return &Transformer{minifier: m}
}

// StripComments removes every comment except /*! */ banners and source map
// annotations. Comments inside strings are left alone.
func (t *Transformer) StripComments(css []byte) ([]byte, error) {
	tokens, err := tokenize(css)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(css))
	for _, tok := range tokens {
		if tok.kind == parsecss.CommentToken && !isPreservedComment(tok.data) {
			continue
		}
		out = append(out, tok.data...)
	}
	return out, nil
}

// Minify minifies css.
func (t *Transformer) Minify(css []byte) ([]byte, error) {
	out, err := t.minifier.Bytes(mediaType, css)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrTransformFailed.Error())
	}
	return bytes.TrimSpace(out), nil
}
