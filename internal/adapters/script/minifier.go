// Package script minifies concatenated scripts with esbuild.
package script

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.ScriptMinifier = (*Minifier)(nil)

// Minifier implements ports.ScriptMinifier using the esbuild transform API.
type Minifier struct{}

// NewMinifier creates a new Minifier.
func NewMinifier() *Minifier {
	return &Minifier{}
}

// Minify minifies src. Syntax errors are returned as *domain.CompileError
// pointing into the concatenated source named name.
func (m *Minifier) Minify(name string, src []byte) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:            api.LoaderJS,
		Sourcefile:        name,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LegalComments:     api.LegalCommentsInline,
		Charset:           api.CharsetUTF8,
	})

	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		ce := &domain.CompileError{File: name, Message: msg.Text}
		if msg.Location != nil {
			ce.Line = msg.Location.Line
			// esbuild columns are zero based.
			ce.Column = msg.Location.Column + 1
		}
		if extra := len(result.Errors) - 1; extra > 0 {
			ce.Message += " (and " + pluralErrors(extra) + ")"
		}
		return nil, ce
	}

	return result.Code, nil
}

func pluralErrors(n int) string {
	if n == 1 {
		return "1 more error"
	}
	return fmt.Sprintf("%d more errors", n)
}
