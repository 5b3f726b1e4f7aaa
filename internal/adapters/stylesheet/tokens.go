package stylesheet

import (
	"bytes"
	"io"
	"slices"

	"github.com/tdewolff/parse/v2"
	parsecss "github.com/tdewolff/parse/v2/css"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

type token struct {
	kind parsecss.TokenType
	data []byte
}

// tokenize lexes css into tokens whose data concatenates back to the input.
func tokenize(css []byte) ([]token, error) {
	// The lexer appends a terminator when the slice has spare capacity.
	l := parsecss.NewLexer(parse.NewInputBytes(slices.Clip(css)))

	var tokens []token
	for {
		kind, data := l.Next()
		if kind == parsecss.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, zerr.Wrap(err, domain.ErrTransformFailed.Error())
			}
			return tokens, nil
		}
		tokens = append(tokens, token{kind: kind, data: data})
	}
}

func isPreservedComment(data []byte) bool {
	return bytes.HasPrefix(data, []byte("/*!")) ||
		(bytes.HasPrefix(data, []byte("/*#")) && bytes.Contains(data, []byte("sourceMappingURL")))
}
