package stylesheet

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	parsecss "github.com/tdewolff/parse/v2/css"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

// conditionalAtRules hold rules that are purged recursively. Other at-rule
// blocks (@font-face, @keyframes, @page) are copied unchanged.
var conditionalAtRules = map[string]struct{}{
	"media":     {},
	"supports":  {},
	"document":  {},
	"layer":     {},
	"container": {},
}

// dynamicPseudoRegex matches pseudo-elements and state pseudo-classes that a
// static document cannot satisfy. They are removed before matching, so
// "a:hover" is kept whenever the document has an anchor.
var dynamicPseudoRegex = regexp.MustCompile(
	`::[A-Za-z-]+(\([^)]*\))?|:(?:hover|focus-within|focus-visible|focus|active|visited|link|target|before|after|first-line|first-letter|-[a-z]+-[A-Za-z-]+)`,
)

// RemoveUnused drops every qualified rule whose selectors all match nothing in
// documents. Selectors that cannot be evaluated keep their rule. With no
// documents the input is returned unchanged.
func (t *Transformer) RemoveUnused(css []byte, documents [][]byte) ([]byte, error) {
	if len(documents) == 0 {
		return bytes.Clone(css), nil
	}

	docs := make([]*html.Node, 0, len(documents))
	for _, doc := range documents {
		node, err := html.Parse(bytes.NewReader(doc))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to parse reference document")
		}
		docs = append(docs, node)
	}

	tokens, err := tokenize(css)
	if err != nil {
		return nil, err
	}

	p := &purger{tokens: tokens, docs: docs, used: make(map[string]bool)}
	var out []byte
	for {
		chunk, _ := p.rules()
		out = append(out, chunk...)
		if p.pos >= len(p.tokens) {
			break
		}
		// Unbalanced closing brace at the top level.
		out = append(out, p.tokens[p.pos].data...)
		p.pos++
	}
	return out, nil
}

type purger struct {
	tokens []token
	pos    int
	docs   []*html.Node
	used   map[string]bool
}

func (p *purger) peek() parsecss.TokenType {
	if p.pos >= len(p.tokens) {
		return parsecss.ErrorToken
	}
	return p.tokens[p.pos].kind
}

// rules consumes rules up to the closing brace of the enclosing block, which
// is left unconsumed, and returns the kept bytes and the number of kept rules.
func (p *purger) rules() ([]byte, int) {
	var out []byte
	kept := 0
	for p.pos < len(p.tokens) {
		var chunk []byte
		var ok bool

		switch p.peek() {
		case parsecss.RightBraceToken:
			return out, kept
		case parsecss.WhitespaceToken, parsecss.CommentToken, parsecss.CDOToken,
			parsecss.CDCToken, parsecss.SemicolonToken:
			out = append(out, p.tokens[p.pos].data...)
			p.pos++
			continue
		case parsecss.AtKeywordToken:
			chunk, ok = p.atRule()
		default:
			chunk, ok = p.qualifiedRule()
		}

		if ok {
			out = append(out, chunk...)
			kept++
		} else {
			out = bytes.TrimRight(out, " \t\r\n\f")
		}
	}
	return out, kept
}

func (p *purger) atRule() ([]byte, bool) {
	name := strings.ToLower(string(p.tokens[p.pos].data[1:]))
	prelude := p.until(parsecss.LeftBraceToken, parsecss.SemicolonToken, parsecss.RightBraceToken)

	switch p.peek() {
	case parsecss.SemicolonToken:
		p.pos++
		return append(prelude, ';'), true
	case parsecss.LeftBraceToken:
		p.pos++
	default:
		return prelude, true
	}

	out := append(prelude, '{')
	if _, ok := conditionalAtRules[name]; !ok {
		return append(out, p.block()...), true
	}

	inner, kept := p.rules()
	closing := p.closing()
	if kept == 0 {
		return nil, false
	}
	out = append(out, inner...)
	return append(out, closing...), true
}

func (p *purger) qualifiedRule() ([]byte, bool) {
	start := p.pos
	prelude := p.until(parsecss.LeftBraceToken, parsecss.RightBraceToken)
	if p.peek() != parsecss.LeftBraceToken {
		return prelude, true
	}
	selectors := p.tokens[start:p.pos]
	p.pos++

	body := p.block()
	if !p.isUsed(selectors) {
		return nil, false
	}
	out := append(prelude, '{')
	return append(out, body...), true
}

// until consumes tokens up to, not including, the first token of one of the
// given kinds and returns their bytes.
func (p *purger) until(kinds ...parsecss.TokenType) []byte {
	var out []byte
	for p.pos < len(p.tokens) {
		kind := p.peek()
		for _, k := range kinds {
			if kind == k {
				return out
			}
		}
		out = append(out, p.tokens[p.pos].data...)
		p.pos++
	}
	return out
}

// block consumes the remainder of a block whose opening brace was already
// consumed, including its closing brace.
func (p *purger) block() []byte {
	var out []byte
	depth := 1
	for p.pos < len(p.tokens) && depth > 0 {
		switch p.peek() {
		case parsecss.LeftBraceToken:
			depth++
		case parsecss.RightBraceToken:
			depth--
		default:
		}
		out = append(out, p.tokens[p.pos].data...)
		p.pos++
	}
	return out
}

func (p *purger) closing() []byte {
	if p.peek() != parsecss.RightBraceToken {
		return nil
	}
	p.pos++
	return []byte{'}'}
}

// isUsed reports whether any selector of a comma separated list can match.
func (p *purger) isUsed(prelude []token) bool {
	selectors := splitSelectors(prelude)
	if len(selectors) == 0 {
		return true
	}
	for _, sel := range selectors {
		if p.matches(sel) {
			return true
		}
	}
	return false
}

func (p *purger) matches(selector string) bool {
	if used, ok := p.used[selector]; ok {
		return used
	}

	used := true
	static := strings.TrimSpace(dynamicPseudoRegex.ReplaceAllString(selector, ""))
	if static != "" {
		if compiled, err := cascadia.Compile(static); err == nil {
			used = false
			for _, doc := range p.docs {
				if compiled.MatchFirst(doc) != nil {
					used = true
					break
				}
			}
		}
	}

	p.used[selector] = used
	return used
}

// splitSelectors splits a rule prelude on top-level commas, dropping comments.
func splitSelectors(prelude []token) []string {
	var selectors []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			selectors = append(selectors, s)
		}
		cur.Reset()
	}

	for _, tok := range prelude {
		switch tok.kind {
		case parsecss.CommentToken:
			continue
		case parsecss.FunctionToken, parsecss.LeftParenthesisToken, parsecss.LeftBracketToken:
			depth++
		case parsecss.RightParenthesisToken, parsecss.RightBracketToken:
			depth--
		case parsecss.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		default:
		}
		cur.Write(tok.data)
	}
	flush()
	return selectors
}
