package script_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/script"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestMinifier_Minify(t *testing.T) {
	src := []byte("function greet(name) {\n  var message = 'hello ' + name;\n  return message;\n}\nwindow.greet = greet;\n")

	got, err := script.NewMinifier().Minify("compiled.js", src)
	require.NoError(t, err)
	assert.Less(t, len(got), len(src))
	assert.NotContains(t, string(got), "message")
	assert.Contains(t, string(got), "window.greet")
}

func TestMinifier_Deterministic(t *testing.T) {
	src := []byte("var a = 1;\nvar b = function () { return a + 1; };\n")
	m := script.NewMinifier()

	first, err := m.Minify("compiled.js", src)
	require.NoError(t, err)
	second, err := m.Minify("compiled.js", src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMinifier_SyntaxError(t *testing.T) {
	src := []byte("var ok = 1;\nvar a = ;\nwindow.ok = ok;\n")

	_, err := script.NewMinifier().Minify("compiled.js", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCompileFailed))

	var ce *domain.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "compiled.js", ce.File)
	assert.Equal(t, 2, ce.Line)
	assert.NotEmpty(t, ce.Message)
}
