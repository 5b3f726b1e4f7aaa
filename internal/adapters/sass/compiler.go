// Package sass compiles stylesheets with the dart-sass executable.
package sass

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

const outputName = "out.css"

var (
	_ ports.StylesheetCompiler = (*Compiler)(nil)

	// locationRegex matches the stack frame dart-sass prints below an error,
	// e.g. "  scss/main.scss 3:9  root stylesheet".
	locationRegex = regexp.MustCompile(`(?m)^\s+(\S+\.s[ac]ss) (\d+):(\d+)`)

	mappingURLRegex = regexp.MustCompile(`(?m)^/\*# sourceMappingURL=.*\*/\s*$`)
)

// Compiler implements ports.StylesheetCompiler by running the sass executable.
type Compiler struct {
	logger ports.Logger
}

// NewCompiler creates a new Compiler.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile runs sass on req.Entry inside req.Root. A failing compilation is
// returned as *domain.CompileError carrying the location sass reported.
func (c *Compiler) Compile(ctx context.Context, req ports.CompileRequest) (*ports.CompileResult, error) {
	binary := req.Binary
	if binary == "" {
		binary = domain.DefaultSassBinary
	}

	tmpDir, err := os.MkdirTemp("", "assetpipe-sass-*")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // Best effort cleanup

	out := filepath.Join(tmpDir, outputName)
	cmd := exec.CommandContext(ctx, binary, buildArgs(req, out)...) //nolint:gosec // binary is configured by the user
	cmd.Dir = req.Root

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCompilerNotFound.Error()), "binary", binary)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, parseCompileError(stderr.String(), req.Entry)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to run stylesheet compiler"), "binary", binary)
	}

	c.forwardWarnings(stderr.String())

	css, err := os.ReadFile(out) //nolint:gosec // path is inside our temporary directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "compiler produced no output"), "entry", req.Entry)
	}

	result := &ports.CompileResult{CSS: stripMappingURL(css)}
	if !req.SourceMap {
		return result, nil
	}

	raw, err := os.ReadFile(out + ".map") //nolint:gosec // path is inside our temporary directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "compiler produced no source map"), "entry", req.Entry)
	}
	result.SourceMap, err = rewriteSourceMap(raw, req)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func buildArgs(req ports.CompileRequest, out string) []string {
	args := []string{"--no-color", "--no-unicode"}
	for _, p := range req.LoadPaths {
		args = append(args, "--load-path="+p)
	}
	if req.SourceMap {
		args = append(args, "--source-map", "--embed-sources", "--source-map-urls=absolute")
	} else {
		args = append(args, "--no-source-map")
	}
	return append(args, filepath.FromSlash(strings.TrimPrefix(req.Entry, "./")), out)
}

// forwardWarnings logs the deprecation and @warn output of a successful run.
func (c *Compiler) forwardWarnings(stderr string) {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" || c.logger == nil {
		return
	}
	for line := range strings.SplitSeq(stderr, "\n") {
		if strings.TrimSpace(line) != "" {
			c.logger.Warn(line)
		}
	}
}

// parseCompileError extracts the message and the innermost location from
// dart-sass error output.
func parseCompileError(stderr, entry string) *domain.CompileError {
	ce := &domain.CompileError{File: strings.TrimPrefix(entry, "./")}

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for _, line := range lines {
		if msg, ok := strings.CutPrefix(line, "Error: "); ok {
			ce.Message = strings.TrimSpace(msg)
			break
		}
	}
	if ce.Message == "" && len(lines) > 0 {
		ce.Message = strings.TrimSpace(lines[0])
	}
	if ce.Message == "" {
		ce.Message = "stylesheet compiler failed"
	}

	if m := locationRegex.FindStringSubmatch(stderr); m != nil {
		ce.File = filepath.ToSlash(m[1])
		ce.Line, _ = strconv.Atoi(m[2])
		ce.Column, _ = strconv.Atoi(m[3])
	}
	return ce
}

func stripMappingURL(css []byte) []byte {
	css = mappingURLRegex.ReplaceAll(css, nil)
	css = bytes.TrimRight(css, "\n")
	return append(css, '\n')
}

// rewriteSourceMap replaces the absolute file URLs sass emits with paths
// relative to the directory the map is written to.
func rewriteSourceMap(raw []byte, req ports.CompileRequest) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, zerr.With(zerr.New("compiler produced an invalid source map"), "entry", req.Entry)
	}

	mapDir := filepath.Join(req.Root, filepath.FromSlash(req.MapDir))
	var sources []string
	for _, src := range gjson.GetBytes(raw, "sources").Array() {
		sources = append(sources, relativeSource(src.String(), mapDir))
	}
	if sources == nil {
		sources = []string{}
	}

	out, err := sjson.SetBytes(raw, "sources", sources)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to rewrite source map")
	}
	if out, err = sjson.SetBytes(out, "sourceRoot", ""); err != nil {
		return nil, zerr.Wrap(err, "failed to rewrite source map")
	}
	if req.OutputName != "" {
		if out, err = sjson.SetBytes(out, "file", req.OutputName); err != nil {
			return nil, zerr.Wrap(err, "failed to rewrite source map")
		}
	}
	return out, nil
}

func relativeSource(source, mapDir string) string {
	u, err := url.Parse(source)
	if err != nil || u.Scheme != "file" {
		return source
	}
	rel, err := filepath.Rel(mapDir, filepath.FromSlash(u.Path))
	if err != nil {
		return source
	}
	return filepath.ToSlash(rel)
}
