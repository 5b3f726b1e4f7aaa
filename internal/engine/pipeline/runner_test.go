package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/script"
	"go.trai.ch/assetpipe/internal/adapters/stylesheet"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/assetpipe/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type runnerMocks struct {
	compiler    *mocks.MockStylesheetCompiler
	transformer *mocks.MockStylesheetTransformer
	scripts     *mocks.MockScriptMinifier
	images      *mocks.MockImageOptimizer
	logger      *mocks.MockLogger
}

// setupRunner creates a runner over the real filesystem adapters and mocked transforms.
func setupRunner(t *testing.T) (*pipeline.Runner, runnerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := runnerMocks{
		compiler:    mocks.NewMockStylesheetCompiler(ctrl),
		transformer: mocks.NewMockStylesheetTransformer(ctrl),
		scripts:     mocks.NewMockScriptMinifier(ctrl),
		images:      mocks.NewMockImageOptimizer(ctrl),
		logger:      mocks.NewMockLogger(ctrl),
	}
	r := pipeline.NewRunner(
		fs.NewResolver(fs.NewWalker()),
		fs.NewWriter(),
		m.compiler,
		m.transformer,
		m.scripts,
		m.images,
		m.logger,
	)
	return r, m
}

func newConfig(t *testing.T, root string) *domain.Config {
	t.Helper()
	reg, err := domain.NewRegistry(domain.DefaultGroups()...)
	require.NoError(t, err)
	return &domain.Config{
		Root:     root,
		Registry: reg,
		Tools:    domain.ToolOptions{SassBinary: domain.DefaultSassBinary},
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func lookup(t *testing.T, name string) domain.Task {
	t.Helper()
	g, err := domain.NewDefaultGraph()
	require.NoError(t, err)
	task, err := g.Lookup(name)
	require.NoError(t, err)
	return task
}

func TestRunner_Sass_WritesStylesheetAndSourceMap(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"scss/main.scss":            "@import 'partials/grid';",
		"scss/partials/_grid.scss": ".grid { display: block; }",
	})

	m.compiler.EXPECT().Compile(gomock.Any(), ports.CompileRequest{
		Binary:     domain.DefaultSassBinary,
		Root:       root,
		Entry:      "scss/main.scss",
		SourceMap:  true,
		MapDir:     "assets/css/maps",
		OutputName: "style.css",
	}).Return(&ports.CompileResult{
		CSS:       []byte(".grid {\n  display: block;\n}\n"),
		SourceMap: []byte(`{"version":3,"file":"style.css"}`),
	}, nil)

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskSass)))

	assert.Equal(t,
		".grid {\n  display: block;\n}\n/*# sourceMappingURL=maps/style.css.map */\n",
		readFile(t, root, "assets/css/style.css"))
	assert.JSONEq(t, `{"version":3,"file":"style.css"}`, readFile(t, root, "assets/css/maps/style.css.map"))
}

func TestRunner_LiveIE_WritesWithoutSourceMap(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"scss/ie.scss": ".ie { zoom: 1; }"})

	m.compiler.EXPECT().Compile(gomock.Any(), ports.CompileRequest{
		Binary:     domain.DefaultSassBinary,
		Root:       root,
		Entry:      "scss/ie.scss",
		OutputName: "ie.css",
	}).Return(&ports.CompileResult{CSS: []byte(".ie {\n  zoom: 1;\n}\n")}, nil)

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskLiveIE)))

	assert.Equal(t, ".ie {\n  zoom: 1;\n}\n", readFile(t, root, "assets/css/ie.css"))
	assert.NoDirExists(t, filepath.Join(root, "assets", "css", "maps"))
}

func TestRunner_Sass_CompileErrorLeavesNoOutput(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"scss/main.scss": "@import 'partials/missing';"})

	compileErr := &domain.CompileError{File: "scss/main.scss", Line: 1, Column: 9, Message: "Can't find stylesheet to import."}
	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil, compileErr)

	err := r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskSass))
	require.Error(t, err)

	var ce *domain.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "scss/main.scss", ce.File)
	assert.Equal(t, 1, ce.Line)
	assert.NoFileExists(t, filepath.Join(root, "assets", "css", "style.css"))
}

func TestRunner_SassIE_MissingSource(t *testing.T) {
	r, _ := setupRunner(t)
	root := t.TempDir()

	err := r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskSassIE))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSourceNotFound.Error())
}

func TestRunner_Clean_OverwritesInPlace(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/css/style.css": "/* note */a{}",
		"assets/css/ie.css":    "/* legacy */b{}",
	})

	m.transformer.EXPECT().StripComments([]byte("/* legacy */b{}")).Return([]byte("b{}"), nil)
	m.transformer.EXPECT().StripComments([]byte("/* note */a{}")).Return([]byte("a{}"), nil)

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskClean)))

	assert.Equal(t, "a{}", readFile(t, root, "assets/css/style.css"))
	assert.Equal(t, "b{}", readFile(t, root, "assets/css/ie.css"))
}

func TestRunner_Clean_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := pipeline.NewRunner(
		fs.NewResolver(fs.NewWalker()),
		fs.NewWriter(),
		mocks.NewMockStylesheetCompiler(ctrl),
		stylesheet.NewTransformer(),
		mocks.NewMockScriptMinifier(ctrl),
		mocks.NewMockImageOptimizer(ctrl),
		mocks.NewMockLogger(ctrl),
	)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/css/style.css": "/*! keep */\n/* drop */\na { color: red; }\n/*# sourceMappingURL=maps/style.css.map */\n",
	})
	cfg := newConfig(t, root)
	task := lookup(t, domain.TaskClean)

	require.NoError(t, r.Run(context.Background(), cfg, task))
	first := readFile(t, root, "assets/css/style.css")
	info, err := os.Stat(filepath.Join(root, "assets", "css", "style.css"))
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), cfg, task))
	second := readFile(t, root, "assets/css/style.css")
	again, err := os.Stat(filepath.Join(root, "assets", "css", "style.css"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, info.ModTime(), again.ModTime())
	assert.Contains(t, first, "/*! keep */")
	assert.Contains(t, first, "sourceMappingURL=maps/style.css.map")
	assert.NotContains(t, first, "drop")
}

func TestRunner_Remove_PassThroughWithoutReferences(t *testing.T) {
	r, _ := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"assets/css/style.css": ".unused{}"})

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskRemove)))
	assert.Equal(t, ".unused{}", readFile(t, root, "assets/css/style.css"))
}

func TestRunner_Remove_UsesReferenceDocuments(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/css/style.css": ".used{}.unused{}",
		"index.html":           `<div class="used"></div>`,
	})
	cfg := newConfig(t, root)
	cfg.Tools.RemoveReferences = []string{"./index.html"}

	m.transformer.EXPECT().
		RemoveUnused([]byte(".used{}.unused{}"), [][]byte{[]byte(`<div class="used"></div>`)}).
		Return([]byte(".used{}"), nil)

	require.NoError(t, r.Run(context.Background(), cfg, lookup(t, domain.TaskRemove)))
	assert.Equal(t, ".used{}", readFile(t, root, "assets/css/style.css"))
}

func TestRunner_MinifyCSS_TransformError(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"assets/css/style.css": "a{"})

	m.transformer.EXPECT().Minify(gomock.Any()).Return(nil, errors.New("unexpected EOF"))

	err := r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskMinifyCSS))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrTransformFailed.Error())
	assert.Equal(t, "a{", readFile(t, root, "assets/css/style.css"))
}

func TestRunner_JSCompile_ConcatenatesInDirectoryOrder(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/js/src/b.js": "var b = 2;",
		"assets/js/src/a.js": "var a = 1;",
	})

	m.scripts.EXPECT().
		Minify("assets/js/compiled.js", []byte("var a = 1;\nvar b = 2;")).
		Return([]byte("var a=1,b=2;\n"), nil)

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskJSCompile)))
	assert.Equal(t, "var a=1,b=2;\n", readFile(t, root, "assets/js/compiled.js"))
}

func TestRunner_JSCompile_EqualsMinifiedConcat(t *testing.T) {
	ctrl := gomock.NewController(t)
	minifier := script.NewMinifier()
	r := pipeline.NewRunner(
		fs.NewResolver(fs.NewWalker()),
		fs.NewWriter(),
		mocks.NewMockStylesheetCompiler(ctrl),
		mocks.NewMockStylesheetTransformer(ctrl),
		minifier,
		mocks.NewMockImageOptimizer(ctrl),
		mocks.NewMockLogger(ctrl),
	)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/js/src/01-util.js": "function add(first, second) { return first + second; }",
		"assets/js/src/02-main.js": "console.log(add(1, 2));",
	})

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskJSCompile)))

	want, err := minifier.Minify("compiled.js", []byte(
		"function add(first, second) { return first + second; }\nconsole.log(add(1, 2));"))
	require.NoError(t, err)
	assert.Equal(t, string(want), readFile(t, root, "assets/js/compiled.js"))
}

func TestRunner_JSCompile_NoSourcesWritesNothing(t *testing.T) {
	r, _ := setupRunner(t)
	root := t.TempDir()

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskJSCompile)))
	assert.NoFileExists(t, filepath.Join(root, "assets", "js", "compiled.js"))
}

func TestRunner_OptimizeImages_IsolatesCorruptFile(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/img/a.png":   "png-a",
		"assets/img/b.jpg":   "jpg-b",
		"assets/img/bad.gif": "not a gif",
	})

	m.images.EXPECT().OptimizeRaster("a.png", []byte("png-a")).Return([]byte("small-a"), nil)
	m.images.EXPECT().OptimizeRaster("b.jpg", []byte("jpg-b")).Return([]byte("jpg-b"), nil)
	m.images.EXPECT().OptimizeRaster("bad.gif", gomock.Any()).Return(nil, errors.New("gif: can't recognize format"))

	var fileErrs []*domain.PerFileError
	var completions, written int
	r.WithHooks(pipeline.Hooks{
		OnFileError: func(_ string, err *domain.PerFileError) { fileErrs = append(fileErrs, err) },
		OnComplete: func(task string, n int, _ error) {
			assert.Equal(t, domain.TaskOptimizeImg, task)
			completions++
			written = n
		},
	})

	err := r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskOptimizeImg))
	require.Error(t, err)

	var pf *domain.PerFileError
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "assets/img/bad.gif", pf.File)

	require.Len(t, fileErrs, 1)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 2, written)
	assert.Equal(t, "small-a", readFile(t, root, "assets/img/min/a.png"))
	assert.Equal(t, "jpg-b", readFile(t, root, "assets/img/min/b.jpg"))
	assert.NoFileExists(t, filepath.Join(root, "assets", "img", "min", "bad.gif"))
}

func TestRunner_SVGMin_CompletesOnce(t *testing.T) {
	r, m := setupRunner(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/img/svg/icon.svg": `<svg xmlns="http://www.w3.org/2000/svg">  </svg>`,
	})

	m.images.EXPECT().MinifyVector(gomock.Any()).Return([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), nil)

	var completions int
	r.WithHooks(pipeline.Hooks{
		OnComplete: func(string, int, error) { completions++ },
	})

	require.NoError(t, r.Run(context.Background(), newConfig(t, root), lookup(t, domain.TaskSVGMin)))
	assert.Equal(t, 1, completions)
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`, readFile(t, root, "assets/img/min/icon.svg"))
}

func TestRunner_Build_RejectsCompositeTasks(t *testing.T) {
	r, _ := setupRunner(t)

	_, err := r.Build(newConfig(t, t.TempDir()), lookup(t, domain.TaskLive))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidTaskKind.Error())
}

func TestRunner_Build_StepOrder(t *testing.T) {
	r, _ := setupRunner(t)
	cfg := newConfig(t, t.TempDir())

	tests := []struct {
		task string
		want []string
	}{
		{domain.TaskSass, []string{"compile", "concat", "sourcemaps", "write"}},
		{domain.TaskLiveSass, []string{"compile", "concat", "write"}},
		{domain.TaskClean, []string{"read", "strip-comments", "dest", "write"}},
		{domain.TaskJSCompile, []string{"read", "concat", "minify", "write"}},
		{domain.TaskOptimizeImg, []string{"read", "optimize", "dest", "write", "count"}},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			p, err := r.Build(cfg, lookup(t, tt.task))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.StepNames())
		})
	}
}
