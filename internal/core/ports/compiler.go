package ports

import "context"

// CompileRequest describes one stylesheet compilation.
type CompileRequest struct {
	// Binary is the compiler executable. Empty selects the default.
	Binary string
	// Root is the absolute project root.
	Root string
	// Entry is the root-relative stylesheet to compile.
	Entry     string
	LoadPaths []string
	// SourceMap requests a source map. Its sources are made relative to MapDir
	// and its file field is set to OutputName.
	SourceMap  bool
	MapDir     string
	OutputName string
}

// CompileResult holds the compiled stylesheet and its source map. CSS carries
// no source map annotation.
type CompileResult struct {
	CSS       []byte
	SourceMap []byte
}

// StylesheetCompiler compiles a stylesheet entry point to CSS.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type StylesheetCompiler interface {
	// Compile returns a *domain.CompileError for malformed input.
	Compile(ctx context.Context, req CompileRequest) (*CompileResult, error)
}
