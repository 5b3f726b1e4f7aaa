package ports

//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks

// StylesheetTransformer rewrites compiled CSS.
type StylesheetTransformer interface {
	// StripComments removes comments, keeping /*! */ and source map annotations.
	StripComments(css []byte) ([]byte, error)
	// Minify minifies css for CSS2 era browsers.
	Minify(css []byte) ([]byte, error)
	// RemoveUnused drops rules whose selectors match no element of the given
	// html documents. With no documents the input is returned unchanged.
	RemoveUnused(css []byte, documents [][]byte) ([]byte, error)
}

// ScriptMinifier minifies concatenated scripts.
type ScriptMinifier interface {
	// Minify minifies whitespace, identifiers and syntax of src. name is used in
	// error messages.
	Minify(name string, src []byte) ([]byte, error)
}
