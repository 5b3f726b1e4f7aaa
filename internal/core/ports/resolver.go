package ports

// SourceResolver expands source globs into concrete files.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SourceResolver interface {
	// Resolve expands patterns relative to root. It returns slash separated,
	// root-relative paths in pattern order, each pattern's matches sorted.
	// A literal pattern that matches no file is an error; a glob may match nothing.
	Resolve(root string, patterns []string) ([]string, error)
}
