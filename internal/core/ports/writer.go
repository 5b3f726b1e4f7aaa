package ports

// OutputWriter is the sink every pipeline writes through.
//
//go:generate mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type OutputWriter interface {
	// Write replaces path with data atomically. It reports whether the file
	// changed; identical contents leave the file untouched.
	Write(path string, data []byte) (bool, error)
}
