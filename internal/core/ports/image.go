package ports

// ImageOptimizer shrinks image files without changing what they display.
//
//go:generate mockgen -source=image.go -destination=mocks/mock_image.go -package=mocks
type ImageOptimizer interface {
	// OptimizeRaster recompresses a png, jpeg or gif file. The format is taken from name.
	OptimizeRaster(name string, data []byte) ([]byte, error)
	// MinifyVector minifies an svg document.
	MinifyVector(data []byte) ([]byte, error)
}
