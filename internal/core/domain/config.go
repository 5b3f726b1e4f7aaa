package domain

// ToolOptions configures the external collaborators used by pipeline steps.
type ToolOptions struct {
	// SassBinary is the stylesheet compiler executable.
	SassBinary string
	// LoadPaths are extra import directories passed to the compiler.
	LoadPaths []string
	// RemoveReferences are the html documents whose selectors keep a rule alive
	// during unused-rule removal. Empty means pass-through.
	RemoveReferences []string
	// DesktopNotify enables desktop notifications for interactive task failures.
	DesktopNotify bool
}

// Config is the loaded, immutable project configuration.
type Config struct {
	// Root is the absolute project root every relative glob resolves against.
	Root     string
	Registry *Registry
	Tools    ToolOptions
}
