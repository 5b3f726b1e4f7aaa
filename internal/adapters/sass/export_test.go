package sass

// ParseCompileError exports parseCompileError for testing.
var ParseCompileError = parseCompileError
