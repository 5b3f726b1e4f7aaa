package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a task that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected between composite tasks.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTasksSpecified is returned when no task names are given to the run command.
	ErrNoTasksSpecified = zerr.New("no tasks specified")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidTaskKind is returned when a task is missing the fields its kind requires.
	ErrInvalidTaskKind = zerr.New("invalid task definition")

	// ErrMissingAssetGroup is returned when the path registry lacks a required asset group.
	ErrMissingAssetGroup = zerr.New("missing asset group")

	// ErrEmptyAssetField is returned when a required asset group field is empty.
	ErrEmptyAssetField = zerr.New("asset group field is empty")

	// ErrInvalidGlob is returned when a source or watch glob cannot be compiled.
	ErrInvalidGlob = zerr.New("invalid glob pattern")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrEnvFileLoadFailed is returned when the .env file exists but cannot be loaded.
	ErrEnvFileLoadFailed = zerr.New("failed to load env file")

	// ErrSourceNotFound is returned when a literal source file does not exist.
	ErrSourceNotFound = zerr.New("source file not found")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrOutputWriteFailed is returned when a destination file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrOutputDirCreateFailed is returned when a destination directory cannot be created.
	ErrOutputDirCreateFailed = zerr.New("failed to create output directory")

	// ErrCompileFailed is returned when a stylesheet or script cannot be compiled.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrCompilerNotFound is returned when the stylesheet compiler executable is missing.
	ErrCompilerNotFound = zerr.New("stylesheet compiler not found")

	// ErrTransformFailed is returned when a pipeline transform step fails.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrImageOptimizeFailed is returned when an image cannot be optimized.
	ErrImageOptimizeFailed = zerr.New("failed to optimize image")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrSequenceAborted is returned when a composite task stops at a failing step.
	ErrSequenceAborted = zerr.New("sequence aborted")

	// ErrBuildExecutionFailed is returned when a run command ends with a failed task.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)

// CompileError describes malformed input reported by a stylesheet or script compiler.
// File, Line and Column are zero valued when the compiler did not report them.
type CompileError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Error returns the compiler message prefixed with the location when known.
func (e *CompileError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
			if e.Column > 0 {
				fmt.Fprintf(&b, ":%d", e.Column)
			}
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Is reports CompileError values as ErrCompileFailed.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompileFailed
}

// PerFileError isolates a failure to a single input file of a batch.
type PerFileError struct {
	File string
	Err  error
}

func (e *PerFileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e *PerFileError) Unwrap() error {
	return e.Err
}
