package domain

import "go.trai.ch/zerr"

// WatchBinding maps a watched glob to the task re-run when a matching file changes.
type WatchBinding struct {
	Glob  string
	Group AssetGroupID
	Task  InternedString
}

// DefaultWatchBindings derives the watch bindings from the registry: each
// source group re-runs the task that consumes it.
func DefaultWatchBindings(r *Registry) []WatchBinding {
	bind := func(id AssetGroupID, task string) []WatchBinding {
		g := r.MustGroup(id)
		out := make([]WatchBinding, 0, len(g.Sources))
		for _, src := range g.Sources {
			out = append(out, WatchBinding{Glob: src, Group: id, Task: NewInternedString(task)})
		}
		return out
	}

	var bindings []WatchBinding
	bindings = append(bindings, bind(GroupStylesheet, TaskSass)...)
	bindings = append(bindings, bind(GroupLegacyStylesheet, TaskSassIE)...)
	bindings = append(bindings, bind(GroupCompiledStylesheet, TaskClean)...)
	bindings = append(bindings, bind(GroupScript, TaskJSCompile)...)
	return bindings
}

// ValidateBindings checks that every binding triggers a task known to the graph.
func ValidateBindings(g *Graph, bindings []WatchBinding) error {
	for _, b := range bindings {
		if b.Glob == "" {
			return zerr.With(ErrInvalidGlob, "task_name", b.Task.String())
		}
		if _, ok := g.GetTask(b.Task); !ok {
			return zerr.With(zerr.With(ErrTaskNotFound, "task_name", b.Task.String()), "glob", b.Glob)
		}
	}
	return nil
}
