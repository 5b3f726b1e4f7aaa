// Package domain contains the core domain models of the asset pipeline: asset groups,
// tasks, the task graph and watch bindings.
package domain

import (
	"iter"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

var validTaskNameRegex = regexp.MustCompile("^[a-z0-9][a-z0-9_-]*$")

// Graph holds the named tasks of a run and validates the references between them.
type Graph struct {
	tasks map[InternedString]Task
	order []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[InternedString]Task),
	}
}

// NewDefaultGraph returns the validated built-in task catalog.
func NewDefaultGraph() (*Graph, error) {
	g := NewGraph()
	for _, t := range DefaultTasks() {
		if err := g.AddTask(&t); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if !validTaskNameRegex.MatchString(t.Name.String()) {
		return zerr.With(ErrInvalidTaskName, "task_name", t.Name.String())
	}
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	task := *t
	task.Steps = slices.Clone(t.Steps)
	g.tasks[t.Name] = task
	g.order = append(g.order, t.Name)
	return nil
}

// Validate checks that every referenced task exists and that composite tasks
// do not reference themselves through other tasks.
func (g *Graph) Validate() error {
	for _, name := range g.order {
		t := g.tasks[name]
		switch t.Kind {
		case KindSequence:
			if len(t.Steps) == 0 {
				return zerr.With(ErrInvalidTaskKind, "task_name", name.String())
			}
		case KindAlias:
			if t.Target.String() == "" {
				return zerr.With(ErrInvalidTaskKind, "task_name", name.String())
			}
		case KindPipeline:
			if t.Group == "" {
				return zerr.With(ErrInvalidTaskKind, "task_name", name.String())
			}
		case KindWatch:
		}
		for _, dep := range t.Dependencies() {
			if _, ok := g.tasks[dep]; !ok {
				return zerr.With(zerr.With(ErrMissingDependency, "task_name", name.String()), "dependency", dep.String())
			}
		}
	}

	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task := g.tasks[u]
		for _, dep := range task.Dependencies() {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.order {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Lookup returns the task with the given name or an ErrTaskNotFound error.
func (g *Graph) Lookup(name string) (Task, error) {
	t, ok := g.tasks[NewInternedString(name)]
	if !ok {
		return Task{}, zerr.With(ErrTaskNotFound, "task_name", name)
	}
	return t, nil
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Walk yields tasks in registration order.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.order {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
