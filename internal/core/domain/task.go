package domain

// TaskKind distinguishes how a task is executed.
type TaskKind uint8

const (
	// KindPipeline reads an asset group, applies steps and writes the result.
	KindPipeline TaskKind = iota
	// KindSequence runs other tasks in order and stops at the first failure.
	KindSequence
	// KindAlias triggers another task.
	KindAlias
	// KindWatch starts the file watcher and never returns on its own.
	KindWatch
)

// String returns the lower-case kind name.
func (k TaskKind) String() string {
	switch k {
	case KindPipeline:
		return "pipeline"
	case KindSequence:
		return "sequence"
	case KindAlias:
		return "alias"
	case KindWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// Task names of the built-in catalog.
const (
	TaskWatch        = "watch"
	TaskSass         = "sass"
	TaskSassIE       = "sass-ie"
	TaskClean        = "clean"
	TaskRemove       = "remove"
	TaskJSCompile    = "js-compile"
	TaskOptimizeImg  = "opt-img"
	TaskImage        = "image"
	TaskSVGMin       = "svgmin"
	TaskLiveSass     = "live-sass"
	TaskLiveIE       = "live-ie"
	TaskMinifyCSS    = "minify-css"
	TaskLive         = "live"
	defaultTaskCount = 13
)

// Task represents a named, triggerable unit of pipeline work.
type Task struct {
	Name  InternedString
	Kind  TaskKind
	Group AssetGroupID
	// Interactive tasks report failures through the notifier instead of
	// returning them to the caller.
	Interactive bool
	// Steps lists the sub-tasks of a sequence, in execution order.
	Steps []InternedString
	// Target is the task an alias triggers.
	Target      InternedString
	Description string
}

// Dependencies returns the tasks this task references.
func (t *Task) Dependencies() []InternedString {
	switch t.Kind {
	case KindSequence:
		return t.Steps
	case KindAlias:
		return []InternedString{t.Target}
	case KindPipeline, KindWatch:
		return nil
	default:
		return nil
	}
}

// DefaultTasks returns the built-in task catalog.
func DefaultTasks() []Task {
	tasks := make([]Task, 0, defaultTaskCount)
	pipeline := func(name string, group AssetGroupID, interactive bool, desc string) {
		tasks = append(tasks, Task{
			Name:        NewInternedString(name),
			Kind:        KindPipeline,
			Group:       group,
			Interactive: interactive,
			Description: desc,
		})
	}

	tasks = append(tasks, Task{
		Name:        NewInternedString(TaskWatch),
		Kind:        KindWatch,
		Description: "Watch sources and re-run the bound task on change",
	})
	pipeline(TaskSass, GroupStylesheet, true, "Compile and concat the main stylesheet with a source map")
	pipeline(TaskSassIE, GroupLegacyStylesheet, true, "Compile and concat the legacy stylesheet with a source map")
	pipeline(TaskClean, GroupCompiledStylesheet, false, "Strip comments from compiled stylesheets")
	pipeline(TaskRemove, GroupCompiledStylesheet, false, "Remove rules unused by the reference documents")
	pipeline(TaskJSCompile, GroupScript, false, "Bundle and minify scripts")
	pipeline(TaskOptimizeImg, GroupImage, false, "Optimize raster images")
	pipeline(TaskSVGMin, GroupImage, false, "Minify vector images")
	tasks = append(tasks, Task{
		Name:        NewInternedString(TaskImage),
		Kind:        KindAlias,
		Target:      NewInternedString(TaskOptimizeImg),
		Description: "Alias for opt-img",
	})
	pipeline(TaskLiveSass, GroupStylesheet, false, "Compile the main stylesheet for deployment")
	pipeline(TaskLiveIE, GroupLegacyStylesheet, false, "Compile the legacy stylesheet for deployment")
	pipeline(TaskMinifyCSS, GroupCompiledStylesheet, false, "Minify compiled stylesheets")
	tasks = append(tasks, Task{
		Name: NewInternedString(TaskLive),
		Kind: KindSequence,
		Steps: []InternedString{
			NewInternedString(TaskLiveSass),
			NewInternedString(TaskLiveIE),
			NewInternedString(TaskClean),
			NewInternedString(TaskMinifyCSS),
			NewInternedString(TaskJSCompile),
		},
		Description: "Run the deployment build in order",
	})

	return tasks
}
