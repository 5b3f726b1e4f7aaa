package pipeline

import (
	"context"
	"fmt"
	"path"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/globs"
	"go.trai.ch/zerr"
)

// Runner builds and runs the pipeline of each asset task.
type Runner struct {
	resolver    ports.SourceResolver
	writer      ports.OutputWriter
	compiler    ports.StylesheetCompiler
	transformer ports.StylesheetTransformer
	scripts     ports.ScriptMinifier
	images      ports.ImageOptimizer
	logger      ports.Logger
	hooks       Hooks
}

// NewRunner creates a new Runner with the given dependencies.
func NewRunner(
	resolver ports.SourceResolver,
	writer ports.OutputWriter,
	compiler ports.StylesheetCompiler,
	transformer ports.StylesheetTransformer,
	scripts ports.ScriptMinifier,
	images ports.ImageOptimizer,
	logger ports.Logger,
) *Runner {
	r := &Runner{
		resolver:    resolver,
		writer:      writer,
		compiler:    compiler,
		transformer: transformer,
		scripts:     scripts,
		images:      images,
		logger:      logger,
	}
	r.hooks = Hooks{
		OnFileError: func(task string, err *domain.PerFileError) {
			r.logger.Error(zerr.With(err, "task", task))
		},
		OnComplete: func(task string, written int, _ error) {
			r.logger.Info(fmt.Sprintf("%s: %d files written", task, written))
		},
	}
	return r
}

// WithHooks replaces the per-file hooks.
func (r *Runner) WithHooks(h Hooks) *Runner {
	r.hooks = h
	return r
}

// Run builds the pipeline of task and runs it against cfg.
func (r *Runner) Run(ctx context.Context, cfg *domain.Config, task domain.Task) error {
	p, err := r.Build(cfg, task)
	if err != nil {
		return err
	}
	return p.Run(ctx)
}

// Build returns the pipeline of a pipeline task.
func (r *Runner) Build(cfg *domain.Config, task domain.Task) (*Pipeline, error) {
	if task.Kind != domain.KindPipeline {
		return nil, zerr.With(zerr.With(domain.ErrInvalidTaskKind, "task_name", task.Name.String()), "kind", task.Kind.String())
	}

	reg := cfg.Registry
	name := task.Name.String()
	p := &Pipeline{Task: name}

	switch name {
	case domain.TaskSass, domain.TaskLiveSass:
		src := reg.MustGroup(domain.GroupStylesheet)
		out := reg.MustGroup(domain.GroupCompiledStylesheet)
		p.Steps = r.stylesheet(cfg, src, out.File, name == domain.TaskSass)

	case domain.TaskSassIE, domain.TaskLiveIE:
		src := reg.MustGroup(domain.GroupLegacyStylesheet)
		p.Steps = r.stylesheet(cfg, src, src.File, name == domain.TaskSassIE)

	case domain.TaskClean:
		css := reg.MustGroup(domain.GroupCompiledStylesheet)
		p.Steps = []Step{
			r.readSources(cfg.Root, css.Sources),
			transform("strip-comments", r.transformer.StripComments),
			relocate(css.Dest, css.Sources),
			r.write(cfg.Root),
		}

	case domain.TaskRemove:
		css := reg.MustGroup(domain.GroupCompiledStylesheet)
		p.Steps = []Step{
			r.readSources(cfg.Root, css.Sources),
			r.removeUnused(cfg.Root, cfg.Tools.RemoveReferences),
			relocate(css.Dest, css.Sources),
			r.write(cfg.Root),
		}

	case domain.TaskMinifyCSS:
		css := reg.MustGroup(domain.GroupCompiledStylesheet)
		p.Steps = []Step{
			r.readSources(cfg.Root, css.Sources),
			transform("minify", r.transformer.Minify),
			relocate(css.Dest, css.Sources),
			r.write(cfg.Root),
		}

	case domain.TaskJSCompile:
		js := reg.MustGroup(domain.GroupScript)
		p.Steps = []Step{
			r.readSources(cfg.Root, js.Sources),
			concat(js.Dest, js.File),
			r.minifyScript(),
			r.write(cfg.Root),
		}

	case domain.TaskOptimizeImg:
		img := reg.MustGroup(domain.GroupImage)
		b := newBatch(name, r.hooks)
		p.Steps = []Step{
			r.readSources(cfg.Root, img.Sources),
			b.each("optimize", func(a domain.Asset) ([]byte, error) {
				return r.images.OptimizeRaster(path.Base(a.Path), a.Contents)
			}),
			relocate(img.Dest, img.Sources),
			r.write(cfg.Root),
			b.count(),
		}
		p.Done = b.done

	case domain.TaskSVGMin:
		img := reg.MustGroup(domain.GroupImage)
		b := newBatch(name, r.hooks)
		p.Steps = []Step{
			r.readSources(cfg.Root, img.Vector),
			b.each("svgmin", func(a domain.Asset) ([]byte, error) {
				return r.images.MinifyVector(a.Contents)
			}),
			relocate(img.Dest, img.Vector),
			r.write(cfg.Root),
			b.count(),
		}
		p.Done = b.done

	default:
		return nil, zerr.With(domain.ErrTaskNotFound, "task_name", name)
	}

	return p, nil
}

// stylesheet returns the steps compiling group into dest/file. With maps the
// source map is written to the maps directory beside the output.
func (r *Runner) stylesheet(cfg *domain.Config, group domain.AssetGroup, file string, maps bool) []Step {
	req := ports.CompileRequest{
		Binary:     cfg.Tools.SassBinary,
		Root:       cfg.Root,
		LoadPaths:  cfg.Tools.LoadPaths,
		SourceMap:  maps,
		OutputName: file,
	}
	if maps {
		req.MapDir = path.Join(globs.Normalize(group.Dest), domain.MapsDirName)
	}

	steps := []Step{
		r.compileStylesheets(cfg, group.Inputs(), req),
		concat(group.Dest, file),
	}
	if maps {
		steps = append(steps, externalSourceMaps())
	}
	return append(steps, r.write(cfg.Root))
}
