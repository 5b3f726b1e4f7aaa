package pipeline

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/globs"
	"go.trai.ch/zerr"
)

// readSources loads every file matched by patterns.
func (r *Runner) readSources(root string, patterns []string) Step {
	return Step{
		Name: "read",
		Apply: func(_ context.Context, _ []domain.Asset) ([]domain.Asset, error) {
			files, err := r.resolver.Resolve(root, patterns)
			if err != nil {
				return nil, err
			}
			assets := make([]domain.Asset, 0, len(files))
			for _, f := range files {
				data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", f)
				}
				assets = append(assets, domain.Asset{Path: f, Contents: data})
			}
			return assets, nil
		},
	}
}

// compileStylesheets compiles each entry matched by patterns. Partials, whose
// names start with an underscore, are only compiled through an import.
func (r *Runner) compileStylesheets(cfg *domain.Config, patterns []string, req ports.CompileRequest) Step {
	return Step{
		Name: "compile",
		Apply: func(ctx context.Context, _ []domain.Asset) ([]domain.Asset, error) {
			entries, err := r.resolver.Resolve(cfg.Root, patterns)
			if err != nil {
				return nil, err
			}
			assets := make([]domain.Asset, 0, len(entries))
			for _, entry := range entries {
				if strings.HasPrefix(path.Base(entry), "_") {
					continue
				}
				req := req
				req.Entry = entry
				res, err := r.compiler.Compile(ctx, req)
				if err != nil {
					return nil, err
				}
				assets = append(assets, domain.Asset{Path: entry, Contents: res.CSS, SourceMap: res.SourceMap})
			}
			return assets, nil
		},
	}
}

// concat joins all assets into a single file at dest/file. Contents are
// separated by a newline. A source map survives only when there is a single
// input. No input produces no output.
func concat(dest, file string) Step {
	return Step{
		Name: "concat",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			if len(assets) == 0 {
				return nil, nil
			}
			parts := make([][]byte, len(assets))
			for i, a := range assets {
				parts[i] = a.Contents
			}
			out := domain.Asset{
				Path:     outputPath(dest, file),
				Contents: bytes.Join(parts, []byte("\n")),
			}
			if len(assets) == 1 {
				out.SourceMap = assets[0].SourceMap
			}
			return []domain.Asset{out}, nil
		},
	}
}

// externalSourceMaps moves each asset's source map into a file in the maps
// directory next to it and appends the annotation pointing there.
func externalSourceMaps() Step {
	return Step{
		Name: "sourcemaps",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			out := make([]domain.Asset, 0, len(assets)*2)
			for _, a := range assets {
				if a.SourceMap == nil {
					out = append(out, a)
					continue
				}
				ref := path.Join(domain.MapsDirName, path.Base(a.Path)+".map")
				css := slices.Concat(bytes.TrimRight(a.Contents, "\n"), []byte("\n/*# sourceMappingURL="+ref+" */\n"))
				out = append(out,
					domain.Asset{Path: a.Path, Contents: css},
					domain.Asset{Path: path.Join(path.Dir(a.Path), ref), Contents: a.SourceMap},
				)
			}
			return out, nil
		},
	}
}

// transform applies fn to every asset.
func transform(name string, fn func([]byte) ([]byte, error)) Step {
	return Step{
		Name: name,
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			out := make([]domain.Asset, len(assets))
			for i, a := range assets {
				data, err := fn(a.Contents)
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", a.Path)
				}
				out[i] = domain.Asset{Path: a.Path, Contents: data}
			}
			return out, nil
		},
	}
}

// removeUnused drops the rules no reference document uses. Without
// references the assets pass through unchanged.
func (r *Runner) removeUnused(root string, references []string) Step {
	return Step{
		Name: "remove",
		Apply: func(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			if len(references) == 0 {
				return assets, nil
			}
			files, err := r.resolver.Resolve(root, references)
			if err != nil {
				return nil, err
			}
			docs := make([][]byte, 0, len(files))
			for _, f := range files {
				data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", f)
				}
				docs = append(docs, data)
			}
			return transform("remove", func(css []byte) ([]byte, error) {
				return r.transformer.RemoveUnused(css, docs)
			}).Apply(ctx, assets)
		},
	}
}

// minifyScript minifies each script, keeping compiler errors intact.
func (r *Runner) minifyScript() Step {
	return Step{
		Name: "minify",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			out := make([]domain.Asset, len(assets))
			for i, a := range assets {
				data, err := r.scripts.Minify(a.Path, a.Contents)
				if err != nil {
					return nil, err
				}
				out[i] = domain.Asset{Path: a.Path, Contents: data}
			}
			return out, nil
		},
	}
}

// relocate moves every asset under dest, keeping its path below the base
// directory of the pattern that matched it.
func relocate(dest string, patterns []string) Step {
	return Step{
		Name: "dest",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			matchers := make([]*globs.Matcher, 0, len(patterns))
			for _, p := range patterns {
				m, err := globs.Compile(p)
				if err != nil {
					return nil, err
				}
				matchers = append(matchers, m)
			}

			out := make([]domain.Asset, len(assets))
			for i, a := range assets {
				out[i] = a
				out[i].Path = outputPath(dest, relativeToBase(matchers, a.Path))
			}
			return out, nil
		},
	}
}

// relativeToBase returns p relative to the base directory of the first
// matcher accepting it, or its base name when none does.
func relativeToBase(matchers []*globs.Matcher, p string) string {
	for _, m := range matchers {
		if !m.Match(p) {
			continue
		}
		base := globs.Base(m.Pattern())
		if base == "." {
			return p
		}
		if rel, ok := strings.CutPrefix(p, base+"/"); ok {
			return rel
		}
	}
	return path.Base(p)
}

// write stores every asset through the output writer.
func (r *Runner) write(root string) Step {
	return Step{
		Name: "write",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			for _, a := range assets {
				if _, err := r.writer.Write(filepath.Join(root, filepath.FromSlash(a.Path)), a.Contents); err != nil {
					return nil, err
				}
			}
			return assets, nil
		},
	}
}

func outputPath(dest, name string) string {
	return globs.Normalize(path.Join(globs.Normalize(dest), name))
}
