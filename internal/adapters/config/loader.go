// Package config provides the configuration loader for assetpipe.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const supportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file, a dotenv file and
// the process environment.
type Loader struct {
	Logger ports.Logger
	// LookupEnv reads the process environment. It defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, LookupEnv: os.LookupEnv}
}

// Load builds the configuration for the project at root. Precedence from low
// to high: built-in defaults, the yaml file, the dotenv file, the process
// environment.
func (l *Loader) Load(root, configPath string) (*domain.Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}

	pipefile, err := l.readPipefile(absRoot, configPath)
	if err != nil {
		return nil, err
	}

	groups := domain.DefaultGroups()
	if err := l.applyPaths(groups, pipefile.Paths); err != nil {
		return nil, err
	}

	registry, err := domain.NewRegistry(groups...)
	if err != nil {
		return nil, err
	}

	tools := domain.ToolOptions{
		SassBinary:       domain.DefaultSassBinary,
		LoadPaths:        slices.Clone(pipefile.Tools.LoadPaths),
		RemoveReferences: slices.Clone(pipefile.Remove.HTML),
	}
	if pipefile.Tools.Sass != "" {
		tools.SassBinary = pipefile.Tools.Sass
	}
	if pipefile.Notify.Desktop != nil {
		tools.DesktopNotify = *pipefile.Notify.Desktop
	}

	if err := l.applyEnv(absRoot, &tools); err != nil {
		return nil, err
	}

	return &domain.Config{
		Root:     absRoot,
		Registry: registry,
		Tools:    tools,
	}, nil
}

// readPipefile reads the yaml file. A missing default file yields an empty
// Pipefile; a missing explicit file is an error.
func (l *Loader) readPipefile(root, configPath string) (*Pipefile, error) {
	explicit := configPath != ""
	path := configPath
	if !explicit {
		path = filepath.Join(root, domain.ConfigFileName)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Pipefile{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var pipefile Pipefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pipefile); err != nil {
		// An empty document decodes to io.EOF.
		if len(bytes.TrimSpace(data)) == 0 {
			return &Pipefile{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if pipefile.Version != "" && pipefile.Version != supportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown config version %q in %s, reading as version %s",
			pipefile.Version, filepath.Base(path), supportedVersion))
	}

	return &pipefile, nil
}

func (l *Loader) applyPaths(groups []domain.AssetGroup, paths map[string]*GroupDTO) error {
	for name, dto := range paths {
		idx := slices.IndexFunc(groups, func(g domain.AssetGroup) bool {
			return string(g.ID) == name
		})
		if idx < 0 {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "unknown asset group"), "group", name)
		}
		if dto == nil {
			continue
		}

		g := &groups[idx]
		if len(dto.Src) > 0 {
			g.Sources = slices.Clone(dto.Src)
		}
		if dto.Entry != "" {
			g.Entry = dto.Entry
		}
		if len(dto.Svg) > 0 {
			if g.ID != domain.GroupImage {
				l.Logger.Warn(fmt.Sprintf("'svg' defined for asset group %s has no effect", name))
			}
			g.Vector = slices.Clone(dto.Svg)
		}
		if dto.Dest != "" {
			g.Dest = dto.Dest
		}
		if dto.File != "" {
			g.File = dto.File
		}
	}
	return nil
}

// applyEnv overlays the dotenv file and the process environment. Variables
// already set in the process win over the dotenv file.
func (l *Loader) applyEnv(root string, tools *domain.ToolOptions) error {
	dotenv := map[string]string{}
	envPath := filepath.Join(root, domain.EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		dotenv, err = godotenv.Read(envPath)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrEnvFileLoadFailed.Error()), "path", envPath)
		}
	}

	lookup := func(key string) (string, bool) {
		if l.LookupEnv != nil {
			if v, ok := l.LookupEnv(key); ok {
				return v, true
			}
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := lookup(domain.EnvSassBinary); ok && v != "" {
		tools.SassBinary = v
	}
	if v, ok := lookup(domain.EnvNotifyDesktop); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "variable", domain.EnvNotifyDesktop)
		}
		tools.DesktopNotify = enabled
	}
	return nil
}
