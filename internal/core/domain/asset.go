package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// AssetGroupID identifies a logical group of source files.
type AssetGroupID string

const (
	// GroupStylesheet is the main stylesheet sources.
	GroupStylesheet AssetGroupID = "scss"
	// GroupLegacyStylesheet is the legacy-browser stylesheet source.
	GroupLegacyStylesheet AssetGroupID = "ie"
	// GroupCompiledStylesheet is the compiled stylesheet output.
	GroupCompiledStylesheet AssetGroupID = "css"
	// GroupScript is the script sources.
	GroupScript AssetGroupID = "js"
	// GroupImage is the raster image sources, with a nested svg variant.
	GroupImage AssetGroupID = "img"
)

// RequiredGroups lists every group a registry must hold.
var RequiredGroups = []AssetGroupID{
	GroupStylesheet,
	GroupLegacyStylesheet,
	GroupCompiledStylesheet,
	GroupScript,
	GroupImage,
}

// AssetGroup maps a group to its source globs, destination directory and output filename.
type AssetGroup struct {
	ID      AssetGroupID
	Sources []string
	// Entry is the single file compiled for groups whose watch glob differs from
	// their compile input (the main stylesheet).
	Entry string
	// Vector holds the svg globs of the image group.
	Vector []string
	Dest   string
	File   string
}

// Inputs returns the files a pipeline reads for this group: the entry file
// when set, the source globs otherwise.
func (g AssetGroup) Inputs() []string {
	if g.Entry != "" {
		return []string{g.Entry}
	}
	return slices.Clone(g.Sources)
}

// Registry is the immutable lookup from asset group id to its paths.
type Registry struct {
	groups map[AssetGroupID]AssetGroup
}

// NewRegistry validates the given groups and returns a registry holding copies of them.
func NewRegistry(groups ...AssetGroup) (*Registry, error) {
	r := &Registry{groups: make(map[AssetGroupID]AssetGroup, len(groups))}
	for _, g := range groups {
		g.Sources = slices.Clone(g.Sources)
		g.Vector = slices.Clone(g.Vector)
		r.groups[g.ID] = g
	}

	for _, id := range RequiredGroups {
		g, ok := r.groups[id]
		if !ok {
			return nil, zerr.With(ErrMissingAssetGroup, "group", string(id))
		}
		if err := validateGroup(g); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func validateGroup(g AssetGroup) error {
	if len(g.Sources) == 0 {
		return zerr.With(zerr.With(ErrEmptyAssetField, "group", string(g.ID)), "field", "src")
	}
	for _, src := range g.Sources {
		if src == "" {
			return zerr.With(zerr.With(ErrEmptyAssetField, "group", string(g.ID)), "field", "src")
		}
	}
	if g.Dest == "" {
		return zerr.With(zerr.With(ErrEmptyAssetField, "group", string(g.ID)), "field", "dest")
	}

	// Groups that produce a single concatenated output need a filename.
	switch g.ID {
	case GroupStylesheet:
		if g.Entry == "" {
			return zerr.With(zerr.With(ErrEmptyAssetField, "group", string(g.ID)), "field", "file")
		}
	case GroupLegacyStylesheet, GroupCompiledStylesheet, GroupScript:
		if g.File == "" {
			return zerr.With(zerr.With(ErrEmptyAssetField, "group", string(g.ID)), "field", "file")
		}
	case GroupImage:
	}
	return nil
}

// Group returns the asset group for the given id.
func (r *Registry) Group(id AssetGroupID) (AssetGroup, bool) {
	g, ok := r.groups[id]
	if !ok {
		return AssetGroup{}, false
	}
	g.Sources = slices.Clone(g.Sources)
	g.Vector = slices.Clone(g.Vector)
	return g, true
}

// MustGroup returns the asset group for a required id.
// NewRegistry guarantees every required group is present.
func (r *Registry) MustGroup(id AssetGroupID) AssetGroup {
	g, ok := r.Group(id)
	if !ok {
		panic("asset group not registered: " + string(id))
	}
	return g
}

// DefaultGroups returns the built-in asset layout.
func DefaultGroups() []AssetGroup {
	return []AssetGroup{
		{
			ID:      GroupStylesheet,
			Sources: []string{"./scss/**/*.scss"},
			Entry:   "./scss/main.scss",
			Dest:    "./assets/css/",
		},
		{
			ID:      GroupCompiledStylesheet,
			Sources: []string{"./assets/css/*.css"},
			Dest:    "./assets/css/",
			File:    "style.css",
		},
		{
			ID:      GroupLegacyStylesheet,
			Sources: []string{"./scss/ie.scss"},
			Dest:    "./assets/css/",
			File:    "ie.css",
		},
		{
			ID:      GroupScript,
			Sources: []string{"./assets/js/src/*.js"},
			Dest:    "./assets/js",
			File:    "compiled.js",
		},
		{
			ID: GroupImage,
			Sources: []string{
				"assets/img/*.png",
				"assets/img/*.jpg",
				"assets/img/*.gif",
				"assets/img/*.jpeg",
			},
			Vector: []string{"./assets/img/svg/*.svg"},
			Dest:   "./assets/img/min/",
		},
	}
}

// Asset is one file's contents flowing through a pipeline.
type Asset struct {
	// Path is slash separated and relative to the project root.
	Path      string
	Contents  []byte
	SourceMap []byte
}
