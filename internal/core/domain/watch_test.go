package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestDefaultWatchBindings(t *testing.T) {
	r, err := domain.NewRegistry(domain.DefaultGroups()...)
	require.NoError(t, err)

	bindings := domain.DefaultWatchBindings(r)

	got := make(map[string]string, len(bindings))
	for _, b := range bindings {
		got[b.Glob] = b.Task.String()
	}
	assert.Equal(t, map[string]string{
		"./scss/**/*.scss":     "sass",
		"./scss/ie.scss":       "sass-ie",
		"./assets/css/*.css":   "clean",
		"./assets/js/src/*.js": "js-compile",
	}, got)

	g, err := domain.NewDefaultGraph()
	require.NoError(t, err)
	require.NoError(t, domain.ValidateBindings(g, bindings))
}

func TestValidateBindings_UnknownTask(t *testing.T) {
	g, err := domain.NewDefaultGraph()
	require.NoError(t, err)

	err = domain.ValidateBindings(g, []domain.WatchBinding{
		{Glob: "*.less", Task: domain.NewInternedString("less")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}
