package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/models"
)

func TestResolveProject(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	settings := models.NewSettings()

	_, err := resolveProject(nil, settings)
	require.ErrorIs(t, err, errNoProject)

	dir := t.TempDir()
	settings.ActiveProject = dir
	p, err := resolveProject(nil, settings)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Path)

	other := t.TempDir()
	p, err = resolveProject([]string{other}, settings)
	require.NoError(t, err)
	assert.Equal(t, other, p.Path)
}
