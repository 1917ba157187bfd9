package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/client"
	"github.com/templui/folio/internal/model"
)

func TestReadStyle(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("textColor: red\ntypography:\n  title:\n    size: 5xl\n"), 0o644))
	s, err := readStyle(yamlPath)
	require.NoError(t, err)
	require.NotNil(t, s.TextColor)
	assert.Equal(t, "red", *s.TextColor)
	require.NotNil(t, s.Typography)
	assert.Equal(t, "5xl", *s.Typography.Title.Size)

	jsonPath := filepath.Join(dir, "style.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"bgOpacity": 0.4}`), 0o644))
	s, err = readStyle(jsonPath)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, *s.BgOpacity, 1e-9)

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"bgOpacity": "dark"}`), 0o644))
	_, err = readStyle(jsonPath)
	assert.Error(t, err)
}

func TestArtworkFlagsOnlyApplyChanged(t *testing.T) {
	var f artworkFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{"--type", "split-screen-text-left", "--text-width", "35"}))

	draft := client.Draft{ID: "a", Title: "Kept", Category: model.CategoryVideo, Type: model.DisplayFullScreen}
	closeAll, err := f.apply(cmd, &draft)
	require.NoError(t, err)
	defer closeAll()

	assert.Equal(t, "Kept", draft.Title)
	assert.Equal(t, model.CategoryVideo, draft.Category)
	assert.Equal(t, model.DisplaySplitScreenTextLeft, draft.Type)
	require.NotNil(t, draft.TextWidthPercentage)
	assert.Equal(t, 35, *draft.TextWidthPercentage)
	assert.Nil(t, draft.Description)
	assert.Empty(t, draft.Images)
}

func TestArtworkFlagsDescriptionExclusive(t *testing.T) {
	var f artworkFlags
	cmd := &cobra.Command{Use: "add"}
	f.register(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{"--description", "x.md", "--no-description"}))
	_, err := f.apply(cmd, &client.Draft{})
	assert.Error(t, err)
}
