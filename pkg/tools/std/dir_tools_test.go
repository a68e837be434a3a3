package std

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/boxy-ai/pkg/config"
)

func TestListFiles(t *testing.T) {
	box := newBox(t)
	tool := NewListFilesTool(box, config.ToolConfig{})

	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(box.Root(), "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), "sub", "c.txt"), []byte("c"), 0644))

	result := run(t, tool, map[string]any{"directory_path": box.Root()})
	want := fmt.Sprintf("Found 3 files in %s:\n\n%s\n%s\n%s",
		box.Root(),
		filepath.Join(box.Root(), "a.txt"),
		filepath.Join(box.Root(), "b.txt"),
		filepath.Join(box.Root(), "sub", "c.txt"),
	)
	assert.Equal(t, want, result)
}

func TestListFiles_DefaultsToRoot(t *testing.T) {
	box := newBox(t)
	tool := NewListFilesTool(box, config.ToolConfig{})

	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), "only.txt"), []byte("x"), 0644))

	result := run(t, tool, map[string]any{})
	assert.Contains(t, result, "Found 1 file in")
	assert.Contains(t, result, "only.txt")
}

func TestListFiles_HiddenFiltered(t *testing.T) {
	box := newBox(t)
	tool := NewListFilesTool(box, config.ToolConfig{})

	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), "visible.txt"), []byte("v"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), ".hidden"), []byte("h"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(box.Root(), ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(box.Root(), ".git", "HEAD"), []byte("ref"), 0644))

	result := run(t, tool, map[string]any{"directory_path": box.Root()})
	assert.Contains(t, result, "Found 1 file in")
	assert.NotContains(t, result, ".hidden")
	assert.NotContains(t, result, "HEAD")

	result = run(t, tool, map[string]any{"directory_path": box.Root(), "show_hidden": true})
	assert.Contains(t, result, "Found 3 files in")
	assert.Contains(t, result, ".hidden")
}

func TestListFiles_Empty(t *testing.T) {
	box := newBox(t)
	tool := NewListFilesTool(box, config.ToolConfig{})

	result := run(t, tool, map[string]any{"directory_path": box.Root()})
	assert.Equal(t, "No files found in "+box.Root(), result)
}

func TestListFiles_Errors(t *testing.T) {
	box := newBox(t)
	tool := NewListFilesTool(box, config.ToolConfig{})

	missing := filepath.Join(box.Root(), "nope")
	assert.Equal(t, "Error: Directory not found - "+missing,
		run(t, tool, map[string]any{"directory_path": missing}))

	file := filepath.Join(box.Root(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))
	assert.Equal(t, "Error: Path is not a directory - "+file,
		run(t, tool, map[string]any{"directory_path": file}))

	assert.Equal(t, "Error: Access denied. Can only list files within "+box.Root(),
		run(t, tool, map[string]any{"directory_path": "/etc"}))
}

func TestCreateDirectory(t *testing.T) {
	box := newBox(t)
	tool := NewCreateDirectoryTool(box, config.ToolConfig{})

	dir := filepath.Join(box.Root(), "reports", "2026")
	result := run(t, tool, map[string]any{"directory_path": dir})
	assert.Equal(t, "Success: Created directory 'reports/2026'", result)
	assert.DirExists(t, dir)

	// Повторное создание — ошибка
	result = run(t, tool, map[string]any{"directory_path": dir})
	assert.Equal(t, "Error: Directory already exists - "+dir, result)
}

func TestCreateDirectory_PathIsFile(t *testing.T) {
	box := newBox(t)
	tool := NewCreateDirectoryTool(box, config.ToolConfig{})

	file := filepath.Join(box.Root(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	result := run(t, tool, map[string]any{"directory_path": file})
	assert.Equal(t, "Error: Path exists but is not a directory - "+file, result)
}

func TestDeleteDirectory_Empty(t *testing.T) {
	box := newBox(t)
	tool := NewDeleteDirectoryTool(box, config.ToolConfig{})

	dir := filepath.Join(box.Root(), "empty")
	require.NoError(t, os.Mkdir(dir, 0755))

	result := run(t, tool, map[string]any{"directory_path": dir})
	assert.Equal(t, "Success: Deleted directory 'empty'", result)
	assert.NoDirExists(t, dir)
}

func TestDeleteDirectory_NotEmptyRequiresForce(t *testing.T) {
	box := newBox(t)
	tool := NewDeleteDirectoryTool(box, config.ToolConfig{})

	dir := filepath.Join(box.Root(), "full")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	result := run(t, tool, map[string]any{"directory_path": dir})
	assert.Equal(t, "Error: Directory not empty - "+dir+" (use force=true to delete anyway)", result)
	assert.DirExists(t, dir)

	result = run(t, tool, map[string]any{"directory_path": dir, "force": true})
	assert.Equal(t, "Success: Deleted directory 'full'", result)
	assert.NoDirExists(t, dir)
}

func TestDeleteDirectory_RootProtected(t *testing.T) {
	box := newBox(t)
	tool := NewDeleteDirectoryTool(box, config.ToolConfig{})

	result := run(t, tool, map[string]any{"directory_path": box.Root(), "force": true})
	assert.Equal(t, "Error: Cannot delete the sandbox root directory", result)
	assert.DirExists(t, box.Root())
}

func TestDeleteDirectory_NotFound(t *testing.T) {
	box := newBox(t)
	tool := NewDeleteDirectoryTool(box, config.ToolConfig{})

	missing := filepath.Join(box.Root(), "ghost")
	result := run(t, tool, map[string]any{"directory_path": missing})
	assert.Equal(t, "Error: Directory not found - "+missing, result)
}

func TestRenameDirectory(t *testing.T) {
	box := newBox(t)
	tool := NewRenameDirectoryTool(box, config.ToolConfig{})

	oldDir := filepath.Join(box.Root(), "old")
	newDir := filepath.Join(box.Root(), "new")
	require.NoError(t, os.Mkdir(oldDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "keep.txt"), []byte("k"), 0644))

	result := run(t, tool, map[string]any{"old_path": oldDir, "new_path": newDir})
	assert.Equal(t, "Success: Renamed directory 'old' to 'new'", result)
	assert.NoDirExists(t, oldDir)
	assert.FileExists(t, filepath.Join(newDir, "keep.txt"))
}

func TestRenameDirectory_RootProtected(t *testing.T) {
	box := newBox(t)
	tool := NewRenameDirectoryTool(box, config.ToolConfig{})

	result := run(t, tool, map[string]any{
		"old_path": box.Root(),
		"new_path": filepath.Join(box.Root(), "renamed"),
	})
	assert.Equal(t, "Error: Cannot rename the sandbox root directory", result)
}

func TestRenameDirectory_DestinationExists(t *testing.T) {
	box := newBox(t)
	tool := NewRenameDirectoryTool(box, config.ToolConfig{})

	oldDir := filepath.Join(box.Root(), "old")
	newDir := filepath.Join(box.Root(), "new")
	require.NoError(t, os.Mkdir(oldDir, 0755))
	require.NoError(t, os.Mkdir(newDir, 0755))

	result := run(t, tool, map[string]any{"old_path": oldDir, "new_path": newDir})
	assert.Equal(t, "Error: Destination already exists - "+newDir, result)
	assert.DirExists(t, oldDir)
}
