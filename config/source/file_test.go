package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/fracton/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSource_LoadYAMLWithProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", `
modules:
  directory: modules
  rollback: false
server:
  addr: ":8080"
`)
	writeFile(t, dir, "application.prod.yml", `
modules:
  rollback: true
`)

	got, err := (&FileSource{BasePath: dir, Profile: "prod"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"modules": map[string]any{"directory": "modules", "rollback": true},
		"server":  map[string]any{"addr": ":8080"},
	}, got)
}

func TestFileSource_LoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.toml", `
[modules]
directory = "plugins"
namespace = "ext/"
`)

	got, err := (&FileSource{BasePath: dir, Profile: "missing"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"modules": map[string]any{"directory": "plugins", "namespace": "ext/"},
	}, got)
}

func TestFileSource_LoadErrors(t *testing.T) {
	_, err := (&FileSource{BasePath: t.TempDir()}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "modules: [unclosed")
	_, err = (&FileSource{BasePath: dir}).Load(context.Background())
	assert.ErrorContains(t, err, "application.yaml")

	dir = t.TempDir()
	writeFile(t, dir, "application.yaml", "a: 1\n")
	writeFile(t, dir, "application.dev.toml", "= broken")
	_, err = (&FileSource{BasePath: dir, Profile: "dev"}).Load(context.Background())
	assert.ErrorContains(t, err, "application.dev.toml")
}

func TestFileSource_Watch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "a: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan config.Event, 4)
	done := make(chan error, 1)
	fs := &FileSource{BasePath: dir}
	go func() { done <- fs.Watch(ctx, ch) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "unrelated.txt", "x")
	writeFile(t, dir, "application.yaml", "a: 2\n")

	select {
	case ev := <-ch:
		assert.Equal(t, []string{"application.yaml"}, ev.ChangedKeys)
	case <-time.After(3 * time.Second):
		t.Fatal("no event after write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestFileSource_WatchMissingDir(t *testing.T) {
	fs := &FileSource{BasePath: filepath.Join(t.TempDir(), "nope")}
	assert.Error(t, fs.Watch(context.Background(), make(chan config.Event)))
}
